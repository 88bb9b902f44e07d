package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"toollife/internal/masterdata"
	"toollife/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// HashPassword hashes a plaintext password for storage in the users store.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies password against a stored value. Stores written by
// earlier versions hold plaintext passwords; anything that does not look
// like a bcrypt hash is compared directly so existing users keep working.
func CheckPassword(stored, password string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return stored != "" && stored == password
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// Authenticate checks credentials against the users store and returns the
// matching user. A legacy plaintext password is rehashed and written back
// on successful login.
func Authenticate(repo *masterdata.Repo, username, password string) (models.User, error) {
	users := repo.LoadUsers()
	user, ok := users[username]
	if !ok || !CheckPassword(user.Password, password) {
		return models.User{}, ErrInvalidCredentials
	}

	if !isBcryptHash(user.Password) {
		if hash, err := HashPassword(password); err == nil {
			user.Password = hash
			users[username] = user
			// Best effort; login succeeds either way.
			_ = repo.SaveUsers(users)
		}
	}
	return user, nil
}

// CreateUser adds or replaces a user in the store, hashing the password.
func CreateUser(repo *masterdata.Repo, username, password, role, name, line string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("username is required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	users := repo.LoadUsers()
	users[username] = models.User{Password: hash, Role: role, Name: name, Line: line}
	return repo.SaveUsers(users)
}
