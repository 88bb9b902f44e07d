// Package toollife tracks tool changes on a manufacturing line: per-month
// spreadsheet record files, quality verification and leader sign-off
// workflows, JSON-backed master data, and an action/NCR ledger.
package toollife

import (
	"database/sql"
	"log"

	"toollife/internal/audit"
	"toollife/internal/auth"
	"toollife/internal/config"
	"toollife/internal/database"
	"toollife/internal/ledger"
	"toollife/internal/masterdata"
	"toollife/internal/monthfile"
	"toollife/internal/workflow"
)

// App wires the stores and workflows together. UI screens hold one App and
// call into its fields.
type App struct {
	Config   *config.Config
	DB       *sql.DB
	Audit    *audit.Logger
	Master   *masterdata.Repo
	Months   *monthfile.Store
	Ledger   *ledger.Store
	Workflow *workflow.Service
}

// Open builds an App from configuration: opens the sqlite mirror, wires the
// repositories to their file paths, and syncs master data into the mirror.
func Open(cfg *config.Config) (*App, error) {
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	auditLog := &audit.Logger{DB: db}
	master := &masterdata.Repo{
		PartsPath: cfg.PartsFile,
		ToolsPath: cfg.ToolsFile,
		CostsPath: cfg.CostsFile,
		UsersPath: cfg.UsersFile,
	}
	months := &monthfile.Store{Dir: cfg.DataDir}
	ledgerStore := &ledger.Store{ActionsPath: cfg.ActionsFile, NCRsPath: cfg.NCRsFile}

	if err := database.EnsureLines(db, cfg.LineNames()); err != nil {
		db.Close()
		return nil, err
	}
	// Mirror sync is best effort; the JSON stores stay authoritative.
	if err := database.MirrorStores(db, master); err != nil {
		log.Printf("master data mirror sync: %v", err)
	}

	return &App{
		Config: cfg,
		DB:     db,
		Audit:  auditLog,
		Master: master,
		Months: months,
		Ledger: ledgerStore,
		Workflow: &workflow.Service{
			Months: months,
			Master: master,
			Audit:  auditLog,
		},
	}, nil
}

// Close releases the sqlite handle.
func (a *App) Close() error {
	return a.DB.Close()
}

// Login authenticates a user against the users store and records the login
// in the audit trail.
func (a *App) Login(username, password string) (User, error) {
	user, err := auth.Authenticate(a.Master, username, password)
	if err != nil {
		return User{}, err
	}
	a.Audit.Log(username, audit.ActionLogin, "auth", "", "User logged in")
	return user, nil
}
