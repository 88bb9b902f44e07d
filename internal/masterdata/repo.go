package masterdata

import (
	"sort"

	"toollife/internal/jsonstore"
	"toollife/internal/models"
)

// Repo reads and writes the four config stores under explicit file paths.
// Loads never fail: a missing or unreadable file yields the empty canonical
// store. Saves re-normalize through the canonical types by construction and
// write atomically.
type Repo struct {
	PartsPath string
	ToolsPath string
	CostsPath string
	UsersPath string
}

// LoadParts returns the normalized parts store.
func (r *Repo) LoadParts() models.PartsStore {
	return NormalizeParts(jsonstore.LoadRaw(r.PartsPath))
}

// SaveParts persists the parts store in canonical shape.
func (r *Repo) SaveParts(store models.PartsStore) error {
	if store.Parts == nil {
		store.Parts = []models.Part{}
	}
	return jsonstore.Save(r.PartsPath, store)
}

// LoadTools returns the normalized tool pricing/stock store.
func (r *Repo) LoadTools() models.ToolStore {
	return NormalizeTools(jsonstore.LoadRaw(r.ToolsPath))
}

// SaveTools persists the tool store in canonical shape.
func (r *Repo) SaveTools(store models.ToolStore) error {
	if store.Tools == nil {
		store.Tools = map[string]models.Tool{}
	}
	return jsonstore.Save(r.ToolsPath, store)
}

// LoadCosts returns the normalized scrap cost store.
func (r *Repo) LoadCosts() models.CostStore {
	return NormalizeCosts(jsonstore.LoadRaw(r.CostsPath))
}

// SaveCosts persists the scrap cost store.
func (r *Repo) SaveCosts(store models.CostStore) error {
	if store.ScrapCostByPart == nil {
		store.ScrapCostByPart = map[string]float64{}
	}
	return jsonstore.Save(r.CostsPath, store)
}

// LoadUsers returns the normalized users map.
func (r *Repo) LoadUsers() map[string]models.User {
	return NormalizeUsers(jsonstore.LoadRaw(r.UsersPath))
}

// SaveUsers persists the users map.
func (r *Repo) SaveUsers(users map[string]models.User) error {
	if users == nil {
		users = map[string]models.User{}
	}
	return jsonstore.Save(r.UsersPath, users)
}

// PartsForLine returns the sorted part numbers assigned to a line. An empty
// line matches every part.
func (r *Repo) PartsForLine(line string) []string {
	store := r.LoadParts()
	out := []string{}
	for _, p := range store.Parts {
		if p.PartNumber == "" {
			continue
		}
		if line == "" || containsLine(p.Lines, line) {
			out = append(out, p.PartNumber)
		}
	}
	sort.Strings(out)
	return out
}

func containsLine(lines []string, line string) bool {
	for _, l := range lines {
		if l == line {
			return true
		}
	}
	return false
}

// ScrapCost returns the scrap cost for a part, falling back to the store
// default when no per-part override exists.
func (r *Repo) ScrapCost(partNumber string) float64 {
	store := r.LoadCosts()
	if cost, ok := store.ScrapCostByPart[partNumber]; ok {
		return cost
	}
	return store.ScrapCostDefault
}

// ConsumeTool looks up a tool by store key (e.g. "Tool 12") and, when it is
// in stock, decrements the stock count and persists the store. It returns
// the tool as found (stock prior to decrement) so the caller can warn on an
// out-of-stock submission, and whether the key was configured at all.
func (r *Repo) ConsumeTool(key string) (models.Tool, bool, error) {
	store := r.LoadTools()
	tool, ok := store.Tools[key]
	if !ok {
		return models.Tool{}, false, nil
	}
	if tool.Stock > 0 {
		updated := tool
		updated.Stock--
		store.Tools[key] = updated
		if err := r.SaveTools(store); err != nil {
			return tool, true, err
		}
	}
	return tool, true, nil
}

// ListUsernames returns all usernames in sorted order.
func (r *Repo) ListUsernames() []string {
	users := r.LoadUsers()
	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
