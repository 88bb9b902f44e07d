package database

import (
	"database/sql"
	"strings"

	"toollife/internal/masterdata"
)

// MirrorStores syncs the JSON config stores into the sqlite mirror. Called
// after master-data saves; the JSON files remain the source of truth.
func MirrorStores(db *sql.DB, repo *masterdata.Repo) error {
	parts := repo.LoadParts()
	for _, p := range parts.Parts {
		if err := UpsertPart(db, p.PartNumber, p.Name, p.Lines); err != nil {
			return err
		}
	}

	tools := repo.LoadTools()
	for key, t := range tools.Tools {
		// Store keys look like "Tool 12"; the mirror keeps the bare number.
		num := strings.TrimSpace(strings.TrimPrefix(key, "Tool "))
		if num == "" {
			continue
		}
		if err := UpsertTool(db, num, t.Name, t.Cost, t.Stock); err != nil {
			return err
		}
	}

	costs := repo.LoadCosts()
	for pn, cost := range costs.ScrapCostByPart {
		if err := SetScrapCost(db, pn, cost); err != nil {
			return err
		}
	}

	return SeedDefaultUsers(db, repo.LoadUsers())
}
