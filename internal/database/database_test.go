package database

import (
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"

	"toollife/internal/masterdata"
	"toollife/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesSchema(t *testing.T) {
	db := openTestDB(t)
	var version string
	err := db.QueryRow("SELECT value FROM meta WHERE key='schema_version'").Scan(&version)
	if err != nil || version != "1" {
		t.Fatalf("schema_version %q, err %v", version, err)
	}
}

func TestUpsertPartRewritesLines(t *testing.T) {
	db := openTestDB(t)

	if err := UpsertPart(db, "PN1", "Bracket", []string{"U725", "JL"}); err != nil {
		t.Fatal(err)
	}
	if err := UpsertPart(db, "PN1", "Bracket v2", []string{"JL"}); err != nil {
		t.Fatal(err)
	}

	parts, err := ListPartsWithLines(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if parts[0].Name != "Bracket v2" {
		t.Fatalf("name not updated: %+v", parts[0])
	}
	if !reflect.DeepEqual(parts[0].Lines, []string{"JL"}) {
		t.Fatalf("line assignments not rewritten: %v", parts[0].Lines)
	}
}

func TestUpsertTool(t *testing.T) {
	db := openTestDB(t)

	if err := UpsertTool(db, "12", "Insert", 33.5, 4); err != nil {
		t.Fatal(err)
	}
	if err := UpsertTool(db, "12", "Insert", 35.0, 3); err != nil {
		t.Fatal(err)
	}

	tools, err := ListTools(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(tools) != 1 || tools[0].UnitCost != 35.0 || tools[0].Stock != 3 {
		t.Fatalf("tools: %+v", tools)
	}
}

func TestSetScrapCostCreatesPart(t *testing.T) {
	db := openTestDB(t)

	if err := SetScrapCost(db, "PN-NEW", 2.75); err != nil {
		t.Fatal(err)
	}

	costs, err := ScrapCosts(db)
	if err != nil {
		t.Fatal(err)
	}
	if costs["PN-NEW"] != 2.75 {
		t.Fatalf("costs: %v", costs)
	}
}

func TestMirrorStores(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	repo := &masterdata.Repo{
		PartsPath: filepath.Join(dir, "parts.json"),
		ToolsPath: filepath.Join(dir, "tools.json"),
		CostsPath: filepath.Join(dir, "costs.json"),
		UsersPath: filepath.Join(dir, "users.json"),
	}

	if err := repo.SaveParts(models.PartsStore{Parts: []models.Part{
		{PartNumber: "PN1", Name: "Bracket", Lines: []string{"U725"}},
	}}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveTools(models.ToolStore{Tools: map[string]models.Tool{
		"Tool 12": {Name: "Insert", Cost: 33.5, Stock: 4},
	}}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveCosts(models.CostStore{
		ScrapCostByPart: map[string]float64{"PN1": 3.25},
	}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveUsers(map[string]models.User{
		"jdoe": {Password: "x", Role: "Leader"},
	}); err != nil {
		t.Fatal(err)
	}

	if err := MirrorStores(db, repo); err != nil {
		t.Fatalf("mirror: %v", err)
	}

	parts, err := ListPartsWithLines(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 1 || parts[0].PartNumber != "PN1" {
		t.Fatalf("parts: %+v", parts)
	}

	tools, err := ListTools(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(tools) != 1 || tools[0].ToolNum != "12" || tools[0].UnitCost != 33.5 {
		t.Fatalf("tools: %+v", tools)
	}

	costs, err := ScrapCosts(db)
	if err != nil {
		t.Fatal(err)
	}
	if costs["PN1"] != 3.25 {
		t.Fatalf("costs: %v", costs)
	}

	var role string
	if err := db.QueryRow("SELECT role FROM users WHERE username='jdoe'").Scan(&role); err != nil || role != "Leader" {
		t.Fatalf("user mirror: role %q err %v", role, err)
	}
}
