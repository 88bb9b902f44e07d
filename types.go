package toollife

import (
	"toollife/internal/ledger"
	"toollife/internal/models"
	"toollife/internal/monthfile"
	"toollife/internal/workflow"
)

// Type aliases so callers can use the unqualified names while the actual
// definitions live in the internal packages.

type Entry = models.Entry
type Part = models.Part
type PartsStore = models.PartsStore
type Tool = models.Tool
type ToolStore = models.ToolStore
type CostStore = models.CostStore
type User = models.User

type Table = monthfile.Table
type Row = monthfile.Row

type LedgerRecord = ledger.Record
type LinkedParams = ledger.LinkedParams

type EntryParams = workflow.EntryParams
type DefectUpdate = workflow.DefectUpdate

// ErrNotFound reports a record that vanished between load and mutation.
var ErrNotFound = workflow.ErrNotFound
