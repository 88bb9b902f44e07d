package models

// Entry is one tool-change record in a month file. All fields are kept as
// strings because month files are spreadsheet rows edited by several
// workflows; typed access goes through the workflow package.
type Entry struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Shift           string  `json:"shift"`
	Line            string  `json:"line"`
	Machine         string  `json:"machine"`
	PartNumber      string  `json:"part_number"`
	ToolNum         string  `json:"tool_num"`
	Reason          string  `json:"reason"`
	DowntimeMins    int     `json:"downtime_mins"`
	Cost            float64 `json:"cost"`
	ToolChanger     string  `json:"tool_changer"`
	DefectsPresent  string  `json:"defects_present"`
	DefectQty       int     `json:"defect_qty"`
	SortDone        string  `json:"sort_done"`
	DefectReason    string  `json:"defect_reason"`
	QualityVerified string  `json:"quality_verified"`
	QualityUser     string  `json:"quality_user"`
	QualityTime     string  `json:"quality_time"`
	LeaderSign      string  `json:"leader_sign"`
	LeaderUser      string  `json:"leader_user"`
	LeaderTime      string  `json:"leader_time"`
	SerialNumbers   string  `json:"serial_numbers"`
}

// Approval states for Quality_Verified and Leader_Sign.
const (
	ApprovalPending = "Pending"
	ApprovalYes     = "Yes"
)

// Part is one entry in the parts store.
type Part struct {
	PartNumber string   `json:"part_number"`
	Name       string   `json:"name"`
	Lines      []string `json:"lines"`
}

// PartsStore is the canonical on-disk shape of the parts config file.
type PartsStore struct {
	Parts []Part `json:"parts"`
}

// Tool holds pricing and stock for one tool, keyed by "Tool N" in the store.
type Tool struct {
	Name    string  `json:"name"`
	Cost    float64 `json:"cost"`
	Stock   int     `json:"stock"`
	Inserts int     `json:"inserts"`
}

// ToolStore is the canonical on-disk shape of the tool pricing/stock file.
type ToolStore struct {
	Tools map[string]Tool `json:"tools"`
}

// CostStore is the canonical on-disk shape of the scrap cost file.
type CostStore struct {
	ScrapCostByPart  map[string]float64 `json:"scrap_cost_by_part"`
	ScrapCostDefault float64            `json:"scrap_cost_default"`
}

// User is one entry in the users store, keyed by username.
type User struct {
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Line     string `json:"line"`
}

// Roles known to the permission matrix.
const (
	RoleOperator    = "Operator"
	RoleToolChanger = "Tool Changer"
	RoleLeader      = "Leader"
	RoleQuality     = "Quality"
	RoleTop         = "Top (Super User)"
	RoleAdmin       = "Admin"
)
