package validation

// Enum values for ledger and workflow fields. These must match the values
// the UI offers and the ones already present in historical files.
var (
	ValidActionStatuses   = []string{"Open", "In Progress", "Blocked", "Closed"}
	ValidActionSeverities = []string{"Low", "Medium", "High", "Critical"}
	ValidNCRStatuses      = []string{"Open", "Contained", "Verified", "Closed"}
	ValidApprovalStates   = []string{"Pending", "Yes"}
	ValidYesNo            = []string{"Yes", "No"}
	ValidShifts           = []string{"1st", "2nd", "3rd"}
)
