package ledger

import "toollife/internal/validation"

// LinkedParams are the inputs for creating an NCR together with its
// tracking action.
type LinkedParams struct {
	Title          string
	Description    string
	Severity       string
	Owner          string
	CreatedBy      string
	Line           string
	PartNumber     string
	DueDate        string
	RelatedEntryID string
}

// CreateNCRAndAction creates an NCR and a linked action-center item in one
// step: the NCR is created Open, an action of type "NCR" referencing it is
// created, then the NCR is rewritten with the action's id so the two
// records cross-reference each other.
func (s *Store) CreateNCRAndAction(p LinkedParams) (ncr Record, action Record, err error) {
	ve := &validation.ValidationErrors{}
	validation.ValidateEnum(ve, "severity", p.Severity, validation.ValidActionSeverities)
	validation.ValidateDate(ve, "due_date", p.DueDate)
	if ve.HasErrors() {
		return nil, nil, ve
	}

	ncr, err = s.UpsertNCR(Record{
		"status":           "Open",
		"part_number":      p.PartNumber,
		"line":             p.Line,
		"owner":            p.Owner,
		"description":      p.Description,
		"created_by":       p.CreatedBy,
		"related_entry_id": p.RelatedEntryID,
	})
	if err != nil {
		return nil, nil, err
	}

	title := p.Title
	if title == "" {
		title = "NCR " + str(ncr["ncr_id"])
	}
	severity := p.Severity
	if severity == "" {
		severity = "Medium"
	}

	action, err = s.UpsertAction(Record{
		"type":        "NCR",
		"title":       title,
		"severity":    severity,
		"status":      "Open",
		"owner":       p.Owner,
		"created_by":  p.CreatedBy,
		"due_date":    p.DueDate,
		"line":        p.Line,
		"part_number": p.PartNumber,
		"related": map[string]interface{}{
			"ncr_id":   str(ncr["ncr_id"]),
			"entry_id": p.RelatedEntryID,
		},
		"notes": p.Description,
	})
	if err != nil {
		return nil, nil, err
	}

	// Back-link the action onto the NCR.
	ncr, err = s.UpsertNCR(Record{
		"ncr_id":    str(ncr["ncr_id"]),
		"action_id": str(action["action_id"]),
	})
	if err != nil {
		return nil, nil, err
	}
	return ncr, action, nil
}
