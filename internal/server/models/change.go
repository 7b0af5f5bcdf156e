package models

import "time"

// Canonical scalar field names used in deltas and change records.
const (
	FieldName     = "name"
	FieldLocation = "location"
	FieldJobTitle = "job_title"
	FieldCompany  = "company"
	FieldSummary  = "summary"
)

// Delta is one detected scalar field change.
type Delta struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// ChangeRecord is an immutable audit fact: a scalar field of the person with
// the given key changed from OldValue to NewValue at ChangedAt. Records
// reference persons weakly by normalized key and outlive deactivation.
type ChangeRecord struct {
	ID         int64     `json:"id"`
	ProfileURL string    `json:"profile_url"`
	Field      string    `json:"field"`
	OldValue   string    `json:"old_value"`
	NewValue   string    `json:"new_value"`
	ChangedAt  time.Time `json:"changed_at"`
}
