// Package model defines the records flowing through the reconciliation
// pipeline: raw spreadsheet rows in, decisions and rejections out.
package model

import "time"

// RawRow is one input record as read from the spreadsheet, after logical
// field resolution. It is never mutated after loading; downstream stages
// copy what they need into derived records.
type RawRow struct {
	PersonKey    string `json:"person_key"`
	DisplayName  string `json:"display_name,omitempty"` // passthrough only
	Timestamp    string `json:"timestamp,omitempty"`    // raw cell value, parsed later
	Payload      string `json:"payload,omitempty"`
	SecondaryKey string `json:"secondary_key,omitempty"`
	Quantity     int    `json:"quantity"` // defaults to 1 when the cell is absent or unparseable
	Index        int    `json:"index"`    // 0-based data row index, for provenance
}

// Decision is the single authoritative outcome for one person. At most one
// Decision exists per person key across a run.
type Decision struct {
	PersonKey   string        `json:"person_key"`
	DisplayName string        `json:"display_name,omitempty"`
	Payload     string        `json:"payload"`
	At          time.Time     `json:"at,omitempty"` // timestamp of the winning row, zero when ordering was moot
	Groups      []ChoiceGroup `json:"groups,omitempty"`
}
