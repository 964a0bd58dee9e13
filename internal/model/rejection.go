package model

// Kind classifies a rejection. Kinds are data, not Go errors: a malformed
// person never aborts the batch, it produces RejectedEntry records and
// processing continues.
type Kind string

const (
	KindMissingColumn            Kind = "missing_column" // fatal, whole-dataset
	KindDuplicateWithoutOrdering Kind = "duplicate_without_ordering"
	KindUnparseableTimestamp     Kind = "unparseable_timestamp_in_multi_row_group"
	KindConflictingPayload       Kind = "conflicting_payload_at_latest_timestamp"
	KindInvalidPayloadValue      Kind = "invalid_payload_value"
	KindDuplicateLineItem        Kind = "duplicate_line_item"
	KindTooManyDistinctGrouped   Kind = "too_many_distinct_grouped_types"
	KindQuantityNotAllowed       Kind = "quantity_not_allowed_for_category"
	KindDuplicateAddonOrService  Kind = "duplicate_addon_or_service_item"
	KindUnrecognizedItem         Kind = "unrecognized_item"
)

// RejectedEntry records one excluded input row (or line item) together with a
// human-readable reason. For payload conflicts, Siblings carries the full set
// of rows that produced the conflict. Entries are append-only.
type RejectedEntry struct {
	Row      RawRow   `json:"row"`
	Kind     Kind     `json:"kind"`
	Reason   string   `json:"reason"`
	Siblings []RawRow `json:"siblings,omitempty"`
}
