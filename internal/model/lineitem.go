package model

// Category is the classifier's output class for a free-text line item.
type Category string

const (
	CategoryStandard Category = "standard"
	CategoryGrouped  Category = "grouped"
	CategoryAddon    Category = "addon"
	CategoryService  Category = "service"
	CategoryIgnored  Category = "ignored"
	CategoryUnknown  Category = "unknown"
)

// Target identifies the destination bucket the external driver should send a
// line item to. Grouped items have two destinations depending on whether the
// owning group also carries a standard (primary) package.
type Target string

const (
	TargetAddon              Target = "addon_box"
	TargetService            Target = "service_box"
	TargetGroupedWithPrimary Target = "grouped_with_primary_box"
	TargetGroupedAlone       Target = "grouped_alone_box"
)

// LineItem is one classified payload belonging to a person and a secondary
// key. Code may be a repeated-character run when quantity expansion applies.
type LineItem struct {
	Code     string   `json:"code"`
	Category Category `json:"category"`
	RawText  string   `json:"raw_text"`
	Target   Target   `json:"target,omitempty"`
}

// ChoiceGroup is the set of line items sharing (person key, secondary key).
// StandardCodes is the quantity-expanded concatenation of all standard
// package codes in the group.
type ChoiceGroup struct {
	PersonKey     string     `json:"person_key"`
	SecondaryKey  string     `json:"secondary_key"` // empty for the implicit group
	StandardCodes string     `json:"standard_codes"`
	HasPrimary    bool       `json:"has_primary"`
	Items         []LineItem `json:"items,omitempty"`
}
