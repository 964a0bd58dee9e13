package roster

import (
	"fmt"
	"strings"

	"github.com/tyrakriv/schooldays/internal/model"
)

// Logical field names used across both use cases. The payload field holds the
// yearbook selection letter; description and quantity drive the package
// classification flow.
const (
	FieldPersonKey    = "person_key"
	FieldDisplayName  = "display_name"
	FieldTimestamp    = "timestamp"
	FieldPayload      = "payload"
	FieldSecondaryKey = "secondary_key"
	FieldDescription  = "description"
	FieldQuantity     = "quantity"
)

// Field declares one logical field and the header keywords that identify it.
// A column matches when any keyword (lower-cased, trimmed) is a substring of
// the column name (lower-cased, trimmed).
type Field struct {
	Name     string
	Keywords []string
	Required bool
}

// MissingColumnsError reports the required logical fields that matched no
// column, including the header keywords each one was looking for. It aborts
// the whole run before any row is processed.
type MissingColumnsError struct {
	Fields  []Field
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s (expected a header containing %q)", f.Name, strings.Join(f.Keywords, "/"))
	}
	return fmt.Sprintf("roster: missing required columns: %s (found: %s)",
		strings.Join(parts, ", "), strings.Join(e.Columns, ", "))
}

// Kind reports the rejection kind for the fatal whole-dataset case.
func (e *MissingColumnsError) Kind() model.Kind { return model.KindMissingColumn }

// Resolve maps each logical field to the first column whose name contains one
// of the field's keywords, case-insensitively. Optional fields that match
// nothing are simply absent from the result; a required field with no match
// makes the whole resolution fail.
func Resolve(columns []string, fields []Field) (map[string]string, error) {
	resolved := make(map[string]string, len(fields))
	var missing []Field

	for _, f := range fields {
		col, ok := matchColumn(columns, f.Keywords)
		if ok {
			resolved[f.Name] = col
			continue
		}
		if f.Required {
			missing = append(missing, f)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{Fields: missing, Columns: columns}
	}
	return resolved, nil
}

func matchColumn(columns []string, keywords []string) (string, bool) {
	for _, col := range columns {
		lower := strings.ToLower(strings.TrimSpace(col))
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(strings.TrimSpace(kw))) {
				return col, true
			}
		}
	}
	return "", false
}
