package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyrakriv/schooldays/internal/model"
)

func TestResolve_SubstringCaseInsensitive(t *testing.T) {
	columns := []string{"Student ID Number", "Yearbook Photo Selection", "Yearbook Date Submitted"}
	fields := []Field{
		{Name: FieldPersonKey, Keywords: []string{"student id"}, Required: true},
		{Name: FieldPayload, Keywords: []string{"yearbook photo"}, Required: true},
		{Name: FieldTimestamp, Keywords: []string{"yearbook date"}},
	}

	resolved, err := Resolve(columns, fields)
	require.NoError(t, err)
	assert.Equal(t, "Student ID Number", resolved[FieldPersonKey])
	assert.Equal(t, "Yearbook Photo Selection", resolved[FieldPayload])
	assert.Equal(t, "Yearbook Date Submitted", resolved[FieldTimestamp])
}

func TestResolve_FirstColumnWins(t *testing.T) {
	columns := []string{"Choice A", "Choice B"}
	fields := []Field{
		{Name: FieldPayload, Keywords: []string{"choice"}, Required: true},
	}

	resolved, err := Resolve(columns, fields)
	require.NoError(t, err)
	assert.Equal(t, "Choice A", resolved[FieldPayload])
}

func TestResolve_AlternateKeywords(t *testing.T) {
	columns := []string{"Qty", "Product Name"}
	fields := []Field{
		{Name: FieldQuantity, Keywords: []string{"quantity", "qty"}},
		{Name: FieldDescription, Keywords: []string{"product name", "description"}, Required: true},
	}

	resolved, err := Resolve(columns, fields)
	require.NoError(t, err)
	assert.Equal(t, "Qty", resolved[FieldQuantity])
	assert.Equal(t, "Product Name", resolved[FieldDescription])
}

func TestResolve_MissingRequiredColumn(t *testing.T) {
	columns := []string{"Something Else"}
	fields := []Field{
		{Name: FieldPersonKey, Keywords: []string{"student id"}, Required: true},
		{Name: FieldPayload, Keywords: []string{"selection"}, Required: true},
	}

	_, err := Resolve(columns, fields)
	require.Error(t, err)

	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	require.Len(t, missing.Fields, 2)
	assert.Equal(t, FieldPersonKey, missing.Fields[0].Name)
	assert.Equal(t, FieldPayload, missing.Fields[1].Name)
}

// The message lists the header keywords the operator needs to add, plus the
// columns that were actually present, not just the internal field names.
func TestResolve_MissingColumnMessageNamesKeywords(t *testing.T) {
	columns := []string{"Something Else"}
	fields := []Field{
		{Name: FieldPersonKey, Keywords: []string{"student id"}, Required: true},
	}

	_, err := Resolve(columns, fields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), FieldPersonKey)
	assert.Contains(t, err.Error(), "student id")
	assert.Contains(t, err.Error(), "Something Else")
}

func TestMissingColumnsError_Kind(t *testing.T) {
	err := &MissingColumnsError{}
	assert.Equal(t, model.KindMissingColumn, err.Kind())
}

func TestResolve_OptionalColumnAbsent(t *testing.T) {
	columns := []string{"Student ID"}
	fields := []Field{
		{Name: FieldPersonKey, Keywords: []string{"student id"}, Required: true},
		{Name: FieldTimestamp, Keywords: []string{"date"}},
	}

	resolved, err := Resolve(columns, fields)
	require.NoError(t, err)
	_, ok := resolved[FieldTimestamp]
	assert.False(t, ok)
}

func TestResolve_NoFuzzyMatching(t *testing.T) {
	columns := []string{"Studnet ID"} // typo in the export header
	fields := []Field{
		{Name: FieldPersonKey, Keywords: []string{"student id"}, Required: true},
	}

	_, err := Resolve(columns, fields)
	assert.Error(t, err)
}
