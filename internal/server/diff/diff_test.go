package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/profiledb/internal/server/models"
)

func TestScalars_DetectsSingleChange(t *testing.T) {
	p := &models.Person{Name: "Jane Doe", Company: "Acme"}
	rec := &models.ProfileRecord{Name: "Jane Doe", Company: "Globex"}

	deltas := Scalars(p, rec)

	require.Len(t, deltas, 1)
	assert.Equal(t, models.Delta{Field: models.FieldCompany, Old: "Acme", New: "Globex"}, deltas[0])
}

func TestScalars_IdenticalRecordYieldsNoDeltas(t *testing.T) {
	p := &models.Person{Name: "Jane Doe", Location: "Berlin", JobTitle: "Engineer", Company: "Acme", Summary: "builds things"}
	rec := &models.ProfileRecord{Name: "Jane Doe", Location: "Berlin", JobTitle: "Engineer", Company: "Acme", Summary: "builds things"}

	assert.Empty(t, Scalars(p, rec))
}

func TestScalars_BlankNeverOverwrites(t *testing.T) {
	p := &models.Person{Name: "Jane Doe", Location: "Berlin"}
	rec := &models.ProfileRecord{Name: "Jane Doe", Location: ""}

	assert.Empty(t, Scalars(p, rec))

	rec.Location = "   "
	assert.Empty(t, Scalars(p, rec), "whitespace-only counts as absent")
}

func TestScalars_NewValueOverEmptyIsAChange(t *testing.T) {
	p := &models.Person{Name: "Jane Doe"}
	rec := &models.ProfileRecord{Name: "Jane Doe", Location: "Berlin"}

	deltas := Scalars(p, rec)
	require.Len(t, deltas, 1)
	assert.Equal(t, models.Delta{Field: models.FieldLocation, Old: "", New: "Berlin"}, deltas[0])
}

func TestScalars_TrimsBeforeComparing(t *testing.T) {
	p := &models.Person{Name: "Jane Doe"}
	rec := &models.ProfileRecord{Name: "  Jane Doe  "}

	assert.Empty(t, Scalars(p, rec))
}

func TestScalars_FixedFieldOrder(t *testing.T) {
	p := &models.Person{}
	rec := &models.ProfileRecord{Name: "a", Location: "b", JobTitle: "c", Company: "d", Summary: "e"}

	deltas := Scalars(p, rec)
	require.Len(t, deltas, 5)
	want := []string{models.FieldName, models.FieldLocation, models.FieldJobTitle, models.FieldCompany, models.FieldSummary}
	for i, d := range deltas {
		assert.Equal(t, want[i], d.Field)
	}
}

func TestApply(t *testing.T) {
	p := &models.Person{Name: "Jane Doe", Company: "Acme"}
	Apply(p, []models.Delta{
		{Field: models.FieldCompany, Old: "Acme", New: "Globex"},
		{Field: models.FieldLocation, Old: "", New: "Berlin"},
	})

	assert.Equal(t, "Globex", p.Company)
	assert.Equal(t, "Berlin", p.Location)
	assert.Equal(t, "Jane Doe", p.Name)
}
