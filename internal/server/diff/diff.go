// Package diff implements scalar field change detection between a stored
// person and an incoming scraped record.
//
// The equality rule is deliberately asymmetric: an incoming empty value for a
// field that currently holds data is "no change", so a partial scrape can
// never blank out existing data. An incoming non-empty value that differs is
// always a change, even when the stored value was empty.
package diff

import (
	"strings"

	"github.com/avolkov/profiledb/internal/server/models"
)

// Scalars compares the five top-level scalar fields and returns one delta per
// changed field, in a fixed order (name, location, job_title, company,
// summary). Child lists never participate; re-scrapes replace them wholesale.
func Scalars(p *models.Person, rec *models.ProfileRecord) []models.Delta {
	pairs := []struct {
		field    string
		old, new string
	}{
		{models.FieldName, p.Name, rec.Name},
		{models.FieldLocation, p.Location, rec.Location},
		{models.FieldJobTitle, p.JobTitle, rec.JobTitle},
		{models.FieldCompany, p.Company, rec.Company},
		{models.FieldSummary, p.Summary, rec.Summary},
	}

	var deltas []models.Delta
	for _, pr := range pairs {
		oldV := strings.TrimSpace(pr.old)
		newV := strings.TrimSpace(pr.new)
		if newV == "" {
			continue // blanks never overwrite
		}
		if newV == oldV {
			continue
		}
		deltas = append(deltas, models.Delta{Field: pr.field, Old: oldV, New: newV})
	}
	return deltas
}

// Apply writes detected deltas back onto the person's scalar fields.
func Apply(p *models.Person, deltas []models.Delta) {
	for _, d := range deltas {
		switch d.Field {
		case models.FieldName:
			p.Name = d.New
		case models.FieldLocation:
			p.Location = d.New
		case models.FieldJobTitle:
			p.JobTitle = d.New
		case models.FieldCompany:
			p.Company = d.New
		case models.FieldSummary:
			p.Summary = d.New
		}
	}
}
