// Package models defines the data-transfer structs shared by the profiledb
// repositories and services. Children are carried by value on the parent,
// never lazy-loaded.
package models

import "time"

// Status is the lifecycle state of a Person. The only transition is
// StatusActive -> StatusDeactivated; nothing is ever hard-deleted.
type Status string

const (
	StatusActive      Status = "active"
	StatusDeactivated Status = "deactivated"
)

// Person is one stored profile. ProfileURL is the normalized natural key:
// unique, case sensitive, immutable once assigned.
type Person struct {
	ID         string `json:"id"`
	ProfileURL string `json:"profile_url"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	JobTitle   string `json:"job_title"`
	Company    string `json:"company"`
	Summary    string `json:"summary"`

	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	ScrapeCount int64     `json:"scrape_count"`
	Status      Status    `json:"status"`

	Experiences []Experience `json:"experiences,omitempty"`
	Educations  []Education  `json:"educations,omitempty"`
}

// Experience is one employment entry owned by a Person. Dates and duration
// are kept as free-form strings exactly as scraped.
type Experience struct {
	PersonID    string `json:"-"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	FromDate    string `json:"from_date,omitempty"`
	ToDate      string `json:"to_date,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is one academic entry owned by a Person.
type Education struct {
	PersonID    string `json:"-"`
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	FromDate    string `json:"from_date,omitempty"`
	ToDate      string `json:"to_date,omitempty"`
	Description string `json:"description,omitempty"`
}
