package models

// ProfileRecord is the normalized input produced by the scraping collaborator.
// Every field except URL is optional; empty scalar values never overwrite
// stored data (see the change detector).
type ProfileRecord struct {
	URL      string `json:"url"`
	Name     string `json:"name,omitempty"`
	Location string `json:"location,omitempty"`
	JobTitle string `json:"job_title,omitempty"`
	Company  string `json:"company,omitempty"`
	Summary  string `json:"summary,omitempty"`

	Experiences []Experience `json:"experiences,omitempty"`
	Educations  []Education  `json:"educations,omitempty"`
}
