package models

// GroupCount is one row of a grouped aggregate (e.g. company -> person count).
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Stats are whole-database counters.
type Stats struct {
	TotalPersons       int64 `json:"total_persons"`
	TotalExperiences   int64 `json:"total_experiences"`
	TotalEducations    int64 `json:"total_educations"`
	TotalChangeRecords int64 `json:"total_history_records"`
	ActivePersons      int64 `json:"active_persons"`
}
