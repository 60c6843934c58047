package model

// SymptomCount is the per-symptom distinct-patient rollup
type SymptomCount struct {
	SymptomName  string `json:"symptom_name" db:"symptom_name"`
	PatientCount int    `json:"patient_count" db:"patient_count"`
}

// MonthlyRegistrations buckets patient registrations by calendar month
type MonthlyRegistrations struct {
	Month string `json:"month" db:"month"`
	Count int    `json:"count" db:"count"`
}

// SymptomCountRequest is the caller-supplied symptom selection
type SymptomCountRequest struct {
	Symptoms []string `json:"symptoms" binding:"required,min=1,max=5"`
}
