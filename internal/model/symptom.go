package model

import (
	"github.com/google/uuid"
)

// Symptom is an entry in the global catalog. The tracker counts the live
// associations referencing it and is maintained at the attach/detach points.
type Symptom struct {
	SymptomID   uuid.UUID `json:"symptom_id" db:"symptom_id"`
	SymptomName string    `json:"symptom_name" db:"symptom_name"`
	Tracker     int       `json:"tracker" db:"tracker"`
}

// HistorySymptom links a medical history record to a catalog symptom
type HistorySymptom struct {
	HistorySymptomID uuid.UUID `json:"history_symptom_id" db:"history_symptom_id"`
	HistoryID        uuid.UUID `json:"history_id" db:"history_id"`
	SymptomID        uuid.UUID `json:"symptom_id" db:"symptom_id"`
}

// AddSymptomRequest attaches a symptom by name to a patient's history
type AddSymptomRequest struct {
	PatientID   uuid.UUID `json:"patient_id" binding:"required"`
	SymptomName string    `json:"symptom_name" binding:"required"`
}

// AttachResult reports what the attach did
type AttachResult struct {
	SymptomID     uuid.UUID `json:"symptom_id"`
	AlreadyLinked bool      `json:"already_linked"`
}
