package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalHistory is the questionnaire record for a patient. The registry
// keeps one active row per patient; submissions upsert into it.
type MedicalHistory struct {
	HistoryID  uuid.UUID  `json:"history_id" db:"history_id"`
	PatientID  uuid.UUID  `json:"patient_id" db:"patient_id"`
	RecordedBy *uuid.UUID `json:"recorded_by" db:"recorded_by"`
	UpdatedBy  *uuid.UUID `json:"updated_by" db:"updated_by"`

	Medications   *string `json:"medications" db:"medications"`
	Allergies     *string `json:"allergies" db:"allergies"`
	EyeInjuries   *string `json:"eye_injuries" db:"eye_injuries"`
	EyeSurgeries  *string `json:"eye_surgeries" db:"eye_surgeries"`
	SocialHistory *string `json:"social_history" db:"social_history"`
	FamilyHistory *string `json:"family_history" db:"family_history"`

	Diabetes           *bool `json:"diabetes" db:"diabetes"`
	Hypertension       *bool `json:"hypertension" db:"hypertension"`
	Nearsightedness    *bool `json:"nearsightedness" db:"nearsightedness"`
	Farsightedness     *bool `json:"farsightedness" db:"farsightedness"`
	EyeGlassesOrLenses *bool `json:"eye_glasses_or_lenses" db:"eye_glasses_or_lenses"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// CreateHistoryRequest is the questionnaire submission payload
type CreateHistoryRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	HistoryFields
}

// UpdateHistoryRequest overwrites the fields of an existing record
type UpdateHistoryRequest struct {
	HistoryFields
}

// HistoryFields are the free-text and boolean questionnaire answers
type HistoryFields struct {
	Medications   *string `json:"medications"`
	Allergies     *string `json:"allergies"`
	EyeInjuries   *string `json:"eye_injuries"`
	EyeSurgeries  *string `json:"eye_surgeries"`
	SocialHistory *string `json:"social_history"`
	FamilyHistory *string `json:"family_history"`

	Diabetes           *bool `json:"diabetes"`
	Hypertension       *bool `json:"hypertension"`
	Nearsightedness    *bool `json:"nearsightedness"`
	Farsightedness     *bool `json:"farsightedness"`
	EyeGlassesOrLenses *bool `json:"eye_glasses_or_lenses"`
}
