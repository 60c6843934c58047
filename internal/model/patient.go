package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient gender constants
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Patient represents a registered patient. Soft-deleted rows keep their data
// for auditing but are invisible to every read path.
type Patient struct {
	Base
	FirstName           string     `json:"first_name" db:"first_name"`
	LastName            string     `json:"last_name" db:"last_name"`
	DOB                 time.Time  `json:"dob" db:"dob"`
	Gender              string     `json:"gender" db:"gender"`
	ContactNumber       string     `json:"contact_number" db:"contact_number"`
	Email               *string    `json:"email" db:"email"`
	Language            string     `json:"language" db:"language"`
	Longitude           *float64   `json:"longitude" db:"longitude"`
	Latitude            *float64   `json:"latitude" db:"latitude"`
	NextFollowup        *time.Time `json:"next_followup" db:"next_followup"`
	RelativeName        *string    `json:"relative_name" db:"relative_name"`
	RelativePhoneNumber *string    `json:"relative_phone_number" db:"relative_phone_number"`
	IDImageURL          *string    `json:"id_image_url" db:"id_image_url"`
	Address             *string    `json:"address" db:"address"`
	CreatedBy           *uuid.UUID `json:"created_by" db:"created_by"`
}

// PatientForm is the multipart payload for create and update. Dates arrive
// as YYYY-MM-DD strings alongside the optional id_image file part.
type PatientForm struct {
	FirstName           string   `form:"first_name" binding:"required"`
	LastName            string   `form:"last_name" binding:"required"`
	DOB                 string   `form:"dob" binding:"required,dateformat"`
	Gender              string   `form:"gender" binding:"required,oneof=Male Female Other"`
	ContactNumber       string   `form:"contact_number" binding:"required"`
	Email               *string  `form:"email" binding:"omitempty,email"`
	Language            string   `form:"language"`
	NextFollowup        *string  `form:"next_followup" binding:"omitempty,dateformat"`
	RelativeName        *string  `form:"relative_name"`
	RelativePhoneNumber *string  `form:"relative_phone_number"`
	Address             *string  `form:"address"`
	Longitude           *float64 `form:"longitude"`
	Latitude            *float64 `form:"latitude"`
}
