package authz

import (
	"github.com/google/uuid"

	"github.com/irisclinic/clinic-api/internal/model"
)

// Actor is the authenticated identity attached to a request.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// Policy centralizes the role and ownership rules so every handler applies
// the same checks. Patients are owned by their creator; admins bypass
// ownership.
type Policy struct{}

func NewPolicy() *Policy {
	return &Policy{}
}

// CanManageUsers gates registration, user listing and user deletion.
func (p *Policy) CanManageUsers(actor Actor) bool {
	return actor.IsAdmin()
}

// CanCreatePatient allows only doctors and staff; admins register users,
// not patients.
func (p *Policy) CanCreatePatient(actor Actor) bool {
	return actor.Role == model.RoleDoctor || actor.Role == model.RoleStaff
}

// CanAccessPatient covers read, update and delete of a single record.
func (p *Policy) CanAccessPatient(actor Actor, patient *model.Patient) bool {
	if actor.IsAdmin() {
		return true
	}
	return patient.CreatedBy != nil && *patient.CreatedBy == actor.UserID
}
