package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a clinic-scoped patient record. Appointments reference patients of
// the same clinic only.
type Patient struct {
	Base
	ClinicID  uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	Name      string     `db:"name" json:"name"`
	Document  string     `db:"document" json:"document,omitempty"`
	Phone     string     `db:"phone" json:"phone,omitempty"`
	Email     string     `db:"email" json:"email,omitempty"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
}

type CreatePatientRequest struct {
	Name      string     `json:"name" binding:"required,max=150"`
	Document  string     `json:"document" binding:"max=20"`
	Phone     string     `json:"phone" binding:"max=20"`
	Email     string     `json:"email" binding:"omitempty,email"`
	BirthDate *time.Time `json:"birth_date"`
}

type UpdatePatientRequest struct {
	Name      string     `json:"name" binding:"required,max=150"`
	Document  string     `json:"document" binding:"max=20"`
	Phone     string     `json:"phone" binding:"max=20"`
	Email     string     `json:"email" binding:"omitempty,email"`
	BirthDate *time.Time `json:"birth_date"`
}
