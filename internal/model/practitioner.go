package model

import "github.com/google/uuid"

// Practitioner is a doctor scoped to a clinic. The license number is unique
// within the clinic. Specialties is a many-to-many association limited to
// specialties of the same clinic; updates replace the whole set.
type Practitioner struct {
	Base
	ClinicID        uuid.UUID    `db:"clinic_id" json:"clinic_id"`
	Name            string       `db:"name" json:"name"`
	LicenseNumber   string       `db:"license_number" json:"license_number"`
	Phone           string       `db:"phone" json:"phone,omitempty"`
	SecondaryPhone  string       `db:"secondary_phone" json:"secondary_phone,omitempty"`
	DefaultDuration int          `db:"default_duration_minutes" json:"default_duration_minutes"`
	Active          bool         `db:"active" json:"active"`
	Specialties     []*Specialty `db:"-" json:"specialties"`
}

type CreatePractitionerRequest struct {
	Name            string      `json:"name" binding:"required,max=150"`
	LicenseNumber   string      `json:"license_number" binding:"required,max=30"`
	Phone           string      `json:"phone" binding:"max=20"`
	SecondaryPhone  string      `json:"secondary_phone" binding:"max=20"`
	DefaultDuration int         `json:"default_duration_minutes" binding:"omitempty,min=5,max=240"`
	Active          *bool       `json:"active"`
	SpecialtyIDs    []uuid.UUID `json:"specialty_ids" binding:"required"`
}

// UpdatePractitionerRequest overwrites every mutable field; callers resend the
// full representation. The license number is immutable after creation.
type UpdatePractitionerRequest struct {
	Name            string      `json:"name" binding:"required,max=150"`
	Phone           string      `json:"phone" binding:"max=20"`
	SecondaryPhone  string      `json:"secondary_phone" binding:"max=20"`
	DefaultDuration int         `json:"default_duration_minutes" binding:"omitempty,min=5,max=240"`
	Active          bool        `json:"active"`
	SpecialtyIDs    []uuid.UUID `json:"specialty_ids"`
}
