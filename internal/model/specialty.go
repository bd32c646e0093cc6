package model

import "github.com/google/uuid"

// Specialty is a named medical specialty scoped to a clinic. The (clinic, name)
// pair is unique, case-sensitive, exactly as stored.
type Specialty struct {
	Base
	ClinicID uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name     string    `db:"name" json:"name"`
}

type CreateSpecialtyRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type UpdateSpecialtyRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}
