package model

import "github.com/google/uuid"

// HealthPlan is a clinic-scoped insurance plan, optionally referenced by
// appointments. (clinic, name) is unique.
type HealthPlan struct {
	Base
	ClinicID uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name     string    `db:"name" json:"name"`
	Active   bool      `db:"active" json:"active"`
}

type CreateHealthPlanRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	// Active defaults to true when the field is omitted.
	Active *bool `json:"active"`
}

type UpdateHealthPlanRequest struct {
	Name   string `json:"name" binding:"required,max=100"`
	Active bool   `json:"active"`
}
