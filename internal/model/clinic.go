package model

// Clinic is the tenant boundary. Every other entity belongs to exactly one clinic
// and is never visible outside it. Clinics themselves are provisioned out of band;
// the services below only ever check that one exists.
type Clinic struct {
	Base
	Name   string `db:"name" json:"name"`
	Status string `db:"status" json:"status"`
}
