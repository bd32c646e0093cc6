package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type PaymentMode string

const (
	PaymentModeSelfPay    PaymentMode = "self_pay"
	PaymentModeHealthPlan PaymentMode = "health_plan"
)

// Appointment is a booking of a practitioner for a patient on a date and time
// range. Within a clinic no two non-cancelled appointments share the same
// (practitioner, date, start time).
type Appointment struct {
	Base
	ClinicID       uuid.UUID         `db:"clinic_id" json:"clinic_id"`
	PatientID      uuid.UUID         `db:"patient_id" json:"patient_id"`
	PractitionerID uuid.UUID         `db:"practitioner_id" json:"practitioner_id"`
	PaymentMode    PaymentMode       `db:"payment_mode" json:"payment_mode"`
	HealthPlanID   *uuid.UUID        `db:"health_plan_id" json:"health_plan_id,omitempty"`
	AuthToken      string            `db:"auth_token" json:"auth_token,omitempty"`
	Date           time.Time         `db:"date" json:"date"`
	StartTime      string            `db:"start_time" json:"start_time"`
	EndTime        string            `db:"end_time" json:"end_time"`
	Status         AppointmentStatus `db:"status" json:"status"`
	Notes          string            `db:"notes" json:"notes,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientID      uuid.UUID   `json:"patient_id" binding:"required"`
	PractitionerID uuid.UUID   `json:"practitioner_id" binding:"required"`
	PaymentMode    PaymentMode `json:"payment_mode" binding:"required,paymentmode"`
	HealthPlanID   *uuid.UUID  `json:"health_plan_id"`
	AuthToken      string      `json:"auth_token" binding:"max=100"`
	Date           time.Time   `json:"date" binding:"required" time_format:"2006-01-02"`
	StartTime      string      `json:"start_time" binding:"required,hhmm"`
	EndTime        string      `json:"end_time" binding:"required,hhmm"`
	Notes          string      `json:"notes" binding:"max=1000"`
}

// UpdateAppointmentRequest reschedules an appointment. Status changes go
// through the dedicated status endpoint instead.
type UpdateAppointmentRequest struct {
	PractitionerID uuid.UUID   `json:"practitioner_id" binding:"required"`
	PaymentMode    PaymentMode `json:"payment_mode" binding:"required,paymentmode"`
	HealthPlanID   *uuid.UUID  `json:"health_plan_id"`
	AuthToken      string      `json:"auth_token" binding:"max=100"`
	Date           time.Time   `json:"date" binding:"required" time_format:"2006-01-02"`
	StartTime      string      `json:"start_time" binding:"required,hhmm"`
	EndTime        string      `json:"end_time" binding:"required,hhmm"`
	Notes          string      `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,appointmentstatus"`
}

// AppointmentFilters narrows ListByClinic results. Zero values are ignored.
type AppointmentFilters struct {
	PractitionerID uuid.UUID
	PatientID      uuid.UUID
	Status         AppointmentStatus
	DateFrom       time.Time
	DateTo         time.Time
}
