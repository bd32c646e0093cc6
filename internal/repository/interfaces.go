package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/multiclinicas/clinic-api/internal/model"
)

// Sentinel errors returned by every implementation. Services translate these
// into the application error taxonomy.
var (
	// ErrNotFound covers both a missing row and a row owned by another clinic;
	// callers cannot tell the two apart.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when a storage unique constraint rejects a
	// write (plan/specialty name, practitioner license, appointment slot).
	ErrDuplicateKey = errors.New("duplicate key")
)

// All repository interfaces in one file
type (
	ClinicRepository interface {
		Create(ctx context.Context, clinic *model.Clinic) error
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		List(ctx context.Context) ([]*model.Clinic, error)
		Exists(ctx context.Context, id uuid.UUID) (bool, error)
	}

	SpecialtyRepository interface {
		ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Specialty, error)
		GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Specialty, error)
		ExistsByNameAndClinic(ctx context.Context, name string, clinicID uuid.UUID) (bool, error)
		Create(ctx context.Context, specialty *model.Specialty) error
		Update(ctx context.Context, specialty *model.Specialty) error
		Delete(ctx context.Context, id, clinicID uuid.UUID) error
	}

	HealthPlanRepository interface {
		ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.HealthPlan, error)
		ListActiveByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.HealthPlan, error)
		// Get fetches by id alone; the service checks clinic ownership itself.
		Get(ctx context.Context, id uuid.UUID) (*model.HealthPlan, error)
		ExistsByNameAndClinic(ctx context.Context, name string, clinicID uuid.UUID) (bool, error)
		Create(ctx context.Context, plan *model.HealthPlan) error
		Update(ctx context.Context, plan *model.HealthPlan) error
		Delete(ctx context.Context, id, clinicID uuid.UUID) error
	}

	PractitionerRepository interface {
		ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Practitioner, error)
		ListActiveByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Practitioner, error)
		GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Practitioner, error)
		// Create and Update persist the practitioner and its specialty
		// association set in a single transaction. Update replaces the whole
		// set (clear-then-add).
		Create(ctx context.Context, practitioner *model.Practitioner, specialtyIDs []uuid.UUID) error
		Update(ctx context.Context, practitioner *model.Practitioner, specialtyIDs []uuid.UUID) error
		Delete(ctx context.Context, id, clinicID uuid.UUID) error
	}

	PatientRepository interface {
		ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Patient, error)
		GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Patient, error)
		Create(ctx context.Context, patient *model.Patient) error
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id, clinicID uuid.UUID) error
	}

	AppointmentRepository interface {
		ListByClinic(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Appointment, error)
		// Create and Reschedule run the slot conflict check and the write in
		// one transaction; the partial unique index on non-cancelled slots is
		// the race backstop. Both return ErrDuplicateKey on a taken slot.
		Create(ctx context.Context, appointment *model.Appointment) error
		Reschedule(ctx context.Context, appointment *model.Appointment) error
		UpdateStatus(ctx context.Context, id, clinicID uuid.UUID, status model.AppointmentStatus) error
		Delete(ctx context.Context, id, clinicID uuid.UUID) error
		SlotTaken(ctx context.Context, clinicID, practitionerID uuid.UUID, date time.Time, startTime string, excludeID *uuid.UUID) (bool, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
