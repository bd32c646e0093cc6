package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/multiclinicas/clinic-api/internal/model"
	"github.com/multiclinicas/clinic-api/internal/repository"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

const appointmentColumns = `
	id, clinic_id, patient_id, practitioner_id, payment_mode, health_plan_id,
	auth_token, date, start_time, end_time, status, notes, created_at, updated_at
`

func (r *appointmentRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE clinic_id = $1
	`
	args := []interface{}{clinicID}
	argCount := 2

	if filters != nil {
		if filters.PractitionerID != uuid.Nil {
			query += fmt.Sprintf(" AND practitioner_id = $%d", argCount)
			args = append(args, filters.PractitionerID)
			argCount++
		}
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" AND patient_id = $%d", argCount)
			args = append(args, filters.PatientID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if !filters.DateFrom.IsZero() {
			query += fmt.Sprintf(" AND date >= $%d", argCount)
			args = append(args, filters.DateFrom)
			argCount++
		}
		if !filters.DateTo.IsZero() {
			query += fmt.Sprintf(" AND date <= $%d", argCount)
			args = append(args, filters.DateTo)
			argCount++
		}
	}

	query += " ORDER BY date ASC, start_time ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE id = $1 AND clinic_id = $2
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id, clinicID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// Create checks the slot and inserts inside one transaction. The partial
// unique index on (clinic_id, practitioner_id, date, start_time) for
// non-cancelled rows still rejects a concurrent second insert, so both paths
// end in ErrDuplicateKey.
func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		taken, err := slotTakenTx(ctx, tx, appointment.ClinicID, appointment.PractitionerID, appointment.Date, appointment.StartTime, nil)
		if err != nil {
			return err
		}
		if taken {
			return repository.ErrDuplicateKey
		}

		query := `
			INSERT INTO appointments (` + appointmentColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		_, err = tx.ExecContext(ctx, query,
			appointment.ID,
			appointment.ClinicID,
			appointment.PatientID,
			appointment.PractitionerID,
			appointment.PaymentMode,
			appointment.HealthPlanID,
			appointment.AuthToken,
			appointment.Date,
			appointment.StartTime,
			appointment.EndTime,
			appointment.Status,
			appointment.Notes,
			appointment.CreatedAt,
			appointment.UpdatedAt,
		)
		return translateError(err)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Reschedule(ctx context.Context, appointment *model.Appointment) error {
	appointment.UpdatedAt = time.Now()

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		taken, err := slotTakenTx(ctx, tx, appointment.ClinicID, appointment.PractitionerID, appointment.Date, appointment.StartTime, &appointment.ID)
		if err != nil {
			return err
		}
		if taken {
			return repository.ErrDuplicateKey
		}

		query := `
			UPDATE appointments
			SET practitioner_id = $1, payment_mode = $2, health_plan_id = $3,
			    auth_token = $4, date = $5, start_time = $6, end_time = $7,
			    notes = $8, updated_at = $9
			WHERE id = $10 AND clinic_id = $11
		`
		result, err := tx.ExecContext(ctx, query,
			appointment.PractitionerID,
			appointment.PaymentMode,
			appointment.HealthPlanID,
			appointment.AuthToken,
			appointment.Date,
			appointment.StartTime,
			appointment.EndTime,
			appointment.Notes,
			appointment.UpdatedAt,
			appointment.ID,
			appointment.ClinicID,
		)
		if err != nil {
			return translateError(err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) || errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to reschedule appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id, clinicID uuid.UUID, status model.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND clinic_id = $4
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
	query := `DELETE FROM appointments WHERE id = $1 AND clinic_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) SlotTaken(ctx context.Context, clinicID, practitionerID uuid.UUID, date time.Time, startTime string, excludeID *uuid.UUID) (bool, error) {
	var taken bool
	query, args := slotTakenQuery(clinicID, practitionerID, date, startTime, excludeID)
	if err := r.db.GetContext(ctx, &taken, query, args...); err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return taken, nil
}

func slotTakenTx(ctx context.Context, tx *sqlx.Tx, clinicID, practitionerID uuid.UUID, date time.Time, startTime string, excludeID *uuid.UUID) (bool, error) {
	var taken bool
	query, args := slotTakenQuery(clinicID, practitionerID, date, startTime, excludeID)
	if err := tx.GetContext(ctx, &taken, query, args...); err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return taken, nil
}

func slotTakenQuery(clinicID, practitionerID uuid.UUID, date time.Time, startTime string, excludeID *uuid.UUID) (string, []interface{}) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE clinic_id = $1
			AND practitioner_id = $2
			AND date = $3
			AND start_time = $4
			AND status != 'cancelled'
	`
	args := []interface{}{clinicID, practitionerID, date, startTime}

	if excludeID != nil {
		query += " AND id != $5"
		args = append(args, *excludeID)
	}
	query += ")"

	return query, args
}
