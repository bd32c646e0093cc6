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

type practitionerRepository struct {
	BaseRepository
}

func NewPractitionerRepository(base BaseRepository) repository.PractitionerRepository {
	return &practitionerRepository{base}
}

const practitionerColumns = `
	id, clinic_id, name, license_number, phone, secondary_phone,
	default_duration_minutes, active, created_at, updated_at
`

func (r *practitionerRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Practitioner, error) {
	query := `
		SELECT ` + practitionerColumns + `
		FROM practitioners
		WHERE clinic_id = $1
		ORDER BY name ASC
	`
	var practitioners []*model.Practitioner
	if err := r.db.SelectContext(ctx, &practitioners, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list practitioners: %w", err)
	}
	if err := r.loadSpecialties(ctx, practitioners); err != nil {
		return nil, err
	}
	return practitioners, nil
}

func (r *practitionerRepository) ListActiveByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Practitioner, error) {
	query := `
		SELECT ` + practitionerColumns + `
		FROM practitioners
		WHERE clinic_id = $1 AND active = true
		ORDER BY name ASC
	`
	var practitioners []*model.Practitioner
	if err := r.db.SelectContext(ctx, &practitioners, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list active practitioners: %w", err)
	}
	if err := r.loadSpecialties(ctx, practitioners); err != nil {
		return nil, err
	}
	return practitioners, nil
}

func (r *practitionerRepository) GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Practitioner, error) {
	query := `
		SELECT ` + practitionerColumns + `
		FROM practitioners
		WHERE id = $1 AND clinic_id = $2
	`
	var practitioner model.Practitioner
	err := r.db.GetContext(ctx, &practitioner, query, id, clinicID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}
	if err := r.loadSpecialties(ctx, []*model.Practitioner{&practitioner}); err != nil {
		return nil, err
	}
	return &practitioner, nil
}

func (r *practitionerRepository) Create(ctx context.Context, practitioner *model.Practitioner, specialtyIDs []uuid.UUID) error {
	practitioner.ID = uuid.New()
	practitioner.CreatedAt = time.Now()
	practitioner.UpdatedAt = time.Now()

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO practitioners (` + practitionerColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.ExecContext(ctx, query,
			practitioner.ID,
			practitioner.ClinicID,
			practitioner.Name,
			practitioner.LicenseNumber,
			practitioner.Phone,
			practitioner.SecondaryPhone,
			practitioner.DefaultDuration,
			practitioner.Active,
			practitioner.CreatedAt,
			practitioner.UpdatedAt,
		)
		if err != nil {
			return translateError(err)
		}
		return r.insertSpecialties(ctx, tx, practitioner.ID, specialtyIDs)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create practitioner: %w", err)
	}
	return nil
}

func (r *practitionerRepository) Update(ctx context.Context, practitioner *model.Practitioner, specialtyIDs []uuid.UUID) error {
	practitioner.UpdatedAt = time.Now()

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE practitioners
			SET name = $1, phone = $2, secondary_phone = $3,
			    default_duration_minutes = $4, active = $5, updated_at = $6
			WHERE id = $7 AND clinic_id = $8
		`
		result, err := tx.ExecContext(ctx, query,
			practitioner.Name,
			practitioner.Phone,
			practitioner.SecondaryPhone,
			practitioner.DefaultDuration,
			practitioner.Active,
			practitioner.UpdatedAt,
			practitioner.ID,
			practitioner.ClinicID,
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

		// Clear-then-add replacement of the association set.
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM practitioner_specialties WHERE practitioner_id = $1`,
			practitioner.ID,
		); err != nil {
			return err
		}
		return r.insertSpecialties(ctx, tx, practitioner.ID, specialtyIDs)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrDuplicateKey) {
			return err
		}
		return fmt.Errorf("failed to update practitioner: %w", err)
	}
	return nil
}

func (r *practitionerRepository) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM practitioner_specialties WHERE practitioner_id = $1`,
			id,
		); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM practitioners WHERE id = $1 AND clinic_id = $2`,
			id, clinicID,
		)
		if err != nil {
			return err
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
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to delete practitioner: %w", err)
	}
	return nil
}

func (r *practitionerRepository) insertSpecialties(ctx context.Context, tx *sqlx.Tx, practitionerID uuid.UUID, specialtyIDs []uuid.UUID) error {
	for _, specialtyID := range specialtyIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO practitioner_specialties (practitioner_id, specialty_id) VALUES ($1, $2)`,
			practitionerID, specialtyID,
		); err != nil {
			return translateError(err)
		}
	}
	return nil
}

func (r *practitionerRepository) loadSpecialties(ctx context.Context, practitioners []*model.Practitioner) error {
	if len(practitioners) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(practitioners))
	byID := make(map[uuid.UUID]*model.Practitioner, len(practitioners))
	for _, p := range practitioners {
		ids = append(ids, p.ID)
		byID[p.ID] = p
		p.Specialties = []*model.Specialty{}
	}

	query, args, err := sqlx.In(`
		SELECT ps.practitioner_id, s.id, s.clinic_id, s.name, s.created_at, s.updated_at
		FROM practitioner_specialties ps
		JOIN specialties s ON s.id = ps.specialty_id
		WHERE ps.practitioner_id IN (?)
		ORDER BY s.name ASC
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build specialty query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to load specialties: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var practitionerID uuid.UUID
		var s model.Specialty
		if err := rows.Scan(&practitionerID, &s.ID, &s.ClinicID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan specialty: %w", err)
		}
		if p, ok := byID[practitionerID]; ok {
			p.Specialties = append(p.Specialties, &s)
		}
	}
	return rows.Err()
}
