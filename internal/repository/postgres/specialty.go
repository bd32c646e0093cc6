package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/multiclinicas/clinic-api/internal/model"
	"github.com/multiclinicas/clinic-api/internal/repository"
)

type specialtyRepository struct {
	BaseRepository
}

func NewSpecialtyRepository(base BaseRepository) repository.SpecialtyRepository {
	return &specialtyRepository{base}
}

func (r *specialtyRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Specialty, error) {
	query := `
		SELECT id, clinic_id, name, created_at, updated_at
		FROM specialties
		WHERE clinic_id = $1
		ORDER BY name ASC
	`
	var specialties []*model.Specialty
	if err := r.db.SelectContext(ctx, &specialties, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list specialties: %w", err)
	}
	return specialties, nil
}

func (r *specialtyRepository) GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Specialty, error) {
	query := `
		SELECT id, clinic_id, name, created_at, updated_at
		FROM specialties
		WHERE id = $1 AND clinic_id = $2
	`
	var specialty model.Specialty
	err := r.db.GetContext(ctx, &specialty, query, id, clinicID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get specialty: %w", err)
	}
	return &specialty, nil
}

func (r *specialtyRepository) ExistsByNameAndClinic(ctx context.Context, name string, clinicID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM specialties WHERE name = $1 AND clinic_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name, clinicID); err != nil {
		return false, fmt.Errorf("failed to check specialty name: %w", err)
	}
	return exists, nil
}

func (r *specialtyRepository) Create(ctx context.Context, specialty *model.Specialty) error {
	query := `
		INSERT INTO specialties (id, clinic_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	specialty.ID = uuid.New()
	specialty.CreatedAt = time.Now()
	specialty.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		specialty.ID,
		specialty.ClinicID,
		specialty.Name,
		specialty.CreatedAt,
		specialty.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create specialty: %w", translateError(err))
	}
	return nil
}

func (r *specialtyRepository) Update(ctx context.Context, specialty *model.Specialty) error {
	query := `
		UPDATE specialties
		SET name = $1, updated_at = $2
		WHERE id = $3 AND clinic_id = $4
	`
	specialty.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		specialty.Name,
		specialty.UpdatedAt,
		specialty.ID,
		specialty.ClinicID,
	)
	if err != nil {
		return fmt.Errorf("failed to update specialty: %w", translateError(err))
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

func (r *specialtyRepository) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
	query := `DELETE FROM specialties WHERE id = $1 AND clinic_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete specialty: %w", err)
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
