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

type healthPlanRepository struct {
	BaseRepository
}

func NewHealthPlanRepository(base BaseRepository) repository.HealthPlanRepository {
	return &healthPlanRepository{base}
}

func (r *healthPlanRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.HealthPlan, error) {
	query := `
		SELECT id, clinic_id, name, active, created_at, updated_at
		FROM health_plans
		WHERE clinic_id = $1
		ORDER BY name ASC
	`
	var plans []*model.HealthPlan
	if err := r.db.SelectContext(ctx, &plans, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list health plans: %w", err)
	}
	return plans, nil
}

func (r *healthPlanRepository) ListActiveByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.HealthPlan, error) {
	query := `
		SELECT id, clinic_id, name, active, created_at, updated_at
		FROM health_plans
		WHERE clinic_id = $1 AND active = true
		ORDER BY name ASC
	`
	var plans []*model.HealthPlan
	if err := r.db.SelectContext(ctx, &plans, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list active health plans: %w", err)
	}
	return plans, nil
}

// Get fetches by primary key only; clinic ownership is checked by the service.
func (r *healthPlanRepository) Get(ctx context.Context, id uuid.UUID) (*model.HealthPlan, error) {
	query := `
		SELECT id, clinic_id, name, active, created_at, updated_at
		FROM health_plans
		WHERE id = $1
	`
	var plan model.HealthPlan
	err := r.db.GetContext(ctx, &plan, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get health plan: %w", err)
	}
	return &plan, nil
}

func (r *healthPlanRepository) ExistsByNameAndClinic(ctx context.Context, name string, clinicID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM health_plans WHERE name = $1 AND clinic_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name, clinicID); err != nil {
		return false, fmt.Errorf("failed to check health plan name: %w", err)
	}
	return exists, nil
}

func (r *healthPlanRepository) Create(ctx context.Context, plan *model.HealthPlan) error {
	query := `
		INSERT INTO health_plans (id, clinic_id, name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	plan.ID = uuid.New()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		plan.ID,
		plan.ClinicID,
		plan.Name,
		plan.Active,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create health plan: %w", translateError(err))
	}
	return nil
}

func (r *healthPlanRepository) Update(ctx context.Context, plan *model.HealthPlan) error {
	query := `
		UPDATE health_plans
		SET name = $1, active = $2, updated_at = $3
		WHERE id = $4 AND clinic_id = $5
	`
	plan.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		plan.Name,
		plan.Active,
		plan.UpdatedAt,
		plan.ID,
		plan.ClinicID,
	)
	if err != nil {
		return fmt.Errorf("failed to update health plan: %w", translateError(err))
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

func (r *healthPlanRepository) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
	query := `DELETE FROM health_plans WHERE id = $1 AND clinic_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete health plan: %w", err)
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
