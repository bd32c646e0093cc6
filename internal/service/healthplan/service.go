package healthplan

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/multiclinicas/clinic-api/internal/model"
	"github.com/multiclinicas/clinic-api/internal/repository"
	"github.com/multiclinicas/clinic-api/internal/service/clinic"
	apperrors "github.com/multiclinicas/clinic-api/pkg/errors"
)

type HealthPlanServicer interface {
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.HealthPlan, error)
	ListActiveByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.HealthPlan, error)
	GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.HealthPlan, error)
	Create(ctx context.Context, clinicID uuid.UUID, name string, active *bool) (*model.HealthPlan, error)
	Update(ctx context.Context, id, clinicID uuid.UUID, name string, active bool) (*model.HealthPlan, error)
	Delete(ctx context.Context, id, clinicID uuid.UUID) error
}

type Service struct {
	repo    repository.HealthPlanRepository
	clinics clinic.ClinicServicer
}

func NewService(repo repository.HealthPlanRepository, clinics clinic.ClinicServicer) *Service {
	return &Service{repo: repo, clinics: clinics}
}

func (s *Service) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.HealthPlan, error) {
	return s.repo.ListByClinic(ctx, clinicID)
}

func (s *Service) ListActiveByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.HealthPlan, error) {
	return s.repo.ListActiveByClinic(ctx, clinicID)
}

// GetByIDAndClinic fetches by id and checks ownership here rather than in the
// query. A plan of another clinic is indistinguishable from a missing one.
func (s *Service) GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.HealthPlan, error) {
	plan, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("health plan")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get health plan: %w", err)
	}
	if plan.ClinicID != clinicID {
		return nil, apperrors.NotFound("health plan")
	}
	return plan, nil
}

// Create pre-checks the name for a friendly Conflict message; the storage
// unique constraint remains the race-safe backstop.
func (s *Service) Create(ctx context.Context, clinicID uuid.UUID, name string, active *bool) (*model.HealthPlan, error) {
	exists, err := s.clinics.Exists(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("clinic")
	}

	taken, err := s.repo.ExistsByNameAndClinic(ctx, name, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to check health plan name: %w", err)
	}
	if taken {
		return nil, apperrors.Conflict(fmt.Sprintf("a health plan named %q already exists in this clinic", name))
	}

	plan := &model.HealthPlan{
		ClinicID: clinicID,
		Name:     name,
		Active:   true,
	}
	if active != nil {
		plan.Active = *active
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.Conflict(fmt.Sprintf("a health plan named %q already exists in this clinic", name))
		}
		return nil, fmt.Errorf("failed to create health plan: %w", err)
	}
	return plan, nil
}

// Update overwrites name and active flag unconditionally; callers resend the
// full representation.
func (s *Service) Update(ctx context.Context, id, clinicID uuid.UUID, name string, active bool) (*model.HealthPlan, error) {
	existing, err := s.GetByIDAndClinic(ctx, id, clinicID)
	if err != nil {
		return nil, err
	}

	if existing.Name != name {
		taken, err := s.repo.ExistsByNameAndClinic(ctx, name, clinicID)
		if err != nil {
			return nil, fmt.Errorf("failed to check health plan name: %w", err)
		}
		if taken {
			return nil, apperrors.Conflict(fmt.Sprintf("a health plan named %q already exists in this clinic", name))
		}
	}

	existing.Name = name
	existing.Active = active
	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.Conflict(fmt.Sprintf("a health plan named %q already exists in this clinic", name))
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("health plan")
		}
		return nil, fmt.Errorf("failed to update health plan: %w", err)
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
	if _, err := s.GetByIDAndClinic(ctx, id, clinicID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, clinicID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("health plan")
		}
		return fmt.Errorf("failed to delete health plan: %w", err)
	}
	return nil
}
