package specialty

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

type SpecialtyServicer interface {
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Specialty, error)
	GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Specialty, error)
	GetManyByIDsAndClinic(ctx context.Context, ids []uuid.UUID, clinicID uuid.UUID) ([]*model.Specialty, error)
	Create(ctx context.Context, clinicID uuid.UUID, name string) (*model.Specialty, error)
	Update(ctx context.Context, id, clinicID uuid.UUID, name string) (*model.Specialty, error)
	Delete(ctx context.Context, id, clinicID uuid.UUID) error
}

type Service struct {
	repo    repository.SpecialtyRepository
	clinics clinic.ClinicServicer
}

func NewService(repo repository.SpecialtyRepository, clinics clinic.ClinicServicer) *Service {
	return &Service{repo: repo, clinics: clinics}
}

func (s *Service) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Specialty, error) {
	return s.repo.ListByClinic(ctx, clinicID)
}

// GetByIDAndClinic returns NotFound both when the id does not exist and when
// it belongs to another clinic; callers cannot tell the two apart.
func (s *Service) GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Specialty, error) {
	specialty, err := s.repo.GetByIDAndClinic(ctx, id, clinicID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("specialty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get specialty: %w", err)
	}
	return specialty, nil
}

// GetManyByIDsAndClinic resolves every id, failing on the first missing one.
// Duplicate ids collapse into a single entry.
func (s *Service) GetManyByIDsAndClinic(ctx context.Context, ids []uuid.UUID, clinicID uuid.UUID) ([]*model.Specialty, error) {
	if len(ids) == 0 {
		return nil, apperrors.BusinessRule("at least one specialty must be provided")
	}

	seen := make(map[uuid.UUID]bool, len(ids))
	specialties := make([]*model.Specialty, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		specialty, err := s.GetByIDAndClinic(ctx, id, clinicID)
		if err != nil {
			return nil, err
		}
		specialties = append(specialties, specialty)
	}
	return specialties, nil
}

func (s *Service) Create(ctx context.Context, clinicID uuid.UUID, name string) (*model.Specialty, error) {
	exists, err := s.clinics.Exists(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("clinic")
	}

	taken, err := s.repo.ExistsByNameAndClinic(ctx, name, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to check specialty name: %w", err)
	}
	if taken {
		return nil, apperrors.Conflict(fmt.Sprintf("a specialty named %q already exists in this clinic", name))
	}

	specialty := &model.Specialty{
		ClinicID: clinicID,
		Name:     name,
	}
	if err := s.repo.Create(ctx, specialty); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.Conflict(fmt.Sprintf("a specialty named %q already exists in this clinic", name))
		}
		return nil, fmt.Errorf("failed to create specialty: %w", err)
	}
	return specialty, nil
}

// Update re-validates name uniqueness only when the name actually changes; a
// no-op rename always succeeds.
func (s *Service) Update(ctx context.Context, id, clinicID uuid.UUID, name string) (*model.Specialty, error) {
	existing, err := s.GetByIDAndClinic(ctx, id, clinicID)
	if err != nil {
		return nil, err
	}

	if existing.Name != name {
		taken, err := s.repo.ExistsByNameAndClinic(ctx, name, clinicID)
		if err != nil {
			return nil, fmt.Errorf("failed to check specialty name: %w", err)
		}
		if taken {
			return nil, apperrors.Conflict(fmt.Sprintf("a specialty named %q already exists in this clinic", name))
		}
	}

	existing.Name = name
	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.Conflict(fmt.Sprintf("a specialty named %q already exists in this clinic", name))
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("specialty")
		}
		return nil, fmt.Errorf("failed to update specialty: %w", err)
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
	if _, err := s.GetByIDAndClinic(ctx, id, clinicID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, clinicID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("specialty")
		}
		return fmt.Errorf("failed to delete specialty: %w", err)
	}
	return nil
}
