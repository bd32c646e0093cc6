package clinic

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/multiclinicas/clinic-api/internal/model"
	"github.com/multiclinicas/clinic-api/internal/repository"
	apperrors "github.com/multiclinicas/clinic-api/pkg/errors"
)

// ClinicServicer is the registry consulted by every create path and by the
// tenant middleware. Clinics are provisioned out of band; Create exists for
// that provisioning surface only.
type ClinicServicer interface {
	CreateClinic(ctx context.Context, clinic *model.Clinic) error
	GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	ListClinics(ctx context.Context) ([]*model.Clinic, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo repository.ClinicRepository
	// Existence lookups run on every tenant-resolved request, so positive
	// results are cached briefly. Negative results are never cached.
	existence *cache.Cache
}

func NewService(repo repository.ClinicRepository) *Service {
	return &Service{
		repo:      repo,
		existence: cache.New(5*time.Minute, 15*time.Minute),
	}
}

func (s *Service) CreateClinic(ctx context.Context, clinic *model.Clinic) error {
	if clinic.Status == "" {
		clinic.Status = "active"
	}
	if err := s.repo.Create(ctx, clinic); err != nil {
		return fmt.Errorf("failed to create clinic: %w", err)
	}
	return nil
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	clinic, err := s.repo.Get(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("clinic")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return clinic, nil
}

func (s *Service) ListClinics(ctx context.Context) ([]*model.Clinic, error) {
	clinics, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return clinics, nil
}

func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	key := id.String()
	if _, found := s.existence.Get(key); found {
		return true, nil
	}

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check clinic existence: %w", err)
	}
	if exists {
		s.existence.SetDefault(key, struct{}{})
	}
	return exists, nil
}
