package practitioner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/multiclinicas/clinic-api/internal/model"
	"github.com/multiclinicas/clinic-api/internal/repository"
	"github.com/multiclinicas/clinic-api/internal/service/clinic"
	"github.com/multiclinicas/clinic-api/internal/service/specialty"
	apperrors "github.com/multiclinicas/clinic-api/pkg/errors"
)

type PractitionerServicer interface {
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Practitioner, error)
	ListActiveByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Practitioner, error)
	GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Practitioner, error)
	Create(ctx context.Context, clinicID uuid.UUID, req *model.CreatePractitionerRequest) (*model.Practitioner, error)
	Update(ctx context.Context, id, clinicID uuid.UUID, req *model.UpdatePractitionerRequest) (*model.Practitioner, error)
	Delete(ctx context.Context, id, clinicID uuid.UUID) error
}

type Service struct {
	repo        repository.PractitionerRepository
	clinics     clinic.ClinicServicer
	specialties specialty.SpecialtyServicer
}

func NewService(repo repository.PractitionerRepository, clinics clinic.ClinicServicer, specialties specialty.SpecialtyServicer) *Service {
	return &Service{
		repo:        repo,
		clinics:     clinics,
		specialties: specialties,
	}
}

func (s *Service) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Practitioner, error) {
	return s.repo.ListByClinic(ctx, clinicID)
}

func (s *Service) ListActiveByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Practitioner, error) {
	return s.repo.ListActiveByClinic(ctx, clinicID)
}

func (s *Service) GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Practitioner, error) {
	practitioner, err := s.repo.GetByIDAndClinic(ctx, id, clinicID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("practitioner")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}
	return practitioner, nil
}

func (s *Service) Create(ctx context.Context, clinicID uuid.UUID, req *model.CreatePractitionerRequest) (*model.Practitioner, error) {
	exists, err := s.clinics.Exists(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("clinic")
	}

	// Every referenced specialty must belong to the same clinic; an empty set
	// is rejected here before anything is written.
	specialties, err := s.specialties.GetManyByIDsAndClinic(ctx, req.SpecialtyIDs, clinicID)
	if err != nil {
		return nil, err
	}

	practitioner := &model.Practitioner{
		ClinicID:        clinicID,
		Name:            req.Name,
		LicenseNumber:   req.LicenseNumber,
		Phone:           req.Phone,
		SecondaryPhone:  req.SecondaryPhone,
		DefaultDuration: req.DefaultDuration,
		Active:          true,
		Specialties:     specialties,
	}
	if req.Active != nil {
		practitioner.Active = *req.Active
	}

	if err := s.repo.Create(ctx, practitioner, specialtyIDs(specialties)); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.Conflict(fmt.Sprintf("a practitioner with license %q already exists in this clinic", req.LicenseNumber))
		}
		return nil, fmt.Errorf("failed to create practitioner: %w", err)
	}
	return practitioner, nil
}

// Update overwrites the mutable scalar fields wholesale and replaces the
// entire specialty association set. An empty specialty list clears every
// association.
func (s *Service) Update(ctx context.Context, id, clinicID uuid.UUID, req *model.UpdatePractitionerRequest) (*model.Practitioner, error) {
	existing, err := s.GetByIDAndClinic(ctx, id, clinicID)
	if err != nil {
		return nil, err
	}

	var specialties []*model.Specialty
	if len(req.SpecialtyIDs) > 0 {
		specialties, err = s.specialties.GetManyByIDsAndClinic(ctx, req.SpecialtyIDs, clinicID)
		if err != nil {
			return nil, err
		}
	} else {
		specialties = []*model.Specialty{}
	}

	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.SecondaryPhone = req.SecondaryPhone
	existing.DefaultDuration = req.DefaultDuration
	existing.Active = req.Active
	existing.Specialties = specialties

	if err := s.repo.Update(ctx, existing, specialtyIDs(specialties)); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.Conflict("practitioner update violates a uniqueness constraint")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("practitioner")
		}
		return nil, fmt.Errorf("failed to update practitioner: %w", err)
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
	if _, err := s.GetByIDAndClinic(ctx, id, clinicID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, clinicID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("practitioner")
		}
		return fmt.Errorf("failed to delete practitioner: %w", err)
	}
	return nil
}

func specialtyIDs(specialties []*model.Specialty) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(specialties))
	for _, s := range specialties {
		ids = append(ids, s.ID)
	}
	return ids
}
