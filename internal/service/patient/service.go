package patient

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

type PatientServicer interface {
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Patient, error)
	GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Patient, error)
	Create(ctx context.Context, clinicID uuid.UUID, req *model.CreatePatientRequest) (*model.Patient, error)
	Update(ctx context.Context, id, clinicID uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	Delete(ctx context.Context, id, clinicID uuid.UUID) error
}

type Service struct {
	repo    repository.PatientRepository
	clinics clinic.ClinicServicer
}

func NewService(repo repository.PatientRepository, clinics clinic.ClinicServicer) *Service {
	return &Service{repo: repo, clinics: clinics}
}

func (s *Service) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Patient, error) {
	return s.repo.ListByClinic(ctx, clinicID)
}

func (s *Service) GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.GetByIDAndClinic(ctx, id, clinicID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("patient")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

func (s *Service) Create(ctx context.Context, clinicID uuid.UUID, req *model.CreatePatientRequest) (*model.Patient, error) {
	exists, err := s.clinics.Exists(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("clinic")
	}

	patient := &model.Patient{
		ClinicID:  clinicID,
		Name:      req.Name,
		Document:  req.Document,
		Phone:     req.Phone,
		Email:     req.Email,
		BirthDate: req.BirthDate,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) Update(ctx context.Context, id, clinicID uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	existing, err := s.GetByIDAndClinic(ctx, id, clinicID)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Document = req.Document
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.BirthDate = req.BirthDate

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient")
		}
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
	if _, err := s.GetByIDAndClinic(ctx, id, clinicID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, clinicID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("patient")
		}
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}
