package patient

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiclinicas/clinic-api/internal/model"
	"github.com/multiclinicas/clinic-api/internal/repository"
	apperrors "github.com/multiclinicas/clinic-api/pkg/errors"
)

var _ repository.PatientRepository = (*mockPatientRepo)(nil)

type mockPatientRepo struct {
	ListByClinicFunc     func(ctx context.Context, clinicID uuid.UUID) ([]*model.Patient, error)
	GetByIDAndClinicFunc func(ctx context.Context, id, clinicID uuid.UUID) (*model.Patient, error)
	CreateFunc           func(ctx context.Context, patient *model.Patient) error
	UpdateFunc           func(ctx context.Context, patient *model.Patient) error
	DeleteFunc           func(ctx context.Context, id, clinicID uuid.UUID) error
}

func (m *mockPatientRepo) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Patient, error) {
	return m.ListByClinicFunc(ctx, clinicID)
}

func (m *mockPatientRepo) GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Patient, error) {
	return m.GetByIDAndClinicFunc(ctx, id, clinicID)
}

func (m *mockPatientRepo) Create(ctx context.Context, patient *model.Patient) error {
	return m.CreateFunc(ctx, patient)
}

func (m *mockPatientRepo) Update(ctx context.Context, patient *model.Patient) error {
	return m.UpdateFunc(ctx, patient)
}

func (m *mockPatientRepo) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
	return m.DeleteFunc(ctx, id, clinicID)
}

type mockClinicService struct {
	ExistsFunc func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *mockClinicService) CreateClinic(ctx context.Context, clinic *model.Clinic) error {
	return nil
}

func (m *mockClinicService) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	return nil, nil
}

func (m *mockClinicService) ListClinics(ctx context.Context) ([]*model.Clinic, error) {
	return nil, nil
}

func (m *mockClinicService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.ExistsFunc(ctx, id)
}

func TestCreate_ClinicMissing(t *testing.T) {
	clinics := &mockClinicService{
		ExistsFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
			return false, nil
		},
	}
	svc := NewService(&mockPatientRepo{}, clinics)

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreatePatientRequest{Name: "João"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreate_OK(t *testing.T) {
	clinicID := uuid.New()
	clinics := &mockClinicService{
		ExistsFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	repo := &mockPatientRepo{
		CreateFunc: func(ctx context.Context, patient *model.Patient) error {
			return nil
		},
	}
	svc := NewService(repo, clinics)

	p, err := svc.Create(context.Background(), clinicID, &model.CreatePatientRequest{
		Name:  "João",
		Email: "joao@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, clinicID, p.ClinicID)
	assert.Equal(t, "João", p.Name)
}

func TestGetByIDAndClinic_CrossTenantLooksMissing(t *testing.T) {
	repo := &mockPatientRepo{
		GetByIDAndClinicFunc: func(ctx context.Context, id, clinicID uuid.UUID) (*model.Patient, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewService(repo, &mockClinicService{})

	_, err := svc.GetByIDAndClinic(context.Background(), uuid.New(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdate_OverwritesFields(t *testing.T) {
	clinicID := uuid.New()
	repo := &mockPatientRepo{
		GetByIDAndClinicFunc: func(ctx context.Context, id, cID uuid.UUID) (*model.Patient, error) {
			return &model.Patient{
				Base:     model.Base{ID: id},
				ClinicID: cID,
				Name:     "João",
				Phone:    "11 99999-0000",
			}, nil
		},
		UpdateFunc: func(ctx context.Context, patient *model.Patient) error {
			return nil
		},
	}
	svc := NewService(repo, &mockClinicService{})

	p, err := svc.Update(context.Background(), uuid.New(), clinicID, &model.UpdatePatientRequest{
		Name: "João Silva",
	})
	require.NoError(t, err)
	assert.Equal(t, "João Silva", p.Name)
	assert.Empty(t, p.Phone)
}
