package specialty

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

var _ repository.SpecialtyRepository = (*mockSpecialtyRepo)(nil)

type mockSpecialtyRepo struct {
	ListByClinicFunc          func(ctx context.Context, clinicID uuid.UUID) ([]*model.Specialty, error)
	GetByIDAndClinicFunc      func(ctx context.Context, id, clinicID uuid.UUID) (*model.Specialty, error)
	ExistsByNameAndClinicFunc func(ctx context.Context, name string, clinicID uuid.UUID) (bool, error)
	CreateFunc                func(ctx context.Context, specialty *model.Specialty) error
	UpdateFunc                func(ctx context.Context, specialty *model.Specialty) error
	DeleteFunc                func(ctx context.Context, id, clinicID uuid.UUID) error
}

func (m *mockSpecialtyRepo) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Specialty, error) {
	return m.ListByClinicFunc(ctx, clinicID)
}

func (m *mockSpecialtyRepo) GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Specialty, error) {
	return m.GetByIDAndClinicFunc(ctx, id, clinicID)
}

func (m *mockSpecialtyRepo) ExistsByNameAndClinic(ctx context.Context, name string, clinicID uuid.UUID) (bool, error) {
	return m.ExistsByNameAndClinicFunc(ctx, name, clinicID)
}

func (m *mockSpecialtyRepo) Create(ctx context.Context, specialty *model.Specialty) error {
	return m.CreateFunc(ctx, specialty)
}

func (m *mockSpecialtyRepo) Update(ctx context.Context, specialty *model.Specialty) error {
	return m.UpdateFunc(ctx, specialty)
}

func (m *mockSpecialtyRepo) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
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

func TestGetByIDAndClinic_NotFound(t *testing.T) {
	repo := &mockSpecialtyRepo{
		GetByIDAndClinicFunc: func(ctx context.Context, id, clinicID uuid.UUID) (*model.Specialty, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewService(repo, &mockClinicService{})

	_, err := svc.GetByIDAndClinic(context.Background(), uuid.New(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetManyByIDsAndClinic_EmptyList(t *testing.T) {
	svc := NewService(&mockSpecialtyRepo{}, &mockClinicService{})

	_, err := svc.GetManyByIDsAndClinic(context.Background(), nil, uuid.New())
	assert.True(t, apperrors.IsBusinessRule(err))
}

func TestGetManyByIDsAndClinic_DeduplicatesIDs(t *testing.T) {
	clinicID := uuid.New()
	specialtyID := uuid.New()
	calls := 0

	repo := &mockSpecialtyRepo{
		GetByIDAndClinicFunc: func(ctx context.Context, id, cID uuid.UUID) (*model.Specialty, error) {
			calls++
			return &model.Specialty{Base: model.Base{ID: id}, ClinicID: cID, Name: "Cardiology"}, nil
		},
	}
	svc := NewService(repo, &mockClinicService{})

	specialties, err := svc.GetManyByIDsAndClinic(context.Background(), []uuid.UUID{specialtyID, specialtyID}, clinicID)
	require.NoError(t, err)
	assert.Len(t, specialties, 1)
	assert.Equal(t, 1, calls)
}

func TestGetManyByIDsAndClinic_MissingID(t *testing.T) {
	repo := &mockSpecialtyRepo{
		GetByIDAndClinicFunc: func(ctx context.Context, id, clinicID uuid.UUID) (*model.Specialty, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewService(repo, &mockClinicService{})

	_, err := svc.GetManyByIDsAndClinic(context.Background(), []uuid.UUID{uuid.New()}, uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreate_ClinicMissing(t *testing.T) {
	clinics := &mockClinicService{
		ExistsFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
			return false, nil
		},
	}
	svc := NewService(&mockSpecialtyRepo{}, clinics)

	_, err := svc.Create(context.Background(), uuid.New(), "Dermatology")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreate_DuplicateName(t *testing.T) {
	clinics := &mockClinicService{
		ExistsFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	repo := &mockSpecialtyRepo{
		ExistsByNameAndClinicFunc: func(ctx context.Context, name string, clinicID uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	svc := NewService(repo, clinics)

	_, err := svc.Create(context.Background(), uuid.New(), "Dermatology")
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreate_DuplicateNameRace(t *testing.T) {
	clinics := &mockClinicService{
		ExistsFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	repo := &mockSpecialtyRepo{
		ExistsByNameAndClinicFunc: func(ctx context.Context, name string, clinicID uuid.UUID) (bool, error) {
			return false, nil
		},
		CreateFunc: func(ctx context.Context, specialty *model.Specialty) error {
			return repository.ErrDuplicateKey
		},
	}
	svc := NewService(repo, clinics)

	_, err := svc.Create(context.Background(), uuid.New(), "Dermatology")
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreate_OK(t *testing.T) {
	clinicID := uuid.New()
	clinics := &mockClinicService{
		ExistsFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	repo := &mockSpecialtyRepo{
		ExistsByNameAndClinicFunc: func(ctx context.Context, name string, cID uuid.UUID) (bool, error) {
			return false, nil
		},
		CreateFunc: func(ctx context.Context, specialty *model.Specialty) error {
			return nil
		},
	}
	svc := NewService(repo, clinics)

	sp, err := svc.Create(context.Background(), clinicID, "Pediatrics")
	require.NoError(t, err)
	assert.Equal(t, clinicID, sp.ClinicID)
	assert.Equal(t, "Pediatrics", sp.Name)
}

func TestUpdate_SameNameSkipsUniquenessCheck(t *testing.T) {
	clinicID := uuid.New()
	specialtyID := uuid.New()

	repo := &mockSpecialtyRepo{
		GetByIDAndClinicFunc: func(ctx context.Context, id, cID uuid.UUID) (*model.Specialty, error) {
			return &model.Specialty{Base: model.Base{ID: id}, ClinicID: cID, Name: "Pediatrics"}, nil
		},
		ExistsByNameAndClinicFunc: func(ctx context.Context, name string, cID uuid.UUID) (bool, error) {
			t.Fatal("uniqueness check should be skipped for an unchanged name")
			return false, nil
		},
		UpdateFunc: func(ctx context.Context, specialty *model.Specialty) error {
			return nil
		},
	}
	svc := NewService(repo, &mockClinicService{})

	sp, err := svc.Update(context.Background(), specialtyID, clinicID, "Pediatrics")
	require.NoError(t, err)
	assert.Equal(t, "Pediatrics", sp.Name)
}

func TestUpdate_RenameToTakenName(t *testing.T) {
	repo := &mockSpecialtyRepo{
		GetByIDAndClinicFunc: func(ctx context.Context, id, cID uuid.UUID) (*model.Specialty, error) {
			return &model.Specialty{Base: model.Base{ID: id}, ClinicID: cID, Name: "Pediatrics"}, nil
		},
		ExistsByNameAndClinicFunc: func(ctx context.Context, name string, cID uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	svc := NewService(repo, &mockClinicService{})

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), "Cardiology")
	assert.True(t, apperrors.IsConflict(err))
}

func TestDelete_CrossTenantLooksMissing(t *testing.T) {
	repo := &mockSpecialtyRepo{
		GetByIDAndClinicFunc: func(ctx context.Context, id, clinicID uuid.UUID) (*model.Specialty, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewService(repo, &mockClinicService{})

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}
