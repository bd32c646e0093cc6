package healthplan

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

var _ repository.HealthPlanRepository = (*mockHealthPlanRepo)(nil)

type mockHealthPlanRepo struct {
	ListByClinicFunc          func(ctx context.Context, clinicID uuid.UUID) ([]*model.HealthPlan, error)
	ListActiveByClinicFunc    func(ctx context.Context, clinicID uuid.UUID) ([]*model.HealthPlan, error)
	GetFunc                   func(ctx context.Context, id uuid.UUID) (*model.HealthPlan, error)
	ExistsByNameAndClinicFunc func(ctx context.Context, name string, clinicID uuid.UUID) (bool, error)
	CreateFunc                func(ctx context.Context, plan *model.HealthPlan) error
	UpdateFunc                func(ctx context.Context, plan *model.HealthPlan) error
	DeleteFunc                func(ctx context.Context, id, clinicID uuid.UUID) error
}

func (m *mockHealthPlanRepo) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.HealthPlan, error) {
	return m.ListByClinicFunc(ctx, clinicID)
}

func (m *mockHealthPlanRepo) ListActiveByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.HealthPlan, error) {
	return m.ListActiveByClinicFunc(ctx, clinicID)
}

func (m *mockHealthPlanRepo) Get(ctx context.Context, id uuid.UUID) (*model.HealthPlan, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockHealthPlanRepo) ExistsByNameAndClinic(ctx context.Context, name string, clinicID uuid.UUID) (bool, error) {
	return m.ExistsByNameAndClinicFunc(ctx, name, clinicID)
}

func (m *mockHealthPlanRepo) Create(ctx context.Context, plan *model.HealthPlan) error {
	return m.CreateFunc(ctx, plan)
}

func (m *mockHealthPlanRepo) Update(ctx context.Context, plan *model.HealthPlan) error {
	return m.UpdateFunc(ctx, plan)
}

func (m *mockHealthPlanRepo) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
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

func TestGetByIDAndClinic_OtherClinicPlanLooksMissing(t *testing.T) {
	planID := uuid.New()
	repo := &mockHealthPlanRepo{
		GetFunc: func(ctx context.Context, id uuid.UUID) (*model.HealthPlan, error) {
			return &model.HealthPlan{
				Base:     model.Base{ID: id},
				ClinicID: uuid.New(),
				Name:     "Gold",
				Active:   true,
			}, nil
		},
	}
	svc := NewService(repo, &mockClinicService{})

	_, err := svc.GetByIDAndClinic(context.Background(), planID, uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetByIDAndClinic_OK(t *testing.T) {
	clinicID := uuid.New()
	repo := &mockHealthPlanRepo{
		GetFunc: func(ctx context.Context, id uuid.UUID) (*model.HealthPlan, error) {
			return &model.HealthPlan{
				Base:     model.Base{ID: id},
				ClinicID: clinicID,
				Name:     "Gold",
				Active:   true,
			}, nil
		},
	}
	svc := NewService(repo, &mockClinicService{})

	plan, err := svc.GetByIDAndClinic(context.Background(), uuid.New(), clinicID)
	require.NoError(t, err)
	assert.Equal(t, "Gold", plan.Name)
}

func TestCreate_ActiveDefaultsTrue(t *testing.T) {
	clinics := &mockClinicService{
		ExistsFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	repo := &mockHealthPlanRepo{
		ExistsByNameAndClinicFunc: func(ctx context.Context, name string, clinicID uuid.UUID) (bool, error) {
			return false, nil
		},
		CreateFunc: func(ctx context.Context, plan *model.HealthPlan) error {
			return nil
		},
	}
	svc := NewService(repo, clinics)

	plan, err := svc.Create(context.Background(), uuid.New(), "Silver", nil)
	require.NoError(t, err)
	assert.True(t, plan.Active)
}

func TestCreate_ExplicitInactive(t *testing.T) {
	clinics := &mockClinicService{
		ExistsFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	repo := &mockHealthPlanRepo{
		ExistsByNameAndClinicFunc: func(ctx context.Context, name string, clinicID uuid.UUID) (bool, error) {
			return false, nil
		},
		CreateFunc: func(ctx context.Context, plan *model.HealthPlan) error {
			return nil
		},
	}
	svc := NewService(repo, clinics)

	inactive := false
	plan, err := svc.Create(context.Background(), uuid.New(), "Silver", &inactive)
	require.NoError(t, err)
	assert.False(t, plan.Active)
}

func TestCreate_DuplicateName(t *testing.T) {
	clinics := &mockClinicService{
		ExistsFunc: func(ctx context.Context, id uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	repo := &mockHealthPlanRepo{
		ExistsByNameAndClinicFunc: func(ctx context.Context, name string, clinicID uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	svc := NewService(repo, clinics)

	_, err := svc.Create(context.Background(), uuid.New(), "Gold", nil)
	assert.True(t, apperrors.IsConflict(err))
}

func TestUpdate_RenameToTakenName(t *testing.T) {
	clinicID := uuid.New()
	repo := &mockHealthPlanRepo{
		GetFunc: func(ctx context.Context, id uuid.UUID) (*model.HealthPlan, error) {
			return &model.HealthPlan{
				Base:     model.Base{ID: id},
				ClinicID: clinicID,
				Name:     "Silver",
				Active:   true,
			}, nil
		},
		ExistsByNameAndClinicFunc: func(ctx context.Context, name string, cID uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	svc := NewService(repo, &mockClinicService{})

	_, err := svc.Update(context.Background(), uuid.New(), clinicID, "Gold", true)
	assert.True(t, apperrors.IsConflict(err))
}

func TestUpdate_DeactivatePlan(t *testing.T) {
	clinicID := uuid.New()
	var saved *model.HealthPlan
	repo := &mockHealthPlanRepo{
		GetFunc: func(ctx context.Context, id uuid.UUID) (*model.HealthPlan, error) {
			return &model.HealthPlan{
				Base:     model.Base{ID: id},
				ClinicID: clinicID,
				Name:     "Gold",
				Active:   true,
			}, nil
		},
		UpdateFunc: func(ctx context.Context, plan *model.HealthPlan) error {
			saved = plan
			return nil
		},
	}
	svc := NewService(repo, &mockClinicService{})

	plan, err := svc.Update(context.Background(), uuid.New(), clinicID, "Gold", false)
	require.NoError(t, err)
	assert.False(t, plan.Active)
	require.NotNil(t, saved)
	assert.False(t, saved.Active)
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockHealthPlanRepo{
		GetFunc: func(ctx context.Context, id uuid.UUID) (*model.HealthPlan, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewService(repo, &mockClinicService{})

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}
