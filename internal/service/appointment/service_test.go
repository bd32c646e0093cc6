package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiclinicas/clinic-api/internal/model"
	"github.com/multiclinicas/clinic-api/internal/repository"
	apperrors "github.com/multiclinicas/clinic-api/pkg/errors"
	"github.com/multiclinicas/clinic-api/pkg/metrics"
)

// Shared across tests; prometheus collectors register globally.
var testMetrics = metrics.NewMetrics("clinic_api_test")

var _ repository.AppointmentRepository = (*mockAppointmentRepo)(nil)

type mockAppointmentRepo struct {
	ListByClinicFunc     func(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	GetByIDAndClinicFunc func(ctx context.Context, id, clinicID uuid.UUID) (*model.Appointment, error)
	CreateFunc           func(ctx context.Context, appointment *model.Appointment) error
	RescheduleFunc       func(ctx context.Context, appointment *model.Appointment) error
	UpdateStatusFunc     func(ctx context.Context, id, clinicID uuid.UUID, status model.AppointmentStatus) error
	DeleteFunc           func(ctx context.Context, id, clinicID uuid.UUID) error
	SlotTakenFunc        func(ctx context.Context, clinicID, practitionerID uuid.UUID, date time.Time, startTime string, excludeID *uuid.UUID) (bool, error)
}

func (m *mockAppointmentRepo) ListByClinic(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return m.ListByClinicFunc(ctx, clinicID, filters)
}

func (m *mockAppointmentRepo) GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Appointment, error) {
	return m.GetByIDAndClinicFunc(ctx, id, clinicID)
}

func (m *mockAppointmentRepo) Create(ctx context.Context, appointment *model.Appointment) error {
	return m.CreateFunc(ctx, appointment)
}

func (m *mockAppointmentRepo) Reschedule(ctx context.Context, appointment *model.Appointment) error {
	return m.RescheduleFunc(ctx, appointment)
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, id, clinicID uuid.UUID, status model.AppointmentStatus) error {
	return m.UpdateStatusFunc(ctx, id, clinicID, status)
}

func (m *mockAppointmentRepo) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
	return m.DeleteFunc(ctx, id, clinicID)
}

func (m *mockAppointmentRepo) SlotTaken(ctx context.Context, clinicID, practitionerID uuid.UUID, date time.Time, startTime string, excludeID *uuid.UUID) (bool, error) {
	return m.SlotTakenFunc(ctx, clinicID, practitionerID, date, startTime, excludeID)
}

type mockPatientService struct {
	GetFunc func(ctx context.Context, id, clinicID uuid.UUID) (*model.Patient, error)
}

func (m *mockPatientService) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Patient, error) {
	return nil, nil
}

func (m *mockPatientService) GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Patient, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id, clinicID)
	}
	return &model.Patient{Base: model.Base{ID: id}, ClinicID: clinicID}, nil
}

func (m *mockPatientService) Create(ctx context.Context, clinicID uuid.UUID, req *model.CreatePatientRequest) (*model.Patient, error) {
	return nil, nil
}

func (m *mockPatientService) Update(ctx context.Context, id, clinicID uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	return nil, nil
}

func (m *mockPatientService) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
	return nil
}

type mockPractitionerService struct {
	GetFunc func(ctx context.Context, id, clinicID uuid.UUID) (*model.Practitioner, error)
}

func (m *mockPractitionerService) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Practitioner, error) {
	return nil, nil
}

func (m *mockPractitionerService) ListActiveByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Practitioner, error) {
	return nil, nil
}

func (m *mockPractitionerService) GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Practitioner, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id, clinicID)
	}
	return &model.Practitioner{Base: model.Base{ID: id}, ClinicID: clinicID}, nil
}

func (m *mockPractitionerService) Create(ctx context.Context, clinicID uuid.UUID, req *model.CreatePractitionerRequest) (*model.Practitioner, error) {
	return nil, nil
}

func (m *mockPractitionerService) Update(ctx context.Context, id, clinicID uuid.UUID, req *model.UpdatePractitionerRequest) (*model.Practitioner, error) {
	return nil, nil
}

func (m *mockPractitionerService) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
	return nil
}

type mockHealthPlanService struct {
	GetFunc func(ctx context.Context, id, clinicID uuid.UUID) (*model.HealthPlan, error)
}

func (m *mockHealthPlanService) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.HealthPlan, error) {
	return nil, nil
}

func (m *mockHealthPlanService) ListActiveByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.HealthPlan, error) {
	return nil, nil
}

func (m *mockHealthPlanService) GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.HealthPlan, error) {
	return m.GetFunc(ctx, id, clinicID)
}

func (m *mockHealthPlanService) Create(ctx context.Context, clinicID uuid.UUID, name string, active *bool) (*model.HealthPlan, error) {
	return nil, nil
}

func (m *mockHealthPlanService) Update(ctx context.Context, id, clinicID uuid.UUID, name string, active bool) (*model.HealthPlan, error) {
	return nil, nil
}

func (m *mockHealthPlanService) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
	return nil
}

var _ repository.OutboxRepository = (*mockOutboxRepo)(nil)

type mockOutboxRepo struct {
	events []*model.OutboxEvent
}

func (m *mockOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (m *mockOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	return nil
}

func (m *mockOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newTestService(repo *mockAppointmentRepo, plans *mockHealthPlanService, outbox *mockOutboxRepo) *Service {
	if plans == nil {
		plans = &mockHealthPlanService{}
	}
	if outbox == nil {
		outbox = &mockOutboxRepo{}
	}
	return NewService(repo, &mockPatientService{}, &mockPractitionerService{}, plans, outbox, testMetrics)
}

func createRequest() *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		PatientID:      uuid.New(),
		PractitionerID: uuid.New(),
		PaymentMode:    model.PaymentModeSelfPay,
		Date:           time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime:      "09:00",
		EndTime:        "09:30",
	}
}

func TestCreate_SlotConflict(t *testing.T) {
	repo := &mockAppointmentRepo{
		CreateFunc: func(ctx context.Context, appointment *model.Appointment) error {
			return repository.ErrDuplicateKey
		},
	}
	svc := newTestService(repo, nil, nil)

	_, err := svc.Create(context.Background(), uuid.New(), createRequest())
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreate_InvalidTimeRange(t *testing.T) {
	svc := newTestService(&mockAppointmentRepo{}, nil, nil)

	req := createRequest()
	req.StartTime = "10:00"
	req.EndTime = "09:00"
	_, err := svc.Create(context.Background(), uuid.New(), req)
	assert.True(t, apperrors.IsBusinessRule(err))
}

func TestCreate_SelfPayClearsPlan(t *testing.T) {
	var created *model.Appointment
	repo := &mockAppointmentRepo{
		CreateFunc: func(ctx context.Context, appointment *model.Appointment) error {
			created = appointment
			return nil
		},
	}
	svc := newTestService(repo, nil, nil)

	planID := uuid.New()
	req := createRequest()
	req.HealthPlanID = &planID

	appt, err := svc.Create(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.Nil(t, appt.HealthPlanID)
	require.NotNil(t, created)
	assert.Nil(t, created.HealthPlanID)
	assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
}

func TestCreate_HealthPlanModeRequiresPlan(t *testing.T) {
	svc := newTestService(&mockAppointmentRepo{}, nil, nil)

	req := createRequest()
	req.PaymentMode = model.PaymentModeHealthPlan
	req.HealthPlanID = nil

	_, err := svc.Create(context.Background(), uuid.New(), req)
	assert.True(t, apperrors.IsBusinessRule(err))
}

func TestCreate_CrossTenantPlanRejected(t *testing.T) {
	plans := &mockHealthPlanService{
		GetFunc: func(ctx context.Context, id, clinicID uuid.UUID) (*model.HealthPlan, error) {
			return nil, apperrors.NotFound("health plan")
		},
	}
	svc := newTestService(&mockAppointmentRepo{}, plans, nil)

	planID := uuid.New()
	req := createRequest()
	req.PaymentMode = model.PaymentModeHealthPlan
	req.HealthPlanID = &planID

	_, err := svc.Create(context.Background(), uuid.New(), req)
	assert.True(t, apperrors.IsBusinessRule(err))
}

func TestCreate_StagesOutboxEvent(t *testing.T) {
	outbox := &mockOutboxRepo{}
	repo := &mockAppointmentRepo{
		CreateFunc: func(ctx context.Context, appointment *model.Appointment) error {
			return nil
		},
	}
	svc := newTestService(repo, nil, outbox)

	_, err := svc.Create(context.Background(), uuid.New(), createRequest())
	require.NoError(t, err)
	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventAppointmentCreated, outbox.events[0].EventType)
}

func TestUpdate_TerminalStatusRejected(t *testing.T) {
	repo := &mockAppointmentRepo{
		GetByIDAndClinicFunc: func(ctx context.Context, id, clinicID uuid.UUID) (*model.Appointment, error) {
			return &model.Appointment{
				Base:     model.Base{ID: id},
				ClinicID: clinicID,
				Status:   model.AppointmentStatusCompleted,
			}, nil
		},
	}
	svc := newTestService(repo, nil, nil)

	req := &model.UpdateAppointmentRequest{
		PractitionerID: uuid.New(),
		PaymentMode:    model.PaymentModeSelfPay,
		Date:           time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime:      "10:00",
		EndTime:        "10:30",
	}
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), req)
	assert.True(t, apperrors.IsBusinessRule(err))
}

func TestUpdateStatus_Transitions(t *testing.T) {
	cases := []struct {
		name    string
		from    model.AppointmentStatus
		to      model.AppointmentStatus
		allowed bool
	}{
		{"scheduled to confirmed", model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed, true},
		{"scheduled to cancelled", model.AppointmentStatusScheduled, model.AppointmentStatusCancelled, true},
		{"confirmed to completed", model.AppointmentStatusConfirmed, model.AppointmentStatusCompleted, true},
		{"confirmed to cancelled", model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled, true},
		{"scheduled to completed", model.AppointmentStatusScheduled, model.AppointmentStatusCompleted, false},
		{"completed to cancelled", model.AppointmentStatusCompleted, model.AppointmentStatusCancelled, false},
		{"cancelled to scheduled", model.AppointmentStatusCancelled, model.AppointmentStatusScheduled, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockAppointmentRepo{
				GetByIDAndClinicFunc: func(ctx context.Context, id, clinicID uuid.UUID) (*model.Appointment, error) {
					return &model.Appointment{
						Base:     model.Base{ID: id},
						ClinicID: clinicID,
						Status:   tc.from,
					}, nil
				},
				UpdateStatusFunc: func(ctx context.Context, id, clinicID uuid.UUID, status model.AppointmentStatus) error {
					return nil
				},
			}
			svc := newTestService(repo, nil, nil)

			appt, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), tc.to)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, appt.Status)
			} else {
				assert.True(t, apperrors.IsBusinessRule(err))
			}
		})
	}
}

func TestCancel_StagesCancellationEvent(t *testing.T) {
	outbox := &mockOutboxRepo{}
	repo := &mockAppointmentRepo{
		GetByIDAndClinicFunc: func(ctx context.Context, id, clinicID uuid.UUID) (*model.Appointment, error) {
			return &model.Appointment{
				Base:     model.Base{ID: id},
				ClinicID: clinicID,
				Status:   model.AppointmentStatusScheduled,
			}, nil
		},
		UpdateStatusFunc: func(ctx context.Context, id, clinicID uuid.UUID, status model.AppointmentStatus) error {
			return nil
		},
	}
	svc := newTestService(repo, nil, outbox)

	appt, err := svc.Cancel(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, appt.Status)
	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventAppointmentCancelled, outbox.events[0].EventType)
}

func TestDelete_OnlyCancelled(t *testing.T) {
	repo := &mockAppointmentRepo{
		GetByIDAndClinicFunc: func(ctx context.Context, id, clinicID uuid.UUID) (*model.Appointment, error) {
			return &model.Appointment{
				Base:     model.Base{ID: id},
				ClinicID: clinicID,
				Status:   model.AppointmentStatusScheduled,
			}, nil
		},
	}
	svc := newTestService(repo, nil, nil)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assert.True(t, apperrors.IsBusinessRule(err))
}

func TestDelete_CancelledOK(t *testing.T) {
	repo := &mockAppointmentRepo{
		GetByIDAndClinicFunc: func(ctx context.Context, id, clinicID uuid.UUID) (*model.Appointment, error) {
			return &model.Appointment{
				Base:     model.Base{ID: id},
				ClinicID: clinicID,
				Status:   model.AppointmentStatusCancelled,
			}, nil
		},
		DeleteFunc: func(ctx context.Context, id, clinicID uuid.UUID) error {
			return nil
		},
	}
	svc := newTestService(repo, nil, nil)

	assert.NoError(t, svc.Delete(context.Background(), uuid.New(), uuid.New()))
}

func TestGetByIDAndClinic_CrossTenantLooksMissing(t *testing.T) {
	repo := &mockAppointmentRepo{
		GetByIDAndClinicFunc: func(ctx context.Context, id, clinicID uuid.UUID) (*model.Appointment, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := newTestService(repo, nil, nil)

	_, err := svc.GetByIDAndClinic(context.Background(), uuid.New(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}
