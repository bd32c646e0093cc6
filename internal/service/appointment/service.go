package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/multiclinicas/clinic-api/internal/model"
	"github.com/multiclinicas/clinic-api/internal/repository"
	"github.com/multiclinicas/clinic-api/internal/service/healthplan"
	"github.com/multiclinicas/clinic-api/internal/service/patient"
	"github.com/multiclinicas/clinic-api/internal/service/practitioner"
	apperrors "github.com/multiclinicas/clinic-api/pkg/errors"
	"github.com/multiclinicas/clinic-api/pkg/metrics"
)

type AppointmentServicer interface {
	ListByClinic(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Appointment, error)
	Create(ctx context.Context, clinicID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	Update(ctx context.Context, id, clinicID uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id, clinicID uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error)
	Cancel(ctx context.Context, id, clinicID uuid.UUID) (*model.Appointment, error)
	Delete(ctx context.Context, id, clinicID uuid.UUID) error
}

// validTransitions is the appointment state machine: scheduled → confirmed →
// completed, with cancelled reachable from scheduled or confirmed. Completed
// and cancelled are terminal.
var validTransitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusScheduled: {model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled},
	model.AppointmentStatusConfirmed: {model.AppointmentStatusCompleted, model.AppointmentStatusCancelled},
	model.AppointmentStatusCompleted: {},
	model.AppointmentStatusCancelled: {},
}

type Service struct {
	repo          repository.AppointmentRepository
	patients      patient.PatientServicer
	practitioners practitioner.PractitionerServicer
	plans         healthplan.HealthPlanServicer
	outbox        repository.OutboxRepository
	metrics       *metrics.Metrics
}

func NewService(
	repo repository.AppointmentRepository,
	patients patient.PatientServicer,
	practitioners practitioner.PractitionerServicer,
	plans healthplan.HealthPlanServicer,
	outbox repository.OutboxRepository,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:          repo,
		patients:      patients,
		practitioners: practitioners,
		plans:         plans,
		outbox:        outbox,
		metrics:       m,
	}
}

func (s *Service) ListByClinic(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.ListByClinic(ctx, clinicID, filters)
}

func (s *Service) GetByIDAndClinic(ctx context.Context, id, clinicID uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.GetByIDAndClinic(ctx, id, clinicID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("appointment")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) Create(ctx context.Context, clinicID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	if _, err := s.patients.GetByIDAndClinic(ctx, req.PatientID, clinicID); err != nil {
		return nil, err
	}
	if _, err := s.practitioners.GetByIDAndClinic(ctx, req.PractitionerID, clinicID); err != nil {
		return nil, err
	}

	planID, err := s.resolveHealthPlan(ctx, clinicID, req.PaymentMode, req.HealthPlanID)
	if err != nil {
		return nil, err
	}

	appointment := &model.Appointment{
		ClinicID:       clinicID,
		PatientID:      req.PatientID,
		PractitionerID: req.PractitionerID,
		PaymentMode:    req.PaymentMode,
		HealthPlanID:   planID,
		AuthToken:      req.AuthToken,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Status:         model.AppointmentStatusScheduled,
		Notes:          req.Notes,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			s.metrics.BookingConflicts.Inc()
			return nil, apperrors.Conflict("the practitioner already has an appointment at this date and time")
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.metrics.AppointmentsBooked.Inc()
	s.publishEvent(ctx, model.EventAppointmentCreated, appointment)
	return appointment, nil
}

// Update reschedules an appointment; terminal appointments cannot be moved.
func (s *Service) Update(ctx context.Context, id, clinicID uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	existing, err := s.GetByIDAndClinic(ctx, id, clinicID)
	if err != nil {
		return nil, err
	}
	if existing.Status == model.AppointmentStatusCompleted || existing.Status == model.AppointmentStatusCancelled {
		return nil, apperrors.BusinessRule(fmt.Sprintf("a %s appointment cannot be rescheduled", existing.Status))
	}

	if _, err := s.practitioners.GetByIDAndClinic(ctx, req.PractitionerID, clinicID); err != nil {
		return nil, err
	}

	planID, err := s.resolveHealthPlan(ctx, clinicID, req.PaymentMode, req.HealthPlanID)
	if err != nil {
		return nil, err
	}

	existing.PractitionerID = req.PractitionerID
	existing.PaymentMode = req.PaymentMode
	existing.HealthPlanID = planID
	existing.AuthToken = req.AuthToken
	existing.Date = req.Date
	existing.StartTime = req.StartTime
	existing.EndTime = req.EndTime
	existing.Notes = req.Notes

	if err := s.repo.Reschedule(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			s.metrics.BookingConflicts.Inc()
			return nil, apperrors.Conflict("the practitioner already has an appointment at this date and time")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.publishEvent(ctx, model.EventAppointmentUpdated, existing)
	return existing, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, clinicID uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	existing, err := s.GetByIDAndClinic(ctx, id, clinicID)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(existing.Status, status) {
		return nil, apperrors.BusinessRule(fmt.Sprintf("cannot move an appointment from %s to %s", existing.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, id, clinicID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	existing.Status = status

	if status == model.AppointmentStatusCancelled {
		s.metrics.AppointmentsCancelled.Inc()
		s.publishEvent(ctx, model.EventAppointmentCancelled, existing)
	}
	return existing, nil
}

func (s *Service) Cancel(ctx context.Context, id, clinicID uuid.UUID) (*model.Appointment, error) {
	return s.UpdateStatus(ctx, id, clinicID, model.AppointmentStatusCancelled)
}

// Delete removes an appointment record; only cancelled appointments can be
// deleted.
func (s *Service) Delete(ctx context.Context, id, clinicID uuid.UUID) error {
	existing, err := s.GetByIDAndClinic(ctx, id, clinicID)
	if err != nil {
		return err
	}
	if existing.Status != model.AppointmentStatusCancelled {
		return apperrors.BusinessRule("only cancelled appointments can be deleted")
	}

	if err := s.repo.Delete(ctx, id, clinicID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("appointment")
		}
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

// resolveHealthPlan enforces the payment-mode invariant: a health_plan booking
// must reference a plan of the same clinic, a self_pay booking ignores any
// supplied plan id.
func (s *Service) resolveHealthPlan(ctx context.Context, clinicID uuid.UUID, mode model.PaymentMode, planID *uuid.UUID) (*uuid.UUID, error) {
	if mode == model.PaymentModeSelfPay {
		return nil, nil
	}

	if planID == nil {
		return nil, apperrors.BusinessRule("a health plan is required for health_plan appointments")
	}
	plan, err := s.plans.GetByIDAndClinic(ctx, *planID, clinicID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.BusinessRule("the health plan does not belong to this clinic")
		}
		return nil, err
	}
	return &plan.ID, nil
}

func (s *Service) publishEvent(ctx context.Context, eventType string, appointment *model.Appointment) {
	payload, err := json.Marshal(appointment)
	if err != nil {
		return
	}
	// Event staging is best effort; the booking itself already committed.
	_ = s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	})
}

func transitionAllowed(from, to model.AppointmentStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func validateTimeRange(start, end string) error {
	startAt, err := time.Parse("15:04", start)
	if err != nil {
		return apperrors.BusinessRule("start time must be in HH:MM format")
	}
	endAt, err := time.Parse("15:04", end)
	if err != nil {
		return apperrors.BusinessRule("end time must be in HH:MM format")
	}
	if !startAt.Before(endAt) {
		return apperrors.BusinessRule("start time must be before end time")
	}
	return nil
}
