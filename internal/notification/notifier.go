package notification

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/multiclinicas/clinic-api/internal/email"
	"github.com/multiclinicas/clinic-api/internal/model"
	"github.com/multiclinicas/clinic-api/internal/repository"
	"github.com/multiclinicas/clinic-api/pkg/logger"
	"github.com/multiclinicas/clinic-api/pkg/messaging"
)

// Notifier consumes appointment events from the broker and emails the patient.
// Patients without an email address on file are skipped.
type Notifier struct {
	broker   messaging.Broker
	patients repository.PatientRepository
	email    email.Service
	logger   *logger.Logger
}

func NewNotifier(broker messaging.Broker, patients repository.PatientRepository, emailSvc email.Service, logger *logger.Logger) *Notifier {
	return &Notifier{
		broker:   broker,
		patients: patients,
		email:    emailSvc,
		logger:   logger,
	}
}

func (n *Notifier) Start(ctx context.Context) error {
	channels := []string{
		model.EventAppointmentCreated,
		model.EventAppointmentCancelled,
	}

	var wg sync.WaitGroup
	for _, channel := range channels {
		msgs, err := n.broker.Subscribe(ctx, channel)
		if err != nil {
			return err
		}

		wg.Add(1)
		go func(channel string, msgs <-chan []byte) {
			defer wg.Done()
			for msg := range msgs {
				n.handle(ctx, channel, msg)
			}
		}(channel, msgs)
	}

	wg.Wait()
	return nil
}

func (n *Notifier) handle(ctx context.Context, channel string, payload []byte) {
	var appointment model.Appointment
	if err := json.Unmarshal(payload, &appointment); err != nil {
		n.logger.Error(err, "failed to decode appointment event", "channel", channel)
		return
	}

	patient, err := n.patients.GetByIDAndClinic(ctx, appointment.PatientID, appointment.ClinicID)
	if err != nil {
		n.logger.Error(err, "failed to load patient for notification",
			"patient_id", appointment.PatientID.String())
		return
	}
	if patient.Email == "" {
		return
	}

	date := appointment.Date.Format("2006-01-02")
	switch channel {
	case model.EventAppointmentCreated:
		err = n.email.SendAppointmentConfirmation(ctx, patient.Email, patient.Name, date, appointment.StartTime)
	case model.EventAppointmentCancelled:
		err = n.email.SendAppointmentCancellation(ctx, patient.Email, patient.Name, date, appointment.StartTime)
	}
	if err != nil {
		n.logger.Error(err, "failed to send notification email", "patient_id", patient.ID.String())
	}
}
