package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/multiclinicas/clinic-api/internal/config"
)

type Service interface {
	SendAppointmentConfirmation(ctx context.Context, to, patientName, date, startTime string) error
	SendAppointmentCancellation(ctx context.Context, to, patientName, date, startTime string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendAppointmentConfirmation(ctx context.Context, to, patientName, date, startTime string) error {
	subject := "Your appointment is booked"
	body := fmt.Sprintf("Hello %s,\n\nYour appointment is scheduled for %s at %s.\n", patientName, date, startTime)
	return s.send(to, subject, body)
}

func (s *smtpService) SendAppointmentCancellation(ctx context.Context, to, patientName, date, startTime string) error {
	subject := "Your appointment was cancelled"
	body := fmt.Sprintf("Hello %s,\n\nYour appointment on %s at %s has been cancelled.\n", patientName, date, startTime)
	return s.send(to, subject, body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
