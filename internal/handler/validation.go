package handler

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/multiclinicas/clinic-api/internal/model"
)

// RegisterValidators installs the custom binding tags used by the request
// models. Call once at startup before routes are served.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("hhmm", validHHMM); err != nil {
		return err
	}
	if err := v.RegisterValidation("paymentmode", validPaymentMode); err != nil {
		return err
	}
	return v.RegisterValidation("appointmentstatus", validAppointmentStatus)
}

func validHHMM(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

func validPaymentMode(fl validator.FieldLevel) bool {
	switch model.PaymentMode(fl.Field().String()) {
	case model.PaymentModeSelfPay, model.PaymentModeHealthPlan:
		return true
	}
	return false
}

func validAppointmentStatus(fl validator.FieldLevel) bool {
	switch model.AppointmentStatus(fl.Field().String()) {
	case model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed,
		model.AppointmentStatusCompleted, model.AppointmentStatusCancelled:
		return true
	}
	return false
}
