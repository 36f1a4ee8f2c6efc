package validator

import (
	"fmt"

	"propshoot/pkg/logger"
	"propshoot/pkg/model"
	"propshoot/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validation.New(log)
	log.Info("Booking validator initialized successfully")
	return &BookingValidator{validate: v}
}

// ValidateOrder checks a paid order. Every property with billable services
// must carry the date and start time the agent picked.
func (v *BookingValidator) ValidateOrder(order *model.Order) error {
	if err := validation.Struct(v.validate, order); err != nil {
		return err
	}

	var errs validation.ValidationErrors
	billable := 0
	for i, p := range order.Properties {
		if p.Services.IsEmpty() {
			continue
		}
		billable++
		if p.Date == "" {
			errs = append(errs, validation.ValidationError{
				Field:   fmt.Sprintf("Order.Properties[%d].Date", i),
				Message: "date is required for a property with services",
			})
		}
		if p.StartTime == "" {
			errs = append(errs, validation.ValidationError{
				Field:   fmt.Sprintf("Order.Properties[%d].StartTime", i),
				Message: "start_time is required for a property with services",
			})
		}
	}
	if billable == 0 {
		errs = append(errs, validation.ValidationError{
			Field:   "Order.Properties",
			Message: "at least one property must have a service selected",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := validation.Struct(v.validate, booking); err != nil {
		return err
	}
	if _, err := booking.Interval(); err != nil {
		return validation.ValidationErrors{{Field: "Booking.EndTime", Message: err.Error()}}
	}
	return nil
}
