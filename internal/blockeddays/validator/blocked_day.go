package validator

import (
	"propshoot/pkg/logger"
	"propshoot/pkg/model"
	"propshoot/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BlockedDayValidator struct {
	validate *validator.Validate
}

func NewBlockedDayValidator(log *logger.Logger) *BlockedDayValidator {
	v := validation.New(log)
	log.Info("Blocked day validator initialized successfully")
	return &BlockedDayValidator{validate: v}
}

func (v *BlockedDayValidator) Validate(day *model.BlockedDay) error {
	return validation.Struct(v.validate, day)
}
