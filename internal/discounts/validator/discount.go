package validator

import (
	"propshoot/pkg/logger"
	"propshoot/pkg/model"
	"propshoot/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type DiscountValidator struct {
	validate *validator.Validate
}

func NewDiscountValidator(log *logger.Logger) *DiscountValidator {
	v := validation.New(log)
	log.Info("Discount validator initialized successfully")
	return &DiscountValidator{validate: v}
}

func (v *DiscountValidator) Validate(code *model.DiscountCode) error {
	return validation.Struct(v.validate, code)
}

func (v *DiscountValidator) ValidateUpdate(update *model.DiscountCodeUpdate) error {
	return validation.Struct(v.validate, update)
}
