package services

import (
	"gst-invoice-api/internal/gst"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the gst_rate tag registered. The
// built-in oneof tag does not accept float fields.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("gst_rate", func(fl validator.FieldLevel) bool {
		return gst.IsValidGSTRate(fl.Field().Float())
	})
	return v
}
