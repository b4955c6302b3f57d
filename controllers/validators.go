package controllers

import (
	"errors"

	"salonpro-bookings/bookings"
	"salonpro-bookings/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding rules used by request DTOs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return v.RegisterValidation("bookingstatus", func(fl validator.FieldLevel) bool {
		return bookings.IsKnownStatus(models.BookingStatus(fl.Field().String()))
	})
}
