package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/aarogyahq/booking-api/internal/model"
)

// The civildate tag validates YYYY-MM-DD date strings at bind time, so
// malformed dates fail before they reach a service.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("civildate", func(fl validator.FieldLevel) bool {
			return model.ValidCivilDate(fl.Field().String())
		})
	}
}
