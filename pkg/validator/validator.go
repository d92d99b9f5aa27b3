package validator

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/rkapoor/telecare-api/internal/model"
)

// RegisterCustom wires domain validation rules into gin's binding engine.
// Must be called once before the router handles traffic.
func RegisterCustom() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine")
	}

	return v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		return model.IsValidTimeSlot(fl.Field().String())
	})
}
