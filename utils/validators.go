package utils

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var reminderFrequencies = map[string]bool{
	"once":    true,
	"daily":   true,
	"weekly":  true,
	"monthly": true,
	"yearly":  true,
}

func InitValidator() {
	Validate = validator.New()
	Validate.RegisterValidation("reminderfreq", ValidateReminderFrequencyRule)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("reminderfreq", ValidateReminderFrequencyRule)
	}
}

func ValidateReminderFrequencyRule(fl validator.FieldLevel) bool {
	return ValidateReminderFrequency(fl.Field().String())
}

// ValidateReminderFrequency accepts the known schedule frequencies. An
// empty value is allowed; the mapper defaults it to "once".
func ValidateReminderFrequency(frequency string) bool {
	if frequency == "" {
		return true
	}
	return reminderFrequencies[frequency]
}
