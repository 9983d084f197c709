package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ShowtimeLayout is the dd.MM.yyyy H:mm format used for showtime dates. The
// hour may have one or two digits.
const ShowtimeLayout = "02.01.2006 15:04"

// Now is swapped out by tests.
var Now = time.Now

// ParseShowtime parses a showtime date in server local time.
func ParseShowtime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(ShowtimeLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must match dd.MM.yyyy H:mm: %w", err)
	}
	return t, nil
}

// ValidateShowtimeDateTime reports whether value is a well-formed showtime
// date that is not in the past. Blank values are left to "required".
func ValidateShowtimeDateTime(value string) bool {
	if strings.TrimSpace(value) == "" {
		return true
	}
	t, err := ParseShowtime(value)
	if err != nil {
		return false
	}
	return !t.Before(Now())
}

func showtimeDateTime(fl validator.FieldLevel) bool {
	return ValidateShowtimeDateTime(fl.Field().String())
}

// RegisterValidators installs the custom binding rules on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("showtime_datetime", showtimeDateTime); err != nil {
		return fmt.Errorf("failed to register showtime_datetime: %w", err)
	}
	return nil
}
