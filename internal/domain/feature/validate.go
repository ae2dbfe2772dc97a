package feature

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// numericInput holds parsed numeric answers with the bounds the forms enforce.
type numericInput struct {
	Month       int     `field:"month" validate:"min=1,max=12"`
	Day         int     `field:"day" validate:"min=1,max=31"`
	Weekday     int     `field:"weekday" validate:"min=1,max=7"`
	Duration    float64 `field:"duration_hours" validate:"gte=0.5,lte=24"`
	CameraCount int     `field:"camera_count" validate:"min=1,max=20"`
}

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report input field names rather than Go struct field names.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := f.Tag.Get("field"); name != "" {
				return name
			}
			return f.Name
		})
	})
	return validate
}

// checkRanges returns one message per out of range field.
func checkRanges(in numericInput) []string {
	err := getValidator().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, rangeMessage(fe))
	}
	return out
}

func rangeMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "gte":
		return fmt.Sprintf("%s: must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "max", "lte":
		return fmt.Sprintf("%s: must be at most %s, got %v", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s: failed %s check", fe.Field(), fe.Tag())
	}
}
