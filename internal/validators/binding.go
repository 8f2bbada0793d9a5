package validators

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/roles"
)

var once sync.Once

var rules = map[string]validator.Func{
	"hhmm": isClock,
	"role": isRole,
}

// Register adds the custom binding rules to gin's validator (idempotent).
// It panics when they cannot be installed.
//
//	hhmm - a 24h "HH:MM" clock time
//	role - ADMIN, WORKER or CLIENT in any casing
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic(fmt.Sprintf("validators: unexpected binding engine %T", binding.Validator.Engine()))
		}
		for tag, fn := range rules {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(fmt.Sprintf("validators: register %q: %v", tag, err))
			}
		}
	})
}

// isClock accepts exactly what booking creation parses.
func isClock(fl validator.FieldLevel) bool {
	_, err := domain.ParseClock(fl.Field().String())
	return err == nil
}

func isRole(fl validator.FieldLevel) bool {
	_, ok := roles.Parse(fl.Field().String())
	return ok
}

// Message turns a binding error into something a client can act on.
func Message(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "invalid request body"
	}

	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s must be at least %s", fe.Field(), fe.Param()))
		case "hhmm":
			msgs = append(msgs, fmt.Sprintf("field %s must be a time in format HH:MM", fe.Field()))
		case "role":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of ADMIN, WORKER, CLIENT", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", fe.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}
