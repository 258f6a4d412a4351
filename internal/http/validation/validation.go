// Package validation registers storefront validators on gin's binding engine.
package validation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/router-for-me/storefront/internal/support"
)

var (
	registerOnce sync.Once
	errRegister  error
)

// Register installs the ticketstatus and ticketpriority tags used by the helpdesk filters. It is safe to call repeatedly.
func Register() error {
	registerOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			errRegister = errors.New("validation: unexpected binding engine")
			return
		}
		if err := engine.RegisterValidation("ticketstatus", func(fl validator.FieldLevel) bool {
			return support.IsValidStatus(fl.Field().String())
		}); err != nil {
			errRegister = fmt.Errorf("validation: register ticketstatus: %w", err)
			return
		}
		if err := engine.RegisterValidation("ticketpriority", func(fl validator.FieldLevel) bool {
			return support.IsValidPriority(fl.Field().String())
		}); err != nil {
			errRegister = fmt.Errorf("validation: register ticketpriority: %w", err)
		}
	})
	return errRegister
}

// Message turns a binding error into a caller-facing message.
func Message(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Invalid request body"
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "ticketstatus":
		return fmt.Sprintf("Invalid status: %v", valueOf(fe))
	case "ticketpriority":
		return fmt.Sprintf("Invalid priority: %v", valueOf(fe))
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email address"
	default:
		return fmt.Sprintf("Invalid value for %s", fe.Field())
	}
}

func valueOf(fe validator.FieldError) any {
	if p, ok := fe.Value().(*string); ok && p != nil {
		return *p
	}
	return fe.Value()
}
