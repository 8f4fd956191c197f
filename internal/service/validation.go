package service

import (
	"context"

	"github.com/go-playground/validator/v10"
)

// overviewInvalidator clears cached dashboard aggregates after writes.
type overviewInvalidator interface {
	InvalidateOverview(ctx context.Context) error
}

func registerEnumValidation(v *validator.Validate, tag string, allowed ...string) {
	values := make(map[string]struct{}, len(allowed))
	for _, value := range allowed {
		values[value] = struct{}{}
	}
	v.RegisterValidation(tag, func(fl validator.FieldLevel) bool { //nolint:errcheck
		_, ok := values[fl.Field().String()]
		return ok
	})
}
