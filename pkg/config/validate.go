package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/amaumene/testenv/pkg/errors"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structural constraints of a resolved Config.
func (c *Config) Validate() error {
	if !c.Device.Valid() {
		return apperrors.InvalidValue("unknown device", "DEVICE", c.Device.String())
	}

	err := structValidator.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewConfigError("validating config", "", fmt.Errorf("%w: %v", apperrors.ErrInvalidValue, err))
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
	}
	return apperrors.NewConfigError("validating config", "", apperrors.ErrInvalidValue).
		WithContext("fields", strings.Join(fields, ", "))
}

func (l *loader) validate() error {
	return l.cfg.Validate()
}
