package utils

import (
	"github.com/pkg/errors"
)

// NewConfigValidationError returns an error specifying that the config at path is invalid.
func NewConfigValidationError(path string, err error) error {
	return errors.Wrapf(err, "error validating %q", path)
}

// NewConfigValidationFieldRequiredError returns an error specifying that a required field
// is missing from the config at path.
func NewConfigValidationFieldRequiredError(path, field string) error {
	return NewConfigValidationError(path, errors.Errorf("%q is required", field))
}

// NewOutOfRangeError is used when a configured number falls outside its allowed range.
func NewOutOfRangeError(field string, value float64, constraint string) error {
	return errors.Errorf("%q must be %s, got %v", field, constraint, value)
}
