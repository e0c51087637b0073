package config

import (
	"fmt"
	"regexp"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	msg := "configuration validation failed:"
	for _, err := range e {
		msg += fmt.Sprintf("\n  - %s", err.Error())
	}
	return msg
}

// HasErrors returns true if there are any validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator is a function that validates configuration and returns errors
type Validator func() ValidationErrors

// Validate runs multiple validators and combines their errors
func Validate(validators ...Validator) error {
	var allErrors ValidationErrors

	for _, validator := range validators {
		if errs := validator(); len(errs) > 0 {
			allErrors = append(allErrors, errs...)
		}
	}

	if len(allErrors) > 0 {
		return allErrors
	}
	return nil
}

// RequireNonEmpty validates that a string field is not empty
func RequireNonEmpty(field, value string) *ValidationError {
	if value == "" {
		return &ValidationError{
			Field:   field,
			Message: "is required",
		}
	}
	return nil
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RequireEmail validates that a string looks like an email address
func RequireEmail(field, value string) *ValidationError {
	if value == "" {
		return &ValidationError{
			Field:   field,
			Message: "is required",
		}
	}
	if !emailPattern.MatchString(value) {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be a valid email address, got %q", value),
		}
	}
	return nil
}

// Validate checks the database connection settings
func (d DatabaseConfig) Validate() ValidationErrors {
	var errs ValidationErrors

	if err := RequireNonEmpty("DIR_PG_HOST", d.Host); err != nil {
		errs = append(errs, *err)
	}
	if err := RequireNonEmpty("DIR_PG_DATABASE", d.Database); err != nil {
		errs = append(errs, *err)
	}
	if err := RequireNonEmpty("DIR_PG_USER", d.User); err != nil {
		errs = append(errs, *err)
	}
	if d.Port == 0 {
		errs = append(errs, ValidationError{
			Field:   "DIR_PG_PORT",
			Message: "must be a valid port",
		})
	}
	return errs
}

// Validate checks the bootstrap admin account settings
func (b BootstrapConfig) Validate() ValidationErrors {
	var errs ValidationErrors

	if err := RequireNonEmpty("ADMIN_USERNAME", b.AdminUsername); err != nil {
		errs = append(errs, *err)
	}
	if err := RequireEmail("ADMIN_EMAIL", b.AdminEmail); err != nil {
		errs = append(errs, *err)
	}
	return errs
}
