package i18n

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors.
var (
	// ErrImproperlyConfigured is returned when a model cannot be registered
	// because of a static configuration mistake.
	ErrImproperlyConfigured = errors.New("i18n: improperly configured")

	// ErrTranslationNotFound is returned when a record has no translation
	// row for the requested locale.
	ErrTranslationNotFound = errors.New("i18n: translation not found")

	// ErrUnknownAttribute is returned when reading or writing an attribute
	// that neither the model nor its translation type declares.
	ErrUnknownAttribute = errors.New("i18n: unknown attribute")
)

// ConfigError represents a configuration error detected while registering
// a model. Registration is aborted when it is returned.
type ConfigError struct {
	Model     string // Model being registered
	Attribute string // Optional: the attribute at fault
	msg       string
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	if e.Model == "" {
		return "i18n: " + e.msg
	}
	return fmt.Sprintf("i18n: model %q: %s", e.Model, e.msg)
}

// Is reports whether the target error matches ConfigError.
// This allows errors.Is(configErr, ErrImproperlyConfigured) to return true.
func (e *ConfigError) Is(err error) bool {
	return err == ErrImproperlyConfigured
}

// NewConfigError returns a new ConfigError for the given model.
func NewConfigError(model, format string, args ...any) *ConfigError {
	return &ConfigError{Model: model, msg: fmt.Sprintf(format, args...)}
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e) || errors.Is(err, ErrImproperlyConfigured)
}

// TranslationNotFoundError represents a missing translation row.
type TranslationNotFoundError struct {
	model  string
	locale string
}

// Error returns the error string.
func (e *TranslationNotFoundError) Error() string {
	return fmt.Sprintf("i18n: %s has no translation for locale %q", e.model, e.locale)
}

// Is reports whether the target error matches TranslationNotFoundError.
func (e *TranslationNotFoundError) Is(err error) bool {
	return err == ErrTranslationNotFound
}

// Model returns the name of the translated model.
func (e *TranslationNotFoundError) Model() string {
	return e.model
}

// Locale returns the requested locale.
func (e *TranslationNotFoundError) Locale() string {
	return e.locale
}

// NewTranslationNotFoundError returns a new TranslationNotFoundError.
func NewTranslationNotFoundError(model, locale string) *TranslationNotFoundError {
	return &TranslationNotFoundError{model: model, locale: locale}
}

// IsTranslationNotFound returns true if the error is a TranslationNotFoundError.
func IsTranslationNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *TranslationNotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrTranslationNotFound)
}

// UnknownAttributeError represents an access to an undeclared attribute.
type UnknownAttributeError struct {
	Type string // Model or translation type name
	Name string // Attribute name
}

// Error returns the error string.
func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("i18n: %s has no attribute %q", e.Type, e.Name)
}

// Is reports whether the target error matches UnknownAttributeError.
func (e *UnknownAttributeError) Is(err error) bool {
	return err == ErrUnknownAttribute
}

// NewUnknownAttributeError returns a new UnknownAttributeError.
func NewUnknownAttributeError(typ, name string) *UnknownAttributeError {
	return &UnknownAttributeError{Type: typ, Name: name}
}

// IsUnknownAttribute returns true if the error is an UnknownAttributeError.
func IsUnknownAttribute(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownAttributeError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownAttribute)
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "i18n: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("i18n: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
