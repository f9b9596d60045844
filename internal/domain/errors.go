package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind identifies the failure class of an AssessmentError.
type ErrorKind string

// Error kinds for the failure scenarios the engine can report
const (
	KindIncompleteAssessment      ErrorKind = "INCOMPLETE_ASSESSMENT"
	KindInvalidFieldValue         ErrorKind = "INVALID_FIELD_VALUE"
	KindUnknownClassificationCode ErrorKind = "UNKNOWN_CLASSIFICATION_CODE"
)

// Sentinels for errors.Is checks against AssessmentError kinds.
var (
	ErrIncompleteAssessment      = errors.New("incomplete assessment")
	ErrInvalidFieldValue         = errors.New("invalid field value")
	ErrUnknownClassificationCode = errors.New("unknown classification code")
)

// AssessmentError is the engine's typed error.
type AssessmentError struct {
	Kind     ErrorKind   `json:"kind"`
	Message  string      `json:"message"`
	Field    FieldID     `json:"field,omitempty"`
	Value    string      `json:"value,omitempty"`
	Sections []SectionID `json:"sections,omitempty"`
	Err      error       `json:"-"`
}

// Error implements the error interface
func (e *AssessmentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind sentinel and any underlying cause.
func (e *AssessmentError) Unwrap() []error {
	errs := make([]error, 0, 2)
	switch e.Kind {
	case KindIncompleteAssessment:
		errs = append(errs, ErrIncompleteAssessment)
	case KindInvalidFieldValue:
		errs = append(errs, ErrInvalidFieldValue)
	case KindUnknownClassificationCode:
		errs = append(errs, ErrUnknownClassificationCode)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewIncompleteAssessment reports sections that must be present and completed.
func NewIncompleteAssessment(sections []SectionID) *AssessmentError {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = string(s)
	}
	return &AssessmentError{
		Kind:     KindIncompleteAssessment,
		Message:  "complete sections " + strings.Join(names, ", "),
		Sections: sections,
	}
}

// NewInvalidFieldValue reports a value outside a field's domain.
func NewInvalidFieldValue(field FieldID, value string, cause error) *AssessmentError {
	msg := fmt.Sprintf("value %q is not allowed", value)
	if cause != nil {
		msg = cause.Error()
	}
	return &AssessmentError{
		Kind:    KindInvalidFieldValue,
		Message: msg,
		Field:   field,
		Value:   value,
		Err:     cause,
	}
}

// NewUnknownClassificationCode reports a code missing from the rate table.
func NewUnknownClassificationCode(code string) *AssessmentError {
	return &AssessmentError{
		Kind:    KindUnknownClassificationCode,
		Message: fmt.Sprintf("classification code %q has no case-mix index", code),
		Value:   code,
	}
}

// IsSystemError reports errors that indicate a defect in configuration or
// reference data rather than in the charted assessment.
func IsSystemError(err error) bool {
	return errors.Is(err, ErrUnknownClassificationCode)
}

// DomainError reports a wire code outside a closed enumeration.
type DomainError struct {
	Domain  string   `json:"domain"`
	Code    string   `json:"code"`
	Allowed []string `json:"allowed,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("%q is not a valid %s", e.Code, e.Domain)
	}
	return fmt.Sprintf("%q is not a valid %s (allowed: %s)", e.Code, e.Domain, strings.Join(e.Allowed, ", "))
}
