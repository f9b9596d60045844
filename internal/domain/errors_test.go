package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestAssessmentError(t *testing.T) {
	tests := []struct {
		name     string
		err      *AssessmentError
		sentinel error
		message  string
		system   bool
	}{
		{
			name:     "Incomplete assessment",
			err:      NewIncompleteAssessment([]SectionID{SectionIdentification, SectionFunction}),
			sentinel: ErrIncompleteAssessment,
			message:  "INCOMPLETE_ASSESSMENT: complete sections A, G",
		},
		{
			name:     "Invalid field value",
			err:      NewInvalidFieldValue("G0110A", "5", nil),
			sentinel: ErrInvalidFieldValue,
			message:  `INVALID_FIELD_VALUE: G0110A: value "5" is not allowed`,
		},
		{
			name:     "Unknown classification code",
			err:      NewUnknownClassificationCode("U1CZ"),
			sentinel: ErrUnknownClassificationCode,
			message:  `UNKNOWN_CLASSIFICATION_CODE: classification code "U1CZ" has no case-mix index`,
			system:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.message {
				t.Errorf("Expected error string %s, got %s", tt.message, tt.err.Error())
			}

			wrapped := fmt.Errorf("evaluate: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("Expected errors.Is to match %v", tt.sentinel)
			}

			if IsSystemError(wrapped) != tt.system {
				t.Errorf("Expected IsSystemError %v, got %v", tt.system, IsSystemError(wrapped))
			}
		})
	}
}

func TestIncompleteAssessmentSections(t *testing.T) {
	err := NewIncompleteAssessment([]SectionID{SectionBehavior})

	var ae *AssessmentError
	if !errors.As(error(err), &ae) {
		t.Fatal("Expected AssessmentError")
	}
	if len(ae.Sections) != 1 || ae.Sections[0] != SectionBehavior {
		t.Errorf("Expected sections [E], got %v", ae.Sections)
	}
	if ae.Kind != KindIncompleteAssessment {
		t.Errorf("Expected kind %s, got %s", KindIncompleteAssessment, ae.Kind)
	}
}

func TestInvalidFieldValueWrapsCause(t *testing.T) {
	cause := &DomainError{Domain: "days in look-back", Code: "8"}
	err := NewInvalidFieldValue("O0500A", "8", cause)

	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatal("Expected the domain error to be reachable")
	}
	if de.Code != "8" {
		t.Errorf("Expected code 8, got %s", de.Code)
	}
	if !errors.Is(err, ErrInvalidFieldValue) {
		t.Error("Expected ErrInvalidFieldValue")
	}
}
