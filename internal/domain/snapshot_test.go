package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const snapshotYAML = `
assessment_id: asmt-42
resident_id: res-7
sections:
  A:
    completed: true
    fields:
      A0310A: "01"
      A1600: "20240102"
      A2300: "20240110"
  G:
    completed: true
    fields:
      G0110A: 3
      G0110B: "-"
      G0110H: 8
  O:
    completed: false
    fields:
      O0100: [M, C]
      O0400C4: 5
`

func TestDecodeSnapshot_YAML(t *testing.T) {
	var raw RawSnapshot
	require.NoError(t, yaml.Unmarshal([]byte(snapshotYAML), &raw))

	a, err := DecodeSnapshot(&raw)
	require.NoError(t, err)

	assert.Equal(t, "asmt-42", a.ID)
	assert.Equal(t, "res-7", a.ResidentID)
	assert.Equal(t, OBRAAdmission, *a.Identification.OBRAReason)
	assert.Equal(t, ADLExtensiveAssistance, *a.Function.BedMobility)
	assert.Nil(t, a.Function.Transfer, "dash means not assessed")
	assert.Equal(t, ADLDidNotOccur, *a.Function.Eating)
	assert.True(t, a.Treatments.Received(Isolation))
	assert.True(t, a.Treatments.Received(OxygenTherapy))
	assert.False(t, a.Treatments.Completed)
	assert.Nil(t, a.Behavior)
}

func TestDecodeSnapshot_JSON(t *testing.T) {
	doc := `{
		"assessment_id": "asmt-9",
		"sections": {
			"C": {"completed": true, "fields": {"C0100": 1, "C0200": "3", "C0300A": null, "C0400A": ""}},
			"L": {"completed": true, "fields": {"L0200": ["Z"]}}
		}
	}`
	var raw RawSnapshot
	require.NoError(t, json.Unmarshal([]byte(doc), &raw))

	a, err := DecodeSnapshot(&raw)
	require.NoError(t, err)
	assert.Equal(t, Yes, *a.Cognition.InterviewConducted)
	assert.Equal(t, WordRepetition(3), *a.Cognition.Repetition)
	assert.Nil(t, a.Cognition.RecallYear)
	assert.Nil(t, a.Cognition.RecallSock)
	assert.True(t, a.Dental.Problems.None())
}

func TestDecodeSnapshot_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		raw    RawSnapshot
		field  FieldID
		domain bool
	}{
		{
			name:   "out of domain ADL code",
			raw:    rawWith("G", "G0110A", "5"),
			field:  "G0110A",
			domain: true,
		},
		{
			name:  "unknown item",
			raw:   rawWith("G", "G0110Z", "1"),
			field: "G0110Z",
		},
		{
			name:  "item in wrong section",
			raw:   rawWith("G", "O0400A4", "1"),
			field: "O0400A4",
		},
		{
			name:  "checklist option addressed directly",
			raw:   rawWith("O", "O0100M", "1"),
			field: "O0100M",
		},
		{
			name:   "unknown section",
			raw:    rawWith("R", "R0100", "1"),
			field:  "R",
			domain: true,
		},
		{
			name:   "exclusive none of the above",
			raw:    RawSnapshot{Sections: map[string]RawSection{"O": {Fields: map[string]RawValue{"O0100": {"C", "Z"}}}}},
			field:  "O0100",
			domain: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := DecodeSnapshot(&tt.raw)
			require.Error(t, err)
			assert.Nil(t, a)
			assert.True(t, errors.Is(err, ErrInvalidFieldValue))

			var ae *AssessmentError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, tt.field, ae.Field)
			var de *DomainError
			assert.Equal(t, tt.domain, errors.As(err, &de))
		})
	}
}

func TestDecodeSnapshot_ReportsEveryProblem(t *testing.T) {
	raw := RawSnapshot{Sections: map[string]RawSection{
		"G": {Fields: map[string]RawValue{"G0110A": {"6"}, "G0110B": {"9"}}},
		"O": {Fields: map[string]RawValue{"O0500A": {"8"}}},
	}}

	_, err := DecodeSnapshot(&raw)
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	errs := joined.Unwrap()
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "G0110A")
	assert.Contains(t, errs[1].Error(), "G0110B")
	assert.Contains(t, errs[2].Error(), "O0500A")
}

func TestDecodeSnapshot_DateOrder(t *testing.T) {
	raw := RawSnapshot{Sections: map[string]RawSection{
		"A": {Completed: true, Fields: map[string]RawValue{"A1600": {"20240301"}, "A2300": {"20240215"}}},
	}}

	_, err := DecodeSnapshot(&raw)
	require.Error(t, err)
	var ae *AssessmentError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, FieldID("A2300"), ae.Field)
	assert.Equal(t, "20240215", ae.Value)
}

func TestEncodeSnapshot_RoundTrip(t *testing.T) {
	var raw RawSnapshot
	require.NoError(t, yaml.Unmarshal([]byte(snapshotYAML), &raw))
	a, err := DecodeSnapshot(&raw)
	require.NoError(t, err)

	encoded := EncodeSnapshot(a)
	assert.Equal(t, RawValue{"C", "M"}, encoded.Sections["O"].Fields["O0100"])
	assert.NotContains(t, encoded.Sections["G"].Fields, "G0110B")

	again, err := DecodeSnapshot(encoded)
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), again.Fingerprint())
}

func rawWith(section, field, code string) RawSnapshot {
	return RawSnapshot{Sections: map[string]RawSection{
		section: {Completed: true, Fields: map[string]RawValue{field: {code}}},
	}}
}
