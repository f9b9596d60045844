package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// notAssessed is the instrument's dash code for an item that was skipped.
const notAssessed = "-"

// RawSnapshot is the wire form of an assessment: sections keyed by letter,
// each holding item codes mapped to response codes.
type RawSnapshot struct {
	AssessmentID string                `json:"assessment_id" yaml:"assessment_id"`
	ResidentID   string                `json:"resident_id" yaml:"resident_id"`
	Sections     map[string]RawSection `json:"sections" yaml:"sections"`
}

// RawSection is one wire section.
type RawSection struct {
	Completed bool                `json:"completed" yaml:"completed"`
	Fields    map[string]RawValue `json:"fields" yaml:"fields"`
}

// RawValue holds the response codes of one item. Scalars decode to a single
// code, lists to the selected options of a checklist. A nil value, "" or "-"
// means the item was not answered.
type RawValue []string

// UnmarshalJSON accepts a string, a number, a list of strings, or null.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = nil
		return nil
	case len(data) > 0 && data[0] == '[':
		var codes []string
		if err := json.Unmarshal(data, &codes); err != nil {
			return fmt.Errorf("checklist value: %w", err)
		}
		*v = codes
		return nil
	case len(data) > 0 && data[0] == '"':
		var code string
		if err := json.Unmarshal(data, &code); err != nil {
			return err
		}
		*v = RawValue{code}
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("item value must be a code or list of codes: %w", err)
		}
		*v = RawValue{n.String()}
		return nil
	}
}

// UnmarshalYAML keeps scalars verbatim so codes like "01" survive.
func (v *RawValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*v = nil
			return nil
		}
		*v = RawValue{node.Value}
		return nil
	case yaml.SequenceNode:
		codes := make([]string, 0, len(node.Content))
		for _, c := range node.Content {
			if c.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: checklist options must be scalars", c.Line)
			}
			codes = append(codes, c.Value)
		}
		*v = codes
		return nil
	default:
		return fmt.Errorf("line %d: item value must be a code or list of codes", node.Line)
	}
}

// Missing reports whether the value means "not answered".
func (v RawValue) Missing() bool {
	return len(v) == 0 || (len(v) == 1 && (v[0] == "" || v[0] == notAssessed))
}

// DecodeSnapshot validates a wire snapshot and builds the typed assessment.
// Every problem is reported, joined in section then field order.
func DecodeSnapshot(raw *RawSnapshot) (*Assessment, error) {
	a := &Assessment{ID: raw.AssessmentID, ResidentID: raw.ResidentID}
	var errs []error

	letters := make([]string, 0, len(raw.Sections))
	for k := range raw.Sections {
		letters = append(letters, k)
	}
	sort.Strings(letters)

	for _, letter := range letters {
		section := raw.Sections[letter]
		sid := SectionID(strings.ToUpper(letter))
		if err := a.setSection(sid, section.Completed); err != nil {
			errs = append(errs, NewInvalidFieldValue(FieldID(letter), letter, err))
			continue
		}
		codes := make([]string, 0, len(section.Fields))
		for k := range section.Fields {
			codes = append(codes, k)
		}
		sort.Strings(codes)
		for _, code := range codes {
			value := section.Fields[code]
			id := FieldID(strings.ToUpper(code))
			owner, known := FieldSection(id)
			switch {
			case !known || fieldIndex[id].option != "":
				errs = append(errs, &AssessmentError{
					Kind:    KindInvalidFieldValue,
					Message: "unknown item code",
					Field:   id,
				})
				continue
			case owner != sid:
				errs = append(errs, &AssessmentError{
					Kind:    KindInvalidFieldValue,
					Message: fmt.Sprintf("item belongs to section %s, not %s", owner, sid),
					Field:   id,
				})
				continue
			case value.Missing():
				continue
			}
			if err := a.setField(id, value); err != nil {
				errs = append(errs, NewInvalidFieldValue(id, strings.Join(value, ","), err))
			}
		}
	}

	if err := a.checkDates(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return a, nil
}

// checkDates rejects an assessment reference date before the entry date.
func (a *Assessment) checkDates() error {
	id := a.Identification
	if id == nil || id.EntryDate == nil || id.AssessmentReferenceDate == nil {
		return nil
	}
	if id.AssessmentReferenceDate.Before(id.EntryDate.Time) {
		return &AssessmentError{
			Kind:    KindInvalidFieldValue,
			Message: fmt.Sprintf("assessment reference date precedes entry date %s", id.EntryDate.Code()),
			Field:   "A2300",
			Value:   id.AssessmentReferenceDate.Code(),
		}
	}
	return nil
}

// EncodeSnapshot renders an assessment back into its wire form.
func EncodeSnapshot(a *Assessment) *RawSnapshot {
	raw := &RawSnapshot{
		AssessmentID: a.ID,
		ResidentID:   a.ResidentID,
		Sections:     make(map[string]RawSection),
	}
	for _, sid := range AllSections() {
		s := a.Section(sid)
		if s == nil {
			continue
		}
		raw.Sections[string(sid)] = RawSection{Completed: s.IsCompleted(), Fields: make(map[string]RawValue)}
	}
	for _, id := range fieldOrder {
		loc := fieldIndex[id]
		if loc.option != "" {
			continue
		}
		fv, _, ok := a.fieldValue(id)
		if !ok {
			continue
		}
		var value RawValue
		if loc.checklist {
			value = fv.Interface().(checklistValue).Codes()
		} else {
			value = RawValue{fv.Interface().(codeValue).Code()}
		}
		raw.Sections[string(loc.section)].Fields[string(id)] = value
	}
	return raw
}
