package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// codeValue is implemented by every scalar field type.
type codeValue interface {
	Code() string
}

// codeUnmarshaler is implemented by pointers to scalar field types.
type codeUnmarshaler interface {
	UnmarshalCode(code string) error
}

// validValue is implemented by every scalar field type with a closed domain.
type validValue interface {
	IsValid() bool
}

// checklistValue is implemented by pointers to Checklist types.
type checklistValue interface {
	Codes() []string
	OptionCodes() []string
	hasCode(string) bool
	UnmarshalCodes(codes []string) error
}

var (
	checklistValueType = reflect.TypeOf((*checklistValue)(nil)).Elem()
	codeUnmarshalType  = reflect.TypeOf((*codeUnmarshaler)(nil)).Elem()
)

type sectionLocation struct {
	index int
	typ   reflect.Type
}

type fieldLocation struct {
	section      SectionID
	sectionIndex int
	fieldIndex   int
	option       string
	checklist    bool
}

var (
	sectionIndex = map[SectionID]sectionLocation{}
	fieldIndex   = map[FieldID]fieldLocation{}
	fieldOrder   []FieldID
)

func init() {
	at := reflect.TypeOf(Assessment{})
	for i := 0; i < at.NumField(); i++ {
		sf := at.Field(i)
		tag := sf.Tag.Get("section")
		if tag == "" {
			continue
		}
		sid := SectionID(tag)
		st := sf.Type.Elem()
		sectionIndex[sid] = sectionLocation{index: i, typ: st}
		for j := 0; j < st.NumField(); j++ {
			ff := st.Field(j)
			code := ff.Tag.Get("mds")
			if code == "" {
				continue
			}
			loc := fieldLocation{section: sid, sectionIndex: i, fieldIndex: j}
			switch {
			case ff.Type.Implements(checklistValueType):
				loc.checklist = true
				registerField(FieldID(code), loc)
				zero := reflect.New(ff.Type.Elem()).Interface().(checklistValue)
				for _, opt := range zero.OptionCodes() {
					sub := loc
					sub.option = opt
					registerField(FieldID(code+opt), sub)
				}
			case ff.Type.Implements(codeUnmarshalType):
				registerField(FieldID(code), loc)
			default:
				panic(fmt.Sprintf("domain: field %s has unsupported type %s", code, ff.Type))
			}
		}
	}
	sort.Slice(fieldOrder, func(i, j int) bool { return fieldOrder[i] < fieldOrder[j] })
}

func registerField(id FieldID, loc fieldLocation) {
	if _, dup := fieldIndex[id]; dup {
		panic(fmt.Sprintf("domain: duplicate field %s", id))
	}
	fieldIndex[id] = loc
	fieldOrder = append(fieldOrder, id)
}

// hasCode reports whether the checklist selected the given wire code.
func (c Checklist[O]) hasCode(code string) bool {
	for _, s := range c.selected {
		if string(s) == code {
			return true
		}
	}
	return false
}

// KnownField reports whether the id names a modelled item or checklist option.
func KnownField(id FieldID) bool {
	_, ok := fieldIndex[id]
	return ok
}

// FieldSection returns the section an item belongs to.
func FieldSection(id FieldID) (SectionID, bool) {
	loc, ok := fieldIndex[id]
	return loc.section, ok
}

// AllFields lists every addressable field id in sorted order.
func AllFields() []FieldID {
	out := make([]FieldID, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// AllSections lists the modelled sections in letter order.
func AllSections() []SectionID {
	out := make([]SectionID, 0, len(sectionIndex))
	for id := range sectionIndex {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Section returns the section record for id, or nil when it is absent.
func (a *Assessment) Section(id SectionID) Section {
	loc, ok := sectionIndex[id]
	if !ok || a == nil {
		return nil
	}
	v := reflect.ValueOf(a).Elem().Field(loc.index)
	if v.IsNil() {
		return nil
	}
	return v.Interface().(Section)
}

// SectionCompleted reports whether the section is present and marked completed.
func (a *Assessment) SectionCompleted(id SectionID) bool {
	s := a.Section(id)
	return s != nil && s.IsCompleted()
}

// Value returns the wire code recorded for a field. Checklist options read
// "1" when selected and "0" otherwise.
func (a *Assessment) Value(id FieldID) (string, bool) {
	fv, loc, ok := a.fieldValue(id)
	if !ok {
		return "", false
	}
	if loc.checklist {
		cl := fv.Interface().(checklistValue)
		if loc.option == "" {
			return strings.Join(cl.Codes(), ""), true
		}
		if cl.hasCode(loc.option) {
			return "1", true
		}
		return "0", true
	}
	return fv.Interface().(codeValue).Code(), true
}

// Has reports whether a field carries a value.
func (a *Assessment) Has(id FieldID) bool {
	_, _, ok := a.fieldValue(id)
	return ok
}

func (a *Assessment) fieldValue(id FieldID) (reflect.Value, fieldLocation, bool) {
	loc, ok := fieldIndex[id]
	if !ok || a == nil {
		return reflect.Value{}, loc, false
	}
	sv := reflect.ValueOf(a).Elem().Field(loc.sectionIndex)
	if sv.IsNil() {
		return reflect.Value{}, loc, false
	}
	fv := sv.Elem().Field(loc.fieldIndex)
	if fv.IsNil() {
		return reflect.Value{}, loc, false
	}
	return fv, loc, true
}

// Validate checks every recorded value against its code domain and repeats
// the date check DecodeSnapshot applies, so an assessment built in code is
// held to the same rules as one read from the wire. Every problem is
// reported, joined in field order.
func (a *Assessment) Validate() error {
	if a == nil {
		return nil
	}
	var errs []error
	for _, id := range fieldOrder {
		loc := fieldIndex[id]
		if loc.option != "" {
			continue
		}
		fv, _, ok := a.fieldValue(id)
		if !ok {
			continue
		}
		if loc.checklist {
			codes := fv.Interface().(checklistValue).Codes()
			check := reflect.New(fv.Type().Elem()).Interface().(checklistValue)
			if err := check.UnmarshalCodes(codes); err != nil {
				errs = append(errs, NewInvalidFieldValue(id, strings.Join(codes, ","), err))
			}
			continue
		}
		if v, ok := fv.Interface().(validValue); ok && !v.IsValid() {
			errs = append(errs, NewInvalidFieldValue(id, rawCode(fv), nil))
		}
	}
	if err := a.checkDates(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// rawCode renders an out-of-domain value, which has no wire code of its own.
func rawCode(fv reflect.Value) string {
	if ev := fv.Elem(); ev.Kind() == reflect.Uint8 {
		return strconv.FormatUint(ev.Uint(), 10)
	}
	return fv.Interface().(codeValue).Code()
}

// Fingerprint is a stable digest of every recorded value and completion flag.
// Identical snapshots always share a fingerprint.
func (a *Assessment) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "id=%s;resident=%s;", a.ID, a.ResidentID)
	for _, sid := range AllSections() {
		if s := a.Section(sid); s != nil {
			fmt.Fprintf(h, "%s:%t;", sid, s.IsCompleted())
		}
	}
	for _, id := range fieldOrder {
		if loc := fieldIndex[id]; loc.option != "" {
			continue
		}
		if v, ok := a.Value(id); ok {
			fmt.Fprintf(h, "%s=%s;", id, v)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// setSection allocates the section record if needed and records completion.
func (a *Assessment) setSection(id SectionID, completed bool) error {
	loc, ok := sectionIndex[id]
	if !ok {
		return &DomainError{Domain: "section", Code: string(id), Allowed: sectionCodes()}
	}
	sv := reflect.ValueOf(a).Elem().Field(loc.index)
	if sv.IsNil() {
		sv.Set(reflect.New(loc.typ))
	}
	sv.Elem().FieldByName("SectionStatus").Set(reflect.ValueOf(SectionStatus{Completed: completed}))
	return nil
}

// setField decodes wire codes into a field of an already allocated section.
func (a *Assessment) setField(id FieldID, codes []string) error {
	loc, ok := fieldIndex[id]
	if !ok || loc.option != "" {
		return &DomainError{Domain: "field", Code: string(id)}
	}
	sv := reflect.ValueOf(a).Elem().Field(loc.sectionIndex)
	if sv.IsNil() {
		return &DomainError{Domain: "field", Code: string(id)}
	}
	fv := sv.Elem().Field(loc.fieldIndex)
	nv := reflect.New(fv.Type().Elem())
	if loc.checklist {
		if err := nv.Interface().(checklistValue).UnmarshalCodes(codes); err != nil {
			return err
		}
	} else {
		if len(codes) != 1 {
			return &DomainError{Domain: "single value", Code: strings.Join(codes, ",")}
		}
		if err := nv.Interface().(codeUnmarshaler).UnmarshalCode(codes[0]); err != nil {
			return err
		}
	}
	fv.Set(nv)
	return nil
}

func sectionCodes() []string {
	ids := AllSections()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
