package domain

import (
	"fmt"
	"sort"
	"strings"
)

// noneOfTheAbove is the exclusive "Z" option every checklist item carries.
const noneOfTheAbove = "Z"

// checklistOption constrains the option letters of one multi-select item.
type checklistOption[O any] interface {
	~string
	IsValid() bool
	Options() []O
}

// Checklist is a multi-select item: a sorted set of option letters drawn from
// a closed domain. "Z" (none of the above) cannot be combined with others.
type Checklist[O checklistOption[O]] struct {
	selected []O
}

// NewChecklist builds a checklist from options, validating the combination.
func NewChecklist[O checklistOption[O]](opts ...O) (Checklist[O], error) {
	codes := make([]string, len(opts))
	for i, o := range opts {
		codes[i] = string(o)
	}
	var c Checklist[O]
	err := c.UnmarshalCodes(codes)
	return c, err
}

// MustChecklist is NewChecklist for literals known to be valid.
func MustChecklist[O checklistOption[O]](opts ...O) *Checklist[O] {
	c, err := NewChecklist(opts...)
	if err != nil {
		panic(err)
	}
	return &c
}

// Has reports whether the option was selected.
func (c Checklist[O]) Has(opt O) bool {
	for _, s := range c.selected {
		if s == opt {
			return true
		}
	}
	return false
}

// None reports whether "none of the above" was selected.
func (c Checklist[O]) None() bool {
	return len(c.selected) == 1 && string(c.selected[0]) == noneOfTheAbove
}

// Selected returns a copy of the selected options in code order.
func (c Checklist[O]) Selected() []O {
	out := make([]O, len(c.selected))
	copy(out, c.selected)
	return out
}

// Codes returns the selected wire codes in order.
func (c Checklist[O]) Codes() []string {
	out := make([]string, len(c.selected))
	for i, s := range c.selected {
		out[i] = string(s)
	}
	return out
}

// Code joins the selected wire codes, e.g. "ACF".
func (c Checklist[O]) Code() string {
	return strings.Join(c.Codes(), "")
}

// OptionCodes lists every option the item accepts.
func (c Checklist[O]) OptionCodes() []string {
	var zero O
	opts := zero.Options()
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = string(o)
	}
	return out
}

// UnmarshalCodes replaces the selection with the given wire codes.
func (c *Checklist[O]) UnmarshalCodes(codes []string) error {
	if len(codes) == 0 {
		return &DomainError{Domain: c.domainName(), Code: "", Allowed: c.OptionCodes()}
	}
	seen := make(map[O]bool, len(codes))
	selected := make([]O, 0, len(codes))
	for _, code := range codes {
		opt := O(code)
		if !opt.IsValid() {
			return &DomainError{Domain: c.domainName(), Code: code, Allowed: c.OptionCodes()}
		}
		if seen[opt] {
			return &DomainError{Domain: c.domainName(), Code: strings.Join(codes, ","), Allowed: c.OptionCodes()}
		}
		seen[opt] = true
		selected = append(selected, opt)
	}
	if seen[O(noneOfTheAbove)] && len(selected) > 1 {
		return &DomainError{Domain: c.domainName() + " (Z is exclusive)", Code: strings.Join(codes, ","), Allowed: c.OptionCodes()}
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i] < selected[j] })
	c.selected = selected
	return nil
}

func (c Checklist[O]) domainName() string {
	return fmt.Sprintf("checklist %s", strings.Join(c.OptionCodes(), ""))
}

// PsychosisOption is an E0100 option.
type PsychosisOption string

const (
	Hallucinations PsychosisOption = "A"
	Delusions      PsychosisOption = "B"
	NoPsychosis    PsychosisOption = "Z"
)

func (PsychosisOption) Options() []PsychosisOption {
	return []PsychosisOption{Hallucinations, Delusions, NoPsychosis}
}

func (o PsychosisOption) IsValid() bool { return containsOption(o.Options(), o) }

// DentalOption is an L0200 option.
type DentalOption string

const (
	BrokenDentures      DentalOption = "A"
	NoNaturalTeeth      DentalOption = "B"
	AbnormalMouthTissue DentalOption = "C"
	ObviousCavity       DentalOption = "D"
	InflamedGums        DentalOption = "E"
	MouthPain           DentalOption = "F"
	NoDentalProblem     DentalOption = "Z"
)

func (DentalOption) Options() []DentalOption {
	return []DentalOption{BrokenDentures, NoNaturalTeeth, AbnormalMouthTissue, ObviousCavity, InflamedGums, MouthPain, NoDentalProblem}
}

func (o DentalOption) IsValid() bool { return containsOption(o.Options(), o) }

// SkinProblemOption is an M1040 option.
type SkinProblemOption string

const (
	FootInfection  SkinProblemOption = "A"
	OpenLesions    SkinProblemOption = "D"
	SurgicalWounds SkinProblemOption = "E"
	Burns          SkinProblemOption = "F"
	NoSkinProblem  SkinProblemOption = "Z"
)

func (SkinProblemOption) Options() []SkinProblemOption {
	return []SkinProblemOption{FootInfection, OpenLesions, SurgicalWounds, Burns, NoSkinProblem}
}

func (o SkinProblemOption) IsValid() bool { return containsOption(o.Options(), o) }

// TreatmentOption is an O0100 option (treatments while a resident).
type TreatmentOption string

const (
	Chemotherapy       TreatmentOption = "A"
	Radiation          TreatmentOption = "B"
	OxygenTherapy      TreatmentOption = "C"
	Tracheostomy       TreatmentOption = "E"
	Ventilator         TreatmentOption = "F"
	IVMedication       TreatmentOption = "H"
	Transfusion        TreatmentOption = "I"
	Dialysis           TreatmentOption = "J"
	Isolation          TreatmentOption = "M"
	NoSpecialTreatment TreatmentOption = "Z"
)

func (TreatmentOption) Options() []TreatmentOption {
	return []TreatmentOption{
		Chemotherapy, Radiation, OxygenTherapy, Tracheostomy, Ventilator,
		IVMedication, Transfusion, Dialysis, Isolation, NoSpecialTreatment,
	}
}

func (o TreatmentOption) IsValid() bool { return containsOption(o.Options(), o) }

func containsOption[O comparable](opts []O, o O) bool {
	for _, x := range opts {
		if x == o {
			return true
		}
	}
	return false
}
