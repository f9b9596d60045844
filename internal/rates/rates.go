// Package rates loads the case-mix index table and the rate adjustment table
// used to price a classification.
package rates

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ltc-mds-engine/internal/domain"
)

//go:embed default_rates.yaml
var defaultRates []byte

// tableFile is the YAML layout of a rate table.
type tableFile struct {
	Version              string                     `yaml:"version"`
	BasePerDiem          decimal.Decimal            `yaml:"base_per_diem"`
	AssessmentIndicators []string                   `yaml:"assessment_indicators"`
	CaseMix              map[string]decimal.Decimal `yaml:"case_mix"`
	Adjustments          []domain.RateAdjustment    `yaml:"adjustments"`
}

// Table is an immutable, validated rate table.
type Table struct {
	version     string
	basePerDiem decimal.Decimal
	indicators  map[byte]bool
	caseMix     map[string]decimal.Decimal
	adjustments []domain.RateAdjustment
}

// Default returns the table compiled into the binary.
func Default() (*Table, error) {
	return Load(bytes.NewReader(defaultRates))
}

// LoadFile reads a table from a YAML file.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rate table: %w", err)
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Load decodes and validates a YAML rate table.
func Load(r io.Reader) (*Table, error) {
	var file tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRateTable, err)
	}
	if err := file.validate(); err != nil {
		return nil, err
	}

	t := &Table{
		version:     file.Version,
		basePerDiem: file.BasePerDiem,
		indicators:  make(map[byte]bool, len(file.AssessmentIndicators)),
		caseMix:     file.CaseMix,
		adjustments: file.Adjustments,
	}
	for _, ind := range file.AssessmentIndicators {
		t.indicators[ind[0]] = true
	}
	return t, nil
}

func (f *tableFile) validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRateTable, fmt.Sprintf(format, args...))
	}

	if !f.BasePerDiem.IsPositive() {
		return invalid("base_per_diem must be positive")
	}
	if len(f.AssessmentIndicators) == 0 {
		return invalid("no assessment indicators")
	}
	for _, ind := range f.AssessmentIndicators {
		if len(ind) != 1 {
			return invalid("assessment indicator %q must be one character", ind)
		}
	}
	if len(f.CaseMix) == 0 {
		return invalid("empty case_mix")
	}
	for group, cmi := range f.CaseMix {
		if !validGroup(group) {
			return invalid("payment group %q", group)
		}
		if !cmi.IsPositive() {
			return invalid("case-mix index for %s must be positive", group)
		}
	}
	for _, adj := range f.Adjustments {
		if !adj.Kind.IsValid() {
			return invalid("adjustment %s: kind %q", adj.Name, adj.Kind)
		}
		if !domain.KnownField(adj.Field) {
			return invalid("adjustment %s: unknown field %s", adj.Name, adj.Field)
		}
		if adj.Kind == domain.AdjustmentMultiplier && !adj.Amount.IsPositive() {
			return invalid("adjustment %s: multiplier must be positive", adj.Name)
		}
		if adj.Kind == domain.AdjustmentAddOn && adj.Amount.IsNegative() {
			return invalid("adjustment %s: add-on must not be negative", adj.Name)
		}
	}
	return nil
}

// validGroup checks the rehab letter, nursing digit and behavior letter.
func validGroup(group string) bool {
	if len(group) != 3 {
		return false
	}
	rehab := false
	for _, c := range domain.RehabCategories() {
		if c.Letter() == group[0] {
			rehab = true
		}
	}
	behavior := false
	for _, c := range domain.BehaviorCategories() {
		if c.Letter() == group[2] {
			behavior = true
		}
	}
	return rehab && domain.NursingTier(group[1]-'0').IsValid() && behavior
}

// Version identifies the table revision.
func (t *Table) Version() string { return t.version }

// BasePerDiem is the unadjusted daily rate.
func (t *Table) BasePerDiem() decimal.Decimal { return t.basePerDiem }

// CaseMixIndex looks up the index for a four-character classification code.
// Codes whose group or indicator the table does not carry are an
// UnknownClassificationCode error.
func (t *Table) CaseMixIndex(code string) (decimal.Decimal, error) {
	if len(code) != 4 || !t.indicators[code[3]] {
		return decimal.Zero, domain.NewUnknownClassificationCode(code)
	}
	cmi, ok := t.caseMix[code[:3]]
	if !ok {
		return decimal.Zero, domain.NewUnknownClassificationCode(code)
	}
	return cmi, nil
}

// Adjustments returns the add-on rules in table order.
func (t *Table) Adjustments() []domain.RateAdjustment {
	out := make([]domain.RateAdjustment, len(t.adjustments))
	copy(out, t.adjustments)
	return out
}

// Groups lists the payment groups in sorted order.
func (t *Table) Groups() []string {
	out := make([]string, 0, len(t.caseMix))
	for g := range t.caseMix {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Indicators lists the accepted assessment indicators in sorted order.
func (t *Table) Indicators() []string {
	out := make([]string, 0, len(t.indicators))
	for c := range t.indicators {
		out = append(out, string(c))
	}
	sort.Strings(out)
	return out
}

// WithBasePerDiem returns a copy of the table with a different base rate.
func (t *Table) WithBasePerDiem(base decimal.Decimal) (*Table, error) {
	if !base.IsPositive() {
		return nil, fmt.Errorf("%w: base per diem must be positive", domain.ErrInvalidRateTable)
	}
	c := *t
	c.basePerDiem = base
	return &c, nil
}

var _ domain.RateTable = (*Table)(nil)
