package domain

import (
	"github.com/shopspring/decimal"
)

// CognitiveScore is the brief interview for mental status result.
type CognitiveScore struct {
	Score     int             `json:"score"`
	Status    CognitiveStatus `json:"status"`
	Method    ScoreMethod     `json:"method"`
	Fallbacks []FieldID       `json:"fallbacks,omitempty"`
}

// MoodScore is the PHQ depression severity result.
type MoodScore struct {
	Score     int          `json:"score"`
	Severity  MoodSeverity `json:"severity"`
	Method    ScoreMethod  `json:"method"`
	Fallbacks []FieldID    `json:"fallbacks,omitempty"`
}

// ADLScore is the activities-of-daily-living dependence total.
type ADLScore struct {
	Score        int             `json:"score"`
	Independence ADLIndependence `json:"independence"`
	Fallbacks    []FieldID       `json:"fallbacks,omitempty"`
}

// Scores groups the three clinical sub-scores of one assessment.
type Scores struct {
	Cognitive CognitiveScore `json:"cognitive"`
	Mood      MoodScore      `json:"mood"`
	ADL       ADLScore       `json:"adl"`
}

// QualifyingCondition is one condition that set a nursing flag, with the
// fields it was read from.
type QualifyingCondition struct {
	Flag      NursingFlag `json:"flag"`
	Condition string      `json:"condition"`
	Fields    []FieldID   `json:"fields"`
}

// ClassificationResult is the reimbursement classification of an assessment.
type ClassificationResult struct {
	Rehab                   RehabCategory         `json:"rehab"`
	RehabSignal             int                   `json:"rehab_signal"`
	Behavior                BehaviorCategory      `json:"behavior"`
	BehaviorTally           int                   `json:"behavior_tally"`
	SpecialCareHigh         bool                  `json:"special_care_high"`
	SpecialCareLow          bool                  `json:"special_care_low"`
	ComplexMedical          bool                  `json:"complex_medical"`
	ReducedPhysicalFunction bool                  `json:"reduced_physical_function"`
	Qualifying              []QualifyingCondition `json:"qualifying_conditions,omitempty"`
	UnassessedSections      []SectionID           `json:"unassessed_sections,omitempty"`
	NursingTier             NursingTier           `json:"nursing_tier"`
	Indicator               string                `json:"assessment_indicator"`
	Code                    string                `json:"code"`
	CaseMixIndex            decimal.Decimal       `json:"case_mix_index"`

	// Fallbacks lists the blank behavior, therapy and restorative items that
	// were resolved by the missing-field policy.
	Fallbacks []FieldID `json:"fallbacks,omitempty"`
}

// Flag reports whether the named nursing flag is set.
func (c *ClassificationResult) Flag(f NursingFlag) bool {
	switch f {
	case SpecialCareHigh:
		return c.SpecialCareHigh
	case SpecialCareLow:
		return c.SpecialCareLow
	case ComplexMedical:
		return c.ComplexMedical
	case ReducedPhysicalFunction:
		return c.ReducedPhysicalFunction
	default:
		return false
	}
}

// PaymentGroup is the code without the assessment indicator.
func (c *ClassificationResult) PaymentGroup() string {
	if len(c.Code) < 3 {
		return c.Code
	}
	return c.Code[:3]
}

// LogFields returns structured logging fields for the result.
func (c *ClassificationResult) LogFields() map[string]any {
	fields := map[string]any{
		"code":           c.Code,
		"rehab":          string(c.Rehab),
		"rehab_signal":   c.RehabSignal,
		"behavior":       string(c.Behavior),
		"behavior_tally": c.BehaviorTally,
		"nursing_tier":   int(c.NursingTier),
		"case_mix_index": c.CaseMixIndex.String(),
	}
	if len(c.Fallbacks) > 0 {
		fields["fallbacks"] = len(c.Fallbacks)
	}
	if len(c.UnassessedSections) > 0 {
		fields["unassessed_sections"] = c.UnassessedSections
	}
	return fields
}

// RateAdjustment is one add-on rule of the rate table: when Field reads
// When, the daily rate is multiplied by or increased by Amount.
type RateAdjustment struct {
	Name   string          `json:"name" yaml:"name"`
	Field  FieldID         `json:"field" yaml:"field"`
	When   string          `json:"when" yaml:"when"`
	Kind   AdjustmentKind  `json:"kind" yaml:"kind"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// RevenueEstimate is the reimbursement projection for a classification.
type RevenueEstimate struct {
	BasePerDiem    decimal.Decimal  `json:"base_per_diem"`
	CaseMixIndex   decimal.Decimal  `json:"case_mix_index"`
	Adjustments    []RateAdjustment `json:"adjustments,omitempty"`
	DailyRate      decimal.Decimal  `json:"daily_rate"`
	LengthOfStay   decimal.Decimal  `json:"length_of_stay"`
	MonthlyRevenue decimal.Decimal  `json:"monthly_revenue"`
}

// TriggerItem is one field value supporting a care-area trigger.
type TriggerItem struct {
	Field FieldID `json:"field"`
	Value string  `json:"value"`
}

// CareAreaTrigger is the evaluation of one care area.
type CareAreaTrigger struct {
	Area          CareArea      `json:"area"`
	Description   string        `json:"description"`
	Triggered     bool          `json:"triggered"`
	Items         []TriggerItem `json:"items"`
	MissingFields []FieldID     `json:"missing_fields,omitempty"`
}

// EvaluationOptions carries caller-supplied inputs the engine does not derive.
type EvaluationOptions struct {
	// LengthOfStay is in days and must not be negative.
	LengthOfStay decimal.Decimal
}

// Evaluation is the full scores, classification and revenue result. When the
// assessment is incomplete Available is false, Unavailable carries the
// IncompleteAssessment error and only Scores are computed.
type Evaluation struct {
	AssessmentID    string                `json:"assessment_id"`
	ResidentID      string                `json:"resident_id"`
	Available       bool                  `json:"available"`
	MissingSections []SectionID           `json:"missing_sections,omitempty"`
	Unavailable     *AssessmentError      `json:"unavailable,omitempty"`
	Scores          Scores                `json:"scores"`
	Classification  *ClassificationResult `json:"classification,omitempty"`
	Revenue         *RevenueEstimate      `json:"revenue,omitempty"`
}
