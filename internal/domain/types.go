// Package domain contains the core entities of the long-term-care assessment
// engine: the typed assessment snapshot, its closed code domains, and the
// score, classification, revenue and care-area trigger results derived from it.
//
// Item codes, response codes and section letters follow the MDS 3.0 resident
// assessment instrument.
package domain

import (
	"errors"
)

// ScoreMethod records which branch of an instrument produced a score.
type ScoreMethod string

const (
	MethodInterview       ScoreMethod = "interview"
	MethodStaffAssessment ScoreMethod = "staff_assessment"
)

func (m ScoreMethod) IsValid() bool {
	return m == MethodInterview || m == MethodStaffAssessment
}

func (m ScoreMethod) String() string { return string(m) }

// CognitiveStatus is the tier derived from the brief interview for mental
// status or, failing that, the staff assessment.
type CognitiveStatus string

const (
	CognitivelyIntact  CognitiveStatus = "intact"
	ModeratelyImpaired CognitiveStatus = "moderately_impaired"
	SeverelyImpaired   CognitiveStatus = "severely_impaired"
)

// Score bounds of the three instruments.
const (
	BIMSMaxScore         = 15
	PHQInterviewMaxScore = 27
	PHQStaffMaxScore     = 30
	ADLMaxScore          = 32

	bimsIntactMinimum   = 13
	bimsModerateMinimum = 8
)

// CognitiveStatusForScore maps an interview total onto its tier.
func CognitiveStatusForScore(score int) CognitiveStatus {
	switch {
	case score >= bimsIntactMinimum:
		return CognitivelyIntact
	case score >= bimsModerateMinimum:
		return ModeratelyImpaired
	default:
		return SeverelyImpaired
	}
}

func (c CognitiveStatus) IsValid() bool {
	switch c {
	case CognitivelyIntact, ModeratelyImpaired, SeverelyImpaired:
		return true
	default:
		return false
	}
}

func (c CognitiveStatus) String() string { return string(c) }

// Impaired reports any cognitive impairment.
func (c CognitiveStatus) Impaired() bool {
	return c == ModeratelyImpaired || c == SeverelyImpaired
}

// MoodSeverity is the depression severity tier of a PHQ total.
type MoodSeverity string

const (
	MoodMinimal          MoodSeverity = "minimal"
	MoodMild             MoodSeverity = "mild"
	MoodModerate         MoodSeverity = "moderate"
	MoodModeratelySevere MoodSeverity = "moderately_severe"
	MoodSevere           MoodSeverity = "severe"
)

// MoodSeverityForScore maps a PHQ total onto its tier.
func MoodSeverityForScore(score int) MoodSeverity {
	switch {
	case score >= 20:
		return MoodSevere
	case score >= 15:
		return MoodModeratelySevere
	case score >= 10:
		return MoodModerate
	case score >= 5:
		return MoodMild
	default:
		return MoodMinimal
	}
}

func (m MoodSeverity) IsValid() bool {
	switch m {
	case MoodMinimal, MoodMild, MoodModerate, MoodModeratelySevere, MoodSevere:
		return true
	default:
		return false
	}
}

func (m MoodSeverity) String() string { return string(m) }

// ADLIndependence is the functional band of an ADL total.
type ADLIndependence string

const (
	ADLHighIndependence     ADLIndependence = "high_independence"
	ADLModerateIndependence ADLIndependence = "moderate_independence"
	ADLLowIndependence      ADLIndependence = "low_independence"
	ADLExtensiveDependence  ADLIndependence = "extensive_assistance"
)

// ADLIndependenceForScore maps an ADL total onto its band.
func ADLIndependenceForScore(score int) ADLIndependence {
	switch {
	case score <= 8:
		return ADLHighIndependence
	case score <= 16:
		return ADLModerateIndependence
	case score <= 24:
		return ADLLowIndependence
	default:
		return ADLExtensiveDependence
	}
}

func (a ADLIndependence) IsValid() bool {
	switch a {
	case ADLHighIndependence, ADLModerateIndependence, ADLLowIndependence, ADLExtensiveDependence:
		return true
	default:
		return false
	}
}

func (a ADLIndependence) String() string { return string(a) }

// RehabCategory is the rehabilitation tier, ordered ultra_high > low.
type RehabCategory string

const (
	RehabUltraHigh RehabCategory = "ultra_high"
	RehabVeryHigh  RehabCategory = "very_high"
	RehabHigh      RehabCategory = "high"
	RehabMedium    RehabCategory = "medium"
	RehabLow       RehabCategory = "low"
)

// RehabCategories lists the tiers from highest to lowest.
func RehabCategories() []RehabCategory {
	return []RehabCategory{RehabUltraHigh, RehabVeryHigh, RehabHigh, RehabMedium, RehabLow}
}

func (r RehabCategory) IsValid() bool {
	for _, c := range RehabCategories() {
		if c == r {
			return true
		}
	}
	return false
}

func (r RehabCategory) String() string { return string(r) }

// Letter is the first character of the classification code.
func (r RehabCategory) Letter() byte {
	switch r {
	case RehabUltraHigh:
		return 'U'
	case RehabVeryHigh:
		return 'V'
	case RehabHigh:
		return 'H'
	case RehabMedium:
		return 'M'
	default:
		return 'L'
	}
}

// BehaviorCategory is the behavior tier.
type BehaviorCategory string

const (
	BehaviorHigh   BehaviorCategory = "high"
	BehaviorMedium BehaviorCategory = "medium"
	BehaviorLow    BehaviorCategory = "low"
)

// BehaviorCategories lists the tiers from highest to lowest.
func BehaviorCategories() []BehaviorCategory {
	return []BehaviorCategory{BehaviorHigh, BehaviorMedium, BehaviorLow}
}

func (b BehaviorCategory) IsValid() bool {
	return b == BehaviorHigh || b == BehaviorMedium || b == BehaviorLow
}

func (b BehaviorCategory) String() string { return string(b) }

// Letter is the third character of the classification code.
func (b BehaviorCategory) Letter() byte {
	switch b {
	case BehaviorHigh:
		return 'C'
	case BehaviorMedium:
		return 'B'
	default:
		return 'A'
	}
}

// NursingFlag is one of the clinical flags that select the nursing tier.
type NursingFlag string

const (
	SpecialCareHigh         NursingFlag = "special_care_high"
	SpecialCareLow          NursingFlag = "special_care_low"
	ComplexMedical          NursingFlag = "complex_medical"
	ReducedPhysicalFunction NursingFlag = "reduced_physical_function"
)

// NursingFlags lists the flags in nursing-tier priority order.
func NursingFlags() []NursingFlag {
	return []NursingFlag{SpecialCareHigh, SpecialCareLow, ComplexMedical, ReducedPhysicalFunction}
}

func (f NursingFlag) IsValid() bool {
	for _, n := range NursingFlags() {
		if n == f {
			return true
		}
	}
	return false
}

func (f NursingFlag) String() string { return string(f) }

// NursingTier is the second character of the classification code, 1-5.
type NursingTier uint8

// NursingTierNone is the tier when no flag is set.
const NursingTierNone NursingTier = 5

// NursingTierFor returns the tier of the highest-priority flag set.
func NursingTierFor(flags map[NursingFlag]bool) NursingTier {
	for i, f := range NursingFlags() {
		if flags[f] {
			return NursingTier(i + 1)
		}
	}
	return NursingTierNone
}

func (t NursingTier) IsValid() bool { return t >= 1 && t <= NursingTierNone }

// Digit is the tier as a code character.
func (t NursingTier) Digit() byte { return '0' + byte(t) }

// MissingFieldPolicy decides what a calculator assumes for a blank item.
type MissingFieldPolicy string

const (
	// LowestSeverity assumes each item's least severe code.
	LowestSeverity  MissingFieldPolicy = "lowest_severity"
	// HighestSeverity assumes each item's most severe code.
	HighestSeverity MissingFieldPolicy = "highest_severity"
)

func (p MissingFieldPolicy) IsValid() bool {
	return p == LowestSeverity || p == HighestSeverity
}

func (p MissingFieldPolicy) String() string { return string(p) }

// AdjustmentKind says how a rate adjustment combines with the daily rate.
type AdjustmentKind string

const (
	AdjustmentMultiplier AdjustmentKind = "multiplier"
	AdjustmentAddOn      AdjustmentKind = "add_on"
)

func (k AdjustmentKind) IsValid() bool {
	return k == AdjustmentMultiplier || k == AdjustmentAddOn
}

// Validation errors for configuration and reference data
var (
	ErrInvalidPolicy     = errors.New("invalid missing-field policy")
	ErrInvalidThresholds = errors.New("thresholds must be strictly descending")
	ErrInvalidRateTable  = errors.New("invalid rate table")
	ErrNegativeStay      = errors.New("length of stay must not be negative")
)
