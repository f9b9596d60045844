package domain

import (
	"sort"
	"strconv"
	"time"
)

// codeDomain is the closed set of wire codes accepted for one enumeration.
// Every value maps to exactly one code and every code to exactly one value.
type codeDomain[T ~uint8] struct {
	name   string
	byCode map[string]T
	byVal  map[T]string
}

func newCodeDomain[T ~uint8](name string, codes map[T]string) codeDomain[T] {
	d := codeDomain[T]{
		name:   name,
		byCode: make(map[string]T, len(codes)),
		byVal:  codes,
	}
	for v, c := range codes {
		d.byCode[c] = v
	}
	return d
}

func (d codeDomain[T]) parse(code string) (T, error) {
	v, ok := d.byCode[code]
	if !ok {
		return 0, &DomainError{Domain: d.name, Code: code, Allowed: d.codes()}
	}
	return v, nil
}

func (d codeDomain[T]) code(v T) string {
	return d.byVal[v]
}

func (d codeDomain[T]) valid(v T) bool {
	_, ok := d.byVal[v]
	return ok
}

func (d codeDomain[T]) codes() []string {
	out := make([]string, 0, len(d.byVal))
	for _, c := range d.byVal {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// rangeCodes builds a {0..max} domain with single-digit wire codes.
func rangeCodes[T ~uint8](max T) map[T]string {
	m := make(map[T]string, int(max)+1)
	for v := T(0); v <= max; v++ {
		m[v] = strconv.Itoa(int(v))
	}
	return m
}

// YesNo is a single checkbox or yes/no item.
type YesNo uint8

const (
	No  YesNo = 0
	Yes YesNo = 1
)

var yesNoDomain = newCodeDomain("yes/no", map[YesNo]string{No: "0", Yes: "1"})

func (v YesNo) Code() string { return yesNoDomain.code(v) }
func (v YesNo) IsValid() bool { return yesNoDomain.valid(v) }
func (v YesNo) Bool() bool { return v == Yes }
func (v *YesNo) UnmarshalCode(code string) (err error) {
	*v, err = yesNoDomain.parse(code)
	return err
}

// YesNoUnable adds the instrument's "unable to answer / no response" code 9.
type YesNoUnable uint8

const (
	ResponseNo  YesNoUnable = 0
	ResponseYes YesNoUnable = 1
	NoResponse  YesNoUnable = 9
)

var yesNoUnableDomain = newCodeDomain("yes/no/no response", map[YesNoUnable]string{
	ResponseNo: "0", ResponseYes: "1", NoResponse: "9",
})

func (v YesNoUnable) Code() string { return yesNoUnableDomain.code(v) }
func (v YesNoUnable) IsValid() bool { return yesNoUnableDomain.valid(v) }
func (v YesNoUnable) Yes() bool { return v == ResponseYes }
func (v *YesNoUnable) UnmarshalCode(code string) (err error) {
	*v, err = yesNoUnableDomain.parse(code)
	return err
}

// OBRAReason is A0310A, the federal OBRA reason for assessment.
type OBRAReason uint8

const (
	OBRAAdmission OBRAReason = iota + 1
	OBRAQuarterly
	OBRAAnnual
	OBRASignificantChange
	OBRASignificantCorrectionComprehensive
	OBRASignificantCorrectionQuarterly
	OBRANone
)

var obraReasonDomain = newCodeDomain("OBRA reason", map[OBRAReason]string{
	OBRAAdmission:                          "01",
	OBRAQuarterly:                          "02",
	OBRAAnnual:                             "03",
	OBRASignificantChange:                  "04",
	OBRASignificantCorrectionComprehensive: "05",
	OBRASignificantCorrectionQuarterly:     "06",
	OBRANone:                               "99",
})

var obraIndicators = map[OBRAReason]byte{
	OBRAAdmission:                          'A',
	OBRAQuarterly:                          'Q',
	OBRAAnnual:                             'N',
	OBRASignificantChange:                  'S',
	OBRASignificantCorrectionComprehensive: 'C',
	OBRASignificantCorrectionQuarterly:     'R',
	OBRANone:                               'X',
}

func (v OBRAReason) Code() string { return obraReasonDomain.code(v) }
func (v OBRAReason) IsValid() bool { return obraReasonDomain.valid(v) }
func (v *OBRAReason) UnmarshalCode(code string) (err error) {
	*v, err = obraReasonDomain.parse(code)
	return err
}

// Indicator is the single assessment-type character carried in the
// classification code.
func (v OBRAReason) Indicator() byte { return obraIndicators[v] }

// IsComprehensive reports whether the reason requires care area assessment.
func (v OBRAReason) IsComprehensive() bool {
	switch v {
	case OBRAAdmission, OBRAAnnual, OBRASignificantChange, OBRASignificantCorrectionComprehensive:
		return true
	default:
		return false
	}
}

// PPSReason is A0310B.
type PPSReason uint8

const (
	PPSFiveDay PPSReason = iota + 1
	PPSInterimPayment
	PPSNone
)

var ppsReasonDomain = newCodeDomain("PPS reason", map[PPSReason]string{
	PPSFiveDay: "01", PPSInterimPayment: "08", PPSNone: "99",
})

func (v PPSReason) Code() string { return ppsReasonDomain.code(v) }
func (v PPSReason) IsValid() bool { return ppsReasonDomain.valid(v) }
func (v *PPSReason) UnmarshalCode(code string) (err error) {
	*v, err = ppsReasonDomain.parse(code)
	return err
}

// EntryDischargeReason is A0310F.
type EntryDischargeReason uint8

const (
	EntryTracking EntryDischargeReason = iota + 1
	DischargeReturnNotAnticipated
	DischargeReturnAnticipated
	DeathInFacility
	EntryDischargeNone
)

var entryDischargeDomain = newCodeDomain("entry/discharge reason", map[EntryDischargeReason]string{
	EntryTracking:                 "01",
	DischargeReturnNotAnticipated: "10",
	DischargeReturnAnticipated:    "11",
	DeathInFacility:               "12",
	EntryDischargeNone:            "99",
})

func (v EntryDischargeReason) Code() string { return entryDischargeDomain.code(v) }
func (v EntryDischargeReason) IsValid() bool { return entryDischargeDomain.valid(v) }
func (v *EntryDischargeReason) UnmarshalCode(code string) (err error) {
	*v, err = entryDischargeDomain.parse(code)
	return err
}

// HearingAbility is B0200: 0 adequate through 3 highly impaired.
type HearingAbility uint8

var hearingDomain = newCodeDomain("hearing", rangeCodes[HearingAbility](3))

func (v HearingAbility) Code() string { return hearingDomain.code(v) }
func (v HearingAbility) IsValid() bool { return hearingDomain.valid(v) }
func (v *HearingAbility) UnmarshalCode(code string) (err error) {
	*v, err = hearingDomain.parse(code)
	return err
}

// Understanding is B0700/B0800: 0 understood through 3 rarely or never.
type Understanding uint8

var understandingDomain = newCodeDomain("understanding", rangeCodes[Understanding](3))

func (v Understanding) Code() string { return understandingDomain.code(v) }
func (v Understanding) IsValid() bool { return understandingDomain.valid(v) }
func (v *Understanding) UnmarshalCode(code string) (err error) {
	*v, err = understandingDomain.parse(code)
	return err
}

// VisionAbility is B1000: 0 adequate through 4 severely impaired.
type VisionAbility uint8

var visionDomain = newCodeDomain("vision", rangeCodes[VisionAbility](4))

func (v VisionAbility) Code() string { return visionDomain.code(v) }
func (v VisionAbility) IsValid() bool { return visionDomain.valid(v) }
func (v *VisionAbility) UnmarshalCode(code string) (err error) {
	*v, err = visionDomain.parse(code)
	return err
}

// BIMSPoints is one brief interview for mental status item. Each item has its
// own maximum, so each item gets its own domain.
type BIMSPoints uint8

var (
	wordRepetitionDomain   = newCodeDomain("BIMS word repetition", rangeCodes[BIMSPoints](3))
	yearOrientationDomain  = newCodeDomain("BIMS year orientation", rangeCodes[BIMSPoints](3))
	monthOrientationDomain = newCodeDomain("BIMS month orientation", rangeCodes[BIMSPoints](2))
	dayOrientationDomain   = newCodeDomain("BIMS day orientation", rangeCodes[BIMSPoints](1))
	wordRecallDomain       = newCodeDomain("BIMS word recall", rangeCodes[BIMSPoints](2))
)

// WordRepetition is C0200 (0-3 words repeated).
type WordRepetition BIMSPoints

func (v WordRepetition) Code() string { return wordRepetitionDomain.code(BIMSPoints(v)) }
func (v WordRepetition) Points() int { return int(v) }
func (v WordRepetition) IsValid() bool { return wordRepetitionDomain.valid(BIMSPoints(v)) }
func (v *WordRepetition) UnmarshalCode(code string) error {
	p, err := wordRepetitionDomain.parse(code)
	*v = WordRepetition(p)
	return err
}

// YearOrientation is C0300A (0-3).
type YearOrientation BIMSPoints

func (v YearOrientation) Code() string { return yearOrientationDomain.code(BIMSPoints(v)) }
func (v YearOrientation) Points() int { return int(v) }
func (v YearOrientation) IsValid() bool { return yearOrientationDomain.valid(BIMSPoints(v)) }
func (v *YearOrientation) UnmarshalCode(code string) error {
	p, err := yearOrientationDomain.parse(code)
	*v = YearOrientation(p)
	return err
}

// MonthOrientation is C0300B (0-2).
type MonthOrientation BIMSPoints

func (v MonthOrientation) Code() string { return monthOrientationDomain.code(BIMSPoints(v)) }
func (v MonthOrientation) Points() int { return int(v) }
func (v MonthOrientation) IsValid() bool { return monthOrientationDomain.valid(BIMSPoints(v)) }
func (v *MonthOrientation) UnmarshalCode(code string) error {
	p, err := monthOrientationDomain.parse(code)
	*v = MonthOrientation(p)
	return err
}

// DayOrientation is C0300C (0-1).
type DayOrientation BIMSPoints

func (v DayOrientation) Code() string { return dayOrientationDomain.code(BIMSPoints(v)) }
func (v DayOrientation) Points() int { return int(v) }
func (v DayOrientation) IsValid() bool { return dayOrientationDomain.valid(BIMSPoints(v)) }
func (v *DayOrientation) UnmarshalCode(code string) error {
	p, err := dayOrientationDomain.parse(code)
	*v = DayOrientation(p)
	return err
}

// WordRecall is C0400A-C (0-2 each).
type WordRecall BIMSPoints

func (v WordRecall) Code() string { return wordRecallDomain.code(BIMSPoints(v)) }
func (v WordRecall) Points() int { return int(v) }
func (v WordRecall) IsValid() bool { return wordRecallDomain.valid(BIMSPoints(v)) }
func (v *WordRecall) UnmarshalCode(code string) error {
	p, err := wordRecallDomain.parse(code)
	*v = WordRecall(p)
	return err
}

// MemoryStatus is C0700/C0800: 0 memory OK, 1 memory problem.
type MemoryStatus uint8

const (
	MemoryOK      MemoryStatus = 0
	MemoryProblem MemoryStatus = 1
)

var memoryDomain = newCodeDomain("memory status", rangeCodes[MemoryStatus](1))

func (v MemoryStatus) Code() string { return memoryDomain.code(v) }
func (v MemoryStatus) IsValid() bool { return memoryDomain.valid(v) }
func (v *MemoryStatus) UnmarshalCode(code string) (err error) {
	*v, err = memoryDomain.parse(code)
	return err
}

// DecisionMaking is C1000: 0 independent through 3 severely impaired.
type DecisionMaking uint8

const (
	DecisionIndependent DecisionMaking = iota
	DecisionModifiedIndependence
	DecisionModeratelyImpaired
	DecisionSeverelyImpaired
)

var decisionDomain = newCodeDomain("cognitive skills for daily decision making", rangeCodes[DecisionMaking](3))

func (v DecisionMaking) Code() string { return decisionDomain.code(v) }
func (v DecisionMaking) IsValid() bool { return decisionDomain.valid(v) }
func (v *DecisionMaking) UnmarshalCode(code string) (err error) {
	*v, err = decisionDomain.parse(code)
	return err
}

// DeliriumPresence is C1310B-D: 0 absent, 1 present and steady, 2 fluctuates.
type DeliriumPresence uint8

const (
	DeliriumAbsent DeliriumPresence = iota
	DeliriumPresentSteady
	DeliriumFluctuates
)

var deliriumDomain = newCodeDomain("delirium behavior", rangeCodes[DeliriumPresence](2))

func (v DeliriumPresence) Code() string { return deliriumDomain.code(v) }
func (v DeliriumPresence) IsValid() bool { return deliriumDomain.valid(v) }
func (v *DeliriumPresence) UnmarshalCode(code string) (err error) {
	*v, err = deliriumDomain.parse(code)
	return err
}

// SymptomFrequency is the PHQ frequency column: 0 never or 1 day through
// 3 nearly every day.
type SymptomFrequency uint8

const (
	NeverOrOneDay SymptomFrequency = iota
	SeveralDays
	HalfOrMoreOfDays
	NearlyEveryDay
)

var symptomFrequencyDomain = newCodeDomain("symptom frequency", rangeCodes[SymptomFrequency](3))

func (v SymptomFrequency) Code() string { return symptomFrequencyDomain.code(v) }
func (v SymptomFrequency) IsValid() bool { return symptomFrequencyDomain.valid(v) }
func (v *SymptomFrequency) UnmarshalCode(code string) (err error) {
	*v, err = symptomFrequencyDomain.parse(code)
	return err
}

// BehaviorFrequency is E0200/E0800/E0900: days observed in the 7-day
// look-back. 0 not exhibited, 1 on 1-3 days, 2 on 4-6 days, 3 daily.
type BehaviorFrequency uint8

var behaviorFrequencyDomain = newCodeDomain("behavior frequency", rangeCodes[BehaviorFrequency](3))

func (v BehaviorFrequency) Code() string { return behaviorFrequencyDomain.code(v) }
func (v BehaviorFrequency) IsValid() bool { return behaviorFrequencyDomain.valid(v) }
func (v *BehaviorFrequency) UnmarshalCode(code string) (err error) {
	*v, err = behaviorFrequencyDomain.parse(code)
	return err
}

// BehaviorChange is E1100.
type BehaviorChange uint8

const (
	BehaviorSame BehaviorChange = iota
	BehaviorImproved
	BehaviorWorse
	BehaviorChangeNotApplicable
)

var behaviorChangeDomain = newCodeDomain("behavior change", rangeCodes[BehaviorChange](3))

func (v BehaviorChange) Code() string { return behaviorChangeDomain.code(v) }
func (v BehaviorChange) IsValid() bool { return behaviorChangeDomain.valid(v) }
func (v *BehaviorChange) UnmarshalCode(code string) (err error) {
	*v, err = behaviorChangeDomain.parse(code)
	return err
}

// ActivityPreference is F0500.
type ActivityPreference uint8

const (
	PreferenceVeryImportant ActivityPreference = iota + 1
	PreferenceSomewhatImportant
	PreferenceNotVeryImportant
	PreferenceNotImportant
	PreferenceImportantCannotDo
	PreferenceNoResponse
)

var activityPreferenceDomain = newCodeDomain("activity preference", map[ActivityPreference]string{
	PreferenceVeryImportant:     "1",
	PreferenceSomewhatImportant: "2",
	PreferenceNotVeryImportant:  "3",
	PreferenceNotImportant:      "4",
	PreferenceImportantCannotDo: "5",
	PreferenceNoResponse:        "9",
})

func (v ActivityPreference) Code() string { return activityPreferenceDomain.code(v) }
func (v ActivityPreference) IsValid() bool { return activityPreferenceDomain.valid(v) }
func (v *ActivityPreference) UnmarshalCode(code string) (err error) {
	*v, err = activityPreferenceDomain.parse(code)
	return err
}

// ADLSelfPerformance is G0110 column 1.
type ADLSelfPerformance uint8

const (
	ADLIndependent         ADLSelfPerformance = 0
	ADLSupervision         ADLSelfPerformance = 1
	ADLLimitedAssistance   ADLSelfPerformance = 2
	ADLExtensiveAssistance ADLSelfPerformance = 3
	ADLTotalDependence     ADLSelfPerformance = 4
	ADLOccurredOnceOrTwice ADLSelfPerformance = 7
	ADLDidNotOccur         ADLSelfPerformance = 8
)

// ADLPointCap is the most any single ADL item contributes to the ADL score.
const ADLPointCap = 4

var adlSelfPerformanceDomain = newCodeDomain("ADL self-performance", map[ADLSelfPerformance]string{
	ADLIndependent:         "0",
	ADLSupervision:         "1",
	ADLLimitedAssistance:   "2",
	ADLExtensiveAssistance: "3",
	ADLTotalDependence:     "4",
	ADLOccurredOnceOrTwice: "7",
	ADLDidNotOccur:         "8",
})

func (v ADLSelfPerformance) Code() string { return adlSelfPerformanceDomain.code(v) }
func (v ADLSelfPerformance) IsValid() bool { return adlSelfPerformanceDomain.valid(v) }
func (v *ADLSelfPerformance) UnmarshalCode(code string) (err error) {
	*v, err = adlSelfPerformanceDomain.parse(code)
	return err
}

// Points returns the item's contribution to the ADL score. Codes above the
// cap mean the activity could not be assessed and count as the cap.
func (v ADLSelfPerformance) Points() int {
	if int(v) > ADLPointCap {
		return ADLPointCap
	}
	return int(v)
}

// NeedsAssistance reports a recorded need for help (codes 1-4).
func (v ADLSelfPerformance) NeedsAssistance() bool {
	return v >= ADLSupervision && v <= ADLTotalDependence
}

// RangeOfMotion is G0400A/B.
type RangeOfMotion uint8

const (
	ROMNoImpairment RangeOfMotion = iota
	ROMOneSide
	ROMBothSides
)

var romDomain = newCodeDomain("range of motion", rangeCodes[RangeOfMotion](2))

func (v RangeOfMotion) Code() string { return romDomain.code(v) }
func (v RangeOfMotion) IsValid() bool { return romDomain.valid(v) }
func (v *RangeOfMotion) UnmarshalCode(code string) (err error) {
	*v, err = romDomain.parse(code)
	return err
}

// Continence is H0300/H0400.
type Continence uint8

const (
	AlwaysContinent Continence = iota
	OccasionallyIncontinent
	FrequentlyIncontinent
	AlwaysIncontinent
	ContinenceNotRated Continence = 9
)

var continenceDomain = newCodeDomain("continence", map[Continence]string{
	AlwaysContinent:         "0",
	OccasionallyIncontinent: "1",
	FrequentlyIncontinent:   "2",
	AlwaysIncontinent:       "3",
	ContinenceNotRated:      "9",
})

func (v Continence) Code() string { return continenceDomain.code(v) }
func (v Continence) IsValid() bool { return continenceDomain.valid(v) }
func (v *Continence) UnmarshalCode(code string) (err error) {
	*v, err = continenceDomain.parse(code)
	return err
}

// PainFrequency is J0400.
type PainFrequency uint8

const (
	PainAlmostConstantly PainFrequency = iota + 1
	PainFrequently
	PainOccasionally
	PainRarely
	PainFrequencyUnable PainFrequency = 9
)

var painFrequencyDomain = newCodeDomain("pain frequency", map[PainFrequency]string{
	PainAlmostConstantly: "1",
	PainFrequently:       "2",
	PainOccasionally:     "3",
	PainRarely:           "4",
	PainFrequencyUnable:  "9",
})

func (v PainFrequency) Code() string { return painFrequencyDomain.code(v) }
func (v PainFrequency) IsValid() bool { return painFrequencyDomain.valid(v) }
func (v *PainFrequency) UnmarshalCode(code string) (err error) {
	*v, err = painFrequencyDomain.parse(code)
	return err
}

// PainIntensity is J0600A, the 00-10 numeric rating; 99 means unable.
type PainIntensity uint8

// PainIntensityUnable is the wire value 99.
const PainIntensityUnable PainIntensity = 99

var painIntensityDomain = func() codeDomain[PainIntensity] {
	m := make(map[PainIntensity]string, 12)
	for v := PainIntensity(0); v <= 10; v++ {
		m[v] = twoDigit(int(v))
	}
	m[PainIntensityUnable] = "99"
	return newCodeDomain("pain intensity", m)
}()

func (v PainIntensity) Code() string { return painIntensityDomain.code(v) }
func (v PainIntensity) IsValid() bool { return painIntensityDomain.valid(v) }
func (v *PainIntensity) UnmarshalCode(code string) (err error) {
	*v, err = painIntensityDomain.parse(code)
	return err
}

// WeightLoss is K0300.
type WeightLoss uint8

const (
	WeightLossNone WeightLoss = iota
	WeightLossPrescribed
	WeightLossNotPrescribed
)

var weightLossDomain = newCodeDomain("weight loss", rangeCodes[WeightLoss](2))

func (v WeightLoss) Code() string { return weightLossDomain.code(v) }
func (v WeightLoss) IsValid() bool { return weightLossDomain.valid(v) }
func (v *WeightLoss) UnmarshalCode(code string) (err error) {
	*v, err = weightLossDomain.parse(code)
	return err
}

// UlcerCount is an M0300 count column (0-9).
type UlcerCount uint8

var ulcerCountDomain = newCodeDomain("ulcer count", rangeCodes[UlcerCount](9))

func (v UlcerCount) Code() string { return ulcerCountDomain.code(v) }
func (v UlcerCount) IsValid() bool { return ulcerCountDomain.valid(v) }
func (v *UlcerCount) UnmarshalCode(code string) (err error) {
	*v, err = ulcerCountDomain.parse(code)
	return err
}

// Days is a count of days in the 7-day look-back (0-7).
type Days uint8

var daysDomain = newCodeDomain("days in look-back", rangeCodes[Days](7))

func (v Days) Code() string { return daysDomain.code(v) }
func (v Days) IsValid() bool { return daysDomain.valid(v) }
func (v *Days) UnmarshalCode(code string) (err error) {
	*v, err = daysDomain.parse(code)
	return err
}

// RestraintUse is P0100: 0 not used, 1 used less than daily, 2 used daily.
type RestraintUse uint8

var restraintDomain = newCodeDomain("restraint use", rangeCodes[RestraintUse](2))

func (v RestraintUse) Code() string { return restraintDomain.code(v) }
func (v RestraintUse) IsValid() bool { return restraintDomain.valid(v) }
func (v *RestraintUse) UnmarshalCode(code string) (err error) {
	*v, err = restraintDomain.parse(code)
	return err
}

// DateLayout is the instrument's wire layout for dates.
const DateLayout = "20060102"

// Date is a calendar date item such as A1600 or A2300.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Code() string { return d.Format(DateLayout) }
func (d Date) IsValid() bool { return !d.IsZero() }

func (d *Date) UnmarshalCode(code string) error {
	t, err := time.Parse(DateLayout, code)
	if err != nil {
		return &DomainError{Domain: "date (YYYYMMDD)", Code: code}
	}
	d.Time = t
	return nil
}

func twoDigit(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
