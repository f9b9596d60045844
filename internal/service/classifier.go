package service

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ltc-mds-engine/internal/domain"
)

// Restorative and therapy minimums that count toward the rehabilitation signal.
const (
	restorativeMinimumDays = 6
	therapyMinimumDays     = 1
)

// Upper bounds used when the missing-field policy assumes the most severe
// answer for a blank item.
const (
	daysInLookBack       = 7
	maxBehaviorFrequency = 3
)

// requiredSections must be present and completed before a classification is
// attempted.
var requiredSections = []domain.SectionID{
	domain.SectionIdentification,
	domain.SectionBehavior,
	domain.SectionFunction,
	domain.SectionDiagnoses,
	domain.SectionTreatments,
}

// flagInputSections feed nursing flag rows but are not required. When one is
// absent its rows cannot be met, so the result names it.
var flagInputSections = []domain.SectionID{
	domain.SectionSensory,
	domain.SectionHealthConditions,
	domain.SectionNutrition,
	domain.SectionSkin,
	domain.SectionMedications,
}

// RequiredSections lists the sections a classification reads.
func RequiredSections() []domain.SectionID {
	out := make([]domain.SectionID, len(requiredSections))
	copy(out, requiredSections)
	return out
}

// MissingSections returns the required sections that are absent or not
// marked completed, in section order.
func MissingSections(a *domain.Assessment) []domain.SectionID {
	var missing []domain.SectionID
	for _, id := range requiredSections {
		if !a.SectionCompleted(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// Classifier assigns the rehabilitation, nursing and behavior tiers and
// assembles the classification code.
type Classifier struct {
	logger     *logrus.Logger
	config     domain.EngineConfig
	rates      domain.RateTable
	conditions []QualifyingConditionRule
}

// NewClassifier creates a classifier. The engine configuration is validated
// here so Classify never sees bad thresholds.
func NewClassifier(logger *logrus.Logger, config domain.EngineConfig, rates domain.RateTable) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if rates == nil {
		return nil, fmt.Errorf("classifier requires a rate table")
	}
	config.RehabThresholds = append([]int(nil), config.RehabThresholds...)
	config.BehaviorThresholds = append([]int(nil), config.BehaviorThresholds...)
	return &Classifier{
		logger:     logger,
		config:     config,
		rates:      rates,
		conditions: qualifyingConditions(),
	}, nil
}

// Conditions returns the qualifying-condition table the classifier uses.
func (c *Classifier) Conditions() []QualifyingConditionRule {
	out := make([]QualifyingConditionRule, len(c.conditions))
	copy(out, c.conditions)
	return out
}

// Classify derives the classification from an assessment and its scores.
func (c *Classifier) Classify(a *domain.Assessment, scores domain.Scores) (*domain.ClassificationResult, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if missing := MissingSections(a); len(missing) > 0 {
		return nil, domain.NewIncompleteAssessment(missing)
	}

	reason := a.Identification.OBRAReason
	if reason == nil {
		return nil, domain.NewInvalidFieldValue("A0310A", "", errors.New("assessment type is required for the classification code"))
	}

	policy := c.config.MissingFieldPolicy
	result := &domain.ClassificationResult{
		Indicator:          string(reason.Indicator()),
		UnassessedSections: unassessedSections(a),
	}
	var rehabFallbacks, behaviorFallbacks []domain.FieldID
	result.RehabSignal, rehabFallbacks = RehabSignal(a, scores, policy)
	result.BehaviorTally, behaviorFallbacks = BehaviorTally(a, policy)
	result.Fallbacks = append(behaviorFallbacks, rehabFallbacks...)
	result.Rehab = c.rehabCategory(result.RehabSignal)
	result.Behavior = c.behaviorCategory(result.BehaviorTally)

	flags := make(map[domain.NursingFlag]bool, len(domain.NursingFlags()))
	for _, rule := range c.conditions {
		items := rule.Met(a, scores)
		if len(items) == 0 {
			continue
		}
		flags[rule.Flag] = true
		result.Qualifying = append(result.Qualifying, domain.QualifyingCondition{
			Flag:      rule.Flag,
			Condition: rule.Condition,
			Fields:    itemFields(items),
		})
	}
	result.SpecialCareHigh = flags[domain.SpecialCareHigh]
	result.SpecialCareLow = flags[domain.SpecialCareLow]
	result.ComplexMedical = flags[domain.ComplexMedical]
	result.ReducedPhysicalFunction = flags[domain.ReducedPhysicalFunction]
	result.NursingTier = domain.NursingTierFor(flags)

	result.Code = string([]byte{
		result.Rehab.Letter(),
		result.NursingTier.Digit(),
		result.Behavior.Letter(),
		reason.Indicator(),
	})

	cmi, err := c.rates.CaseMixIndex(result.Code)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"code":       result.Code,
			"rate_table": c.rates.Version(),
		}).Error("Classification code missing from rate table")
		return nil, err
	}
	result.CaseMixIndex = cmi

	c.logger.WithFields(logrus.Fields(result.LogFields())).Debug("Assessment classified")
	return result, nil
}

// rehabCategory steps the signal down the configured thresholds.
func (c *Classifier) rehabCategory(signal int) domain.RehabCategory {
	categories := domain.RehabCategories()
	for i, threshold := range c.config.RehabThresholds {
		if signal >= threshold {
			return categories[i]
		}
	}
	return domain.RehabLow
}

func (c *Classifier) behaviorCategory(tally int) domain.BehaviorCategory {
	switch {
	case tally >= c.config.BehaviorThresholds[0]:
		return domain.BehaviorHigh
	case tally >= c.config.BehaviorThresholds[1]:
		return domain.BehaviorMedium
	default:
		return domain.BehaviorLow
	}
}

// RehabSignal is the ADL total plus one point per restorative program
// delivered on six or more days and one per therapy discipline delivered at
// all. Blank day counts are resolved by the policy and returned.
func RehabSignal(a *domain.Assessment, scores domain.Scores, policy domain.MissingFieldPolicy) (int, []domain.FieldID) {
	o := a.Treatments
	if o == nil {
		o = &domain.TreatmentsSection{}
	}
	var fallbacks []domain.FieldID
	signal := scores.ADL.Score
	signal += countDays(o.RestorativePrograms(), restorativeMinimumDays, policy, &fallbacks)
	signal += countDays(o.TherapyDisciplines(), therapyMinimumDays, policy, &fallbacks)
	return signal, fallbacks
}

func countDays(items []domain.DaysItem, minimum int, policy domain.MissingFieldPolicy, fallbacks *[]domain.FieldID) int {
	n := 0
	for _, item := range items {
		var days int
		if item.Value != nil {
			days = int(*item.Value)
		} else {
			days = resolveMissing(policy, item.Field, 0, daysInLookBack, fallbacks)
		}
		if days >= minimum {
			n++
		}
	}
	return n
}

// BehaviorTally sums the frequency codes of the physical, verbal and other
// behavioral symptoms, rejection of care and wandering. Blank items are
// resolved by the policy and returned.
func BehaviorTally(a *domain.Assessment, policy domain.MissingFieldPolicy) (int, []domain.FieldID) {
	e := a.Behavior
	if e == nil {
		e = &domain.BehaviorSection{}
	}
	items := []struct {
		field domain.FieldID
		value *domain.BehaviorFrequency
	}{
		{"E0200A", e.PhysicalToOthers},
		{"E0200B", e.VerbalToOthers},
		{"E0200C", e.OtherBehavior},
		{"E0800", e.RejectionOfCare},
		{"E0900", e.Wandering},
	}

	var fallbacks []domain.FieldID
	tally := 0
	for _, item := range items {
		if item.value == nil {
			tally += resolveMissing(policy, item.field, 0, maxBehaviorFrequency, &fallbacks)
			continue
		}
		tally += int(*item.value)
	}
	return tally, fallbacks
}

// unassessedSections lists the flag input sections that are absent or not
// marked completed.
func unassessedSections(a *domain.Assessment) []domain.SectionID {
	var out []domain.SectionID
	for _, id := range flagInputSections {
		if !a.SectionCompleted(id) {
			out = append(out, id)
		}
	}
	return out
}
