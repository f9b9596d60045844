package service

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/ltc-mds-engine/internal/domain"
)

// CareAreaRule is one entry of the care-area trigger catalog.
type CareAreaRule struct {
	Area        domain.CareArea
	Description string
	// Fields lists every item the rule inspects, for reports and coverage.
	Fields []domain.FieldID
	// Requires lists items without which the rule cannot be decided. A rule
	// with a missing required item is reported untriggered.
	Requires []domain.FieldID
	Evaluate evidence
}

// CareAreaEngine evaluates a catalog of independent care-area rules.
type CareAreaEngine struct {
	logger *logrus.Logger
	rules  []CareAreaRule
}

// NewCareAreaEngine creates an engine over the standard catalog.
func NewCareAreaEngine(logger *logrus.Logger) *CareAreaEngine {
	return NewCareAreaEngineWithRules(logger, careAreaCatalog())
}

// NewCareAreaEngineWithRules creates an engine over a caller-supplied catalog.
func NewCareAreaEngineWithRules(logger *logrus.Logger, rules []CareAreaRule) *CareAreaEngine {
	return &CareAreaEngine{logger: logger, rules: rules}
}

// Rules returns a copy of the catalog.
func (e *CareAreaEngine) Rules() []CareAreaRule {
	out := make([]CareAreaRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// EvaluateAll runs every rule against the assessment. Results are sorted by
// care area so the output does not depend on catalog order.
func (e *CareAreaEngine) EvaluateAll(a *domain.Assessment, scores domain.Scores) []domain.CareAreaTrigger {
	results := make([]domain.CareAreaTrigger, 0, len(e.rules))
	for _, rule := range e.rules {
		results = append(results, evaluateRule(rule, a, scores))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Area.Ordinal() < results[j].Area.Ordinal()
	})

	e.logger.WithFields(logrus.Fields{
		"assessment_id": a.ID,
		"total_rules":   len(results),
		"triggered":     countTriggered(results),
	}).Debug("Completed care-area trigger evaluation")

	return results
}

func evaluateRule(rule CareAreaRule, a *domain.Assessment, scores domain.Scores) domain.CareAreaTrigger {
	trigger := domain.CareAreaTrigger{
		Area:        rule.Area,
		Description: rule.Description,
		Items:       []domain.TriggerItem{},
	}
	for _, f := range rule.Requires {
		if !a.Has(f) {
			trigger.MissingFields = append(trigger.MissingFields, f)
		}
	}
	if len(trigger.MissingFields) > 0 {
		return trigger
	}
	if items := rule.Evaluate(a, scores); len(items) > 0 {
		trigger.Triggered = true
		trigger.Items = items
	}
	return trigger
}

func countTriggered(results []domain.CareAreaTrigger) int {
	n := 0
	for _, r := range results {
		if r.Triggered {
			n++
		}
	}
	return n
}
