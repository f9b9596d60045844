package service

import (
	"github.com/ltc-mds-engine/internal/domain"
)

// phqNonResponseLimit is the number of unanswered interview items that makes
// the resident mood interview incomplete.
const phqNonResponseLimit = 3

// ScoreCalculator derives the cognitive, mood and ADL sub-scores. Missing
// items never fail a calculation; they are resolved by the missing-field
// policy and listed in the result's Fallbacks.
type ScoreCalculator struct {
	policy domain.MissingFieldPolicy
}

// NewScoreCalculator creates a calculator; an invalid policy falls back to
// lowest severity.
func NewScoreCalculator(policy domain.MissingFieldPolicy) *ScoreCalculator {
	if !policy.IsValid() {
		policy = domain.LowestSeverity
	}
	return &ScoreCalculator{policy: policy}
}

// Policy returns the missing-field policy in effect.
func (s *ScoreCalculator) Policy() domain.MissingFieldPolicy { return s.policy }

// All computes the three sub-scores.
func (s *ScoreCalculator) All(a *domain.Assessment) domain.Scores {
	return domain.Scores{
		Cognitive: s.Cognitive(a),
		Mood:      s.Mood(a),
		ADL:       s.ADL(a),
	}
}

// fallback resolves a missing item: least is the item's least severe value,
// most its most severe.
func (s *ScoreCalculator) fallback(field domain.FieldID, least, most int, used *[]domain.FieldID) int {
	return resolveMissing(s.policy, field, least, most, used)
}

// resolveMissing applies a missing-field policy to one blank item and records
// the item in used.
func resolveMissing(policy domain.MissingFieldPolicy, field domain.FieldID, least, most int, used *[]domain.FieldID) int {
	*used = append(*used, field)
	if policy == domain.HighestSeverity {
		return most
	}
	return least
}

// bimsItem is one scored interview item with its maximum.
type bimsItem struct {
	field  domain.FieldID
	points func() (int, bool)
	max    int
}

// Cognitive computes the brief interview for mental status when C0100 says
// the interview was conducted, and the staff assessment otherwise. The staff
// branch yields a status but no interview score, so Score is 0 there.
func (s *ScoreCalculator) Cognitive(a *domain.Assessment) domain.CognitiveScore {
	c := a.Cognition
	if c == nil || c.InterviewConducted == nil || !c.InterviewConducted.Bool() {
		return s.cognitiveStaff(a)
	}

	items := []bimsItem{
		{"C0200", optionalPoints(c.Repetition), 3},
		{"C0300A", optionalPoints(c.RecallYear), 3},
		{"C0300B", optionalPoints(c.RecallMonth), 2},
		{"C0300C", optionalPoints(c.RecallDay), 1},
		{"C0400A", optionalPoints(c.RecallSock), 2},
		{"C0400B", optionalPoints(c.RecallBlue), 2},
		{"C0400C", optionalPoints(c.RecallBed), 2},
	}

	var fallbacks []domain.FieldID
	total := 0
	for _, item := range items {
		p, ok := item.points()
		if !ok {
			// Full points is the least severe answer on every interview item.
			p = s.fallback(item.field, item.max, 0, &fallbacks)
		}
		total += min(p, item.max)
	}
	total = clamp(total, 0, domain.BIMSMaxScore)

	return domain.CognitiveScore{
		Score:     total,
		Status:    domain.CognitiveStatusForScore(total),
		Method:    domain.MethodInterview,
		Fallbacks: fallbacks,
	}
}

func (s *ScoreCalculator) cognitiveStaff(a *domain.Assessment) domain.CognitiveScore {
	result := domain.CognitiveScore{Method: domain.MethodStaffAssessment}

	if b := a.Sensory; b != nil && b.Comatose != nil && b.Comatose.Bool() {
		result.Status = domain.SeverelyImpaired
		return result
	}

	var decision domain.DecisionMaking
	if c := a.Cognition; c != nil && c.DecisionMaking != nil {
		decision = *c.DecisionMaking
	} else {
		decision = domain.DecisionMaking(s.fallback("C1000",
			int(domain.DecisionIndependent), int(domain.DecisionSeverelyImpaired), &result.Fallbacks))
	}

	switch decision {
	case domain.DecisionIndependent:
		result.Status = domain.CognitivelyIntact
	case domain.DecisionSeverelyImpaired:
		result.Status = domain.SeverelyImpaired
	default:
		result.Status = domain.ModeratelyImpaired
	}
	return result
}

// Mood computes the PHQ severity score from the resident interview, or from
// the staff assessment when the interview was not conducted or had three or
// more unanswered items.
func (s *ScoreCalculator) Mood(a *domain.Assessment) domain.MoodScore {
	m := a.Mood
	if m == nil {
		m = &domain.MoodSection{}
	}

	method := domain.MethodStaffAssessment
	items := m.StaffItems()
	maxScore := domain.PHQStaffMaxScore
	if m.InterviewConducted != nil && m.InterviewConducted.Bool() && interviewComplete(m.InterviewItems()) {
		method = domain.MethodInterview
		items = m.InterviewItems()
		maxScore = domain.PHQInterviewMaxScore
	}

	var fallbacks []domain.FieldID
	total := 0
	for _, item := range items {
		total += s.symptomPoints(item, &fallbacks)
	}
	total = clamp(total, 0, maxScore)

	return domain.MoodScore{
		Score:     total,
		Severity:  domain.MoodSeverityForScore(total),
		Method:    method,
		Fallbacks: fallbacks,
	}
}

// symptomPoints scores one PHQ row. Frequency counts only when the symptom
// is present.
func (s *ScoreCalculator) symptomPoints(item domain.SymptomItem, fallbacks *[]domain.FieldID) int {
	const maxFrequency = int(domain.NearlyEveryDay)

	if item.Presence == nil {
		return s.fallback(item.PresenceField, 0, maxFrequency, fallbacks)
	}
	if !item.Presence.Yes() {
		return 0
	}
	if item.Frequency == nil {
		return s.fallback(frequencyField(item.PresenceField), 0, maxFrequency, fallbacks)
	}
	return int(*item.Frequency)
}

func interviewComplete(items []domain.SymptomItem) bool {
	nonResponses := 0
	for _, item := range items {
		if item.Presence != nil && *item.Presence == domain.NoResponse {
			nonResponses++
		}
	}
	return nonResponses < phqNonResponseLimit
}

// frequencyField maps a presence column (D0150A1) to its frequency column
// (D0150A2).
func frequencyField(presence domain.FieldID) domain.FieldID {
	p := string(presence)
	return domain.FieldID(p[:len(p)-1] + "2")
}

// ADL sums the eight self-performance items, each capped at 4.
func (s *ScoreCalculator) ADL(a *domain.Assessment) domain.ADLScore {
	g := a.Function
	if g == nil {
		g = &domain.FunctionSection{}
	}

	var fallbacks []domain.FieldID
	total := 0
	for _, item := range g.ADLItems() {
		if item.Value == nil {
			total += s.fallback(item.Field, 0, domain.ADLPointCap, &fallbacks)
			continue
		}
		total += item.Value.Points()
	}
	total = clamp(total, 0, domain.ADLMaxScore)

	return domain.ADLScore{
		Score:        total,
		Independence: domain.ADLIndependenceForScore(total),
		Fallbacks:    fallbacks,
	}
}

// pointed is implemented by interview item codes.
type pointed interface {
	Points() int
}

func optionalPoints[T pointed](v *T) func() (int, bool) {
	return func() (int, bool) {
		if v == nil {
			return 0, false
		}
		return (*v).Points(), true
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
