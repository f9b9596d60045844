package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltc-mds-engine/internal/domain"
)

func triggerFor(t *testing.T, triggers []domain.CareAreaTrigger, area domain.CareArea) domain.CareAreaTrigger {
	t.Helper()
	for _, tr := range triggers {
		if tr.Area == area {
			return tr
		}
	}
	t.Fatalf("no result for %s", area)
	return domain.CareAreaTrigger{}
}

func evaluateTriggers(a *domain.Assessment) []domain.CareAreaTrigger {
	engine := NewCareAreaEngine(testLogger())
	return engine.EvaluateAll(a, scoresFor(a))
}

// triggeringAssessment trips most of the catalog at once.
func triggeringAssessment(t *testing.T) *domain.Assessment {
	return mustParseYAML(t, `
assessment_id: caa-1
resident_id: res-9
sections:
  B:
    completed: true
    fields: {B0200: "2", B1000: "3"}
  C:
    completed: true
    fields: {C0100: "0", C0700: "1", C1000: "2", C1310A: "1"}
  D:
    completed: true
    fields: {D0100: "0", D0500A1: "1", D0500A2: "3", D0500B1: "1", D0500B2: "3", D0500C1: "1", D0500C2: "3", D0500F1: "1", D0500F2: "1"}
  E:
    completed: true
    fields: {E0100: [A], E0200A: "2", E0800: "1", E1100: "2"}
  F:
    completed: true
    fields: {F0300: "1", F0500B: "5"}
  G:
    completed: true
    fields: {G0110A: "3", G0900B: "1"}
  H:
    completed: true
    fields: {H0100A: "1", H0300: "2"}
  J:
    completed: true
    fields: {J0300: "1", J0400: "2", J0600A: "08", J1550C: "1", J1700A: "1"}
  K:
    completed: true
    fields: {K0300: "1", K0510B: "1"}
  L:
    completed: true
    fields: {L0200: [A, F]}
  M:
    completed: true
    fields: {M0150: "1", M0300B1: "2"}
  N:
    completed: true
    fields: {N0410A: "7"}
  P:
    completed: true
    fields: {P0100A: "2", P0100E: "1"}
  Q:
    completed: true
    fields: {Q0500B: "1"}
`)
}

func TestCareAreaCatalog_CoversEveryArea(t *testing.T) {
	rules := careAreaCatalog()
	require.Len(t, rules, len(domain.AllCareAreas()))

	seen := make(map[domain.CareArea]bool)
	for _, rule := range rules {
		assert.False(t, seen[rule.Area], "duplicate rule for %s", rule.Area)
		seen[rule.Area] = true
		assert.NotEmpty(t, rule.Description, rule.Area)
		assert.NotEmpty(t, rule.Fields, rule.Area)
		assert.NotNil(t, rule.Evaluate, rule.Area)
		for _, f := range rule.Requires {
			assert.True(t, domain.KnownField(f), "%s requires unknown field %s", rule.Area, f)
			assert.Contains(t, rule.Fields, f)
		}
		for _, f := range rule.Fields {
			summary := f == FieldBIMSSummary || f == FieldPHQInterview || f == FieldPHQStaff
			assert.True(t, summary || domain.KnownField(f), "%s inspects unknown field %s", rule.Area, f)
		}
	}
}

func TestDescribeCareArea(t *testing.T) {
	assert.Equal(t, "Pressure Ulcer", DescribeCareArea(domain.CareAreaPressureUlcer))
	assert.Equal(t, "Return to Community Referral", DescribeCareArea(domain.CareAreaReturnToCommunity))
	assert.Equal(t, "", DescribeCareArea("gardening"))
	for _, area := range domain.AllCareAreas() {
		assert.NotEmpty(t, DescribeCareArea(area), area)
	}
}

func TestCareAreaEngine_Triggered(t *testing.T) {
	triggers := evaluateTriggers(triggeringAssessment(t))
	require.Len(t, triggers, 20)

	tests := []struct {
		area  domain.CareArea
		items []domain.TriggerItem
	}{
		{domain.CareAreaDelirium, []domain.TriggerItem{{Field: "C1310A", Value: "1"}}},
		{domain.CareAreaCognitiveLoss, []domain.TriggerItem{{Field: "C0700", Value: "1"}, {Field: "C1000", Value: "2"}}},
		{domain.CareAreaVisualFunction, []domain.TriggerItem{{Field: "B1000", Value: "3"}}},
		{domain.CareAreaCommunication, []domain.TriggerItem{{Field: "B0200", Value: "2"}}},
		{domain.CareAreaADLRehab, []domain.TriggerItem{{Field: "G0900B", Value: "1"}, {Field: "G0110A", Value: "3"}}},
		{domain.CareAreaUrinaryIncontinence, []domain.TriggerItem{{Field: "H0100A", Value: "1"}, {Field: "H0300", Value: "2"}}},
		{domain.CareAreaPsychosocial, []domain.TriggerItem{{Field: "D0500F1", Value: "1"}, {Field: "E0800", Value: "1"}}},
		{domain.CareAreaMoodState, []domain.TriggerItem{{Field: FieldPHQStaff, Value: "10"}}},
		{domain.CareAreaBehavioralSymptoms, []domain.TriggerItem{
			{Field: "E0100A", Value: "1"}, {Field: "E0200A", Value: "2"}, {Field: "E0800", Value: "1"}, {Field: "E1100", Value: "2"},
		}},
		{domain.CareAreaActivities, []domain.TriggerItem{{Field: "F0500B", Value: "5"}}},
		{domain.CareAreaFalls, []domain.TriggerItem{{Field: "J1700A", Value: "1"}}},
		{domain.CareAreaNutritionalStatus, []domain.TriggerItem{{Field: "K0300", Value: "1"}, {Field: "M0300B1", Value: "2"}}},
		{domain.CareAreaFeedingTube, []domain.TriggerItem{{Field: "K0510B", Value: "1"}}},
		{domain.CareAreaDehydration, []domain.TriggerItem{{Field: "J1550C", Value: "1"}}},
		{domain.CareAreaDentalCare, []domain.TriggerItem{{Field: "L0200A", Value: "1"}, {Field: "L0200F", Value: "1"}}},
		{domain.CareAreaPressureUlcer, []domain.TriggerItem{{Field: "M0300B1", Value: "2"}, {Field: "M0150", Value: "1"}, {Field: "G0110A", Value: "3"}}},
		{domain.CareAreaPsychotropicDrugs, []domain.TriggerItem{{Field: "N0410A", Value: "7"}}},
		{domain.CareAreaPhysicalRestraints, []domain.TriggerItem{{Field: "P0100E", Value: "1"}}},
		{domain.CareAreaPain, []domain.TriggerItem{{Field: "J0300", Value: "1"}, {Field: "J0400", Value: "2"}, {Field: "J0600A", Value: "08"}}},
		{domain.CareAreaReturnToCommunity, []domain.TriggerItem{{Field: "Q0500B", Value: "1"}}},
	}

	for _, tt := range tests {
		t.Run(string(tt.area), func(t *testing.T) {
			got := triggerFor(t, triggers, tt.area)
			assert.True(t, got.Triggered)
			assert.Equal(t, tt.items, got.Items)
			assert.Empty(t, got.MissingFields)
		})
	}
}

func TestCareAreaEngine_NothingRecorded(t *testing.T) {
	triggers := evaluateTriggers(&domain.Assessment{ID: "blank"})
	require.Len(t, triggers, 20)

	for _, tr := range triggers {
		assert.False(t, tr.Triggered, tr.Area)
		assert.NotNil(t, tr.Items, tr.Area)
		assert.Empty(t, tr.Items, tr.Area)
	}

	pain := triggerFor(t, triggers, domain.CareAreaPain)
	assert.Equal(t, []domain.FieldID{"J0300"}, pain.MissingFields)
	dental := triggerFor(t, triggers, domain.CareAreaDentalCare)
	assert.Equal(t, []domain.FieldID{"L0200"}, dental.MissingFields)
	falls := triggerFor(t, triggers, domain.CareAreaFalls)
	assert.Empty(t, falls.MissingFields)
}

func TestCareAreaEngine_RequiredFieldMissing(t *testing.T) {
	a := triggeringAssessment(t)
	a.Participation.WantsCommunityInfo = nil
	a.HealthConditions.PainPresence = nil

	triggers := evaluateTriggers(a)

	community := triggerFor(t, triggers, domain.CareAreaReturnToCommunity)
	assert.False(t, community.Triggered)
	assert.Empty(t, community.Items)
	assert.Equal(t, []domain.FieldID{"Q0500B"}, community.MissingFields)

	// pain intensity alone would trigger, but the pain screen is required
	pain := triggerFor(t, triggers, domain.CareAreaPain)
	assert.False(t, pain.Triggered)
	assert.Empty(t, pain.Items)
}

func TestCareAreaEngine_ItemsNonEmptyIffTriggered(t *testing.T) {
	assessments := []*domain.Assessment{
		{},
		classifiable(),
		triggeringAssessment(t),
	}
	for _, a := range assessments {
		for _, tr := range evaluateTriggers(a) {
			if tr.Triggered != (len(tr.Items) > 0) {
				t.Errorf("%s: triggered=%v with %d items", tr.Area, tr.Triggered, len(tr.Items))
			}
		}
	}
}

func TestCareAreaEngine_PermutationInvariance(t *testing.T) {
	a := triggeringAssessment(t)
	scores := scoresFor(a)
	want := NewCareAreaEngine(testLogger()).EvaluateAll(a, scores)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 25; i++ {
		rules := careAreaCatalog()
		rng.Shuffle(len(rules), func(i, j int) { rules[i], rules[j] = rules[j], rules[i] })

		got := NewCareAreaEngineWithRules(testLogger(), rules).EvaluateAll(a, scores)
		require.Equal(t, want, got, "permutation %d", i)
	}
}

func TestCareAreaEngine_InterviewBranches(t *testing.T) {
	a := mustParseYAML(t, `
assessment_id: caa-2
sections:
  C:
    completed: true
    fields: {C0100: "1", C0200: "1", C0300A: "1", C0300B: "0", C0300C: "0", C0400A: "1", C0400B: "0", C0400C: "0"}
  D:
    completed: true
    fields: {D0100: "1", D0150A1: "0", D0150B1: "0", D0150C1: "0", D0150D1: "0", D0150E1: "0", D0150F1: "0", D0150G1: "0", D0150H1: "0", D0150I1: "1", D0150I2: "1"}
`)
	triggers := evaluateTriggers(a)

	cognitive := triggerFor(t, triggers, domain.CareAreaCognitiveLoss)
	assert.True(t, cognitive.Triggered)
	assert.Equal(t, []domain.TriggerItem{{Field: FieldBIMSSummary, Value: "3"}}, cognitive.Items)

	mood := triggerFor(t, triggers, domain.CareAreaMoodState)
	assert.True(t, mood.Triggered)
	assert.Equal(t, []domain.TriggerItem{{Field: "D0150I1", Value: "1"}}, mood.Items)
}
