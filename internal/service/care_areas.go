package service

import (
	"strconv"

	"github.com/ltc-mds-engine/internal/domain"
)

// fieldSet expands an item stem and its column suffixes into field codes.
func fieldSet(stem string, columns ...string) []domain.FieldID {
	out := make([]domain.FieldID, len(columns))
	for i, c := range columns {
		out[i] = domain.FieldID(stem + c)
	}
	return out
}

var (
	deliriumBehaviors  = fieldSet("C1310", "B", "C", "D")
	adlSelfPerformance = fieldSet("G0110", "A", "B", "C", "E", "G", "H", "I", "J")
	preferenceItems    = fieldSet("F0500", "A", "B", "C", "D", "E", "F")
	behaviorItems      = append(fieldSet("E0200", "A", "B", "C"), "E0800", "E0900")
	ulcerCounts        = fieldSet("M0300", "B1", "C1", "D1")
	dentalProblems     = fieldSet("L0200", "A", "B", "C", "D", "E", "F")
	psychotropics      = fieldSet("N0410", "A", "B", "C", "D")
	restraints         = fieldSet("P0100", "B", "C", "E", "F", "G")
)

// cognitiveImpairment reads the interview summary when the interview was
// conducted and the staff assessment items otherwise.
func cognitiveImpairment(a *domain.Assessment, s domain.Scores) []domain.TriggerItem {
	if s.Cognitive.Method == domain.MethodInterview {
		if !s.Cognitive.Status.Impaired() {
			return nil
		}
		return []domain.TriggerItem{{Field: FieldBIMSSummary, Value: strconv.Itoa(s.Cognitive.Score)}}
	}
	return anyOf(checked("C0700"), checked("C0800"), fieldBetween("C1000", 1, 3))(a, s)
}

// moodSymptoms reads whichever PHQ summary the mood score was computed from.
func moodSymptoms(a *domain.Assessment, s domain.Scores) []domain.TriggerItem {
	summary, selfHarm := FieldPHQStaff, domain.FieldID("D0500I1")
	if s.Mood.Method == domain.MethodInterview {
		summary, selfHarm = FieldPHQInterview, "D0150I1"
	}
	var items []domain.TriggerItem
	if s.Mood.Severity != domain.MoodMinimal && s.Mood.Severity != domain.MoodMild {
		items = append(items, domain.TriggerItem{Field: summary, Value: strconv.Itoa(s.Mood.Score)})
	}
	return append(items, checked(selfHarm)(a, s)...)
}

// careAreaCatalog is the trigger rule table, one rule per care area.
func careAreaCatalog() []CareAreaRule {
	return []CareAreaRule{
		{
			Area:        domain.CareAreaDelirium,
			Description: "Delirium",
			Fields:      append([]domain.FieldID{"C1310A"}, deliriumBehaviors...),
			Evaluate:    anyOf(checked("C1310A"), anyFieldIn(deliriumBehaviors, "2")),
		},
		{
			Area:        domain.CareAreaCognitiveLoss,
			Description: "Cognitive Loss/Dementia",
			Fields:      []domain.FieldID{"C0100", FieldBIMSSummary, "C0700", "C0800", "C1000"},
			Evaluate:    cognitiveImpairment,
		},
		{
			Area:        domain.CareAreaVisualFunction,
			Description: "Visual Function",
			Fields:      []domain.FieldID{"B1000"},
			Evaluate:    fieldBetween("B1000", 1, 4),
		},
		{
			Area:        domain.CareAreaCommunication,
			Description: "Communication",
			Fields:      []domain.FieldID{"B0200", "B0700", "B0800"},
			Evaluate:    anyOf(fieldBetween("B0200", 1, 3), fieldBetween("B0700", 1, 3), fieldBetween("B0800", 1, 3)),
		},
		{
			Area:        domain.CareAreaADLRehab,
			Description: "ADL Functional/Rehabilitation Potential",
			Fields:      append([]domain.FieldID{"G0900A", "G0900B"}, adlSelfPerformance...),
			Evaluate: anyOf(checked("G0900A"), checked("G0900B"),
				anyOf(fieldBetweenAll(adlSelfPerformance, 1, 4)...)),
		},
		{
			Area:        domain.CareAreaUrinaryIncontinence,
			Description: "Urinary Incontinence and Indwelling Catheter",
			Fields:      []domain.FieldID{"H0100A", "H0300"},
			Evaluate:    anyOf(checked("H0100A"), fieldBetween("H0300", 1, 3)),
		},
		{
			Area:        domain.CareAreaPsychosocial,
			Description: "Psychosocial Well-Being",
			Fields:      []domain.FieldID{"D0150F1", "D0500F1", "E0800"},
			Evaluate:    anyOf(checked("D0150F1"), checked("D0500F1"), fieldBetween("E0800", 1, 3)),
		},
		{
			Area:        domain.CareAreaMoodState,
			Description: "Mood State",
			Fields:      []domain.FieldID{"D0100", FieldPHQInterview, FieldPHQStaff, "D0150I1", "D0500I1"},
			Evaluate:    moodSymptoms,
		},
		{
			Area:        domain.CareAreaBehavioralSymptoms,
			Description: "Behavioral Symptoms",
			Fields:      append(append([]domain.FieldID{"E0100A", "E0100B"}, behaviorItems...), "E1100"),
			Evaluate: anyOf(checked("E0100A"), checked("E0100B"),
				anyFieldAtLeast(behaviorItems, 1), fieldIn("E1100", "2")),
		},
		{
			Area:        domain.CareAreaActivities,
			Description: "Activities",
			Fields:      append([]domain.FieldID{"F0300", "D0150A1"}, preferenceItems...),
			Requires:    []domain.FieldID{"F0300"},
			Evaluate:    anyOf(anyFieldIn(preferenceItems, "5"), checked("D0150A1")),
		},
		{
			Area:        domain.CareAreaFalls,
			Description: "Falls",
			Fields:      []domain.FieldID{"J1700A", "J1800"},
			Evaluate:    anyOf(checked("J1700A"), checked("J1800")),
		},
		{
			Area:        domain.CareAreaNutritionalStatus,
			Description: "Nutritional Status",
			Fields:      append([]domain.FieldID{"K0300", "K0510A", "K0510C"}, ulcerCounts...),
			Evaluate: anyOf(fieldIn("K0300", "1", "2"), checked("K0510A"), checked("K0510C"),
				anyFieldAtLeast(ulcerCounts, 1)),
		},
		{
			Area:        domain.CareAreaFeedingTube,
			Description: "Feeding Tube",
			Fields:      []domain.FieldID{"K0510B"},
			Evaluate:    checked("K0510B"),
		},
		{
			Area:        domain.CareAreaDehydration,
			Description: "Dehydration/Fluid Maintenance",
			Fields:      []domain.FieldID{"J1550A", "J1550B", "J1550C"},
			Evaluate:    anyOf(checked("J1550A"), checked("J1550B"), checked("J1550C")),
		},
		{
			Area:        domain.CareAreaDentalCare,
			Description: "Dental Care",
			Fields:      append([]domain.FieldID{"L0200"}, dentalProblems...),
			Requires:    []domain.FieldID{"L0200"},
			Evaluate:    anyFieldIn(dentalProblems, "1"),
		},
		{
			Area:        domain.CareAreaPressureUlcer,
			Description: "Pressure Ulcer",
			Fields:      append(append([]domain.FieldID{}, ulcerCounts...), "M0150", "G0110A"),
			Evaluate: anyOf(anyFieldAtLeast(ulcerCounts, 1), checked("M0150"),
				fieldBetween("G0110A", int(domain.ADLExtensiveAssistance), int(domain.ADLTotalDependence))),
		},
		{
			Area:        domain.CareAreaPsychotropicDrugs,
			Description: "Psychotropic Drug Use",
			Fields:      psychotropics,
			Evaluate:    anyFieldAtLeast(psychotropics, 1),
		},
		{
			Area:        domain.CareAreaPhysicalRestraints,
			Description: "Physical Restraints",
			Fields:      restraints,
			Evaluate:    anyOf(fieldBetweenAll(restraints, 1, 2)...),
		},
		{
			Area:        domain.CareAreaPain,
			Description: "Pain",
			Fields:      []domain.FieldID{"J0300", "J0400", "J0600A"},
			Requires:    []domain.FieldID{"J0300"},
			Evaluate: anyOf(allOf(checked("J0300"), fieldIn("J0400", "1", "2")),
				fieldBetween("J0600A", 7, 10)),
		},
		{
			Area:        domain.CareAreaReturnToCommunity,
			Description: "Return to Community Referral",
			Fields:      []domain.FieldID{"Q0500B"},
			Requires:    []domain.FieldID{"Q0500B"},
			Evaluate:    checked("Q0500B"),
		},
	}
}

func fieldBetweenAll(fields []domain.FieldID, lo, hi int) []evidence {
	conds := make([]evidence, len(fields))
	for i, f := range fields {
		conds[i] = fieldBetween(f, lo, hi)
	}
	return conds
}

var careAreaDescriptions = func() map[domain.CareArea]string {
	m := make(map[domain.CareArea]string)
	for _, rule := range careAreaCatalog() {
		m[rule.Area] = rule.Description
	}
	return m
}()

// DescribeCareArea returns the display description of a care area, or the
// empty string for an unknown area.
func DescribeCareArea(area domain.CareArea) string {
	return careAreaDescriptions[area]
}
