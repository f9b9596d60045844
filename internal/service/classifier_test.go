package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltc-mds-engine/internal/domain"
	"github.com/ltc-mds-engine/internal/rates"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(testLogger(), domain.DefaultEngineConfig(), defaultTable(t))
	require.NoError(t, err)
	return c
}

func scoresFor(a *domain.Assessment) domain.Scores {
	return NewScoreCalculator(domain.LowestSeverity).All(a)
}

func TestClassifier_Baseline(t *testing.T) {
	c := newTestClassifier(t)
	a := classifiable()

	got, err := c.Classify(a, scoresFor(a))
	require.NoError(t, err)

	assert.Equal(t, "L5AQ", got.Code)
	assert.Equal(t, "L5A", got.PaymentGroup())
	assert.Equal(t, domain.RehabLow, got.Rehab)
	assert.Equal(t, domain.BehaviorLow, got.Behavior)
	assert.Equal(t, domain.NursingTierNone, got.NursingTier)
	assert.Equal(t, "Q", got.Indicator)
	assert.Empty(t, got.Qualifying)
	assert.True(t, decimal.RequireFromString("0.85").Equal(got.CaseMixIndex))
}

func TestClassifier_IncompleteAssessment(t *testing.T) {
	c := newTestClassifier(t)
	a := classifiable()
	a.Function = nil
	a.Treatments.Completed = false

	got, err := c.Classify(a, scoresFor(a))
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, domain.ErrIncompleteAssessment))
	assert.False(t, domain.IsSystemError(err))

	var aerr *domain.AssessmentError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, []domain.SectionID{domain.SectionFunction, domain.SectionTreatments}, aerr.Sections)
	assert.Equal(t, "complete sections G, O", aerr.Message)
}

func TestClassifier_MissingAssessmentType(t *testing.T) {
	c := newTestClassifier(t)
	a := classifiable()
	a.Identification.OBRAReason = nil

	_, err := c.Classify(a, scoresFor(a))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidFieldValue))

	var aerr *domain.AssessmentError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, domain.FieldID("A0310A"), aerr.Field)
}

func TestClassifier_RehabThresholds(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		adl    int
		rehab  domain.RehabCategory
		letter byte
	}{
		{32, domain.RehabUltraHigh, 'U'},
		{28, domain.RehabUltraHigh, 'U'},
		{27, domain.RehabVeryHigh, 'V'},
		{22, domain.RehabVeryHigh, 'V'},
		{21, domain.RehabHigh, 'H'},
		{16, domain.RehabHigh, 'H'},
		{15, domain.RehabMedium, 'M'},
		{9, domain.RehabMedium, 'M'},
		{8, domain.RehabLow, 'L'},
		{0, domain.RehabLow, 'L'},
	}

	for _, tt := range tests {
		a := classifiable()
		scores := scoresFor(a)
		scores.ADL.Score = tt.adl

		got, err := c.Classify(a, scores)
		require.NoError(t, err)
		if got.Rehab != tt.rehab {
			t.Errorf("ADL %d: rehab = %s, want %s", tt.adl, got.Rehab, tt.rehab)
		}
		if got.Code[0] != tt.letter {
			t.Errorf("ADL %d: code %s, want leading %c", tt.adl, got.Code, tt.letter)
		}
	}
}

func TestRehabSignal_CountsTherapyAndRestorativePrograms(t *testing.T) {
	a := classifiable()
	a.Function = allADL(domain.ADLLimitedAssistance)
	a.Treatments.PhysicalTherapyDays = ptr(domain.Days(5))
	a.Treatments.OccupationalTherapyDays = ptr(domain.Days(0))
	a.Treatments.PassiveROMDays = ptr(domain.Days(6))
	a.Treatments.WalkingTrainDays = ptr(domain.Days(5))

	// 16 ADL + one therapy discipline + one restorative program at six days
	signal, fallbacks := RehabSignal(a, scoresFor(a), domain.LowestSeverity)
	assert.Equal(t, 18, signal)
	assert.Len(t, fallbacks, 9)
	assert.Contains(t, fallbacks, domain.FieldID("O0400A4"))
	assert.NotContains(t, fallbacks, domain.FieldID("O0500A"))

	// blank items become seven days; walking training stays under six
	signal, _ = RehabSignal(a, scoresFor(a), domain.HighestSeverity)
	assert.Equal(t, 16+2+9, signal)

	a.Treatments = nil
	signal, fallbacks = RehabSignal(a, scoresFor(a), domain.LowestSeverity)
	assert.Equal(t, 16, signal)
	assert.Len(t, fallbacks, 13)
}

func TestClassifier_BehaviorTally(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name     string
		mutate   func(e *domain.BehaviorSection)
		tally    int
		behavior domain.BehaviorCategory
	}{
		{"no behaviors", func(e *domain.BehaviorSection) {}, 0, domain.BehaviorLow},
		{"three aggressive incidents", func(e *domain.BehaviorSection) {
			e.PhysicalToOthers = ptr(domain.BehaviorFrequency(3))
		}, 3, domain.BehaviorHigh},
		{"one wandering day", func(e *domain.BehaviorSection) {
			e.Wandering = ptr(domain.BehaviorFrequency(1))
		}, 1, domain.BehaviorMedium},
		{"spread across items", func(e *domain.BehaviorSection) {
			e.VerbalToOthers = ptr(domain.BehaviorFrequency(1))
			e.RejectionOfCare = ptr(domain.BehaviorFrequency(1))
			e.OtherBehavior = ptr(domain.BehaviorFrequency(1))
		}, 3, domain.BehaviorHigh},
		{"blank items take the least severe code", func(e *domain.BehaviorSection) {
			e.PhysicalToOthers = nil
			e.Wandering = ptr(domain.BehaviorFrequency(2))
		}, 2, domain.BehaviorMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := classifiable()
			tt.mutate(a.Behavior)

			got, err := c.Classify(a, scoresFor(a))
			require.NoError(t, err)
			assert.Equal(t, tt.tally, got.BehaviorTally)
			assert.Equal(t, tt.behavior, got.Behavior)
			assert.Equal(t, tt.behavior.Letter(), got.Code[2])
		})
	}
}

func TestClassifier_MissingFieldPolicy(t *testing.T) {
	tests := []struct {
		policy   domain.MissingFieldPolicy
		tally    int
		behavior domain.BehaviorCategory
		signal   int
		rehab    domain.RehabCategory
	}{
		{domain.LowestSeverity, 0, domain.BehaviorLow, 0, domain.RehabLow},
		// two blank behaviors at daily, ten programs and three therapies at seven days
		{domain.HighestSeverity, 6, domain.BehaviorHigh, 13, domain.RehabMedium},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			cfg := domain.DefaultEngineConfig()
			cfg.MissingFieldPolicy = tt.policy
			c, err := NewClassifier(testLogger(), cfg, defaultTable(t))
			require.NoError(t, err)

			a := classifiable()
			a.Behavior.PhysicalToOthers = nil
			a.Behavior.Wandering = nil

			got, err := c.Classify(a, scoresFor(a))
			require.NoError(t, err)
			assert.Equal(t, tt.tally, got.BehaviorTally)
			assert.Equal(t, tt.behavior, got.Behavior)
			assert.Equal(t, tt.signal, got.RehabSignal)
			assert.Equal(t, tt.rehab, got.Rehab)

			require.Len(t, got.Fallbacks, 2+13)
			assert.Equal(t, []domain.FieldID{"E0200A", "E0900"}, got.Fallbacks[:2])
		})
	}
}

func TestClassifier_UnassessedFlagSections(t *testing.T) {
	c := newTestClassifier(t)
	a := classifiable()

	got, err := c.Classify(a, scoresFor(a))
	require.NoError(t, err)
	assert.Equal(t, []domain.SectionID{
		domain.SectionSensory,
		domain.SectionHealthConditions,
		domain.SectionNutrition,
		domain.SectionSkin,
		domain.SectionMedications,
	}, got.UnassessedSections)

	a.Sensory = &domain.SensorySection{SectionStatus: completed()}
	a.HealthConditions = &domain.HealthConditionsSection{SectionStatus: completed()}
	a.Nutrition = &domain.NutritionSection{SectionStatus: completed()}
	a.Skin = &domain.SkinSection{SectionStatus: completed()}
	a.Medications = &domain.MedicationsSection{}

	got, err = c.Classify(a, scoresFor(a))
	require.NoError(t, err)
	assert.Equal(t, []domain.SectionID{domain.SectionMedications}, got.UnassessedSections)
}

func TestNewClassifier_CopiesThresholds(t *testing.T) {
	cfg := domain.DefaultEngineConfig()
	c, err := NewClassifier(testLogger(), cfg, defaultTable(t))
	require.NoError(t, err)

	cfg.RehabThresholds[3] = 0
	cfg.BehaviorThresholds[0] = 100

	a := classifiable()
	a.Behavior.PhysicalToOthers = ptr(domain.BehaviorFrequency(3))
	got, err := c.Classify(a, scoresFor(a))
	require.NoError(t, err)
	assert.Equal(t, domain.RehabLow, got.Rehab)
	assert.Equal(t, domain.BehaviorHigh, got.Behavior)
}

func TestClassifier_CustomBehaviorThresholds(t *testing.T) {
	cfg := domain.DefaultEngineConfig()
	cfg.BehaviorThresholds = []int{5, 2}
	c, err := NewClassifier(testLogger(), cfg, defaultTable(t))
	require.NoError(t, err)

	a := classifiable()
	a.Behavior.PhysicalToOthers = ptr(domain.BehaviorFrequency(3))

	got, err := c.Classify(a, scoresFor(a))
	require.NoError(t, err)
	assert.Equal(t, domain.BehaviorMedium, got.Behavior)
}

func TestClassifier_NursingFlags(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name   string
		mutate func(a *domain.Assessment)
		tier   domain.NursingTier
		flags  []domain.NursingFlag
	}{
		{
			name: "septicemia",
			mutate: func(a *domain.Assessment) {
				a.Diagnoses.Septicemia = ptr(domain.Yes)
			},
			tier:  1,
			flags: []domain.NursingFlag{domain.SpecialCareHigh},
		},
		{
			name: "diabetes with daily insulin and order changes",
			mutate: func(a *domain.Assessment) {
				a.Diagnoses.Diabetes = ptr(domain.Yes)
				a.Medications = &domain.MedicationsSection{InsulinDays: ptr(domain.Days(7)), OrderChangeDays: ptr(domain.Days(2))}
			},
			tier:  1,
			flags: []domain.NursingFlag{domain.SpecialCareHigh},
		},
		{
			name: "diabetes without order changes",
			mutate: func(a *domain.Assessment) {
				a.Diagnoses.Diabetes = ptr(domain.Yes)
				a.Medications = &domain.MedicationsSection{InsulinDays: ptr(domain.Days(7)), OrderChangeDays: ptr(domain.Days(1))}
			},
			tier: domain.NursingTierNone,
		},
		{
			name: "dialysis",
			mutate: func(a *domain.Assessment) {
				a.Treatments.Treatments = domain.MustChecklist(domain.Dialysis)
			},
			tier:  2,
			flags: []domain.NursingFlag{domain.SpecialCareLow},
		},
		{
			name: "pneumonia and septicemia set both flags",
			mutate: func(a *domain.Assessment) {
				a.Diagnoses.Pneumonia = ptr(domain.Yes)
				a.Diagnoses.Septicemia = ptr(domain.Yes)
			},
			tier:  1,
			flags: []domain.NursingFlag{domain.SpecialCareHigh, domain.ComplexMedical},
		},
		{
			name: "oxygen without respiratory failure",
			mutate: func(a *domain.Assessment) {
				a.Treatments.Treatments = domain.MustChecklist(domain.OxygenTherapy)
			},
			tier:  3,
			flags: []domain.NursingFlag{domain.ComplexMedical},
		},
		{
			name: "hemiplegia needs ADL support",
			mutate: func(a *domain.Assessment) {
				a.Diagnoses.Hemiplegia = ptr(domain.Yes)
			},
			tier: domain.NursingTierNone,
		},
		{
			name: "bilateral range of motion",
			mutate: func(a *domain.Assessment) {
				a.Function.LowerExtremityROM = ptr(domain.RangeOfMotion(2))
			},
			tier:  4,
			flags: []domain.NursingFlag{domain.ReducedPhysicalFunction},
		},
		{
			name: "extensive ADL dependence",
			mutate: func(a *domain.Assessment) {
				a.Function = allADL(domain.ADLExtensiveAssistance)
			},
			tier:  4,
			flags: []domain.NursingFlag{domain.ReducedPhysicalFunction},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := classifiable()
			tt.mutate(a)

			got, err := c.Classify(a, scoresFor(a))
			require.NoError(t, err)
			assert.Equal(t, tt.tier, got.NursingTier)
			assert.Equal(t, tt.tier.Digit(), got.Code[1])

			for _, f := range domain.NursingFlags() {
				want := false
				for _, w := range tt.flags {
					want = want || w == f
				}
				assert.Equal(t, want, got.Flag(f), f)
			}
			for _, q := range got.Qualifying {
				assert.NotEmpty(t, q.Fields, q.Condition)
			}
		})
	}
}

func TestClassifier_QualifyingConditionEvidence(t *testing.T) {
	c := newTestClassifier(t)
	a := classifiable()
	a.Diagnoses.Hemiplegia = ptr(domain.Yes)
	a.Function = allADL(domain.ADLLimitedAssistance)

	got, err := c.Classify(a, scoresFor(a))
	require.NoError(t, err)
	require.Len(t, got.Qualifying, 1)
	assert.Equal(t, domain.ComplexMedical, got.Qualifying[0].Flag)
	assert.Equal(t, []domain.FieldID{"I4900", FieldADLScore}, got.Qualifying[0].Fields)
	assert.Equal(t, "H3AQ", got.Code)
}

func TestClassifier_UnknownClassificationCode(t *testing.T) {
	corrupt, err := rates.Load(strings.NewReader(`
version: corrupt
base_per_diem: "200.00"
assessment_indicators: [Q]
case_mix:
  U1C: "2.65"
`))
	require.NoError(t, err)

	c, err := NewClassifier(testLogger(), domain.DefaultEngineConfig(), corrupt)
	require.NoError(t, err)

	a := classifiable()
	got, err := c.Classify(a, scoresFor(a))
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, domain.ErrUnknownClassificationCode))
	assert.True(t, domain.IsSystemError(err))
}

func TestNewClassifier_RejectsBadConfig(t *testing.T) {
	cfg := domain.DefaultEngineConfig()
	cfg.RehabThresholds = []int{10, 20, 30, 40, 50}

	_, err := NewClassifier(testLogger(), cfg, defaultTable(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidThresholds))

	_, err = NewClassifier(testLogger(), domain.DefaultEngineConfig(), nil)
	assert.Error(t, err)
}

func TestMissingSections(t *testing.T) {
	assert.Empty(t, MissingSections(classifiable()))
	assert.Equal(t, RequiredSections(), MissingSections(&domain.Assessment{}))
}
