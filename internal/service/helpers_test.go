package service

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/ltc-mds-engine/internal/domain"
	"github.com/ltc-mds-engine/internal/rates"
)

func ptr[T any](v T) *T { return &v }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress logs during testing
	return logger
}

func defaultTable(t *testing.T) *rates.Table {
	t.Helper()
	table, err := rates.Default()
	require.NoError(t, err)
	return table
}

func completed() domain.SectionStatus { return domain.SectionStatus{Completed: true} }

// allADL returns a function section with every scored ADL item set to v.
func allADL(v domain.ADLSelfPerformance) *domain.FunctionSection {
	return &domain.FunctionSection{
		SectionStatus:    completed(),
		BedMobility:      ptr(v),
		Transfer:         ptr(v),
		WalkInRoom:       ptr(v),
		LocomotionOnUnit: ptr(v),
		Dressing:         ptr(v),
		Eating:           ptr(v),
		ToiletUse:        ptr(v),
		PersonalHygiene:  ptr(v),
	}
}

// classifiable returns an assessment with every section the classifier
// requires, independent ADL and no behaviors, diagnoses or treatments.
func classifiable() *domain.Assessment {
	none := domain.BehaviorFrequency(0)
	return &domain.Assessment{
		ID:         "asmt-1",
		ResidentID: "res-1",
		Identification: &domain.IdentificationSection{
			SectionStatus: completed(),
			OBRAReason:    ptr(domain.OBRAQuarterly),
		},
		Behavior: &domain.BehaviorSection{
			SectionStatus:    completed(),
			PhysicalToOthers: ptr(none),
			VerbalToOthers:   ptr(none),
			OtherBehavior:    ptr(none),
			RejectionOfCare:  ptr(none),
			Wandering:        ptr(none),
		},
		Function:  allADL(domain.ADLIndependent),
		Diagnoses: &domain.DiagnosesSection{SectionStatus: completed()},
		Treatments: &domain.TreatmentsSection{
			SectionStatus: completed(),
			Treatments:    domain.MustChecklist(domain.NoSpecialTreatment),
		},
	}
}

func mustParseYAML(t *testing.T, doc string) *domain.Assessment {
	t.Helper()
	a, err := NewSnapshotParser(testLogger()).Parse([]byte(doc), FormatYAML)
	require.NoError(t, err)
	return a
}
