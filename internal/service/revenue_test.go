package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltc-mds-engine/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRevenueEstimator_Estimate(t *testing.T) {
	table := defaultTable(t)
	estimator := NewRevenueEstimator(testLogger(), table)

	tests := []struct {
		name        string
		treatments  []domain.TreatmentOption
		cmi         string
		stay        string
		daily       string
		monthly     string
		adjustments []string
	}{
		{
			name:       "no adjustments",
			treatments: []domain.TreatmentOption{domain.NoSpecialTreatment},
			cmi:        "1.00",
			stay:       "30",
			daily:      "245.00",
			monthly:    "7350.00",
		},
		{
			name:        "isolation multiplier",
			treatments:  []domain.TreatmentOption{domain.Isolation},
			cmi:         "1.42",
			stay:        "30",
			daily:       "375.73",
			monthly:     "11271.90",
			adjustments: []string{"isolation"},
		},
		{
			name:        "ventilator add-on",
			treatments:  []domain.TreatmentOption{domain.Ventilator},
			cmi:         "2.65",
			stay:        "10",
			daily:       "734.25",
			monthly:     "7342.50",
			adjustments: []string{"ventilator"},
		},
		{
			name:        "multiplier applies before add-ons",
			treatments:  []domain.TreatmentOption{domain.Dialysis, domain.Isolation, domain.Tracheostomy},
			cmi:         "1.00",
			stay:        "15.5",
			daily:       "336.60",
			monthly:     "5217.30",
			adjustments: []string{"isolation", "tracheostomy", "dialysis"},
		},
		{
			name:       "zero length of stay",
			treatments: []domain.TreatmentOption{domain.NoSpecialTreatment},
			cmi:        "0.85",
			stay:       "0",
			daily:      "208.25",
			monthly:    "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := classifiable()
			a.Treatments.Treatments = domain.MustChecklist(tt.treatments...)
			c := &domain.ClassificationResult{Code: "M3BQ", CaseMixIndex: dec(tt.cmi)}

			got, err := estimator.Estimate(a, c, dec(tt.stay))
			require.NoError(t, err)

			assert.Equal(t, tt.daily, got.DailyRate.StringFixed(2))
			assert.Equal(t, tt.monthly, got.MonthlyRevenue.StringFixed(2))
			assert.True(t, table.BasePerDiem().Equal(got.BasePerDiem))
			assert.True(t, dec(tt.cmi).Equal(got.CaseMixIndex))

			names := make([]string, len(got.Adjustments))
			for i, adj := range got.Adjustments {
				names[i] = adj.Name
			}
			if len(tt.adjustments) == 0 {
				assert.Empty(t, names)
			} else {
				assert.Equal(t, tt.adjustments, names)
			}
		})
	}
}

func TestRevenueEstimator_NegativeStay(t *testing.T) {
	estimator := NewRevenueEstimator(testLogger(), defaultTable(t))
	c := &domain.ClassificationResult{Code: "L5AQ", CaseMixIndex: dec("0.85")}

	_, err := estimator.Estimate(classifiable(), c, dec("-1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNegativeStay))
}

func TestRevenueEstimator_RateOverride(t *testing.T) {
	table, err := defaultTable(t).WithBasePerDiem(dec("300"))
	require.NoError(t, err)
	estimator := NewRevenueEstimator(testLogger(), table)
	c := &domain.ClassificationResult{Code: "L5AQ", CaseMixIndex: dec("0.85")}

	got, err := estimator.Estimate(classifiable(), c, dec("1"))
	require.NoError(t, err)
	assert.Equal(t, "255.00", got.DailyRate.StringFixed(2))
}
