package service

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ltc-mds-engine/internal/domain"
)

// centPlaces is the rounding precision of every money amount.
const centPlaces = 2

// RevenueEstimator prices a classification against a rate table.
type RevenueEstimator struct {
	logger *logrus.Logger
	rates  domain.RateTable
}

// NewRevenueEstimator creates an estimator over the given table.
func NewRevenueEstimator(logger *logrus.Logger, rates domain.RateTable) *RevenueEstimator {
	return &RevenueEstimator{logger: logger, rates: rates}
}

// Estimate computes the daily rate and the revenue over the caller's length
// of stay. Multipliers apply before add-ons; the daily rate is rounded to
// cents before it is multiplied by the stay.
func (r *RevenueEstimator) Estimate(a *domain.Assessment, c *domain.ClassificationResult, lengthOfStay decimal.Decimal) (*domain.RevenueEstimate, error) {
	if lengthOfStay.IsNegative() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNegativeStay, lengthOfStay)
	}

	base := r.rates.BasePerDiem()
	rate := base.Mul(c.CaseMixIndex)

	var multipliers, addOns []domain.RateAdjustment
	for _, adj := range r.rates.Adjustments() {
		if v, ok := a.Value(adj.Field); !ok || v != adj.When {
			continue
		}
		switch adj.Kind {
		case domain.AdjustmentMultiplier:
			multipliers = append(multipliers, adj)
		case domain.AdjustmentAddOn:
			addOns = append(addOns, adj)
		}
	}
	for _, adj := range multipliers {
		rate = rate.Mul(adj.Amount)
	}
	for _, adj := range addOns {
		rate = rate.Add(adj.Amount)
	}
	daily := rate.Round(centPlaces)

	estimate := &domain.RevenueEstimate{
		BasePerDiem:    base,
		CaseMixIndex:   c.CaseMixIndex,
		Adjustments:    append(multipliers, addOns...),
		DailyRate:      daily,
		LengthOfStay:   lengthOfStay,
		MonthlyRevenue: daily.Mul(lengthOfStay).Round(centPlaces),
	}

	r.logger.WithFields(logrus.Fields{
		"code":            c.Code,
		"daily_rate":      estimate.DailyRate.StringFixed(centPlaces),
		"adjustments":     len(estimate.Adjustments),
		"length_of_stay":  lengthOfStay.String(),
		"monthly_revenue": estimate.MonthlyRevenue.StringFixed(centPlaces),
	}).Debug("Revenue estimated")

	return estimate, nil
}
