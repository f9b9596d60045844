package service

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ltc-mds-engine/internal/domain"
)

// ErrNilAssessment is returned when no assessment is supplied.
var ErrNilAssessment = errors.New("assessment is nil")

// AssessmentEvaluator runs scores, classification and revenue estimation in
// sequence, and the care-area catalog on demand. It holds no mutable state
// and is safe for concurrent use.
type AssessmentEvaluator struct {
	logger     *logrus.Logger
	scores     *ScoreCalculator
	classifier *Classifier
	revenue    *RevenueEstimator
	triggers   *CareAreaEngine
}

// NewAssessmentEvaluator wires the engine components.
func NewAssessmentEvaluator(logger *logrus.Logger, config domain.EngineConfig, rates domain.RateTable) (*AssessmentEvaluator, error) {
	classifier, err := NewClassifier(logger, config, rates)
	if err != nil {
		return nil, err
	}
	return &AssessmentEvaluator{
		logger:     logger,
		scores:     NewScoreCalculator(config.MissingFieldPolicy),
		classifier: classifier,
		revenue:    NewRevenueEstimator(logger, rates),
		triggers:   NewCareAreaEngine(logger),
	}, nil
}

// Evaluate computes the scores, classification and revenue estimate. An
// assessment missing required sections is not an error: the evaluation is
// returned with Available false and the sections to complete.
func (e *AssessmentEvaluator) Evaluate(a *domain.Assessment, opts domain.EvaluationOptions) (*domain.Evaluation, error) {
	if a == nil {
		return nil, ErrNilAssessment
	}
	if err := a.Validate(); err != nil {
		e.logger.WithFields(logrus.Fields{
			"assessment_id": a.ID,
			"error":         err.Error(),
		}).Warn("Rejected assessment with out-of-domain values")
		return nil, err
	}

	result := &domain.Evaluation{
		AssessmentID: a.ID,
		ResidentID:   a.ResidentID,
		Scores:       e.scores.All(a),
	}

	if missing := MissingSections(a); len(missing) > 0 {
		result.MissingSections = missing
		result.Unavailable = domain.NewIncompleteAssessment(missing)
		e.logger.WithFields(logrus.Fields{
			"assessment_id": a.ID,
			"missing":       missing,
		}).Info("Classification unavailable until sections are completed")
		return result, nil
	}

	classification, err := e.classifier.Classify(a, result.Scores)
	if err != nil {
		return nil, err
	}
	revenue, err := e.revenue.Estimate(a, classification, opts.LengthOfStay)
	if err != nil {
		return nil, err
	}

	result.Available = true
	result.Classification = classification
	result.Revenue = revenue

	e.logger.WithFields(logrus.Fields{
		"assessment_id": a.ID,
		"code":          classification.Code,
		"daily_rate":    revenue.DailyRate.StringFixed(centPlaces),
	}).Info("Assessment evaluated")

	return result, nil
}

// EvaluateTriggers runs the care-area catalog. Rules whose required items are
// missing are reported untriggered; only out-of-domain values fail.
func (e *AssessmentEvaluator) EvaluateTriggers(a *domain.Assessment) ([]domain.CareAreaTrigger, error) {
	if a == nil {
		return nil, ErrNilAssessment
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return e.triggers.EvaluateAll(a, e.scores.All(a)), nil
}

// CareAreaRules exposes the trigger catalog for reports.
func (e *AssessmentEvaluator) CareAreaRules() []CareAreaRule {
	return e.triggers.Rules()
}

var _ domain.Evaluator = (*AssessmentEvaluator)(nil)
