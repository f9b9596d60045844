package service

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ltc-mds-engine/internal/domain"
)

// BatchInput is one wire snapshot and where it came from.
type BatchInput struct {
	Source   string
	Snapshot domain.RawSnapshot
}

// BatchItemResult is the outcome for one input, in input order. Err is set
// when the snapshot was rejected or could not be classified.
type BatchItemResult struct {
	Source       string                   `json:"source"`
	AssessmentID string                   `json:"assessment_id"`
	Evaluation   *domain.Evaluation       `json:"evaluation,omitempty"`
	Triggers     []domain.CareAreaTrigger `json:"triggers,omitempty"`
	Err          error                    `json:"-"`
	Error        string                   `json:"error,omitempty"`
}

// BatchResult collects a batch run.
type BatchResult struct {
	RunID       string            `json:"run_id"`
	Items       []BatchItemResult `json:"items"`
	Classified  int               `json:"classified"`
	Unavailable int               `json:"unavailable"`
	Failed      int               `json:"failed"`
}

// BatchRunner evaluates many independent snapshots with bounded concurrency.
type BatchRunner struct {
	logger    *logrus.Logger
	parser    *SnapshotParser
	evaluator domain.Evaluator
	workers   int
}

// NewBatchRunner creates a runner; workers <= 0 uses one per CPU.
func NewBatchRunner(logger *logrus.Logger, parser *SnapshotParser, evaluator domain.Evaluator, workers int) *BatchRunner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchRunner{
		logger:    logger,
		parser:    parser,
		evaluator: evaluator,
		workers:   workers,
	}
}

// Run evaluates every input. Failures of individual snapshots are recorded
// on their items; only cancellation of ctx fails the run.
func (b *BatchRunner) Run(ctx context.Context, inputs []BatchInput, opts domain.EvaluationOptions) (*BatchResult, error) {
	runID := uuid.NewString()
	start := time.Now()
	logger := b.logger.WithField("run_id", runID)
	logger.WithFields(logrus.Fields{
		"batch_size": len(inputs),
		"workers":    b.workers,
	}).Info("Starting batch evaluation")

	items := make([]BatchItemResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i] = b.evaluateOne(&inputs[i], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &BatchResult{RunID: runID, Items: items}
	for i := range items {
		switch {
		case items[i].Err != nil:
			result.Failed++
			logger.WithFields(logrus.Fields{
				"source": items[i].Source,
				"error":  items[i].Error,
			}).Warn("Snapshot failed")
		case items[i].Evaluation.Available:
			result.Classified++
		default:
			result.Unavailable++
		}
	}

	logger.WithFields(logrus.Fields{
		"classified":  result.Classified,
		"unavailable": result.Unavailable,
		"failed":      result.Failed,
		"duration":    time.Since(start).String(),
	}).Info("Completed batch evaluation")

	return result, nil
}

func (b *BatchRunner) evaluateOne(in *BatchInput, opts domain.EvaluationOptions) BatchItemResult {
	item := BatchItemResult{Source: in.Source, AssessmentID: in.Snapshot.AssessmentID}

	a, err := b.parser.Build(&in.Snapshot)
	if err == nil {
		item.Evaluation, err = b.evaluator.Evaluate(a, opts)
	}
	if err == nil {
		item.Triggers, err = b.evaluator.EvaluateTriggers(a)
	}
	if err != nil {
		item.Err = err
		item.Error = err.Error()
		item.Evaluation = nil
		item.Triggers = nil
	}
	return item
}
