package tailor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/tailorflow/pkg/tailor/metricstore"
	"github.com/randalmurphal/tailorflow/pkg/workflow"
)

// Request carries the inputs for one generation run.
type Request struct {
	CompanyName           string
	CurrentLatexResume    string
	ComprehensiveProfile  string
	CompanyJobDescription string
	GenerateCoverLetter   bool
}

// Runner is the top-level coordinator: it owns an engine and a metrics
// store, assigns run identifiers, and assembles Results.
type Runner struct {
	engine  *Engine
	metrics *metricstore.Store
	logger  *slog.Logger
}

// NewRunner wires a coordinator. A nil logger falls back to
// slog.Default().
func NewRunner(engine *Engine, metrics *metricstore.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{engine: engine, metrics: metrics, logger: logger}
}

// GenerateWithTracking runs the full pipeline and returns the Result.
//
// Failures inside the workflow surface through Result.Error rather
// than a Go error; engine-internal faults (panic, router bug) are
// folded into Result.Error as well. A final metrics snapshot is written
// best-effort: a persistence failure is logged and never fails the run.
func (r *Runner) GenerateWithTracking(ctx context.Context, req Request) Result {
	runID := newRunID()
	logger := r.logger.With("run_id", runID, "company", req.CompanyName)

	state := RunState{
		CompanyName:           req.CompanyName,
		CurrentLatexResume:    req.CurrentLatexResume,
		ComprehensiveProfile:  req.ComprehensiveProfile,
		CompanyJobDescription: req.CompanyJobDescription,
		GenerateCoverLetter:   req.GenerateCoverLetter,
		Metrics:               NewMetrics(),
	}

	wctx := workflow.NewContext(ctx,
		workflow.WithLogger(logger),
		workflow.WithContextRunID(runID),
	)

	final, err := r.engine.Run(wctx, state, runID)
	if err != nil {
		// Engine faults carry the state at the point of failure where
		// available; the error itself becomes the run's error.
		logger.Error("workflow execution failed", "error", err)
		final.Error = err.Error()
	}

	result := Result{
		GeneratedResume: final.GeneratedResume,
		CoverLetter:     final.CoverLetter,
		Error:           final.Error,
		Metrics:         final.Metrics,
	}

	if r.metrics != nil {
		if err := r.metrics.Save(result.Metrics, time.Now()); err != nil {
			logger.Warn("failed to save metrics snapshot", "error", err)
		}
	}

	return result
}

// GenerateResume is the legacy resume entry point: it runs the full
// pipeline without a cover letter and converts Result.Error into a
// returned error.
func (r *Runner) GenerateResume(ctx context.Context, companyName, currentResume, profile, jobDescription string) (string, error) {
	result := r.GenerateWithTracking(ctx, Request{
		CompanyName:           companyName,
		CurrentLatexResume:    currentResume,
		ComprehensiveProfile:  profile,
		CompanyJobDescription: jobDescription,
		GenerateCoverLetter:   false,
	})
	if result.Failed() {
		return "", errors.New(result.Error)
	}
	return result.GeneratedResume, nil
}

// GenerateCoverLetter is the legacy cover letter entry point. It runs
// the full pipeline (the resume is regenerated as an input to the
// letter) with an empty profile.
func (r *Runner) GenerateCoverLetter(ctx context.Context, companyName, currentResume, jobDescription string) (string, error) {
	result := r.GenerateWithTracking(ctx, Request{
		CompanyName:           companyName,
		CurrentLatexResume:    currentResume,
		ComprehensiveProfile:  "{}",
		CompanyJobDescription: jobDescription,
		GenerateCoverLetter:   true,
	})
	if result.Failed() {
		return "", errors.New(result.Error)
	}
	return result.CoverLetter, nil
}

// newRunID builds a timestamped identifier with a uniqueness suffix, so
// concurrent runs started within the same second stay isolated.
func newRunID() string {
	return time.Now().UTC().Format("20060102_150405") + "_" + uuid.New().String()[:8]
}
