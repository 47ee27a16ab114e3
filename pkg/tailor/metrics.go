package tailor

import (
	"time"

	"github.com/randalmurphal/tailorflow/pkg/tailor/llm"
)

// Metrics is the per-run accounting record. Counters are monotonic
// within a run and never reset; nullable fields stay nil until the
// corresponding step runs.
type Metrics struct {
	ResumeGenerationTime      *float64 `json:"resume_generation_time"`
	CoverLetterGenerationTime *float64 `json:"cover_letter_generation_time"`

	TotalTokensUsed  int `json:"total_tokens_used"`
	CompletionTokens int `json:"completion_tokens"`
	PromptTokens     int `json:"prompt_tokens"`

	ModelName *string `json:"model_name"`
	Status    Status  `json:"status"`
}

// NewMetrics returns a zeroed record with status initialized.
func NewMetrics() Metrics {
	return Metrics{Status: StatusInitialized}
}

// RecordUsage adds one generation call's token counters.
func (m *Metrics) RecordUsage(usage llm.TokenUsage) {
	m.TotalTokensUsed += usage.TotalTokens
	m.CompletionTokens += usage.CompletionTokens
	m.PromptTokens += usage.PromptTokens
}

// Mark sets the run status.
func (m *Metrics) Mark(status Status) {
	m.Status = status
}

// SetModelName records the model, set once per run.
func (m *Metrics) SetModelName(name string) {
	m.ModelName = &name
}

// StartTimer starts a stopwatch. The returned function yields elapsed
// seconds; nodes defer the field assignment so the timing is written on
// success and failure paths alike.
func StartTimer() func() float64 {
	start := time.Now()
	return func() float64 {
		return time.Since(start).Seconds()
	}
}
