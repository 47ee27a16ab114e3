package tailor

import (
	"fmt"

	"github.com/randalmurphal/tailorflow/pkg/tailor/llm"
	"github.com/randalmurphal/tailorflow/pkg/tailor/prompts"
	"github.com/randalmurphal/tailorflow/pkg/workflow"
)

// Graph node identifiers.
const (
	nodeProcessInputs       = "process_inputs"
	nodeGenerateResume      = "generate_resume"
	nodeGenerateCoverLetter = "generate_cover_letter"
)

// steps bundles the collaborators the graph nodes close over.
type steps struct {
	generator *DocumentGenerator

	model                  string
	resumeTemperature      float64
	coverLetterTemperature float64

	resumePrompt      string
	coverLetterPrompt string
}

func newSteps(client llm.Client, cfg GenerationConfig) *steps {
	return &steps{
		generator:              NewDocumentGenerator(client),
		model:                  cfg.Model,
		resumeTemperature:      cfg.ResumeTemperature,
		coverLetterTemperature: cfg.CoverLetterTemperature,
		resumePrompt:           prompts.MustGet(prompts.GenerationFile, prompts.KeyResume),
		coverLetterPrompt:      prompts.MustGet(prompts.GenerationFile, prompts.KeyCoverLetter),
	}
}

// GenerationConfig carries the model parameters for both steps.
type GenerationConfig struct {
	Model                  string
	ResumeTemperature      float64
	CoverLetterTemperature float64
}

// DefaultGenerationConfig matches the production tuning.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Model:                  llm.DefaultModel,
		ResumeTemperature:      0.25,
		CoverLetterTemperature: 0.3,
	}
}

// processInputs validates the required inputs and initializes metrics.
func (s *steps) processInputs(ctx workflow.Context, state RunState) (RunState, error) {
	if state.CompanyName == "" {
		state.Error = "Company name is required"
		return state, nil
	}
	if state.CompanyJobDescription == "" {
		state.Error = "Job description is required"
		return state, nil
	}

	if state.Metrics.Status == "" {
		state.Metrics = NewMetrics()
	}
	state.Metrics.Mark(StatusInputsProcessed)
	return state, nil
}

// generateResume renders the resume prompt and runs the generator.
// Failures are captured in state; the elapsed time is recorded on every
// exit path.
func (s *steps) generateResume(ctx workflow.Context, state RunState) (out RunState, _ error) {
	if state.Error != "" {
		return state, nil
	}

	// Written through the named result so the timing survives every
	// return path.
	stop := StartTimer()
	defer func() {
		elapsed := stop()
		out.Metrics.ResumeGenerationTime = &elapsed
	}()

	prompt := prompts.Format(s.resumePrompt, map[string]string{
		"CompanyName":           state.CompanyName,
		"CurrentLatexResume":    state.CurrentLatexResume,
		"ComprehensiveProfile":  state.ComprehensiveProfile,
		"CompanyJobDescription": state.CompanyJobDescription,
	})

	doc, usage, err := s.generator.Generate(ctx, llm.CompletionRequest{
		Prompt:      prompt,
		Model:       s.model,
		Temperature: s.resumeTemperature,
	})
	state.Metrics.RecordUsage(usage)

	if err != nil {
		ctx.Logger().Error("resume generation failed", "error", err)
		state.Error = fmt.Sprintf("Resume generation error: %v", err)
		state.Metrics.Mark(StatusResumeGenerationFailed)
		return state, nil
	}

	state.GeneratedResume = doc
	state.Metrics.SetModelName(s.model)
	state.Metrics.Mark(StatusResumeGenerated)
	return state, nil
}

// generateCoverLetter renders the cover letter prompt, feeding in the
// freshly generated resume alongside the baseline.
func (s *steps) generateCoverLetter(ctx workflow.Context, state RunState) (out RunState, _ error) {
	if state.Error != "" || state.GeneratedResume == "" {
		return state, nil
	}

	stop := StartTimer()
	defer func() {
		elapsed := stop()
		out.Metrics.CoverLetterGenerationTime = &elapsed
	}()

	prompt := prompts.Format(s.coverLetterPrompt, map[string]string{
		"CompanyName":           state.CompanyName,
		"CurrentLatexResume":    state.CurrentLatexResume,
		"CompanyJobDescription": state.CompanyJobDescription,
		"GeneratedResume":       state.GeneratedResume,
	})

	doc, usage, err := s.generator.Generate(ctx, llm.CompletionRequest{
		Prompt:      prompt,
		Model:       s.model,
		Temperature: s.coverLetterTemperature,
	})
	state.Metrics.RecordUsage(usage)

	if err != nil {
		ctx.Logger().Error("cover letter generation failed", "error", err)
		state.Error = fmt.Sprintf("Cover letter generation error: %v", err)
		state.Metrics.Mark(StatusCoverLetterGenerationFailed)
		return state, nil
	}

	state.CoverLetter = doc
	state.Metrics.Mark(StatusCoverLetterGenerated)
	return state, nil
}

// routeAfterResume decides whether the cover letter step runs.
func (s *steps) routeAfterResume(ctx workflow.Context, state RunState) string {
	if state.Error != "" {
		return workflow.END
	}
	if state.GeneratedResume != "" && state.GenerateCoverLetter {
		return nodeGenerateCoverLetter
	}
	return workflow.END
}
