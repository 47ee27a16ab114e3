package tailor

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/tailorflow/pkg/tailor/llm"
	"github.com/randalmurphal/tailorflow/pkg/tailor/metricstore"
)

const coverLetterDoc = `\documentclass{letter}
\begin{document}
Dear Hiring Manager,
\textbf{I am excited to apply.}
\end{document}`

func newTestRunner(t *testing.T, client llm.Client) *Runner {
	t.Helper()

	engine, err := NewEngine(client, DefaultGenerationConfig(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { engine.Shutdown() })

	store, err := metricstore.NewStore(t.TempDir())
	require.NoError(t, err)

	return NewRunner(engine, store, nil)
}

func validRequest(wantCoverLetter bool) Request {
	return Request{
		CompanyName:           "Acme",
		CurrentLatexResume:    `\documentclass{article}\begin{document}baseline\end{document}`,
		ComprehensiveProfile:  `{"skills":["go"]}`,
		CompanyJobDescription: "Build backend services",
		GenerateCoverLetter:   wantCoverLetter,
	}
}

// TestGenerateWithTracking_ResumeOnly tests the main success scenario:
// fenced model output, no cover letter requested.
func TestGenerateWithTracking_ResumeOnly(t *testing.T) {
	client := &fakeClient{
		responses: []*llm.CompletionResponse{
			fencedResponse(sampleDoc, llm.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}),
		},
	}
	runner := newTestRunner(t, client)

	result := runner.GenerateWithTracking(context.Background(), validRequest(false))

	require.False(t, result.Failed(), "unexpected error: %s", result.Error)
	assert.Equal(t, sampleDoc, result.GeneratedResume)
	assert.Empty(t, result.CoverLetter)
	assert.Equal(t, StatusResumeGenerated, result.Metrics.Status)
	assert.Equal(t, 150, result.Metrics.TotalTokensUsed)
	require.NotNil(t, result.Metrics.ModelName)
	assert.Equal(t, "gpt-4o-mini", *result.Metrics.ModelName)
	require.NotNil(t, result.Metrics.ResumeGenerationTime)
	assert.GreaterOrEqual(t, *result.Metrics.ResumeGenerationTime, 0.0)
	assert.Nil(t, result.Metrics.CoverLetterGenerationTime)
	assert.Equal(t, 1, client.calls)
}

// TestGenerateWithTracking_InputValidation tests that missing inputs
// fail in the first node with zero cost.
func TestGenerateWithTracking_InputValidation(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Request)
		wantErr string
	}{
		{"empty company", func(r *Request) { r.CompanyName = "" }, "Company name is required"},
		{"empty job description", func(r *Request) { r.CompanyJobDescription = "" }, "Job description is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeClient{}
			runner := newTestRunner(t, client)

			req := validRequest(true)
			tc.mutate(&req)
			result := runner.GenerateWithTracking(context.Background(), req)

			assert.Equal(t, tc.wantErr, result.Error)
			assert.Empty(t, result.GeneratedResume)
			assert.Empty(t, result.CoverLetter)
			assert.Zero(t, result.Metrics.TotalTokensUsed)
			assert.Zero(t, result.Metrics.PromptTokens)
			assert.Zero(t, result.Metrics.CompletionTokens)
			assert.Equal(t, 0, client.calls, "no generation call should be made")
		})
	}
}

// TestGenerateWithTracking_ResumeFailure tests the failed-extraction
// scenario: prose responses on both the original and repair attempts.
func TestGenerateWithTracking_ResumeFailure(t *testing.T) {
	client := &fakeClient{
		responses: []*llm.CompletionResponse{
			{Content: "plain prose", Usage: llm.TokenUsage{PromptTokens: 50, CompletionTokens: 25, TotalTokens: 75}},
			{Content: "more prose", Usage: llm.TokenUsage{PromptTokens: 60, CompletionTokens: 30, TotalTokens: 90}},
		},
	}
	runner := newTestRunner(t, client)

	result := runner.GenerateWithTracking(context.Background(), validRequest(true))

	require.True(t, result.Failed())
	assert.True(t, strings.HasPrefix(result.Error, "Resume generation error:"), "got %q", result.Error)
	assert.Empty(t, result.GeneratedResume)
	assert.Empty(t, result.CoverLetter)
	assert.Equal(t, StatusResumeGenerationFailed, result.Metrics.Status)
	// Timing captured on the failure path; cover letter never ran.
	require.NotNil(t, result.Metrics.ResumeGenerationTime)
	assert.Nil(t, result.Metrics.CoverLetterGenerationTime)
	// Both attempts' usage is accounted for.
	assert.Equal(t, 165, result.Metrics.TotalTokensUsed)
	assert.Equal(t, 2, client.calls)
}

// TestGenerateWithTracking_WithCoverLetter tests the full two-step
// pipeline, including that the cover letter prompt carries the freshly
// generated resume rather than only the baseline.
func TestGenerateWithTracking_WithCoverLetter(t *testing.T) {
	client := &fakeClient{
		responses: []*llm.CompletionResponse{
			fencedResponse(sampleDoc, llm.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}),
			fencedResponse(coverLetterDoc, llm.TokenUsage{PromptTokens: 120, CompletionTokens: 60, TotalTokens: 180}),
		},
	}
	runner := newTestRunner(t, client)

	result := runner.GenerateWithTracking(context.Background(), validRequest(true))

	require.False(t, result.Failed(), "unexpected error: %s", result.Error)
	assert.Equal(t, sampleDoc, result.GeneratedResume)
	assert.Equal(t, coverLetterDoc, result.CoverLetter)
	assert.Equal(t, StatusCoverLetterGenerated, result.Metrics.Status)
	assert.Equal(t, 330, result.Metrics.TotalTokensUsed)
	assert.Equal(t, result.Metrics.TotalTokensUsed,
		result.Metrics.PromptTokens+result.Metrics.CompletionTokens)
	require.NotNil(t, result.Metrics.CoverLetterGenerationTime)

	require.Equal(t, 2, client.calls)
	assert.Contains(t, client.prompts[1], sampleDoc, "cover letter prompt must include the generated resume")
}

// TestGenerateWithTracking_CoverLetterNotRequested tests that the flag
// gates the second step regardless of resume outcome.
func TestGenerateWithTracking_CoverLetterNotRequested(t *testing.T) {
	client := &fakeClient{
		responses: []*llm.CompletionResponse{
			fencedResponse(sampleDoc, llm.TokenUsage{TotalTokens: 150}),
		},
	}
	runner := newTestRunner(t, client)

	result := runner.GenerateWithTracking(context.Background(), validRequest(false))

	require.False(t, result.Failed())
	assert.Empty(t, result.CoverLetter)
	assert.Nil(t, result.Metrics.CoverLetterGenerationTime)
	assert.Equal(t, 1, client.calls)
}

// TestGenerateWithTracking_CoverLetterFailure tests the second step's
// failure path.
func TestGenerateWithTracking_CoverLetterFailure(t *testing.T) {
	client := &fakeClient{
		responses: []*llm.CompletionResponse{
			fencedResponse(sampleDoc, llm.TokenUsage{TotalTokens: 150}),
			{Content: "prose"},
			{Content: "still prose"},
		},
	}
	runner := newTestRunner(t, client)

	result := runner.GenerateWithTracking(context.Background(), validRequest(true))

	require.True(t, result.Failed())
	assert.True(t, strings.HasPrefix(result.Error, "Cover letter generation error:"), "got %q", result.Error)
	// The resume survives the cover letter failure.
	assert.Equal(t, sampleDoc, result.GeneratedResume)
	assert.Empty(t, result.CoverLetter)
	assert.Equal(t, StatusCoverLetterGenerationFailed, result.Metrics.Status)
	require.NotNil(t, result.Metrics.CoverLetterGenerationTime)
}

// TestGenerateWithTracking_MetricsPersisted tests the snapshot write.
func TestGenerateWithTracking_MetricsPersisted(t *testing.T) {
	client := &fakeClient{
		responses: []*llm.CompletionResponse{
			fencedResponse(sampleDoc, llm.TokenUsage{TotalTokens: 150}),
		},
	}

	engine, err := NewEngine(client, DefaultGenerationConfig(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { engine.Shutdown() })

	metricsDir := t.TempDir()
	store, err := metricstore.NewStore(metricsDir)
	require.NoError(t, err)

	runner := NewRunner(engine, store, nil)
	result := runner.GenerateWithTracking(context.Background(), validRequest(false))
	require.False(t, result.Failed())

	snapshots, err := store.List()
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
}

// TestGenerateWithTracking_MetricsPersistenceFailureNonFatal tests that
// a failed snapshot write never fails the run.
func TestGenerateWithTracking_MetricsPersistenceFailureNonFatal(t *testing.T) {
	client := &fakeClient{
		responses: []*llm.CompletionResponse{
			fencedResponse(sampleDoc, llm.TokenUsage{TotalTokens: 150}),
		},
	}

	engine, err := NewEngine(client, DefaultGenerationConfig(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { engine.Shutdown() })

	metricsDir := t.TempDir()
	store, err := metricstore.NewStore(metricsDir)
	require.NoError(t, err)
	// Make the snapshot write fail.
	require.NoError(t, os.RemoveAll(metricsDir))

	runner := NewRunner(engine, store, nil)
	result := runner.GenerateWithTracking(context.Background(), validRequest(false))

	require.False(t, result.Failed(), "persistence failure must not fail the run")
	assert.Equal(t, sampleDoc, result.GeneratedResume)
}

// TestGenerateResume_Legacy tests the legacy resume wrapper.
func TestGenerateResume_Legacy(t *testing.T) {
	client := &fakeClient{
		responses: []*llm.CompletionResponse{
			fencedResponse(sampleDoc, llm.TokenUsage{TotalTokens: 150}),
		},
	}
	runner := newTestRunner(t, client)

	doc, err := runner.GenerateResume(context.Background(), "Acme", "baseline", "{}", "Build things")
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, doc)
}

// TestGenerateResume_Legacy_Error tests error conversion.
func TestGenerateResume_Legacy_Error(t *testing.T) {
	runner := newTestRunner(t, &fakeClient{})

	_, err := runner.GenerateResume(context.Background(), "", "baseline", "{}", "Build things")
	require.Error(t, err)
	assert.Equal(t, "Company name is required", err.Error())
}

// TestGenerateCoverLetter_Legacy tests the legacy cover letter wrapper,
// which runs the full pipeline with an empty profile.
func TestGenerateCoverLetter_Legacy(t *testing.T) {
	client := &fakeClient{
		responses: []*llm.CompletionResponse{
			fencedResponse(sampleDoc, llm.TokenUsage{TotalTokens: 150}),
			fencedResponse(coverLetterDoc, llm.TokenUsage{TotalTokens: 180}),
		},
	}
	runner := newTestRunner(t, client)

	letter, err := runner.GenerateCoverLetter(context.Background(), "Acme", "baseline", "Build things")
	require.NoError(t, err)
	assert.Equal(t, coverLetterDoc, letter)
	assert.Contains(t, client.prompts[0], "{}")
}

// TestSharedEngine_ReusesInstance tests initialize-once semantics per
// checkpoint location.
func TestSharedEngine_ReusesInstance(t *testing.T) {
	t.Cleanup(func() { ShutdownShared() })

	dir := t.TempDir()
	client := &fakeClient{}

	first, err := SharedEngine(client, DefaultGenerationConfig(), dir)
	require.NoError(t, err)
	second, err := SharedEngine(client, DefaultGenerationConfig(), dir)
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := SharedEngine(client, DefaultGenerationConfig(), t.TempDir())
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}
