// Package tailor generates job-tailored resumes and cover letters by
// orchestrating LLM calls through a checkpointed workflow graph.
//
// A run validates its inputs, generates a customized LaTeX resume and,
// when requested and the resume succeeded, a matching cover letter.
// All generation failures are captured in the run state rather than
// returned as errors; callers inspect Result.Error. Token usage and
// step timings are accumulated into a Metrics record that is attached
// to the Result and persisted as a timestamped snapshot.
//
// Typical usage:
//
//	client, err := llm.NewOpenAIClient(cfg.APIKey)
//	engine, err := tailor.SharedEngine(client, tailor.DefaultGenerationConfig(), cfg.CheckpointDir)
//	store, err := metricstore.NewStore(cfg.MetricsDir)
//
//	runner := tailor.NewRunner(engine, store, logger)
//	result := runner.GenerateWithTracking(ctx, tailor.Request{
//		CompanyName:           "Acme",
//		CurrentLatexResume:    baseline,
//		ComprehensiveProfile:  profile,
//		CompanyJobDescription: jobText,
//		GenerateCoverLetter:   true,
//	})
package tailor
