package tailor

import (
	"context"
	"errors"

	"github.com/randalmurphal/tailorflow/pkg/tailor/llm"
	"github.com/randalmurphal/tailorflow/pkg/tailor/prompts"
)

// DocumentGenerator wraps a text-generation client with extraction and
// a single repair retry: when first-pass extraction fails, the model is
// asked once to reformat its own prior output before giving up.
type DocumentGenerator struct {
	client llm.Client
	repair string
}

// NewDocumentGenerator builds a generator around the given client.
func NewDocumentGenerator(client llm.Client) *DocumentGenerator {
	return &DocumentGenerator{
		client: client,
		repair: prompts.MustGet(prompts.GenerationFile, prompts.KeyRepair),
	}
}

// Generate issues the completion, extracts the document, and returns it
// with usage accumulated across the original call and any repair call.
func (g *DocumentGenerator) Generate(ctx context.Context, req llm.CompletionRequest) (string, llm.TokenUsage, error) {
	var usage llm.TokenUsage

	resp, err := g.client.Complete(ctx, req)
	if err != nil {
		return "", usage, err
	}
	usage.Add(resp.Usage)

	doc, err := ExtractDocument(resp.Content)
	if err == nil {
		return doc, usage, nil
	}

	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		return "", usage, err
	}

	// One corrective re-prompt carrying the model's prior output.
	repairReq := req
	repairReq.Prompt = prompts.Format(g.repair, map[string]string{
		"PriorOutput": resp.Content,
	})

	repairResp, err := g.client.Complete(ctx, repairReq)
	if err != nil {
		return "", usage, err
	}
	usage.Add(repairResp.Usage)

	doc, err = ExtractDocument(repairResp.Content)
	if err != nil {
		return "", usage, err
	}
	return doc, usage, nil
}
