package test

import (
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
)

func NewGeminiClient(t *testing.T) gollem.LLMClient {
	t.Helper()
	projectID, location := CloudVars(t)

	llmClient, err := gemini.New(t.Context(), projectID, location, gemini.WithModel("gemini-2.5-flash"))
	if err != nil {
		t.Fatalf("failed to create gemini client: %v", err)
	}

	return llmClient
}
