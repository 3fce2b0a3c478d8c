package sandbox

import (
	"context"

	"google.golang.org/genai"
)

type GenerateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

func (f GenerateFunc) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return f(ctx, model, contents, config)
}

func NewWithGenerator(g GenerateFunc) *Client {
	return &Client{models: g}
}
