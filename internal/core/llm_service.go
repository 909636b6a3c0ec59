package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultChatModelName = "gemini-2.5-pro"

// LLMService wraps the hosted generative model behind a single
// prompt-in, text-out call. It holds one shared client, safe for
// concurrent use across requests.
type LLMService struct {
	client *genai.Client
	model  string
}

func NewLLMService(ctx context.Context, apiKey string) (*LLMService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &LLMService{client: client, model: defaultChatModelName}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			slog.Error("error closing GenAI client", "error", err)
		}
	}
}

// Complete sends one prompt to the model and returns the generated text.
// No retries, no streaming; any upstream failure comes back as an error
// for the caller to surface.
func (s *LLMService) Complete(ctx context.Context, prompt string) (string, error) {
	model := s.client.GenerativeModel(s.model)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			slog.Debug("skipping non-text response part", "type", fmt.Sprintf("%T", part))
		}
	}

	if responseText.Len() == 0 {
		return "", fmt.Errorf("gemini returned an empty completion")
	}
	return responseText.String(), nil
}
