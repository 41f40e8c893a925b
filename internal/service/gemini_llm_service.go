package service

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/gradepro/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const geminiModelName = "gemini-1.5-flash"

// LLMService is the single injected capability behind both the sheet parser
// and the answer rater. Keeping it to one Complete operation makes the whole
// pipeline testable with a deterministic stub.
type LLMService interface {
	Complete(ctx context.Context, prompt, systemInstruction string) (string, error)
}

type geminiLLMService struct {
	client *genai.Client
	cfg    *config.Config
}

func NewGeminiLLMService(cfg *config.Config) (LLMService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. LLMService will be non-functional.")
		return &geminiLLMService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiLLMService{client: client, cfg: cfg}, nil
}

func (s *geminiLLMService) Complete(ctx context.Context, prompt, systemInstruction string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	model := s.client.GenerativeModel(geminiModelName)
	if systemInstruction != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error")
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", fmt.Errorf("gemini returned no content")
	}

	fullResponseText := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullResponseText += string(txt)
		}
	}
	if fullResponseText == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return fullResponseText, nil
}
