package llm

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"

	"rox-tutor/internal/config"
)

// GeminiClient implements Client on the Google GenAI API.
type GeminiClient struct {
	client          *genai.Client
	model           string
	classifierModel string
	temperature     float32
	maxOutputTokens int32
}

func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{
		client:          client,
		model:           cfg.Model,
		classifierModel: cfg.ClassifierModel,
		temperature:     float32(cfg.Temperature),
		maxOutputTokens: int32(cfg.MaxOutputTokens),
	}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: g.maxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}
	return text, nil
}

func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, out any) error {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		MaxOutputTokens:  g.maxOutputTokens,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("gemini generate failed: %w", err)
	}
	if err := DecodeJSON(resp.Text(), out); err != nil {
		return fmt.Errorf("gemini response was not the expected JSON: %w", err)
	}
	return nil
}

func (g *GeminiClient) Classify(ctx context.Context, instruction string, utterance string, labels []string) (string, error) {
	prompt := BuildClassifyPrompt(instruction, utterance, labels)
	// Low temperature: classification wants predictable, not clever
	resp, err := g.client.Models.GenerateContent(ctx, g.classifierModel, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.1)),
		MaxOutputTokens:  256,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("gemini classify failed: %w", err)
	}
	label, err := ParseClassifyResponse(resp.Text(), labels)
	if err != nil {
		log.Printf("[LLM] Classification parse failed: %v", err)
		return "", err
	}
	return label, nil
}
