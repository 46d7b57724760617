/*
Package ai wraps the language-model providers used to classify news articles.
Every provider is exposed through the Oracle interface: plain instructions and
input text in, raw response text out. Callers own the parsing.
*/
package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const maxOutputTokens = 2048

type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// Oracle classifies free text according to instructions and returns the raw
// model output.
type Oracle interface {
	Classify(ctx context.Context, instructions, input string) (string, error)
}

func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI:
		return p, nil
	case "":
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown oracle provider %q (want gemini, anthropic or openai)", s)
	}
}

// KeyEnv names the environment variable that holds the provider's API key.
func (p Provider) KeyEnv() string {
	switch p {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

func (p Provider) DefaultModel() string {
	switch p {
	case ProviderAnthropic:
		return defaultAnthropicModel
	case ProviderOpenAI:
		return defaultOpenAIModel
	default:
		return defaultGeminiModel
	}
}

// New builds the oracle for provider. An empty model selects the provider's
// small default model.
func New(ctx context.Context, provider Provider, apiKey, model string) (Oracle, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required", provider)
	}
	if model == "" {
		model = provider.DefaultModel()
	}

	switch provider {
	case ProviderGemini:
		return NewGemini(ctx, apiKey, model)
	case ProviderAnthropic:
		return NewAnthropic(apiKey, model), nil
	case ProviderOpenAI:
		return NewOpenAI(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", provider)
	}
}

const defaultGeminiModel = "gemini-2.5-flash"

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Classify(ctx context.Context, instructions, input string) (string, error) {
	systemContent := &genai.Content{
		Parts: []*genai.Part{
			{Text: instructions},
		},
	}

	userContent := &genai.Content{
		Parts: []*genai.Part{
			{Text: input},
		},
		Role: "user",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{userContent}, &genai.GenerateContentConfig{
		SystemInstruction: systemContent,
		MaxOutputTokens:   maxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	return resp.Text(), nil
}
