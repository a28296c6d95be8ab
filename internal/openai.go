package internal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Generator produces an answer for a prepared prompt. It is the only contact
// surface with the language model; everything else in the query path is
// deterministic and local.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIGenerator implements Generator with OpenAI chat completions. The
// client is created lazily on first use so construction never fails.
type OpenAIGenerator struct {
	apiKey  string
	model   string
	timeout time.Duration

	client     *openai.Client
	clientOnce sync.Once
}

// NewOpenAIGenerator creates a generator using the given API key and model.
func NewOpenAIGenerator(apiKey, model string, timeout time.Duration) *OpenAIGenerator {
	return &OpenAIGenerator{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
	}
}

// Generate sends the prompt as a single user message and returns the model's
// text verbatim.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("OpenAI API key is not configured")
	}
	g.clientOnce.Do(func() {
		client := openai.NewClient(option.WithAPIKey(g.apiKey))
		g.client = &client
	})

	// Map model string to openai model constant
	var oaiModel openai.ChatModel
	switch g.model {
	case "gpt-4o":
		oaiModel = openai.ChatModelGPT4o
	case "gpt-4o-mini":
		oaiModel = openai.ChatModelGPT4oMini
	case "o4-mini":
		oaiModel = openai.ChatModelO4Mini
	case "gpt-4.1-nano":
		oaiModel = openai.ChatModelGPT4_1Nano
	default:
		return "", fmt.Errorf("unsupported model: %s", g.model)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: oaiModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response choices from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
