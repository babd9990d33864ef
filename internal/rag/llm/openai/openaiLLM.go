package openai

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/saitejab/docuquery/internal/customHttpClient"
	"github.com/saitejab/docuquery/internal/domain/docmodel"
	"github.com/saitejab/docuquery/internal/rag/llm"
	"github.com/saitejab/docuquery/pkg/logger_i"
)

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

func GetOpenAIClient(modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		if apikey == "" {
			logger.Error("OpenAI API key missing")
			return
		}
		openaiClient = &llmClient{
			client: openai.NewClient(
				option.WithAPIKey(apikey),
				option.WithHTTPClient(customHttpClient.Client()),
			),
			modelName: modelName,
		}
		logger.Info("OpenAI client created", "model", modelName)
	})

	if openaiClient == nil {
		return nil
	}
	return openaiClient
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		logger.Error("OpenAI generation failed", "error", err)
		return "", &docmodel.ProviderError{Provider: "openai", Err: err}
	}
	if len(res.Choices) == 0 {
		return "", &docmodel.ProviderError{Provider: "openai", Err: errors.New("no choices returned")}
	}
	return strings.TrimSpace(res.Choices[0].Message.Content), nil
}
