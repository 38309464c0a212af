// Package llm configures access to the hosted GigaChat API. The service
// speaks the OpenAI chat protocol, so the chat model is built through the
// eino OpenAI component and the raw SDK client through openai-go.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/digitaldept/business-advisor/advisor/contract"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://gigachat.devices.sberbank.ru/api/v1"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"GigaChat-2"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("%w: gigachat base url is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: gigachat model is required", contractx.ErrValidation)
	}
	return nil
}

// NewChatModel builds a tool-calling chat model bound to the given
// credential. The credential is an explicit parameter: the client is never
// configured through ambient process state.
func (c Config) NewChatModel(ctx context.Context, credential string) (model.ToolCallingChatModel, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, contractx.ErrMissingCredential
	}

	maxTokens := c.MaxCompletionToken
	temperature := c.Temperature
	conf := &openaimodel.ChatModelConfig{
		BaseURL:     strings.TrimRight(c.BaseURL, "/"),
		APIKey:      credential,
		Model:       strings.TrimSpace(c.Model),
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		Timeout:     c.Timeout,
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("%w: create gigachat chat model: %v", contractx.ErrModelInvoke, err)
	}
	return m, nil
}

// NewSDKClient creates a raw OpenAI SDK client for the GigaChat endpoint,
// used for lightweight probes outside the agent runtime.
func NewSDKClient(cfg Config, credential string) *openaisdk.Client {
	if strings.TrimSpace(credential) == "" {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(credential)),
	}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}

	client := openaisdk.NewClient(opts...)
	return &client
}
