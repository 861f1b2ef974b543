package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

const systemPrompt = "You are a professional translator. Translate accurately while preserving the original meaning, tone and Markdown formatting. Output only the translation."

// OpenAIConfig OpenAI 兼容接口配置
type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
}

// DefaultOpenAIConfig 返回默认配置
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Model:       "gpt-4o-mini",
		Temperature: 0.3,
		MaxTokens:   4096,
		Timeout:     2 * time.Minute,
		MaxRetries:  2,
	}
}

// NewOpenAIFunc 基于 openai-go 创建 AI 翻译回调；BaseURL 可指向任意兼容接口
func NewOpenAIFunc(config OpenAIConfig) (providers.AITranslateFunc, error) {
	if config.APIKey == "" {
		return nil, providers.NewConfigurationError(providers.EngineAI, "AI API key not configured")
	}
	if config.Model == "" {
		config.Model = DefaultOpenAIConfig().Model
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.Timeout))
	}
	if config.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(config.MaxRetries))
	}

	client := openai.NewClient(opts...)

	return func(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
		source := sourceLang
		if source == "" || source == providers.AutoLanguage {
			source = "the detected source language"
		}

		params := openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(systemPrompt),
				openai.UserMessage(fmt.Sprintf("Translate the following text from %s to %s:\n\n%s",
					source, targetLang, text)),
			},
			Model: openai.ChatModel(config.Model),
		}
		if config.Temperature > 0 {
			params.Temperature = openai.Float(config.Temperature)
		}
		if config.MaxTokens > 0 {
			params.MaxTokens = openai.Int(int64(config.MaxTokens))
		}

		completion, err := client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("openai chat completion failed: %w", err)
		}
		if len(completion.Choices) == 0 {
			return "", fmt.Errorf("no choices returned from model")
		}
		return completion.Choices[0].Message.Content, nil
	}, nil
}
