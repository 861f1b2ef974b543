// Package deepl DeepL 翻译引擎
package deepl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

// DefaultBaseURL 免费版接口地址
const DefaultBaseURL = "https://api-free.deepl.com"

// Config DeepL配置
type Config struct {
	providers.BaseConfig
	Client providers.HTTPDoer
}

// Provider DeepL提供商
type Provider struct {
	config Config
	client providers.HTTPDoer
}

var _ providers.Engine = (*Provider)(nil)

// New 创建新的DeepL提供商；缺少 API Key 时返回配置错误
func New(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, providers.NewConfigurationError(providers.EngineDeepL, "DeepL API key not configured")
	}
	if config.APIEndpoint == "" {
		config.APIEndpoint = DefaultBaseURL
	}
	config.APIEndpoint = strings.TrimSuffix(config.APIEndpoint, "/")

	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &Provider{config: config, client: client}, nil
}

// Name 引擎标识
func (p *Provider) Name() providers.EngineName {
	return providers.EngineDeepL
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	params := url.Values{}
	params.Set("text", req.Text)
	if req.SourceLang != "" && req.SourceLang != providers.AutoLanguage {
		params.Set("source_lang", LanguageCode(req.SourceLang))
	}
	params.Set("target_lang", LanguageCode(req.TargetLang))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.APIEndpoint+"/v2/translate",
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+p.config.APIKey)
	for k, v := range p.config.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, providers.NewProviderError(providers.EngineDeepL, "request failed", err)
	}
	body, err := providers.ReadBody(providers.EngineDeepL, resp)
	if err != nil {
		var perr *providers.ProviderError
		if errors.As(err, &perr) {
			perr.Message = statusMessage(perr.StatusCode, perr.Message)
		}
		return nil, err
	}

	var result TranslateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, providers.NewProviderError(providers.EngineDeepL, "failed to decode response", err)
	}
	if len(result.Translations) == 0 {
		return nil, providers.NewProviderError(providers.EngineDeepL, "no translation returned", nil)
	}

	return &providers.Response{
		Text:           result.Translations[0].Text,
		DetectedSource: result.Translations[0].DetectedSourceLanguage,
	}, nil
}

// statusMessage DeepL 特有状态码的说明
func statusMessage(status int, fallback string) string {
	switch status {
	case http.StatusForbidden:
		return "authentication failed"
	case http.StatusRequestEntityTooLarge:
		return "request size exceeded"
	case http.StatusTooManyRequests:
		return "too many requests"
	case 456:
		return "quota exceeded"
	default:
		return fallback
	}
}

// TranslateResponse 翻译响应
type TranslateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

var languageCodes = map[string]string{
	"zh-CN": "ZH",
	"zh-TW": "ZH",
	"en":    "EN",
	"ja":    "JA",
	"ko":    "KO",
	"fr":    "FR",
	"de":    "DE",
	"es":    "ES",
	"it":    "IT",
	"ru":    "RU",
	"pt":    "PT",
	"nl":    "NL",
	"pl":    "PL",
}

// LanguageCode 先查表，表中没有的语言转为大写
func LanguageCode(lang string) string {
	if code, ok := languageCodes[lang]; ok {
		return code
	}
	return strings.ToUpper(strings.ReplaceAll(lang, "_", "-"))
}
