// Package google Google 网页翻译公共接口引擎，无需凭据
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

// DefaultEndpoint 公共翻译接口
const DefaultEndpoint = "https://translate.googleapis.com/translate_a/single"

// Config Google 引擎配置
type Config struct {
	providers.BaseConfig
	Client providers.HTTPDoer
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{BaseConfig: providers.DefaultConfig()}
	config.APIEndpoint = DefaultEndpoint
	return config
}

// Provider Google 翻译引擎
type Provider struct {
	config Config
	client providers.HTTPDoer
}

var _ providers.Engine = (*Provider)(nil)

// New 创建 Google 引擎
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = DefaultEndpoint
	}

	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &Provider{config: config, client: client}
}

// Name 引擎标识
func (p *Provider) Name() providers.EngineName {
	return providers.EngineGoogle
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	source := req.SourceLang
	if source == "" {
		source = providers.AutoLanguage
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", req.TargetLang)
	params.Set("dt", "t")
	params.Set("q", req.Text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.config.APIEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range p.config.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, providers.NewProviderError(providers.EngineGoogle, "request failed", err)
	}
	body, err := providers.ReadBody(providers.EngineGoogle, resp)
	if err != nil {
		return nil, err
	}

	text, detected, err := ParseResponse(body)
	if err != nil {
		return nil, providers.NewProviderError(providers.EngineGoogle, "failed to decode response", err)
	}

	return &providers.Response{Text: text, DetectedSource: detected}, nil
}

// ParseResponse 解析嵌套数组响应
//
// 第一个元素是片段数组，每个片段的第一个元素是译文；第三个元素是检测到的源语言。
func ParseResponse(body []byte) (string, string, error) {
	var root []json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil {
		return "", "", err
	}
	if len(root) == 0 {
		return "", "", fmt.Errorf("empty response")
	}

	var segments []json.RawMessage
	if err := json.Unmarshal(root[0], &segments); err != nil {
		return "", "", fmt.Errorf("unexpected segment list: %w", err)
	}

	var builder strings.Builder
	for _, raw := range segments {
		var segment []json.RawMessage
		if err := json.Unmarshal(raw, &segment); err != nil || len(segment) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(segment[0], &part); err == nil {
			builder.WriteString(part)
		}
	}

	var detected string
	if len(root) > 2 {
		// 字段缺失时为 null，忽略解析错误即可
		_ = json.Unmarshal(root[2], &detected)
	}

	return builder.String(), detected, nil
}
