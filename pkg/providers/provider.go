// Package providers 定义翻译引擎接口、引擎配置与注册表
package providers

import (
	"context"
	"net/http"
	"time"
)

// EngineName 引擎标识
type EngineName string

// 支持的引擎
const (
	EngineBaidu  EngineName = "baidu"
	EngineYoudao EngineName = "youdao"
	EngineGoogle EngineName = "google"
	EngineDeepL  EngineName = "deepl"
	EngineAI     EngineName = "ai"
)

// AutoLanguage 源语言自动检测标记
const AutoLanguage = "auto"

// EngineConfig 引擎配置，由调用方按次提供或在路由器上设置一次
type EngineConfig struct {
	Engine    EngineName `json:"engine" mapstructure:"engine"`
	APIKey    string     `json:"api_key,omitempty" mapstructure:"api_key"`
	AppID     string     `json:"app_id,omitempty" mapstructure:"app_id"`
	SecretKey string     `json:"secret_key,omitempty" mapstructure:"secret_key"`
	BaseURL   string     `json:"base_url,omitempty" mapstructure:"base_url"`
}

// Merge 用 other 中的非空字段覆盖当前配置
func (c EngineConfig) Merge(other EngineConfig) EngineConfig {
	if other.Engine != "" {
		c.Engine = other.Engine
	}
	if other.APIKey != "" {
		c.APIKey = other.APIKey
	}
	if other.AppID != "" {
		c.AppID = other.AppID
	}
	if other.SecretKey != "" {
		c.SecretKey = other.SecretKey
	}
	if other.BaseURL != "" {
		c.BaseURL = other.BaseURL
	}
	return c
}

// BaseConfig HTTP 引擎的公共配置
type BaseConfig struct {
	// API配置
	APIKey      string `json:"api_key,omitempty"`
	APIEndpoint string `json:"api_endpoint,omitempty"`

	// 单次请求超时
	Timeout time.Duration `json:"timeout"`

	// 自定义头部
	Headers map[string]string `json:"headers,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() BaseConfig {
	return BaseConfig{
		Timeout: 30 * time.Second,
		Headers: make(map[string]string),
	}
}

// HTTPDoer 发送 HTTP 请求，*http.Client 与重试客户端都实现该接口
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request 引擎请求
type Request struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// Response 引擎响应
type Response struct {
	Text string `json:"text"`
	// DetectedSource 引擎报告的源语言，未报告时为空
	DetectedSource string                 `json:"detected_source,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// Engine 翻译引擎，每个外部服务一个实现
type Engine interface {
	// Name 引擎标识
	Name() EngineName

	// Translate 执行翻译；网络或接口失败返回 *ProviderError
	Translate(ctx context.Context, req *Request) (*Response, error)
}

// AITranslateFunc 由调用方注入的 AI 翻译回调
type AITranslateFunc func(ctx context.Context, text, sourceLang, targetLang string) (string, error)
