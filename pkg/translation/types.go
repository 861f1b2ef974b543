// Package translation 在多个翻译引擎之间路由请求，提供缓存与语言检测
package translation

import (
	"time"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

// Request 翻译请求；Engine 为空时使用路由器当前配置的引擎
type Request struct {
	Text       string               `json:"text"`
	SourceLang string               `json:"source_lang"`
	TargetLang string               `json:"target_lang"`
	Engine     providers.EngineName `json:"engine,omitempty"`
}

// Result 翻译结果，提供商失败时 Success 为 false 并带有 Error
type Result struct {
	Success    bool                 `json:"success"`
	Text       string               `json:"text"`
	SourceLang string               `json:"source_lang"`
	TargetLang string               `json:"target_lang"`
	Engine     providers.EngineName `json:"engine"`
	Error      string               `json:"error,omitempty"`

	// DetectedSource 引擎报告的源语言
	DetectedSource string `json:"detected_source,omitempty"`
	// Cached 结果来自缓存
	Cached bool `json:"cached,omitempty"`
}

// Config 路由器配置
type Config struct {
	Engine providers.EngineConfig `mapstructure:"engine"`

	CacheSize int           `mapstructure:"cache_size"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`

	// RequestTimeout 每次引擎调用的超时
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// Concurrency 批量翻译的并发上限
	Concurrency int `mapstructure:"concurrency"`
	// DetectSource 源语言为 auto 时先检测再翻译
	DetectSource bool `mapstructure:"detect_source"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Engine:         providers.EngineConfig{Engine: providers.EngineBaidu},
		CacheSize:      1000,
		CacheTTL:       24 * time.Hour,
		RequestTimeout: 30 * time.Second,
		Concurrency:    4,
	}
}
