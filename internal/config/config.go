package config

import (
	"time"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/ai"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/retry"
	"github.com/nerdneilsfield/notes-pipeline/pkg/translation"
)

// EngineCredentials 单个引擎的凭据
type EngineCredentials struct {
	AppID     string `mapstructure:"app_id"`
	SecretKey string `mapstructure:"secret_key"`
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`

	// BridgeCommand 转发请求的外部命令，目前只有百度使用
	BridgeCommand string `mapstructure:"bridge_command"`
}

// CacheConfig 翻译缓存配置
type CacheConfig struct {
	Size int           `mapstructure:"size"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// Config 保存命令行工具的所有配置
type Config struct {
	Engine  string                       `mapstructure:"engine"`
	Engines map[string]EngineCredentials `mapstructure:"engines"`
	Cache   CacheConfig                  `mapstructure:"cache"`

	RequestTimeout time.Duration `mapstructure:"request_timeout"` // 单次引擎调用超时
	MaxRetries     int           `mapstructure:"max_retries"`     // 网络错误与 5xx 的重试次数
	Concurrency    int           `mapstructure:"concurrency"`     // 批量翻译并发数
	DetectSource   bool          `mapstructure:"detect_source"`   // 源语言为 auto 时先检测

	// StatisticalDetection 字符区间未命中时使用统计模型检测语言
	StatisticalDetection bool `mapstructure:"statistical_detection"`

	AI    ai.OpenAIConfig `mapstructure:"ai"`
	Debug bool            `mapstructure:"debug"`
}

// NewDefaultConfig 创建一个新的默认配置
func NewDefaultConfig() *Config {
	router := translation.DefaultConfig()
	engines := make(map[string]EngineCredentials)
	for _, name := range engineNames {
		engines[string(name)] = EngineCredentials{}
	}

	return &Config{
		Engine:  string(router.Engine.Engine),
		Engines: engines,
		Cache: CacheConfig{
			Size: router.CacheSize,
			TTL:  router.CacheTTL,
		},
		RequestTimeout: router.RequestTimeout,
		MaxRetries:     retry.DefaultRetryConfig().MaxRetries,
		Concurrency:    router.Concurrency,
		AI:             ai.DefaultOpenAIConfig(),
	}
}

var engineNames = []providers.EngineName{
	providers.EngineBaidu,
	providers.EngineYoudao,
	providers.EngineGoogle,
	providers.EngineDeepL,
	providers.EngineAI,
}

// EngineConfig 返回指定引擎的配置；name 为空时使用当前引擎
func (c *Config) EngineConfig(name string) providers.EngineConfig {
	if name == "" {
		name = c.Engine
	}
	creds := c.Engines[name]
	return providers.EngineConfig{
		Engine:    providers.EngineName(name),
		APIKey:    creds.APIKey,
		AppID:     creds.AppID,
		SecretKey: creds.SecretKey,
		BaseURL:   creds.BaseURL,
	}
}

// RouterConfig 转换为路由器配置
func (c *Config) RouterConfig() translation.Config {
	return translation.Config{
		Engine:         c.EngineConfig(""),
		CacheSize:      c.Cache.Size,
		CacheTTL:       c.Cache.TTL,
		RequestTimeout: c.RequestTimeout,
		Concurrency:    c.Concurrency,
		DetectSource:   c.DetectSource,
	}
}

// RetryConfig 网络重试配置
func (c *Config) RetryConfig() retry.RetryConfig {
	cfg := retry.DefaultRetryConfig()
	cfg.MaxRetries = c.MaxRetries
	return cfg
}

// AIEnabled 是否配置了 AI 接口
func (c *Config) AIEnabled() bool {
	return c.AI.APIKey != ""
}
