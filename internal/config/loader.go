package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ConfigName 默认配置文件名（不含扩展名）
const ConfigName = ".notepipe"

// EnvPrefix 环境变量前缀，例如 NOTEPIPE_ENGINES_BAIDU_APP_ID
const EnvPrefix = "NOTEPIPE"

// LoadConfig 从文件加载配置
//
// configPath 为空时依次在家目录与当前目录查找 .notepipe.yaml，找不到则使用默认值。
// 环境变量优先于配置文件。
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v, NewDefaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	config := NewDefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaults 注册所有键，环境变量只对已知键生效
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("engine", d.Engine)
	for name, creds := range d.Engines {
		prefix := "engines." + name + "."
		v.SetDefault(prefix+"app_id", creds.AppID)
		v.SetDefault(prefix+"secret_key", creds.SecretKey)
		v.SetDefault(prefix+"api_key", creds.APIKey)
		v.SetDefault(prefix+"base_url", creds.BaseURL)
		v.SetDefault(prefix+"bridge_command", creds.BridgeCommand)
	}
	v.SetDefault("cache.size", d.Cache.Size)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("detect_source", d.DetectSource)
	v.SetDefault("statistical_detection", d.StatisticalDetection)
	v.SetDefault("ai.api_key", d.AI.APIKey)
	v.SetDefault("ai.base_url", d.AI.BaseURL)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.temperature", d.AI.Temperature)
	v.SetDefault("ai.max_tokens", d.AI.MaxTokens)
	v.SetDefault("ai.timeout", d.AI.Timeout)
	v.SetDefault("ai.max_retries", d.AI.MaxRetries)
	v.SetDefault("debug", d.Debug)
}

// Validate 检查数值范围；引擎名由路由器在使用时校验
func (c *Config) Validate() error {
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size must not be negative: %d", c.Cache.Size)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1: %d", c.Concurrency)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative: %d", c.MaxRetries)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative: %s", c.RequestTimeout)
	}
	return nil
}
