// Package youdao 有道智云翻译引擎
package youdao

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

// DefaultEndpoint 有道文本翻译接口
const DefaultEndpoint = "https://openapi.youdao.com/api"

// Config 有道引擎配置
type Config struct {
	providers.BaseConfig
	AppKey    string
	SecretKey string

	Client providers.HTTPDoer
	// Now 与 NewSalt 在测试时可替换
	Now     func() time.Time
	NewSalt func() string
}

// Provider 有道翻译引擎
type Provider struct {
	config Config
	client providers.HTTPDoer
}

var _ providers.Engine = (*Provider)(nil)

// New 创建有道引擎；缺少应用 ID 或密钥时返回配置错误
func New(config Config) (*Provider, error) {
	if config.AppKey == "" || config.SecretKey == "" {
		return nil, providers.NewConfigurationError(providers.EngineYoudao, "Youdao API credentials not configured")
	}
	if config.APIEndpoint == "" {
		config.APIEndpoint = DefaultEndpoint
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.NewSalt == nil {
		config.NewSalt = uuid.NewString
	}

	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &Provider{config: config, client: client}, nil
}

// Name 引擎标识
func (p *Provider) Name() providers.EngineName {
	return providers.EngineYoudao
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	from := providers.AutoLanguage
	if req.SourceLang != providers.AutoLanguage {
		from = LanguageCode(req.SourceLang)
	}

	salt := p.config.NewSalt()
	curtime := strconv.FormatInt(p.config.Now().Unix(), 10)

	params := url.Values{}
	params.Set("q", req.Text)
	params.Set("from", from)
	params.Set("to", LanguageCode(req.TargetLang))
	params.Set("appKey", p.config.AppKey)
	params.Set("salt", salt)
	params.Set("curtime", curtime)
	params.Set("sign", Sign(p.config.AppKey, req.Text, salt, curtime, p.config.SecretKey))
	params.Set("signType", "v3")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.APIEndpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range p.config.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, providers.NewProviderError(providers.EngineYoudao, "request failed", err)
	}
	body, err := providers.ReadBody(providers.EngineYoudao, resp)
	if err != nil {
		return nil, err
	}

	var result TranslateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, providers.NewProviderError(providers.EngineYoudao, "failed to decode response", err)
	}

	if result.ErrorCode != "0" {
		return nil, &providers.ProviderError{
			Engine:  providers.EngineYoudao,
			Code:    result.ErrorCode,
			Message: "Error code: " + result.ErrorCode,
		}
	}
	if len(result.Translation) == 0 {
		return nil, providers.NewProviderError(providers.EngineYoudao, "no translation returned", nil)
	}

	// l 形如 en2zh-CHS
	var detected string
	if idx := strings.Index(result.Language, "2"); idx > 0 {
		detected = result.Language[:idx]
	}

	return &providers.Response{
		Text:           result.Translation[0],
		DetectedSource: detected,
	}, nil
}

// Sign 计算 v3 签名 md5(appKey+md5(q)+salt+curtime+密钥)
func Sign(appKey, text, salt, curtime, secretKey string) string {
	return md5Hex(appKey + md5Hex(text) + salt + curtime + secretKey)
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// TranslateResponse 翻译响应
type TranslateResponse struct {
	ErrorCode   string   `json:"errorCode"`
	Query       string   `json:"query"`
	Translation []string `json:"translation"`
	Language    string   `json:"l"`
}

var languageCodes = map[string]string{
	"zh-CN": "zh-CHS",
	"zh-TW": "zh-CHT",
	"en":    "en",
	"ja":    "ja",
	"ko":    "ko",
	"fr":    "fr",
	"de":    "de",
	"es":    "es",
	"it":    "it",
	"ru":    "ru",
}

// LanguageCode 转换为有道语言代码，表中没有的语言原样传递
func LanguageCode(lang string) string {
	if code, ok := languageCodes[lang]; ok {
		return code
	}
	return lang
}
