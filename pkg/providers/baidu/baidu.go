// Package baidu 百度翻译开放平台引擎
package baidu

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

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

// DefaultEndpoint 百度通用翻译接口
const DefaultEndpoint = "https://fanyi-api.baidu.com/api/trans/vip/translate"

// Bridge 宿主提供的转发通道，设置后请求不再直接发往百度（桌面外壳用于绕过浏览器跨域限制）
type Bridge func(ctx context.Context, text, from, to, appID, secretKey string) (string, error)

// Config 百度引擎配置
type Config struct {
	providers.BaseConfig
	AppID     string
	SecretKey string

	// Client 为空时使用带超时的 http.Client
	Client providers.HTTPDoer
	Bridge Bridge
	// Now 生成 salt 的时钟，测试时可替换
	Now func() time.Time
}

// Provider 百度翻译引擎
type Provider struct {
	config Config
	client providers.HTTPDoer
}

var _ providers.Engine = (*Provider)(nil)

// New 创建百度引擎；缺少 AppID 或 SecretKey 时返回配置错误
func New(config Config) (*Provider, error) {
	if config.AppID == "" || config.SecretKey == "" {
		return nil, providers.NewConfigurationError(providers.EngineBaidu, "Baidu API credentials not configured")
	}
	if config.APIEndpoint == "" {
		config.APIEndpoint = DefaultEndpoint
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &Provider{config: config, client: client}, nil
}

// Name 引擎标识
func (p *Provider) Name() providers.EngineName {
	return providers.EngineBaidu
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	from := providers.AutoLanguage
	if req.SourceLang != providers.AutoLanguage {
		from = LanguageCode(req.SourceLang)
	}
	to := LanguageCode(req.TargetLang)

	if p.config.Bridge != nil {
		text, err := p.config.Bridge(ctx, req.Text, from, to, p.config.AppID, p.config.SecretKey)
		if err != nil {
			return nil, providers.NewProviderError(providers.EngineBaidu, "bridge translation failed", err)
		}
		return &providers.Response{Text: text}, nil
	}

	salt := strconv.FormatInt(p.config.Now().UnixMilli(), 10)

	params := url.Values{}
	params.Set("q", req.Text)
	params.Set("from", from)
	params.Set("to", to)
	params.Set("appid", p.config.AppID)
	params.Set("salt", salt)
	params.Set("sign", Sign(p.config.AppID, req.Text, salt, p.config.SecretKey))

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
		return nil, providers.NewProviderError(providers.EngineBaidu, "request failed", err)
	}
	body, err := providers.ReadBody(providers.EngineBaidu, resp)
	if err != nil {
		return nil, err
	}

	var result TranslateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, providers.NewProviderError(providers.EngineBaidu, "failed to decode response", err)
	}

	// 52000 表示成功
	if result.ErrorCode != "" && result.ErrorCode != "52000" {
		return nil, &providers.ProviderError{
			Engine:  providers.EngineBaidu,
			Code:    result.ErrorCode,
			Message: result.ErrorMsg,
		}
	}
	if len(result.TransResult) == 0 {
		return nil, providers.NewProviderError(providers.EngineBaidu, "no translation returned", nil)
	}

	lines := make([]string, len(result.TransResult))
	for i, item := range result.TransResult {
		lines[i] = item.Dst
	}

	return &providers.Response{
		Text:           strings.Join(lines, "\n"),
		DetectedSource: result.From,
	}, nil
}

// Sign 计算签名 md5(appid+q+salt+密钥)
func Sign(appID, text, salt, secretKey string) string {
	sum := md5.Sum([]byte(appID + text + salt + secretKey))
	return hex.EncodeToString(sum[:])
}

// TranslateResponse 翻译响应
type TranslateResponse struct {
	From        string `json:"from"`
	To          string `json:"to"`
	TransResult []struct {
		Src string `json:"src"`
		Dst string `json:"dst"`
	} `json:"trans_result"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

var languageCodes = map[string]string{
	"zh-CN": "zh",
	"zh-TW": "cht",
	"en":    "en",
	"ja":    "jp",
	"ko":    "kor",
	"fr":    "fra",
	"de":    "de",
	"es":    "spa",
	"it":    "it",
	"ru":    "ru",
	"pt":    "pt",
	"nl":    "nl",
	"pl":    "pl",
	"tr":    "tr",
	"ar":    "ara",
	"hi":    "hi",
	"th":    "th",
	"vi":    "vie",
	"id":    "id",
}

// LanguageCode 转换为百度语言代码，表中没有的语言交给百度自动检测
func LanguageCode(lang string) string {
	if code, ok := languageCodes[lang]; ok {
		return code
	}
	return providers.AutoLanguage
}
