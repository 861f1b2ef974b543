package providers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ConfigurationError 引擎未知或缺少凭据，属于调用方错误，会直接返回给调用方
type ConfigurationError struct {
	Engine EngineName
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Engine == "" {
		return "translation configuration error: " + e.Reason
	}
	return fmt.Sprintf("translation configuration error (%s): %s", e.Engine, e.Reason)
}

// NewConfigurationError 创建配置错误
func NewConfigurationError(engine EngineName, reason string) *ConfigurationError {
	return &ConfigurationError{Engine: engine, Reason: reason}
}

// ProviderError 网络、HTTP 或接口层面的失败，路由器会将其转为失败结果
type ProviderError struct {
	Engine     EngineName
	Code       string
	Message    string
	StatusCode int
	Cause      error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code %s)", e.Engine, msg, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Engine, msg)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// IsRetryable 判断错误是否可重试
func (e *ProviderError) IsRetryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NewProviderError 创建提供商错误
func NewProviderError(engine EngineName, message string, cause error) *ProviderError {
	return &ProviderError{Engine: engine, Message: message, Cause: cause}
}

// IsConfigurationError 判断是否为配置错误
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsProviderError 判断是否为提供商错误
func IsProviderError(err error) bool {
	var target *ProviderError
	return errors.As(err, &target)
}

// maxErrorBody 错误响应中保留的最大字节数
const maxErrorBody = 512

// ReadBody 读取响应体；非 2xx 状态返回带状态码的 *ProviderError
func ReadBody(engine EngineName, resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewProviderError(engine, "failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &ProviderError{
			Engine:     engine,
			Message:    fmt.Sprintf("API error: %s %s", resp.Status, snippet),
			StatusCode: resp.StatusCode,
		}
	}
	return body, nil
}
