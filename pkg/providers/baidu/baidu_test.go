package baidu

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

func TestSign(t *testing.T) {
	// 百度开放平台文档中的示例
	assert.Equal(t, "f89f9594663708c1605f3d736d01d2d4",
		Sign("2015063000000001", "apple", "1435660288", "12345678"))
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{AppID: "id"})
	require.Error(t, err)
	assert.True(t, providers.IsConfigurationError(err))
}

func TestTranslate(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "hello\nworld", r.PostForm.Get("q"))
		assert.Equal(t, "en", r.PostForm.Get("from"))
		assert.Equal(t, "zh", r.PostForm.Get("to"))
		assert.Equal(t, "1700000000123", r.PostForm.Get("salt"))
		assert.Equal(t, Sign("id", "hello\nworld", "1700000000123", "key"), r.PostForm.Get("sign"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"from":"en","to":"zh","trans_result":[{"src":"hello","dst":"你好"},{"src":"world","dst":"世界"}]}`))
	}))
	defer server.Close()

	p, err := New(Config{
		BaseConfig: providers.BaseConfig{APIEndpoint: server.URL},
		AppID:      "id",
		SecretKey:  "key",
		Client:     server.Client(),
		Now:        func() time.Time { return now },
	})
	require.NoError(t, err)

	resp, err := p.Translate(context.Background(), &providers.Request{Text: "hello\nworld", SourceLang: "en", TargetLang: "zh-CN"})
	require.NoError(t, err)
	assert.Equal(t, "你好\n世界", resp.Text)
	assert.Equal(t, "en", resp.DetectedSource)
}

func TestTranslateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_code":"54001","error_msg":"Invalid Sign"}`))
	}))
	defer server.Close()

	p, err := New(Config{
		BaseConfig: providers.BaseConfig{APIEndpoint: server.URL},
		AppID:      "id",
		SecretKey:  "key",
		Client:     server.Client(),
	})
	require.NoError(t, err)

	_, err = p.Translate(context.Background(), &providers.Request{Text: "hi", SourceLang: "auto", TargetLang: "ja"})
	var perr *providers.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "54001", perr.Code)
	assert.Contains(t, err.Error(), "Invalid Sign")
}

func TestTranslateViaBridge(t *testing.T) {
	var got []string
	p, err := New(Config{
		AppID:     "id",
		SecretKey: "key",
		Bridge: func(ctx context.Context, text, from, to, appID, secretKey string) (string, error) {
			got = []string{text, from, to, appID, secretKey}
			return "bonjour", nil
		},
	})
	require.NoError(t, err)

	resp, err := p.Translate(context.Background(), &providers.Request{Text: "hello", SourceLang: "auto", TargetLang: "fr"})
	require.NoError(t, err)
	assert.Equal(t, "bonjour", resp.Text)
	assert.Equal(t, []string{"hello", "auto", "fra", "id", "key"}, got)
}

func TestLanguageCode(t *testing.T) {
	assert.Equal(t, "jp", LanguageCode("ja"))
	assert.Equal(t, "cht", LanguageCode("zh-TW"))
	assert.Equal(t, "auto", LanguageCode("sw"))
}
