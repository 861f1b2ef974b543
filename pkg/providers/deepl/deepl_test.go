package deepl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

func TestTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/translate", r.URL.Path)
		assert.Equal(t, "DeepL-Auth-Key secret", r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "Hallo", r.PostForm.Get("text"))
		assert.Equal(t, "DE", r.PostForm.Get("source_lang"))
		assert.Equal(t, "ZH", r.PostForm.Get("target_lang"))
		w.Write([]byte(`{"translations":[{"detected_source_language":"DE","text":"你好"}]}`))
	}))
	defer server.Close()

	p, err := New(Config{BaseConfig: providers.BaseConfig{APIKey: "secret", APIEndpoint: server.URL + "/"}, Client: server.Client()})
	require.NoError(t, err)

	resp, err := p.Translate(context.Background(), &providers.Request{Text: "Hallo", SourceLang: "de", TargetLang: "zh-CN"})
	require.NoError(t, err)
	assert.Equal(t, "你好", resp.Text)
	assert.Equal(t, "DE", resp.DetectedSource)
}

func TestTranslateOmitsAutoSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		_, present := r.PostForm["source_lang"]
		assert.False(t, present)
		w.Write([]byte(`{"translations":[{"text":"ok"}]}`))
	}))
	defer server.Close()

	p, err := New(Config{BaseConfig: providers.BaseConfig{APIKey: "secret", APIEndpoint: server.URL}, Client: server.Client()})
	require.NoError(t, err)

	_, err = p.Translate(context.Background(), &providers.Request{Text: "x", SourceLang: "auto", TargetLang: "en"})
	require.NoError(t, err)
}

func TestTranslateQuotaExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(456)
	}))
	defer server.Close()

	p, err := New(Config{BaseConfig: providers.BaseConfig{APIKey: "secret", APIEndpoint: server.URL}, Client: server.Client()})
	require.NoError(t, err)

	_, err = p.Translate(context.Background(), &providers.Request{Text: "x", TargetLang: "en"})
	var perr *providers.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 456, perr.StatusCode)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(Config{})
	assert.True(t, providers.IsConfigurationError(err))
}

func TestLanguageCode(t *testing.T) {
	assert.Equal(t, "ZH", LanguageCode("zh-TW"))
	assert.Equal(t, "SV", LanguageCode("sv"))
	assert.Equal(t, "EN-GB", LanguageCode("en_gb"))
}
