package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		text     string
		detected string
		wantErr  bool
	}{
		{
			name:     "segments concatenated",
			body:     `[[["你好，","Hello, ",null,null,10],["世界","world",null,null,10]],null,"en",null,null,null,1]`,
			text:     "你好，世界",
			detected: "en",
		},
		{
			name: "missing detection",
			body: `[[["Hallo","Hello",null,null,1]]]`,
			text: "Hallo",
		},
		{
			name:    "not an array",
			body:    `{"error":"x"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, detected, err := ParseResponse([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.text, text)
			assert.Equal(t, tt.detected, detected)
		})
	}
}

func TestTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "gtx", q.Get("client"))
		assert.Equal(t, "auto", q.Get("sl"))
		assert.Equal(t, "de", q.Get("tl"))
		assert.Equal(t, "t", q.Get("dt"))
		assert.Equal(t, "good morning & bye", q.Get("q"))
		w.Write([]byte(`[[["Guten Morgen & tschüss","good morning & bye",null,null,1]],null,"en"]`))
	}))
	defer server.Close()

	p := New(Config{BaseConfig: providers.BaseConfig{APIEndpoint: server.URL}, Client: server.Client()})
	resp, err := p.Translate(context.Background(), &providers.Request{Text: "good morning & bye", SourceLang: "auto", TargetLang: "de"})
	require.NoError(t, err)
	assert.Equal(t, "Guten Morgen & tschüss", resp.Text)
	assert.Equal(t, "en", resp.DetectedSource)
}

func TestTranslateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := New(Config{BaseConfig: providers.BaseConfig{APIEndpoint: server.URL}, Client: server.Client()})
	_, err := p.Translate(context.Background(), &providers.Request{Text: "x", TargetLang: "en"})
	require.Error(t, err)
	assert.True(t, providers.IsProviderError(err))
}
