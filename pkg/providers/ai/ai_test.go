package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

func TestNewWithoutCallback(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.True(t, providers.IsConfigurationError(err))

	_, err = Constructor(nil)(providers.EngineConfig{Engine: providers.EngineAI})
	assert.True(t, providers.IsConfigurationError(err))
}

func TestTranslate(t *testing.T) {
	p, err := New(func(ctx context.Context, text, src, tgt string) (string, error) {
		return "  [" + src + "->" + tgt + "] " + text + "\n", nil
	})
	require.NoError(t, err)

	resp, err := p.Translate(context.Background(), &providers.Request{Text: "hi", SourceLang: "en", TargetLang: "fr"})
	require.NoError(t, err)
	assert.Equal(t, "[en->fr] hi", resp.Text)
	assert.Equal(t, providers.EngineAI, p.Name())
}

func TestTranslateCallbackError(t *testing.T) {
	boom := errors.New("model overloaded")
	p, err := New(func(ctx context.Context, text, src, tgt string) (string, error) {
		return "", boom
	})
	require.NoError(t, err)

	_, err = p.Translate(context.Background(), &providers.Request{Text: "hi"})
	assert.True(t, providers.IsProviderError(err))
	assert.ErrorIs(t, err, boom)
}

func TestNewOpenAIFuncRequiresKey(t *testing.T) {
	_, err := NewOpenAIFunc(OpenAIConfig{})
	assert.True(t, providers.IsConfigurationError(err))

	fn, err := NewOpenAIFunc(OpenAIConfig{APIKey: "sk-test", BaseURL: "http://127.0.0.1:0"})
	require.NoError(t, err)
	assert.NotNil(t, fn)
}
