package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

type fakeEngine struct {
	err error
}

func (f *fakeEngine) Name() providers.EngineName { return providers.EngineDeepL }

func (f *fakeEngine) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &providers.Response{Text: req.Text}, nil
}

func TestRecordRequest(t *testing.T) {
	m := NewManager()
	m.RecordRequest(providers.EngineBaidu, RequestResult{Success: true, Latency: 10 * time.Millisecond, Characters: 3})
	m.RecordRequest(providers.EngineBaidu, RequestResult{Success: false, Latency: 30 * time.Millisecond, ErrorType: "timeout"})

	s, ok := m.Get(providers.EngineBaidu)
	require.True(t, ok)
	assert.EqualValues(t, 2, s.TotalRequests)
	assert.EqualValues(t, 1, s.FailedRequests)
	assert.Equal(t, 20*time.Millisecond, s.AverageLatency)
	assert.Equal(t, 10*time.Millisecond, s.MinLatency)
	assert.Equal(t, 30*time.Millisecond, s.MaxLatency)
	assert.EqualValues(t, 1, s.ErrorTypes["timeout"])
	assert.InDelta(t, 0.5, s.SuccessRate(), 1e-9)

	m.Reset()
	assert.Empty(t, m.Snapshot())
}

func TestMiddleware(t *testing.T) {
	m := NewManager()

	ok := Wrap(&fakeEngine{}, m)
	_, err := ok.Translate(context.Background(), &providers.Request{Text: "你好"})
	require.NoError(t, err)

	failing := Wrap(&fakeEngine{err: &providers.ProviderError{Engine: providers.EngineDeepL, StatusCode: 456}}, m)
	_, err = failing.Translate(context.Background(), &providers.Request{Text: "x"})
	require.Error(t, err)

	snapshot := m.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, providers.EngineDeepL, snapshot[0].Engine)
	assert.EqualValues(t, 2, snapshot[0].TotalRequests)
	assert.EqualValues(t, 3, snapshot[0].TotalCharacters)
	assert.EqualValues(t, 1, snapshot[0].ErrorTypes["http_456"])
}

func TestWrapNilManager(t *testing.T) {
	engine := &fakeEngine{}
	assert.Same(t, engine, Wrap(engine, nil))
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, "code_54001", classifyError(&providers.ProviderError{Code: "54001"}))
	assert.Equal(t, "timeout", classifyError(context.DeadlineExceeded))
	assert.Equal(t, "timeout", classifyError(providers.NewProviderError(providers.EngineGoogle, "request failed", context.DeadlineExceeded)))
	assert.Equal(t, "unknown", classifyError(errors.New("x")))
}
