package translation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

type detectEngine struct {
	calls    atomic.Int32
	detected string
	err      error
}

func (p *detectEngine) Name() providers.EngineName { return providers.EngineGoogle }

func (p *detectEngine) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return &providers.Response{Text: req.Text, DetectedSource: p.detected}, nil
}

func TestDetectScript(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"你好世界", "zh-CN"},
		{"こんにちは", "ja"},
		{"カタカナ", "ja"},
		{"안녕하세요", "ko"},
		{"مرحبا", "ar"},
		{"hello", ""},
		{"", ""},
		// 汉字优先于假名
		{"日本語のテキスト", "zh-CN"},
		{"hello 世界", "zh-CN"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectScript(tt.text))
		})
	}
}

func TestDetectorRanges(t *testing.T) {
	sampler := &detectEngine{detected: "fr"}
	d := NewDetector(sampler)

	assert.Equal(t, "zh-CN", d.Detect(context.Background(), "你好世界"))
	assert.Equal(t, "ko", d.Detect(context.Background(), "안녕하세요"))
	assert.Equal(t, int32(0), sampler.calls.Load())
}

func TestDetectorSampleResultIgnored(t *testing.T) {
	sampler := &detectEngine{detected: "fr"}
	d := NewDetector(sampler)

	assert.Equal(t, "en", d.Detect(context.Background(), "bonjour tout le monde"))
	assert.Equal(t, int32(1), sampler.calls.Load())
}

func TestDetectorSampleFailure(t *testing.T) {
	sampler := &detectEngine{err: errors.New("offline")}
	d := NewDetector(sampler)

	assert.Equal(t, "en", d.Detect(context.Background(), "bonjour"))
	assert.Equal(t, int32(1), sampler.calls.Load())
}

func TestDetectorWithoutSampler(t *testing.T) {
	d := NewDetector(nil)
	assert.Equal(t, "en", d.Detect(context.Background(), "hello"))
	assert.Equal(t, "en", d.Detect(context.Background(), ""))
}

func TestDetectorStatisticalFallback(t *testing.T) {
	sampler := &detectEngine{}
	d := NewDetector(sampler, WithStatisticalFallback())

	got := d.Detect(context.Background(), "Bonjour tout le monde, comment allez-vous aujourd'hui ?")
	assert.Equal(t, "fr", got)
	assert.Equal(t, int32(0), sampler.calls.Load())

	// 过短的文本不参与统计
	assert.Equal(t, "en", d.Detect(context.Background(), "ok"))
}
