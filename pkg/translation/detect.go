package translation

import (
	"context"
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

// DefaultLanguage 无法判断语言时返回的代码
const DefaultLanguage = "en"

// 按优先级检查的字符区间
var scriptRanges = []struct {
	code   string
	ranges []struct{ lo, hi rune }
}{
	{"zh-CN", []struct{ lo, hi rune }{{0x4E00, 0x9FA5}}},
	{"ja", []struct{ lo, hi rune }{{0x3040, 0x309F}, {0x30A0, 0x30FF}}},
	{"ko", []struct{ lo, hi rune }{{0xAC00, 0xD7AF}}},
	{"ar", []struct{ lo, hi rune }{{0x0600, 0x06FF}}},
}

// Detector 基于字符区间的语言检测器
//
// 没有命中任何区间时会调用探测引擎（通常是 Google，sl=auto），但探测结果只记录日志，
// 返回值仍是 DefaultLanguage。启用 WithStatisticalFallback 后改为使用 lingua 的统计结果。
type Detector struct {
	sampler providers.Engine
	logger  *zap.Logger

	statistical bool
	once        sync.Once
	lingua      lingua.LanguageDetector
}

// DetectorOption 检测器选项
type DetectorOption func(*Detector)

// WithDetectorLogger 设置日志记录器
func WithDetectorLogger(logger *zap.Logger) DetectorOption {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithStatisticalFallback 区间未命中时使用 lingua 统计模型，而不是返回默认语言
func WithStatisticalFallback() DetectorOption {
	return func(d *Detector) {
		d.statistical = true
	}
}

// NewDetector 创建检测器；sampler 可以为空
func NewDetector(sampler providers.Engine, opts ...DetectorOption) *Detector {
	d := &Detector{sampler: sampler, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectScript 只按字符区间检测，未命中返回空字符串
func DetectScript(text string) string {
	for _, script := range scriptRanges {
		for _, r := range text {
			for _, rng := range script.ranges {
				if r >= rng.lo && r <= rng.hi {
					return script.code
				}
			}
		}
	}
	return ""
}

// Detect 返回文本的语言代码
func (d *Detector) Detect(ctx context.Context, text string) string {
	if code := DetectScript(text); code != "" {
		return code
	}

	if d.statistical {
		if code := d.detectStatistical(text); code != "" {
			return code
		}
	}

	if d.sampler != nil && strings.TrimSpace(text) != "" {
		resp, err := d.sampler.Translate(ctx, &providers.Request{
			Text:       text,
			SourceLang: providers.AutoLanguage,
			TargetLang: DefaultLanguage,
		})
		if err != nil {
			d.logger.Debug("language sampling failed", zap.Error(err))
		} else {
			// 探测结果不参与返回值
			d.logger.Debug("language sampling finished",
				zap.String("detected", resp.DetectedSource),
				zap.String("returned", DefaultLanguage))
		}
	}

	return DefaultLanguage
}

// statisticalLanguages 列表中非区间检测覆盖的语言
var statisticalLanguages = []lingua.Language{
	lingua.English, lingua.French, lingua.German, lingua.Spanish, lingua.Italian,
	lingua.Russian, lingua.Portuguese, lingua.Dutch, lingua.Polish, lingua.Turkish,
	lingua.Hindi, lingua.Thai, lingua.Vietnamese, lingua.Indonesian, lingua.Ukrainian,
	lingua.Czech, lingua.Swedish, lingua.Danish, lingua.Finnish, lingua.Bokmal,
	lingua.Hungarian, lingua.Greek, lingua.Hebrew, lingua.Romanian,
}

func (d *Detector) detectStatistical(text string) string {
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < 3 {
		return ""
	}

	d.once.Do(func() {
		d.lingua = lingua.NewLanguageDetectorBuilder().
			FromLanguages(statisticalLanguages...).
			Build()
	})

	lang, ok := d.lingua.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	code := strings.ToLower(lang.IsoCode639_1().String())
	if code == "nb" {
		code = "no"
	}
	if _, ok := LookupLanguage(code); !ok {
		return ""
	}
	return code
}
