package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/notes-pipeline/pkg/document"
	"github.com/nerdneilsfield/notes-pipeline/pkg/importer"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/stats"
	"github.com/nerdneilsfield/notes-pipeline/pkg/translation"
)

type translateOptions struct {
	from       string
	to         string
	engine     string
	inputPath  string
	outputPath string
	showStats  bool
	quiet      bool
	asJSON     bool
}

func newTranslateCommand(opts *rootOptions) *cobra.Command {
	flags := &translateOptions{}

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "翻译文本或文档",
		Long: `翻译命令行中的文本，或使用 --file 翻译整个文档。

翻译文档时标题、引用、列表项与段落逐行翻译，代码块、表格和分隔线保持原样；
单行失败时保留原文并在结束时给出提示。`,
		Example: `  notepipe translate --to zh-CN "Hello world"
  notepipe translate --engine deepl --from en --to de "Good morning"
  notepipe translate --file notes.md --to ja -o notes.ja.md --stats`,
		Args: func(cmd *cobra.Command, args []string) error {
			if flags.inputPath == "" && len(args) == 0 {
				return errors.New("需要提供待翻译文本或 --file")
			}
			if flags.inputPath != "" && len(args) > 0 {
				return errors.New("--file 与文本参数不能同时使用")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, opts, flags, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&flags.from, "from", providers.AutoLanguage, "源语言，auto 表示自动")
	cmd.Flags().StringVar(&flags.to, "to", "zh-CN", "目标语言")
	cmd.Flags().StringVarP(&flags.engine, "engine", "e", "", "翻译引擎 (默认使用配置中的 engine)")
	cmd.Flags().StringVar(&flags.inputPath, "file", "", "翻译文档文件")
	cmd.Flags().StringVarP(&flags.outputPath, "output", "o", "", "输出文件 (默认标准输出)")
	cmd.Flags().BoolVar(&flags.showStats, "stats", false, "显示引擎请求统计")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "不显示进度")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "以 JSON 输出翻译结果")

	return cmd
}

func runTranslate(cmd *cobra.Command, opts *rootOptions, flags *translateOptions, text string) error {
	source, err := resolveLanguage(flags.from, true)
	if err != nil {
		return err
	}
	target, err := resolveLanguage(flags.to, false)
	if err != nil {
		return err
	}

	if flags.engine != "" {
		opts.config.Engine = flags.engine
	}

	var manager *stats.Manager
	if flags.showStats {
		manager = stats.NewManager()
	}
	router, err := opts.newRouter(manager, false)
	if err != nil {
		return err
	}

	stop := startSpinner(cmd.ErrOrStderr(), flags.quiet, fmt.Sprintf("正在使用 %s 翻译...", router.Engine()))
	if flags.inputPath != "" {
		err = translateDocument(cmd, opts, router, flags, source, target)
	} else {
		err = translateText(cmd, router, flags, text, source, target)
	}
	stop()

	if err != nil {
		return err
	}
	if manager != nil {
		renderEngineStats(cmd.OutOrStdout(), manager.Snapshot())
	}
	return nil
}

func translateText(cmd *cobra.Command, router *translation.Router, flags *translateOptions, text, source, target string) error {
	result, err := router.Translate(cmd.Context(), text, source, target)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("翻译失败 (%s): %s", result.Engine, result.Error)
	}

	if flags.asJSON {
		return writeJSON(cmd.OutOrStdout(), flags.outputPath, result)
	}
	return writeOutput(cmd.OutOrStdout(), flags.outputPath, []byte(result.Text))
}

func translateDocument(cmd *cobra.Command, opts *rootOptions, router *translation.Router, flags *translateOptions, source, target string) error {
	ctx := cmd.Context()

	im := importer.New(importer.WithLogger(opts.logger))
	imported, err := im.ImportFile(ctx, flags.inputPath)
	if err != nil {
		return err
	}

	segments := splitSegments(imported.Text)
	texts := segmentTexts(segments)

	// 代码、链接和 URL 用占位符代替，只剩占位符的行不发送
	protector := document.NewProtector()
	translations := make([]string, len(texts))
	var (
		batch     []string
		positions []int
	)
	for i, text := range texts {
		protected := protector.Protect(text)
		if document.OnlyPlaceholders(protected) {
			translations[i] = text
			continue
		}
		batch = append(batch, protected)
		positions = append(positions, i)
	}

	results, err := router.TranslateBatch(ctx, batch, source, target)
	if err != nil {
		return err
	}

	failed := 0
	for j, result := range results {
		i := positions[j]
		if result.Success {
			translations[i] = protector.Restore(result.Text)
			continue
		}
		translations[i] = texts[i]
		failed++
		opts.logger.Debug("segment kept untranslated",
			zap.Int("index", i),
			zap.String("error", result.Error))
	}

	if failed > 0 {
		color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "%d/%d 行翻译失败，已保留原文\n", failed, len(batch))
	}

	if flags.asJSON {
		return writeJSON(cmd.OutOrStdout(), flags.outputPath, results)
	}
	return writeOutput(cmd.OutOrStdout(), flags.outputPath, []byte(joinSegments(segments, translations)))
}

// resolveLanguage 规范化语言代码；只有源语言允许 auto
func resolveLanguage(code string, allowAuto bool) (string, error) {
	if strings.EqualFold(strings.TrimSpace(code), providers.AutoLanguage) {
		if !allowAuto {
			return "", errors.New("目标语言不能是 auto")
		}
		return providers.AutoLanguage, nil
	}
	normalized, ok := translation.NormalizeCode(code)
	if !ok {
		return "", fmt.Errorf("不支持的语言: %q (使用 notepipe languages 查看)", code)
	}
	return normalized, nil
}

func writeJSON(w io.Writer, path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(w, path, data)
}

// startSpinner 在 w 上显示进度，返回停止函数
func startSpinner(w io.Writer, quiet bool, text string) func() {
	if quiet {
		return func() {}
	}
	spinner, err := pterm.DefaultSpinner.
		WithWriter(w).
		WithRemoveWhenDone(true).
		Start(text)
	if err != nil {
		return func() {}
	}
	return func() {
		_ = spinner.Stop()
	}
}

// renderEngineStats 渲染引擎统计表格
func renderEngineStats(w io.Writer, snapshot []stats.EngineStats) {
	if len(snapshot) == 0 {
		fmt.Fprintln(w, "没有引擎请求")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"引擎", "请求", "成功", "失败", "字符数", "平均延迟", "成功率", "错误"})

	for _, s := range snapshot {
		rate := s.SuccessRate() * 100
		rateColor := color.New(color.FgGreen)
		if rate < 90 {
			rateColor = color.New(color.FgYellow)
		}
		if rate < 50 {
			rateColor = color.New(color.FgRed)
		}

		var errs []string
		for kind, n := range s.ErrorTypes {
			errs = append(errs, fmt.Sprintf("%s×%d", kind, n))
		}
		sort.Strings(errs)

		tw.AppendRow(table.Row{
			s.Engine,
			s.TotalRequests,
			s.SuccessfulRequests,
			s.FailedRequests,
			s.TotalCharacters,
			s.AverageLatency.Round(time.Millisecond).String(),
			rateColor.Sprintf("%.1f%%", rate),
			strings.Join(errs, ", "),
		})
	}

	tw.SetStyle(table.StyleLight)
	tw.Render()
}
