package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/notes-pipeline/pkg/importer"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/factory"
	"github.com/nerdneilsfield/notes-pipeline/pkg/translation"
)

func newDetectCommand(opts *rootOptions) *cobra.Command {
	var (
		inputPath   string
		statistical bool
	)

	cmd := &cobra.Command{
		Use:   "detect [text...]",
		Short: "检测文本语言",
		Example: `  notepipe detect "你好世界"
  notepipe detect --statistical "Bonjour tout le monde"
  notepipe detect --file notes.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if inputPath != "" {
				im := importer.New(importer.WithLogger(opts.logger))
				imported, err := im.ImportFile(cmd.Context(), inputPath)
				if err != nil {
					return err
				}
				text = imported.Text
			}
			if strings.TrimSpace(text) == "" {
				return errors.New("需要提供待检测文本或 --file")
			}

			router, err := opts.newRouter(nil, statistical)
			if err != nil {
				return err
			}

			code := router.DetectLanguage(cmd.Context(), text)
			name := code
			if lang, ok := translation.LookupLanguage(code); ok {
				name = fmt.Sprintf("%s (%s)", lang.Name, lang.NameCN)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", code, name)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "file", "", "检测文档文件")
	cmd.Flags().BoolVar(&statistical, "statistical", false, "字符区间未命中时使用统计模型")

	return cmd
}

func newEnginesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "列出翻译引擎及其配置状态",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := opts.newDeps(nil)
			if err != nil {
				return err
			}
			registry := factory.NewRegistry(deps)

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"", "引擎", "状态", "说明"})

			ok := color.New(color.FgGreen)
			missing := color.New(color.FgRed)
			for _, name := range registry.List() {
				marker := ""
				if string(name) == opts.config.Engine {
					marker = "*"
				}

				status, note := ok.Sprint("可用"), ""
				if _, err := registry.New(opts.config.EngineConfig(string(name))); err != nil {
					status = missing.Sprint("未配置")
					var cfgErr *providers.ConfigurationError
					if errors.As(err, &cfgErr) {
						note = cfgErr.Reason
					} else {
						note = err.Error()
					}
				}
				tw.AppendRow(table.Row{marker, name, status, note})
			}

			tw.SetStyle(table.StyleLight)
			tw.Render()
			return nil
		},
	}
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages [query]",
		Short: "列出或模糊搜索支持的语言",
		Example: `  notepipe languages
  notepipe languages jap
  notepipe languages 中文`,
		Args: cobra.MaximumNArgs(1),
		// 不需要配置
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			langs := translation.SearchLanguages(query)
			if len(langs) == 0 {
				return fmt.Errorf("没有匹配 %q 的语言", query)
			}
			renderLanguages(cmd.OutOrStdout(), langs)
			return nil
		},
	}
}

func renderLanguages(w io.Writer, langs []translation.Language) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"代码", "名称", "中文名"})
	for _, lang := range langs {
		tw.AppendRow(table.Row{lang.Code, lang.Name, lang.NameCN})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}
