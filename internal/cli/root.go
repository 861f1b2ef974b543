package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/notes-pipeline/internal/config"
	"github.com/nerdneilsfield/notes-pipeline/internal/logger"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/ai"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/factory"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/stats"
	"github.com/nerdneilsfield/notes-pipeline/pkg/translation"
)

// rootOptions 所有子命令共享的状态
type rootOptions struct {
	cfgFile string
	debug   bool

	config *config.Config
	logger *zap.Logger
}

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "notepipe",
		Short: "笔记文档格式转换与多引擎翻译工具",
		Long: `notepipe 在多种文档格式与 Markdown 之间转换，并通过多个翻译引擎翻译文本。

支持导入: md, markdown, txt, html, htm, docx, xlsx, csv, pdf, json
支持导出: markdown, txt, html, pdf (可打印 HTML), docx, xlsx, csv

支持的翻译引擎:
  - baidu: 百度翻译 (app_id + secret_key，可选 bridge_command 外部转发)
  - youdao: 有道智云 (app_id + secret_key)
  - google: Google 网页翻译 (无需凭据)
  - deepl: DeepL (api_key)
  - ai: OpenAI 兼容接口 (ai.api_key)`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "配置文件路径 (默认 $HOME/.notepipe.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "启用调试日志")

	rootCmd.AddCommand(
		newImportCommand(opts),
		newExportCommand(opts),
		newTranslateCommand(opts),
		newDetectCommand(opts),
		newTablesCommand(opts),
		newNotesCommand(opts),
		newEnginesCommand(opts),
		newLanguagesCommand(),
		newVersionCommand(version, commit, buildDate),
	)

	return rootCmd
}

// load 加载配置并初始化日志
func (o *rootOptions) load() error {
	cfg, err := config.LoadConfig(o.cfgFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	o.config = cfg
	o.logger = logger.NewLogger(cfg.Debug || o.debug)
	return nil
}

// newDeps 按配置准备引擎依赖
func (o *rootOptions) newDeps(manager *stats.Manager) (factory.Deps, error) {
	deps := factory.DefaultDeps()
	if o.config.RequestTimeout > 0 {
		deps.Timeout = o.config.RequestTimeout
	}
	deps.Retry = o.config.RetryConfig()
	deps.Stats = manager
	deps.Logger = o.logger

	if command := o.config.Engines[string(providers.EngineBaidu)].BridgeCommand; command != "" {
		deps.BaiduBridge = commandBridge(command)
	}

	if o.config.AIEnabled() {
		fn, err := ai.NewOpenAIFunc(o.config.AI)
		if err != nil {
			return deps, err
		}
		deps.AIFunc = fn
	}
	return deps, nil
}

// newRouter 创建翻译路由器
func (o *rootOptions) newRouter(manager *stats.Manager, statistical bool) (*translation.Router, error) {
	deps, err := o.newDeps(manager)
	if err != nil {
		return nil, err
	}

	var detectorOpts []translation.DetectorOption
	if statistical || o.config.StatisticalDetection {
		detectorOpts = append(detectorOpts, translation.WithStatisticalFallback())
	}

	return translation.NewRouter(o.config.RouterConfig(),
		translation.WithLogger(o.logger),
		translation.WithRegistry(factory.NewRegistry(deps)),
		translation.WithStats(manager),
		translation.WithDetectorOptions(detectorOpts...),
	), nil
}

func newVersionCommand(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Args:  cobra.NoArgs,
		// 不需要配置
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "notepipe %s (commit %s, built %s)\n", version, commit, buildDate)
		},
	}
}
