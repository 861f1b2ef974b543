package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/notes-pipeline/pkg/document"
	"github.com/nerdneilsfield/notes-pipeline/pkg/exporter"
	"github.com/nerdneilsfield/notes-pipeline/pkg/importer"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var (
		outputPath string
		showInfo   bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "将文档转换为 Markdown",
		Example: `  notepipe import report.docx
  notepipe import page.html -o page.md
  notepipe import data.xlsx --info`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			im := importer.New(importer.WithLogger(opts.logger))
			result, err := im.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if showInfo {
				renderImportInfo(cmd.OutOrStdout(), args[0], result)
				return nil
			}
			return writeOutput(cmd.OutOrStdout(), outputPath, []byte(result.Text))
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "输出文件 (默认标准输出)")
	cmd.Flags().BoolVar(&showInfo, "info", false, "只显示文档信息")

	return cmd
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		format     string
		outputPath string
		title      string
		sheetName  string
		reformat   bool
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "将文档导出为其他格式",
		Long: `读取任意支持的输入文件，转换为 Markdown 后导出为目标格式。

目标格式: markdown (md), txt, html, pdf (可打印 HTML), docx, xlsx, csv。
xlsx 与 csv 只导出文本中的管道表格。`,
		Example: `  notepipe export notes.md --format docx
  notepipe export notes.md --format html -o notes.html --title "周报"
  notepipe export table.md --format xlsx --sheet Scores`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			im := importer.New(importer.WithLogger(opts.logger))
			imported, err := im.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if title == "" {
				title = imported.Title
			}

			ex := exporter.New(exporter.WithLogger(opts.logger))
			out, err := ex.Export(cmd.Context(), document.FormatFromExtension(format), imported.Text, exporter.Options{
				Title:     title,
				Reformat:  reformat,
				SheetName: sheetName,
			})
			if err != nil {
				return err
			}

			if outputPath == "" {
				outputPath = exporter.SuggestedFilename(titleOrBase(title, args[0]), out)
			}
			if err := os.WriteFile(outputPath, out.Data, 0o644); err != nil {
				return fmt.Errorf("写入文件失败 %s: %w", outputPath, err)
			}

			opts.logger.Info("exported document",
				zap.String("input", args[0]),
				zap.String("output", outputPath),
				zap.Int("bytes", len(out.Data)))
			fmt.Fprintln(cmd.OutOrStdout(), outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "目标格式")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "输出文件 (默认根据标题生成)")
	cmd.Flags().StringVar(&title, "title", "", "文档标题")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "xlsx 工作表名")
	cmd.Flags().BoolVar(&reformat, "reformat", false, "导出 Markdown 时重新格式化")

	return cmd
}

// writeOutput path 为空时写入 w
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		if err == nil && len(data) > 0 && data[len(data)-1] != '\n' {
			_, err = io.WriteString(w, "\n")
		}
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入文件失败 %s: %w", path, err)
	}
	return nil
}

func titleOrBase(title, path string) string {
	if strings.TrimSpace(title) != "" {
		return title
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func renderImportInfo(w io.Writer, path string, result *importer.Result) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)

	tw.AppendRow(table.Row{"文件", path})
	tw.AppendRow(table.Row{"格式", result.Format})
	tw.AppendRow(table.Row{"标题", result.Title})
	tw.AppendRow(table.Row{"字符数", len([]rune(result.Text))})
	tw.AppendRow(table.Row{"行数", strings.Count(result.Text, "\n") + 1})

	if len(result.Meta) > 0 {
		keys := make([]string, 0, len(result.Meta))
		for k := range result.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		tw.AppendSeparator()
		for _, k := range keys {
			tw.AppendRow(table.Row{"meta." + k, fmt.Sprint(result.Meta[k])})
		}
	}

	tw.SetStyle(table.StyleLight)
	tw.Render()
}
