package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/notes-pipeline/pkg/document"
	"github.com/nerdneilsfield/notes-pipeline/pkg/exporter"
	"github.com/nerdneilsfield/notes-pipeline/pkg/importer"
	"github.com/nerdneilsfield/notes-pipeline/pkg/markup"
)

func newTablesCommand(opts *rootOptions) *cobra.Command {
	var (
		format     string
		outputPath string
		merge      bool
	)

	cmd := &cobra.Command{
		Use:   "tables <file>...",
		Short: "提取多个文件中的表格并导出",
		Long: `xlsx 与 csv 直接读取单元格，其他格式先转换为 Markdown 再提取管道表格。

--merge 把表头与第一个表格一致的表格合并为一个，其余表格丢弃。`,
		Example: `  notepipe tables jan.csv feb.csv --merge -f xlsx -o q1.xlsx
  notepipe tables report.md data.xlsx -f markdown`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			im := importer.New(importer.WithLogger(opts.logger))

			var tables []document.TableData
			for _, path := range args {
				found, err := collectTables(cmd.Context(), im, path)
				if err != nil {
					return err
				}
				tables = append(tables, found...)
			}
			if len(tables) == 0 {
				return errors.New("输入文件中没有表格")
			}

			if merge {
				merged, _ := exporter.MergeTables(tables)
				opts.logger.Debug("merged tables",
					zap.Int("tables", len(tables)),
					zap.Int("rows", len(merged.Rows)))
				tables = []document.TableData{*merged}
			}

			ex := exporter.New(exporter.WithLogger(opts.logger))
			out, err := ex.ExportTables(document.FormatFromExtension(format), tables...)
			if err != nil {
				return err
			}
			return writeTableOutput(cmd.OutOrStdout(), outputPath, "tables", out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "目标格式: csv, xlsx, markdown")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "输出文件 (csv 与 markdown 默认标准输出)")
	cmd.Flags().BoolVar(&merge, "merge", false, "合并表头相同的表格")

	return cmd
}

func newNotesCommand(opts *rootOptions) *cobra.Command {
	var (
		format     string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "notes <file>...",
		Short: "将多篇笔记汇总为一张表 (标题、内容、更新时间)",
		Example: `  notepipe notes notes/*.md -o notes.xlsx
  notepipe notes a.md b.html -f csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			im := importer.New(importer.WithLogger(opts.logger))

			notes := make([]exporter.Note, 0, len(args))
			for _, path := range args {
				result, err := im.ImportFile(cmd.Context(), path)
				if err != nil {
					return err
				}
				info, err := os.Stat(path)
				if err != nil {
					return &document.FileIOError{Path: path, Cause: err}
				}
				notes = append(notes, exporter.Note{
					Title:     titleOrBase(result.Title, path),
					Content:   result.Text,
					UpdatedAt: info.ModTime(),
				})
			}

			ex := exporter.New(exporter.WithLogger(opts.logger))
			out, err := ex.ExportTables(document.FormatFromExtension(format), exporter.NotesTable(notes))
			if err != nil {
				return err
			}
			return writeTableOutput(cmd.OutOrStdout(), outputPath, "notes", out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "目标格式: xlsx, csv, markdown")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "输出文件")

	return cmd
}

// collectTables 读取一个文件中的所有表格
func collectTables(ctx context.Context, im *importer.Importer, path string) ([]document.TableData, error) {
	switch document.FormatFromExtension(filepath.Ext(path)) {
	case document.FormatXLSX, document.FormatCSV:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &document.FileIOError{Path: path, Cause: err}
		}
		return im.ImportTables(ctx, data, filepath.Ext(path))
	default:
		result, err := im.ImportFile(ctx, path)
		if err != nil {
			return nil, err
		}
		return markup.ExtractTables(result.Text), nil
	}
}

// writeTableOutput xlsx 不写入终端，没有指定输出文件时按名称生成
func writeTableOutput(w io.Writer, path, name string, out *exporter.Output) error {
	if path == "" && out.Extension == "xlsx" {
		path = exporter.SuggestedFilename(name, out)
		if err := writeOutput(w, path, out.Data); err != nil {
			return err
		}
		fmt.Fprintln(w, path)
		return nil
	}
	return writeOutput(w, path, out.Data)
}
