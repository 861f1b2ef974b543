package exporter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"

	"github.com/nerdneilsfield/notes-pipeline/pkg/document"
	"github.com/nerdneilsfield/notes-pipeline/pkg/markup"
)

const (
	// maxColumnWidth 自动列宽上限（字符）
	maxColumnWidth = 50
	// maxSheetNameLength Excel 工作表名长度限制
	maxSheetNameLength = 31
)

var (
	invalidSheetChars = regexp.MustCompile(`[\[\]:*?/\\]`)
	htmlTagRegex      = regexp.MustCompile(`<[^>]*>`)
)

// GenerateCSV 生成 CSV，所有字段（包括表头）都加引号，引号加倍，行按表头长度补齐或截断
func GenerateCSV(table document.TableData) string {
	lines := make([]string, 0, len(table.Rows)+1)
	lines = append(lines, csvLine(table.Headers))
	for i := range table.Rows {
		lines = append(lines, csvLine(table.NormalizedRow(i)))
	}
	return strings.Join(lines, "\n") + "\n"
}

func csvLine(cells []string) string {
	quoted := make([]string, len(cells))
	for i, cell := range cells {
		quoted[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// GenerateXLSX 每个表格一个工作表，表头在第一行并加粗，列宽按显示宽度自动调整
func GenerateXLSX(tables ...document.TableData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	names := sheetNames(tables)
	for i, table := range tables {
		name := names[i]
		// 新建工作簿自带 Sheet1
		switch {
		case i == 0 && name != "Sheet1":
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		case i > 0:
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
			}
		}

		if err := writeSheet(f, name, table, headerStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, table document.TableData, headerStyle int) error {
	if len(table.Headers) == 0 {
		return nil
	}

	if err := f.SetSheetRow(sheet, "A1", toRow(table.Headers)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(table.Headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, toRow(table.NormalizedRow(i))); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	for col, width := range ColumnWidths(table) {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}

func toRow(cells []string) *[]interface{} {
	row := make([]interface{}, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return &row
}

// ColumnWidths 每列宽度为最长单元格显示宽度加 2，上限 50；中日韩字符按两个宽度计算
func ColumnWidths(table document.TableData) []int {
	widths := make([]int, len(table.Headers))
	for col, header := range table.Headers {
		maxLen := runewidth.StringWidth(header)
		for i := range table.Rows {
			if col < len(table.Rows[i]) {
				if w := runewidth.StringWidth(table.Rows[i][col]); w > maxLen {
					maxLen = w
				}
			}
		}
		widths[col] = min(maxLen+2, maxColumnWidth)
	}
	return widths
}

// sheetNames 多个表格时使用各自的 SheetName，缺失或重复时使用 Sheet<N>
func sheetNames(tables []document.TableData) []string {
	names := make([]string, len(tables))
	used := make(map[string]bool, len(tables))

	for i, table := range tables {
		name := sanitizeSheetName(table.SheetName)
		if name == "" || used[strings.ToLower(name)] {
			name = "Sheet" + strconv.Itoa(i+1)
		}
		for used[strings.ToLower(name)] {
			name += "_"
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

func sanitizeSheetName(name string) string {
	name = strings.TrimSpace(invalidSheetChars.ReplaceAllString(name, "_"))
	name = strings.Trim(name, "'")
	if runes := []rune(name); len(runes) > maxSheetNameLength {
		name = string(runes[:maxSheetNameLength])
	}
	return name
}

// MergeTables 合并表头与第一个表格一致的所有表格
func MergeTables(tables []document.TableData) (*document.TableData, bool) {
	return markup.MergeTables(tables)
}

// Note 批量导出的笔记
type Note struct {
	Title     string
	Content   string
	UpdatedAt time.Time
}

// NotesTable 生成笔记汇总表：标题、去掉 HTML 标签的内容、更新时间
func NotesTable(notes []Note) document.TableData {
	table := document.TableData{
		Headers:   []string{"标题", "内容", "更新时间"},
		Rows:      make([][]string, 0, len(notes)),
		SheetName: "笔记",
	}
	for _, note := range notes {
		table.Rows = append(table.Rows, []string{
			note.Title,
			htmlTagRegex.ReplaceAllString(note.Content, ""),
			note.UpdatedAt.Local().Format("2006/1/2 15:04:05"),
		})
	}
	return table
}
