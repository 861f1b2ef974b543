package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nerdneilsfield/notes-pipeline/pkg/document"
	"github.com/nerdneilsfield/notes-pipeline/pkg/markup"
)

// DefaultSheetName 默认工作表名，导入时不为它生成标题
const DefaultSheetName = "Sheet1"

// importXLSX 按工作簿顺序输出每个工作表的表格
func importXLSX(data []byte) (*Result, error) {
	tables, err := readXLSX(data)
	if err != nil {
		return nil, err
	}
	return &Result{Text: tablesToCanonical(tables)}, nil
}

// importCSV CSV 只有一个表格，不输出标题
func importCSV(data []byte) (*Result, error) {
	table, err := readCSV(data)
	if err != nil {
		return nil, err
	}
	return &Result{Text: tablesToCanonical([]document.TableData{*table})}, nil
}

// tablesToCanonical 拼接表格，非默认名称的工作表前加 ## 标题
func tablesToCanonical(tables []document.TableData) string {
	var builder strings.Builder
	for _, table := range tables {
		if table.SheetName != "" && table.SheetName != DefaultSheetName {
			builder.WriteString("## " + table.SheetName + "\n\n")
		}
		if len(table.Headers) == 0 {
			continue
		}
		builder.WriteString(markup.GenerateTable(table))
		builder.WriteString("\n")
	}
	return builder.String()
}

func readXLSX(data []byte) ([]document.TableData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, document.NewParseError(document.FormatXLSX, "corrupt workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	tables := make([]document.TableData, 0, len(sheets))
	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, document.NewParseError(document.FormatXLSX, "unreadable sheet "+name, err)
		}
		table := rowsToTable(rows)
		table.SheetName = name
		tables = append(tables, table)
	}
	return tables, nil
}

func readCSV(data []byte) (*document.TableData, error) {
	content, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := make([][]string, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, document.NewParseError(document.FormatCSV, "malformed csv", err)
		}
		rows = append(rows, record)
	}

	table := rowsToTable(rows)
	return &table, nil
}

// rowsToTable 第 0 行为表头，表头按最宽的行补齐，空行跳过
func rowsToTable(rows [][]string) document.TableData {
	nonEmpty := make([][]string, 0, len(rows))
	width := 0
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		nonEmpty = append(nonEmpty, row)
		if len(row) > width {
			width = len(row)
		}
	}

	table := document.TableData{Rows: make([][]string, 0)}
	if len(nonEmpty) == 0 {
		return table
	}

	table.Headers = make([]string, width)
	copy(table.Headers, cleanCells(nonEmpty[0]))
	for _, row := range nonEmpty[1:] {
		table.Rows = append(table.Rows, cleanCells(row))
	}
	return table
}

// cleanCells 单元格内的换行会破坏管道表格，替换为空格
func cleanCells(row []string) []string {
	cleaned := make([]string, len(row))
	for i, cell := range row {
		cleaned[i] = strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\n", " ").Replace(cell))
	}
	return cleaned
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
