package markup

import (
	"regexp"
	"strings"

	"github.com/nerdneilsfield/notes-pipeline/pkg/document"
)

var separatorCellRegex = regexp.MustCompile(`^:?-+:?$`)

// GenerateTable 从 TableData 生成 Markdown 表格
//
//	| h1 | h2 |
//	| --- | --- |
//	| a | b |
//
// 每一行都按表头长度补齐或截断。没有表头的表格生成空字符串。
func GenerateTable(table document.TableData) string {
	if len(table.Headers) == 0 {
		return ""
	}

	var builder strings.Builder

	builder.WriteString("| " + strings.Join(table.Headers, " | ") + " |\n")

	separators := make([]string, len(table.Headers))
	for i := range separators {
		separators[i] = "---"
	}
	builder.WriteString("| " + strings.Join(separators, " | ") + " |\n")

	for i := range table.Rows {
		builder.WriteString("| " + strings.Join(table.NormalizedRow(i), " | ") + " |\n")
	}

	return builder.String()
}

// ParseTable 解析 Markdown 表格
//
// 第一行为表头，第二行必须是分隔行，其后连续的含 | 的行是数据行；遇到空行或其他行即结束。
// 单元格只做 trim，不支持转义的 |。
func ParseTable(markdown string) (*document.TableData, error) {
	lines := splitLines(strings.TrimSpace(markdown))
	if len(lines) < 2 {
		return nil, document.NewParseError(document.FormatMarkdown, "table needs a header row and a separator row", nil)
	}
	if !IsSeparatorRow(lines[1]) {
		return nil, document.NewParseError(document.FormatMarkdown, "missing separator row", nil)
	}

	table := &document.TableData{
		Headers: ParseRow(lines[0]),
		Rows:    make([][]string, 0, len(lines)-2),
	}

	for _, line := range lines[2:] {
		if !strings.Contains(line, "|") {
			break
		}
		table.Rows = append(table.Rows, padRow(ParseRow(line), len(table.Headers)))
	}

	return table, nil
}

// ParseRow 解析单行表格，去掉首尾的 | 后按 | 切分
func ParseRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")

	cells := strings.Split(trimmed, "|")
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(cell)
	}
	return cells
}

// IsSeparatorRow 判断是否为表格分隔行（每个单元格只包含 - 与可选的对齐冒号）
func IsSeparatorRow(line string) bool {
	if !strings.Contains(line, "-") {
		return false
	}
	for _, cell := range ParseRow(line) {
		if !separatorCellRegex.MatchString(cell) {
			return false
		}
	}
	return true
}

// ExtractTables 提取规范文本中的所有管道表格
//
// 紧挨在表格之前的标题会作为 SheetName，与电子表格导入的输出对称。
func ExtractTables(canonical string) []document.TableData {
	lines := splitLines(canonical)
	tables := make([]document.TableData, 0)
	lastHeading := ""

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if m := headingRegex.FindStringSubmatch(trimmed); m != nil {
			lastHeading = strings.TrimSpace(m[2])
			continue
		}
		if trimmed == "" {
			continue
		}

		if !strings.Contains(line, "|") || i+1 >= len(lines) || !IsSeparatorRow(lines[i+1]) {
			lastHeading = ""
			continue
		}

		table := document.TableData{
			Headers:   ParseRow(line),
			Rows:      make([][]string, 0),
			SheetName: lastHeading,
		}
		i += 2
		for ; i < len(lines) && strings.Contains(lines[i], "|"); i++ {
			table.Rows = append(table.Rows, padRow(ParseRow(lines[i]), len(table.Headers)))
		}
		i--

		tables = append(tables, table)
		lastHeading = ""
	}

	return tables
}

// MergeTables 合并表头一致的表格，使用第一个表格的表头
func MergeTables(tables []document.TableData) (*document.TableData, bool) {
	if len(tables) == 0 {
		return nil, false
	}

	merged := &document.TableData{
		Headers:   append([]string(nil), tables[0].Headers...),
		Rows:      make([][]string, 0),
		SheetName: tables[0].SheetName,
	}

	for _, table := range tables {
		if !sameHeaders(table.Headers, merged.Headers) {
			continue
		}
		merged.Rows = append(merged.Rows, table.Rows...)
	}

	return merged, true
}

func sameHeaders(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
