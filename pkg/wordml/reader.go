package wordml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMissingDocument 容器中没有 word/document.xml
var ErrMissingDocument = errors.New("word/document.xml not found")

// Package 解析后的 docx 容器
type Package struct {
	Document *WordDocument

	links      map[string]string
	styleNames map[string]string
	numbering  *Numbering
}

// Open 解析 docx 字节，样式、编号与关系文件缺失时按默认值处理
func Open(data []byte) (*Package, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx container: %w", err)
	}

	files := make(map[string]*zip.File, len(zipReader.File))
	for _, f := range zipReader.File {
		files[f.Name] = f
	}

	docFile, ok := files["word/document.xml"]
	if !ok {
		return nil, ErrMissingDocument
	}

	pkg := &Package{
		Document:   &WordDocument{},
		links:      make(map[string]string),
		styleNames: make(map[string]string),
	}
	if err := decodePart(docFile, pkg.Document); err != nil {
		return nil, fmt.Errorf("failed to parse document.xml: %w", err)
	}

	if f, ok := files["word/_rels/document.xml.rels"]; ok {
		var rels Relationships
		if err := decodePart(f, &rels); err == nil {
			for _, rel := range rels.Relationships {
				pkg.links[rel.ID] = rel.Target
			}
		}
	}

	if f, ok := files["word/styles.xml"]; ok {
		var styles Styles
		if err := decodePart(f, &styles); err == nil {
			for _, s := range styles.Styles {
				if s.Name != nil {
					pkg.styleNames[s.ID] = strings.ToLower(s.Name.Val)
				}
			}
		}
	}

	if f, ok := files["word/numbering.xml"]; ok {
		var numbering Numbering
		if err := decodePart(f, &numbering); err == nil {
			pkg.numbering = &numbering
		}
	}

	return pkg, nil
}

func decodePart(f *zip.File, v interface{}) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, v)
}

// LinkTarget 返回超链接关系的目标地址
func (p *Package) LinkTarget(id string) string {
	return p.links[id]
}

// HeadingLevel 根据段落样式返回标题级别，非标题返回 0
//
// 同时识别样式 ID（Heading1）与样式名（heading 1），本地化的 Word 样式 ID 往往只是数字。
func (p *Package) HeadingLevel(styleID string) int {
	if styleID == "" {
		return 0
	}
	candidates := []string{strings.ToLower(styleID)}
	if name, ok := p.styleNames[styleID]; ok {
		candidates = append(candidates, name)
	}

	for _, c := range candidates {
		if c == "title" {
			return 1
		}
		c = strings.ReplaceAll(c, " ", "")
		if !strings.HasPrefix(c, "heading") {
			continue
		}
		level, err := strconv.Atoi(strings.TrimPrefix(c, "heading"))
		if err == nil && level >= 1 && level <= 6 {
			return level
		}
	}
	return 0
}

// IsOrderedList 判断编号实例在指定级别是否为有序编号
func (p *Package) IsOrderedList(numID, level string) bool {
	if p.numbering == nil {
		return false
	}
	if level == "" {
		level = "0"
	}

	abstractID := ""
	for _, n := range p.numbering.Nums {
		if n.ID == numID && n.AbstractNumID != nil {
			abstractID = n.AbstractNumID.Val
			break
		}
	}

	for _, a := range p.numbering.AbstractNums {
		if a.ID != abstractID {
			continue
		}
		for _, lvl := range a.Levels {
			if lvl.Level == level && lvl.NumFmt != nil {
				return lvl.NumFmt.Val != "bullet" && lvl.NumFmt.Val != "none"
			}
		}
	}
	return false
}

// IsOn 判断开关属性（如 w:b）是否开启
func IsOn(v *ValAttr) bool {
	if v == nil {
		return false
	}
	switch v.Val {
	case "0", "false", "off", "none":
		return false
	}
	return true
}

// PlainText 返回 run 的文本，制表符转为空格
func (r *Run) PlainText() string {
	var builder strings.Builder
	for _, t := range r.Texts {
		builder.WriteString(t.Value)
	}
	for range r.Tabs {
		builder.WriteString(" ")
	}
	return builder.String()
}
