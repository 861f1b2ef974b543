// Package wordml 读写 Word (.docx) 容器中的 WordprocessingML 结构
package wordml

import (
	"encoding/xml"
	"io"
)

// DOCX XML Namespaces
const (
	WordprocessingMLNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	RelationshipsNamespace    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	PackageRelsNamespace      = "http://schemas.openxmlformats.org/package/2006/relationships"
	ContentTypesNamespace     = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// Relationship types
const (
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTypeNumbering      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	RelTypeHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
)

// WordDocument represents the main document.xml structure
type WordDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    Body     `xml:"body"`
}

// Body 保留段落与表格的原始顺序
type Body struct {
	Blocks []Block
}

// Block 段落或表格，二者只有一个非空
type Block struct {
	Paragraph *Paragraph
	Table     *Table
}

// UnmarshalXML 按文档顺序读取段落与表格
func (b *Body) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var p Paragraph
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				b.Blocks = append(b.Blocks, Block{Paragraph: &p})
			case "tbl":
				var tbl Table
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				b.Blocks = append(b.Blocks, Block{Table: &tbl})
			case "sdt":
				// 内容控件：展开其中的 sdtContent
				var sdt struct {
					Content Body `xml:"sdtContent"`
				}
				if err := d.DecodeElement(&sdt, &t); err != nil {
					return err
				}
				b.Blocks = append(b.Blocks, sdt.Content.Blocks...)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// Paragraph represents a paragraph element
type Paragraph struct {
	Properties *ParagraphProps
	Content    []Inline
}

// Inline 段落中的文本片段或超链接
type Inline struct {
	Run       *Run
	Hyperlink *Hyperlink
}

// UnmarshalXML 按顺序读取段落中的 run 与 hyperlink
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				var props ParagraphProps
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				p.Properties = &props
			case "r":
				var r Run
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Content = append(p.Content, Inline{Run: &r})
			case "hyperlink":
				var h Hyperlink
				if err := d.DecodeElement(&h, &t); err != nil {
					return err
				}
				p.Content = append(p.Content, Inline{Hyperlink: &h})
			case "ins", "smartTag", "fldSimple":
				// 修订与智能标记内的 run 按普通文本处理
				var wrapper struct {
					Runs []Run `xml:"r"`
				}
				if err := d.DecodeElement(&wrapper, &t); err != nil {
					return err
				}
				for i := range wrapper.Runs {
					p.Content = append(p.Content, Inline{Run: &wrapper.Runs[i]})
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// ParagraphProps represents paragraph properties
type ParagraphProps struct {
	Style *ValAttr       `xml:"pStyle"`
	NumPr *NumberingProp `xml:"numPr"`
	Align *ValAttr       `xml:"jc"`
}

// NumberingProp 列表段落的编号引用
type NumberingProp struct {
	Level *ValAttr `xml:"ilvl"`
	NumID *ValAttr `xml:"numId"`
}

// ValAttr 只有 w:val 属性的元素
type ValAttr struct {
	Val string `xml:"val,attr"`
}

// Run represents a text run
type Run struct {
	Properties *RunProps  `xml:"rPr"`
	Texts      []Text     `xml:"t"`
	Tabs       []struct{} `xml:"tab"`
	Breaks     []Break    `xml:"br"`
}

// RunProps represents run properties
type RunProps struct {
	Bold      *ValAttr `xml:"b"`
	Italic    *ValAttr `xml:"i"`
	Strike    *ValAttr `xml:"strike"`
	DStrike   *ValAttr `xml:"dstrike"`
	Underline *ValAttr `xml:"u"`
}

// Text represents actual text content
type Text struct {
	Space string `xml:"space,attr,omitempty"`
	Value string `xml:",chardata"`
}

// Break represents a line break
type Break struct {
	Type string `xml:"type,attr,omitempty"`
}

// Hyperlink represents a hyperlink
type Hyperlink struct {
	ID     string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	Anchor string `xml:"anchor,attr,omitempty"`
	Runs   []Run  `xml:"r"`
}

// Table represents a table element
type Table struct {
	Rows []TableRow `xml:"tr"`
}

// TableRow represents a table row
type TableRow struct {
	Cells []TableCell `xml:"tc"`
}

// TableCell represents a table cell
type TableCell struct {
	Paragraphs []Paragraph `xml:"p"`
}

// Styles 对应 word/styles.xml
type Styles struct {
	XMLName xml.Name    `xml:"styles"`
	Styles  []StyleItem `xml:"style"`
}

// StyleItem 单个样式定义
type StyleItem struct {
	Type string   `xml:"type,attr"`
	ID   string   `xml:"styleId,attr"`
	Name *ValAttr `xml:"name"`
}

// Numbering 对应 word/numbering.xml
type Numbering struct {
	XMLName      xml.Name      `xml:"numbering"`
	AbstractNums []AbstractNum `xml:"abstractNum"`
	Nums         []Num         `xml:"num"`
}

// AbstractNum 编号模板
type AbstractNum struct {
	ID     string     `xml:"abstractNumId,attr"`
	Levels []NumLevel `xml:"lvl"`
}

// NumLevel 编号级别
type NumLevel struct {
	Level  string   `xml:"ilvl,attr"`
	NumFmt *ValAttr `xml:"numFmt"`
}

// Num 编号实例
type Num struct {
	ID            string   `xml:"numId,attr"`
	AbstractNumID *ValAttr `xml:"abstractNumId"`
}

// ContentTypes represents [Content_Types].xml
type ContentTypes struct {
	XMLName   xml.Name   `xml:"Types"`
	Namespace string     `xml:"xmlns,attr"`
	Defaults  []Default  `xml:"Default"`
	Overrides []Override `xml:"Override"`
}

// Default represents a default content type
type Default struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// Override represents an override content type
type Override struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// Relationships represents relationships
type Relationships struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Namespace     string         `xml:"xmlns,attr"`
	Relationships []Relationship `xml:"Relationship"`
}

// Relationship represents a relationship
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}
