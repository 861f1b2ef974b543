package wordml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"
)

// 写出时使用带 w: 前缀的元素名，Word 要求主文档使用该前缀形式

// WParagraph 写出的段落
type WParagraph struct {
	XMLName xml.Name         `xml:"w:p"`
	Props   *WParagraphProps `xml:"w:pPr,omitempty"`
	Content []interface{}    `xml:",any"`
}

// WParagraphProps 写出的段落属性，字段顺序与 schema 一致
type WParagraphProps struct {
	Style   *WVal     `xml:"w:pStyle,omitempty"`
	NumPr   *WNumPr   `xml:"w:numPr,omitempty"`
	Spacing *WSpacing `xml:"w:spacing,omitempty"`
	Indent  *WIndent  `xml:"w:ind,omitempty"`
	Align   *WVal     `xml:"w:jc,omitempty"`
}

// WNumPr 列表编号引用
type WNumPr struct {
	Level WVal `xml:"w:ilvl"`
	NumID WVal `xml:"w:numId"`
}

// WSpacing 段落间距
type WSpacing struct {
	Before string `xml:"w:before,attr,omitempty"`
	After  string `xml:"w:after,attr,omitempty"`
}

// WIndent 段落缩进（单位 twip）
type WIndent struct {
	Left    string `xml:"w:left,attr,omitempty"`
	Hanging string `xml:"w:hanging,attr,omitempty"`
}

// WVal 只有 w:val 属性的元素
type WVal struct {
	Val string `xml:"w:val,attr"`
}

// WOnOff 开关元素，如 <w:b/>
type WOnOff struct{}

// WRun 写出的文本片段
type WRun struct {
	XMLName xml.Name   `xml:"w:r"`
	Props   *WRunProps `xml:"w:rPr,omitempty"`
	Text    *WText     `xml:"w:t,omitempty"`
}

// WRunProps 写出的 run 属性，字段顺序与 schema 一致
type WRunProps struct {
	Fonts     *WFonts `xml:"w:rFonts,omitempty"`
	Bold      *WOnOff `xml:"w:b,omitempty"`
	Italic    *WOnOff `xml:"w:i,omitempty"`
	Color     *WVal   `xml:"w:color,omitempty"`
	Size      *WVal   `xml:"w:sz,omitempty"`
	Underline *WVal   `xml:"w:u,omitempty"`
}

// WFonts 字体
type WFonts struct {
	ASCII    string `xml:"w:ascii,attr,omitempty"`
	HAnsi    string `xml:"w:hAnsi,attr,omitempty"`
	EastAsia string `xml:"w:eastAsia,attr,omitempty"`
}

// WText 文本，始终保留首尾空格
type WText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

// WHyperlink 写出的超链接
type WHyperlink struct {
	XMLName xml.Name `xml:"w:hyperlink"`
	ID      string   `xml:"r:id,attr"`
	Runs    []WRun   `xml:"w:r"`
}

// NewText 创建保留空格的文本
func NewText(s string) *WText {
	return &WText{Space: "preserve", Value: s}
}

type wDocument struct {
	XMLName xml.Name `xml:"w:document"`
	NSW     string   `xml:"xmlns:w,attr"`
	NSR     string   `xml:"xmlns:r,attr"`
	Body    wBody    `xml:"w:body"`
}

type wBody struct {
	Paragraphs []WParagraph `xml:"w:p"`
	SectPr     wSectPr      `xml:"w:sectPr"`
}

type wSectPr struct {
	PageSize wPageSize `xml:"w:pgSz"`
	Margins  wMargins  `xml:"w:pgMar"`
}

type wPageSize struct {
	W string `xml:"w:w,attr"`
	H string `xml:"w:h,attr"`
}

type wMargins struct {
	Top    string `xml:"w:top,attr"`
	Right  string `xml:"w:right,attr"`
	Bottom string `xml:"w:bottom,attr"`
	Left   string `xml:"w:left,attr"`
}

type wStyles struct {
	XMLName xml.Name `xml:"w:styles"`
	NSW     string   `xml:"xmlns:w,attr"`
	Styles  []wStyle `xml:"w:style"`
}

type wStyle struct {
	Type    string           `xml:"w:type,attr"`
	ID      string           `xml:"w:styleId,attr"`
	Default string           `xml:"w:default,attr,omitempty"`
	Name    WVal             `xml:"w:name"`
	BasedOn *WVal            `xml:"w:basedOn,omitempty"`
	Next    *WVal            `xml:"w:next,omitempty"`
	QFormat *WOnOff          `xml:"w:qFormat,omitempty"`
	PPr     *WParagraphProps `xml:"w:pPr,omitempty"`
	RPr     *WRunProps       `xml:"w:rPr,omitempty"`
}

type wNumbering struct {
	XMLName  xml.Name       `xml:"w:numbering"`
	NSW      string         `xml:"xmlns:w,attr"`
	Abstract []wAbstractNum `xml:"w:abstractNum"`
	Nums     []wNum         `xml:"w:num"`
}

type wAbstractNum struct {
	ID     string   `xml:"w:abstractNumId,attr"`
	Levels []wLevel `xml:"w:lvl"`
}

type wLevel struct {
	Level   string           `xml:"w:ilvl,attr"`
	Start   WVal             `xml:"w:start"`
	NumFmt  WVal             `xml:"w:numFmt"`
	LvlText WVal             `xml:"w:lvlText"`
	PPr     *WParagraphProps `xml:"w:pPr,omitempty"`
}

type wNum struct {
	ID            string        `xml:"w:numId,attr"`
	AbstractNumID WVal          `xml:"w:abstractNumId"`
	Override      *wLvlOverride `xml:"w:lvlOverride,omitempty"`
}

type wLvlOverride struct {
	Level         string `xml:"w:ilvl,attr"`
	StartOverride WVal   `xml:"w:startOverride"`
}

type coreProperties struct {
	XMLName   xml.Name `xml:"cp:coreProperties"`
	NSCP      string   `xml:"xmlns:cp,attr"`
	NSDC      string   `xml:"xmlns:dc,attr"`
	NSDCTerms string   `xml:"xmlns:dcterms,attr"`
	NSXSI     string   `xml:"xmlns:xsi,attr"`
	Title     string   `xml:"dc:title"`
	Creator   string   `xml:"dc:creator"`
	Created   w3cDate  `xml:"dcterms:created"`
}

type w3cDate struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

const (
	bulletAbstractID  = "0"
	orderedAbstractID = "1"
)

// Builder 构建 docx 容器
type Builder struct {
	Title   string
	Creator string
	Created time.Time

	paragraphs []WParagraph
	links      []Relationship
	nums       []wNum
}

// NewBuilder 创建 docx 构建器
func NewBuilder(title string) *Builder {
	return &Builder{
		Title:   title,
		Creator: "notepipe",
		Created: time.Now(),
	}
}

// AddParagraph 追加段落
func (b *Builder) AddParagraph(p WParagraph) {
	b.paragraphs = append(b.paragraphs, p)
}

// Paragraphs 返回已追加的段落
func (b *Builder) Paragraphs() []WParagraph {
	return b.paragraphs
}

// AddHyperlink 注册外部链接并返回关系 ID
func (b *Builder) AddHyperlink(target string) string {
	// rId1、rId2 分别留给 styles 与 numbering
	id := "rId" + strconv.Itoa(len(b.links)+3)
	b.links = append(b.links, Relationship{
		ID:         id,
		Type:       RelTypeHyperlink,
		Target:     target,
		TargetMode: "External",
	})
	return id
}

// NewList 开始一个新列表并返回 numId；每个有序列表都从 1 重新编号
func (b *Builder) NewList(ordered bool) string {
	id := strconv.Itoa(len(b.nums) + 1)
	num := wNum{ID: id, AbstractNumID: WVal{Val: bulletAbstractID}}
	if ordered {
		num.AbstractNumID.Val = orderedAbstractID
		num.Override = &wLvlOverride{Level: "0", StartOverride: WVal{Val: "1"}}
	}
	b.nums = append(b.nums, num)
	return id
}

// Bytes 生成 docx 字节
func (b *Builder) Bytes() ([]byte, error) {
	parts := []struct {
		name  string
		value interface{}
	}{
		{"[Content_Types].xml", contentTypes()},
		{"_rels/.rels", packageRels()},
		{"docProps/core.xml", b.coreProperties()},
		{"word/document.xml", b.document()},
		{"word/styles.xml", defaultStyles()},
		{"word/numbering.xml", b.numbering()},
		{"word/_rels/document.xml.rels", b.documentRels()},
	}

	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)

	for _, part := range parts {
		data, err := xml.Marshal(part.value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", part.name, err)
		}

		w, err := zipWriter.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(xml.Header)); err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close docx container: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *Builder) document() wDocument {
	return wDocument{
		NSW: WordprocessingMLNamespace,
		NSR: RelationshipsNamespace,
		Body: wBody{
			Paragraphs: b.paragraphs,
			SectPr: wSectPr{
				PageSize: wPageSize{W: "11906", H: "16838"},
				Margins:  wMargins{Top: "1440", Right: "1440", Bottom: "1440", Left: "1440"},
			},
		},
	}
}

func (b *Builder) coreProperties() coreProperties {
	return coreProperties{
		NSCP:      "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		NSDC:      "http://purl.org/dc/elements/1.1/",
		NSDCTerms: "http://purl.org/dc/terms/",
		NSXSI:     "http://www.w3.org/2001/XMLSchema-instance",
		Title:     b.Title,
		Creator:   b.Creator,
		Created:   w3cDate{Type: "dcterms:W3CDTF", Value: b.Created.UTC().Format(time.RFC3339)},
	}
}

func (b *Builder) numbering() wNumbering {
	indent := &WParagraphProps{Indent: &WIndent{Left: "720", Hanging: "360"}}
	return wNumbering{
		NSW: WordprocessingMLNamespace,
		Abstract: []wAbstractNum{
			{ID: bulletAbstractID, Levels: []wLevel{{
				Level: "0", Start: WVal{Val: "1"}, NumFmt: WVal{Val: "bullet"}, LvlText: WVal{Val: "•"}, PPr: indent,
			}}},
			{ID: orderedAbstractID, Levels: []wLevel{{
				Level: "0", Start: WVal{Val: "1"}, NumFmt: WVal{Val: "decimal"}, LvlText: WVal{Val: "%1."}, PPr: indent,
			}}},
		},
		Nums: b.nums,
	}
}

func (b *Builder) documentRels() Relationships {
	rels := []Relationship{
		{ID: "rId1", Type: RelTypeStyles, Target: "styles.xml"},
		{ID: "rId2", Type: RelTypeNumbering, Target: "numbering.xml"},
	}
	return Relationships{
		Namespace:     PackageRelsNamespace,
		Relationships: append(rels, b.links...),
	}
}

func packageRels() Relationships {
	return Relationships{
		Namespace: PackageRelsNamespace,
		Relationships: []Relationship{
			{ID: "rId1", Type: RelTypeOfficeDocument, Target: "word/document.xml"},
			{ID: "rId2", Type: RelTypeCoreProps, Target: "docProps/core.xml"},
		},
	}
}

func contentTypes() ContentTypes {
	return ContentTypes{
		Namespace: ContentTypesNamespace,
		Defaults: []Default{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []Override{
			{PartName: "/word/document.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
			{PartName: "/word/styles.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
			{PartName: "/word/numbering.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"},
			{PartName: "/docProps/core.xml", ContentType: "application/vnd.openxmlformats-package.core-properties+xml"},
		},
	}
}

// headingSizes 标题字号（半磅）
var headingSizes = []string{"32", "28", "26", "24", "22", "20"}

func defaultStyles() wStyles {
	styles := []wStyle{
		{
			Type: "paragraph", ID: "Normal", Default: "1", Name: WVal{Val: "Normal"}, QFormat: &WOnOff{},
			RPr: &WRunProps{Fonts: &WFonts{ASCII: "Calibri", HAnsi: "Calibri", EastAsia: "Microsoft YaHei"}, Size: &WVal{Val: "22"}},
		},
		{
			Type: "paragraph", ID: "Title", Name: WVal{Val: "Title"}, BasedOn: &WVal{Val: "Normal"}, Next: &WVal{Val: "Normal"}, QFormat: &WOnOff{},
			PPr: &WParagraphProps{Spacing: &WSpacing{After: "200"}, Align: &WVal{Val: "center"}},
			RPr: &WRunProps{Bold: &WOnOff{}, Size: &WVal{Val: "36"}},
		},
	}

	for i, size := range headingSizes {
		level := strconv.Itoa(i + 1)
		styles = append(styles, wStyle{
			Type: "paragraph", ID: "Heading" + level, Name: WVal{Val: "heading " + level},
			BasedOn: &WVal{Val: "Normal"}, Next: &WVal{Val: "Normal"}, QFormat: &WOnOff{},
			PPr: &WParagraphProps{Spacing: &WSpacing{Before: "240", After: "120"}},
			RPr: &WRunProps{Bold: &WOnOff{}, Size: &WVal{Val: size}},
		})
	}

	styles = append(styles, wStyle{
		Type: "paragraph", ID: "ListParagraph", Name: WVal{Val: "List Paragraph"},
		BasedOn: &WVal{Val: "Normal"}, QFormat: &WOnOff{},
		PPr: &WParagraphProps{Indent: &WIndent{Left: "720"}},
	})

	return wStyles{NSW: WordprocessingMLNamespace, Styles: styles}
}
