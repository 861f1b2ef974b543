package importer

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nerdneilsfield/notes-pipeline/pkg/document"
	"github.com/nerdneilsfield/notes-pipeline/pkg/markup"
)

// importHTML 提取 <title> 与 <body>，正文经过 HTML 转换
func importHTML(data []byte) (*Result, error) {
	source, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		// html 解析器几乎不会失败，失败时按原文转换
		return &Result{Text: markup.HTMLToCanonical(source)}, nil
	}

	return htmlDocumentResult(doc), nil
}

func htmlDocumentResult(doc *goquery.Document) *Result {
	result := &Result{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		result.Text = markup.NodeToCanonical(doc.Get(0))
	} else {
		result.Text = markup.NodeToCanonical(body.Get(0))
	}

	if result.Title == "" {
		result.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	return result
}

// importDocx Word 文档先转换为 HTML，再经过同一个 HTML 转换
func importDocx(data []byte) (*Result, error) {
	htmlText, err := DocxToHTML(data)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(htmlText)))
	if err != nil {
		return nil, document.NewParseError(document.FormatDOCX, "converted html unreadable", err)
	}
	return htmlDocumentResult(doc), nil
}
