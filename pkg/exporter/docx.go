package exporter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nerdneilsfield/notes-pipeline/pkg/markup"
	"github.com/nerdneilsfield/notes-pipeline/pkg/wordml"
)

const (
	monoFont    = "Courier New"
	monoSize    = "20"
	linkColor   = "0563C1"
	dividerText = "__________________________________"
)

// exportDocx 每个非空行生成一个段落，文档开头是居中的标题与分隔线
func (e *Exporter) exportDocx(canonical, title string, now time.Time) ([]byte, error) {
	b := wordml.NewBuilder(title)
	b.Created = now

	b.AddParagraph(wordml.WParagraph{
		Props: &wordml.WParagraphProps{
			Style:   &wordml.WVal{Val: "Title"},
			Spacing: &wordml.WSpacing{Before: "400", After: "400"},
			Align:   &wordml.WVal{Val: "center"},
		},
		Content: []interface{}{wordml.WRun{Text: wordml.NewText(title)}},
	})
	b.AddParagraph(dividerParagraph("center"))

	w := &docxWriter{builder: b, inline: e.inline}
	for _, line := range strings.Split(strings.ReplaceAll(canonical, "\r\n", "\n"), "\n") {
		w.line(line)
	}

	data, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to build docx: %w", err)
	}
	return data, nil
}

type docxWriter struct {
	builder *wordml.Builder
	inline  *markup.InlineFormatter

	inFence  bool
	listKind markup.BlockKind
	numID    string
}

func (w *docxWriter) line(line string) {
	kind := markup.Classify(line)

	if w.inFence {
		if kind == markup.BlockFence {
			w.inFence = false
			return
		}
		w.add(monoParagraph(line))
		return
	}

	if kind != markup.BlockBullet && kind != markup.BlockOrdered {
		w.listKind = markup.BlockParagraph
	}

	switch kind {
	case markup.BlockBlank:
	case markup.BlockFence:
		w.inFence = true
	case markup.BlockHeading:
		level, text := markup.HeadingLevel(line)
		w.add(wordml.WParagraph{
			Props: &wordml.WParagraphProps{
				Style:   &wordml.WVal{Val: "Heading" + strconv.Itoa(level)},
				Spacing: &wordml.WSpacing{Before: "200", After: "100"},
			},
			Content: w.runs(text),
		})
	case markup.BlockQuote:
		w.add(wordml.WParagraph{
			Props: &wordml.WParagraphProps{
				Spacing: &wordml.WSpacing{Before: "100", After: "100"},
				Indent:  &wordml.WIndent{Left: "720"},
			},
			Content: []interface{}{wordml.WRun{
				Props: &wordml.WRunProps{Italic: &wordml.WOnOff{}},
				Text:  wordml.NewText(markup.QuoteText(line)),
			}},
		})
	case markup.BlockBullet, markup.BlockOrdered:
		if w.listKind != kind {
			w.listKind = kind
			w.numID = w.builder.NewList(kind == markup.BlockOrdered)
		}
		text := markup.BulletText(line)
		if kind == markup.BlockOrdered {
			_, text = markup.OrderedItem(line)
		}
		w.add(wordml.WParagraph{
			Props: &wordml.WParagraphProps{
				Style:   &wordml.WVal{Val: "ListParagraph"},
				NumPr:   &wordml.WNumPr{Level: wordml.WVal{Val: "0"}, NumID: wordml.WVal{Val: w.numID}},
				Spacing: &wordml.WSpacing{Before: "50", After: "50"},
				Indent:  &wordml.WIndent{Left: "360"},
			},
			Content: w.runs(text),
		})
	case markup.BlockIndentedCode:
		w.add(monoParagraph(strings.TrimSpace(line)))
	case markup.BlockRule:
		w.add(dividerParagraph(""))
	case markup.BlockTableRow:
		if markup.IsSeparatorRow(line) {
			return
		}
		w.add(wordml.WParagraph{
			Props:   &wordml.WParagraphProps{Spacing: &wordml.WSpacing{Before: "50", After: "50"}},
			Content: w.runs(strings.Join(markup.ParseRow(line), "  |  ")),
		})
	default:
		w.add(wordml.WParagraph{
			Props:   &wordml.WParagraphProps{Spacing: &wordml.WSpacing{Before: "100", After: "100"}},
			Content: w.runs(strings.TrimSpace(line)),
		})
	}
}

func (w *docxWriter) add(p wordml.WParagraph) {
	w.builder.AddParagraph(p)
}

// runs 将行内片段转换为 Word run，链接注册为外部关系
func (w *docxWriter) runs(text string) []interface{} {
	spans := w.inline.Runs(text)
	content := make([]interface{}, 0, len(spans))

	for _, span := range spans {
		switch {
		case span.Link != "":
			content = append(content, wordml.WHyperlink{
				ID: w.builder.AddHyperlink(span.Link),
				Runs: []wordml.WRun{{
					Props: &wordml.WRunProps{
						Color:     &wordml.WVal{Val: linkColor},
						Underline: &wordml.WVal{Val: "single"},
					},
					Text: wordml.NewText(span.Text),
				}},
			})
		case span.Code:
			content = append(content, wordml.WRun{
				Props: &wordml.WRunProps{
					Fonts: &wordml.WFonts{ASCII: monoFont, HAnsi: monoFont},
					Size:  &wordml.WVal{Val: monoSize},
				},
				Text: wordml.NewText(span.Text),
			})
		default:
			run := wordml.WRun{Text: wordml.NewText(span.Text)}
			if span.Bold || span.Italic {
				run.Props = &wordml.WRunProps{}
				if span.Bold {
					run.Props.Bold = &wordml.WOnOff{}
				}
				if span.Italic {
					run.Props.Italic = &wordml.WOnOff{}
				}
			}
			content = append(content, run)
		}
	}
	return content
}

func monoParagraph(text string) wordml.WParagraph {
	return wordml.WParagraph{
		Props: &wordml.WParagraphProps{
			Spacing: &wordml.WSpacing{Before: "50", After: "50"},
			Indent:  &wordml.WIndent{Left: "720"},
		},
		Content: []interface{}{wordml.WRun{
			Props: &wordml.WRunProps{
				Fonts: &wordml.WFonts{ASCII: monoFont, HAnsi: monoFont},
				Size:  &wordml.WVal{Val: monoSize},
			},
			Text: wordml.NewText(text),
		}},
	}
}

func dividerParagraph(align string) wordml.WParagraph {
	props := &wordml.WParagraphProps{Spacing: &wordml.WSpacing{Before: "150", After: "150"}}
	if align != "" {
		props.Align = &wordml.WVal{Val: align}
	}
	return wordml.WParagraph{
		Props: props,
		Content: []interface{}{wordml.WRun{
			Props: &wordml.WRunProps{Color: &wordml.WVal{Val: "CCCCCC"}},
			Text:  wordml.NewText(dividerText),
		}},
	}
}
