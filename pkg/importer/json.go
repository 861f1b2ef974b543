package importer

import (
	"bytes"
	"encoding/json"

	"github.com/nerdneilsfield/notes-pipeline/pkg/document"
)

// importJSON 校验并以两个空格缩进格式化，放入 json 代码块
func importJSON(data []byte) (*Result, error) {
	content, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace([]byte(content)), "", "  "); err != nil {
		return nil, document.NewParseError(document.FormatJSON, "invalid json", err)
	}

	return &Result{Text: "```json\n" + pretty.String() + "\n```"}, nil
}
