package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/baidu"
)

// bridgeRequest 通过标准输入发送给转发命令的请求
type bridgeRequest struct {
	Query     string `json:"q"`
	From      string `json:"from"`
	To        string `json:"to"`
	AppID     string `json:"appid"`
	SecretKey string `json:"secret_key"`
}

// commandBridge 把百度请求交给外部命令转发
//
// 命令从标准输入读取一个 JSON 请求，把译文写到标准输出；退出码非零视为失败。
func commandBridge(command string) baidu.Bridge {
	args := strings.Fields(command)

	return func(ctx context.Context, text, from, to, appID, secretKey string) (string, error) {
		if len(args) == 0 {
			return "", errors.New("bridge command is empty")
		}

		payload, err := json.Marshal(bridgeRequest{
			Query:     text,
			From:      from,
			To:        to,
			AppID:     appID,
			SecretKey: secretKey,
		})
		if err != nil {
			return "", err
		}

		var stdout, stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, args[0], args[1:]...)
		cmd.Stdin = bytes.NewReader(payload)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return "", fmt.Errorf("%w: %s", err, msg)
			}
			return "", err
		}

		translated := strings.TrimSpace(stdout.String())
		if translated == "" {
			return "", errors.New("bridge command returned no translation")
		}
		return translated, nil
	}
}
