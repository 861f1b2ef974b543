package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/nerdneilsfield/notes-pipeline/internal/cli"
)

// Version information
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// 创建根命令
	rootCmd := cli.NewRootCommand(Version, Commit, BuildDate)

	// 执行命令
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "错误:", err)
		stop()
		os.Exit(1)
	}
}
