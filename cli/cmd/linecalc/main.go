package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/linecalc/linecalc/cli/internal/commands"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "linecalc: %v\n", err)
		os.Exit(1)
	}
}
