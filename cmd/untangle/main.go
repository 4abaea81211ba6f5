package main

import (
	"os"

	"untangle/internal/ulog"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := ulog.New(ulog.Config{Format: ulog.Human, Level: ulog.Error})
		logger.Error("command failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
