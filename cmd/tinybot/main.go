package main

import (
	"fmt"
	"os"

	"tinybot/internal/logger"
)

var log = logger.Named("cli")

func main() {
	logger.Configure()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
