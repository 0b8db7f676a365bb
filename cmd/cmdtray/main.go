// Package main is the entry point for cmdtray.
package main

import (
	"os"

	"github.com/cmdtray/cmdtray/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
