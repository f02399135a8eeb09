// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "picomaps",
	Short: "Maps gateway and chat adapter for conversational assistants",
	Long: `
picomaps exposes Google Maps search, geocoding, directions, and static-image
capabilities to a conversational assistant. The gateway holds the provider
key server-side; the query commands exercise the chat adapter against a
running gateway and print the rendered markdown.
`,
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
