// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heypico/picomaps/config"
	"github.com/heypico/picomaps/gateway"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the maps gateway HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings := config.FromEnv(cmd.Context())

		service, err := gateway.NewMapsService(settings)
		if err != nil {
			return fmt.Errorf("initializing maps service: %w", err)
		}

		server := gateway.NewServer(service, settings, Version)

		return server.Run(serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "listen address")
	rootCmd.AddCommand(serveCmd)
}
