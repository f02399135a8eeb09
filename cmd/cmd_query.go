// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heypico/picomaps/chat"
)

var queryOptions struct {
	backendURL string
	browserURL string
	timeout    int
	maxResults int
	noLinks    bool
	noImages   bool
}

func queryClient() *chat.Client {
	settings := chat.DefaultSettings()

	if queryOptions.backendURL != "" {
		settings.BackendAPIURL = strings.TrimRight(queryOptions.backendURL, "/")
	}

	if queryOptions.browserURL != "" {
		settings.BrowserAPIURL = strings.TrimRight(queryOptions.browserURL, "/")
	} else if queryOptions.backendURL != "" {
		settings.BrowserAPIURL = settings.BackendAPIURL
	}

	if queryOptions.timeout > 0 {
		_ = settings.Apply("request_timeout", fmt.Sprint(queryOptions.timeout))
	}

	if queryOptions.maxResults > 0 {
		settings.MaxResultsDisplay = queryOptions.maxResults
	}

	settings.IncludeMapLinks = !queryOptions.noLinks
	settings.ShowMapImages = !queryOptions.noImages

	return chat.NewClient(settings)
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a running gateway and print the chat-rendered markdown",
}

var querySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for places",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		location, _ := cmd.Flags().GetString("location")
		radius, _ := cmd.Flags().GetInt("radius")

		fmt.Println(queryClient().SearchPlaces(args[0], location, radius))
	},
}

var queryPlaceCmd = &cobra.Command{
	Use:   "place <place-id>",
	Short: "Show details for a place",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		fmt.Println(queryClient().PlaceDetails(args[0]))
	},
}

var queryDirectionsCmd = &cobra.Command{
	Use:   "directions <origin> <destination>",
	Short: "Get turn-by-turn directions",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		mode, _ := cmd.Flags().GetString("mode")

		fmt.Println(queryClient().Directions(args[0], args[1], mode))
	},
}

var queryGeocodeCmd = &cobra.Command{
	Use:   "geocode <address>",
	Short: "Resolve an address to coordinates",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		fmt.Println(queryClient().GeocodeAddress(args[0]))
	},
}

func init() {
	queryCmd.PersistentFlags().StringVar(&queryOptions.backendURL, "backend-url", "http://localhost:8000/api/maps", "gateway API base URL")
	queryCmd.PersistentFlags().StringVar(&queryOptions.browserURL, "browser-url", "", "browser-visible API base URL for image links (defaults to backend URL)")
	queryCmd.PersistentFlags().IntVar(&queryOptions.timeout, "timeout", 0, "request timeout in seconds")
	queryCmd.PersistentFlags().IntVar(&queryOptions.maxResults, "max-results", 0, "maximum results to display")
	queryCmd.PersistentFlags().BoolVar(&queryOptions.noLinks, "no-links", false, "omit deep links")
	queryCmd.PersistentFlags().BoolVar(&queryOptions.noImages, "no-images", false, "omit map images")

	querySearchCmd.Flags().String("location", "", "center location for the search")
	querySearchCmd.Flags().Int("radius", 0, "search radius in meters (1-50000)")
	queryDirectionsCmd.Flags().String("mode", "driving", "travel mode: driving, walking, bicycling, transit")

	queryCmd.AddCommand(querySearchCmd)
	queryCmd.AddCommand(queryPlaceCmd)
	queryCmd.AddCommand(queryDirectionsCmd)
	queryCmd.AddCommand(queryGeocodeCmd)
	rootCmd.AddCommand(queryCmd)
}
