// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

// Package chat is the conversational-host adapter: it calls the Maps Gateway
// over HTTP and renders the structured responses into chat markdown.
package chat

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Settings is the closed configuration surface of the adapter. Unknown keys
// are rejected at the boundary instead of being absorbed by reflection.
type Settings struct {
	// BackendAPIURL is the gateway base URL for adapter-to-gateway calls
	// (typically an internal network name).
	BackendAPIURL string
	// BrowserAPIURL is the gateway base URL embedded in image references the
	// chat client fetches itself. It differs from BackendAPIURL when the
	// gateway sits behind an internal hostname.
	BrowserAPIURL     string
	MaxResultsDisplay int
	RequestTimeout    time.Duration
	IncludeMapLinks   bool
	ShowMapImages     bool
	MapWidth          int
	MapHeight         int
}

// DefaultSettings returns the adapter defaults.
func DefaultSettings() Settings {
	return Settings{
		BackendAPIURL:     "http://picomaps-gateway:8000/api/maps",
		BrowserAPIURL:     "http://localhost:8000/api/maps",
		MaxResultsDisplay: 5,
		RequestTimeout:    15 * time.Second,
		IncludeMapLinks:   true,
		ShowMapImages:     true,
		MapWidth:          600,
		MapHeight:         400,
	}
}

// Apply sets one setting from its host-plugin key and string value. Keys
// outside the closed set are an error.
func (s *Settings) Apply(key, value string) error {
	switch key {
	case "backend_api_url":
		s.BackendAPIURL = strings.TrimRight(value, "/")
	case "browser_api_url":
		s.BrowserAPIURL = strings.TrimRight(value, "/")
	case "max_results_display":
		return applyInt(&s.MaxResultsDisplay, key, value)
	case "request_timeout":
		secs, err := strconv.Atoi(value)
		if err != nil || secs <= 0 {
			return fmt.Errorf("setting %s: invalid value %q", key, value)
		}

		s.RequestTimeout = time.Duration(secs) * time.Second
	case "include_map_links":
		return applyBool(&s.IncludeMapLinks, key, value)
	case "show_map_images":
		return applyBool(&s.ShowMapImages, key, value)
	case "map_width":
		return applyInt(&s.MapWidth, key, value)
	case "map_height":
		return applyInt(&s.MapHeight, key, value)
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}

	return nil
}

func applyInt(target *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("setting %s: invalid value %q", key, value)
	}

	*target = n

	return nil
}

func applyBool(target *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("setting %s: invalid value %q", key, value)
	}

	*target = b

	return nil
}
