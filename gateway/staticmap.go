// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	embedBaseURL     = "https://www.google.com/maps/embed/v1/search"
	staticMapBaseURL = "https://maps.googleapis.com/maps/api/staticmap"

	defaultEmbedZoom = 14
	defaultMapWidth  = 600
	defaultMapHeight = 400
)

// EmbedURL builds a provider embed URL with the server-held key injected.
func (s *MapsService) EmbedURL(q string, zoom int) (string, error) {
	if s.settings.GoogleMapsAPIKey == "" {
		return "", configError("Maps embed key not configured")
	}

	if zoom <= 0 {
		zoom = defaultEmbedZoom
	}

	params := url.Values{}
	params.Set("key", s.settings.GoogleMapsAPIKey)
	params.Set("q", q)
	params.Set("zoom", fmt.Sprint(zoom))

	return embedBaseURL + "?" + params.Encode(), nil
}

// StaticMapURL builds a provider static-map URL. The markers argument is the
// pre-joined form the chat adapter sends ("markers=…&markers=…"); each
// segment becomes its own markers query value.
func (s *MapsService) StaticMapURL(q string, width, height int, markers, path string) (string, error) {
	if s.settings.GoogleMapsAPIKey == "" {
		return "", configError("Maps API key not configured")
	}

	if width <= 0 {
		width = defaultMapWidth
	}

	if height <= 0 {
		height = defaultMapHeight
	}

	params := url.Values{}
	params.Set("key", s.settings.GoogleMapsAPIKey)
	params.Set("size", fmt.Sprintf("%dx%d", width, height))

	if q != "" {
		params.Set("center", q)
	}

	if markers == "" {
		params.Set("zoom", fmt.Sprint(defaultEmbedZoom))
	} else {
		for _, marker := range splitMarkers(markers) {
			params.Add("markers", marker)
		}
	}

	if path != "" {
		params.Set("path", path)
	}

	return staticMapBaseURL + "?" + params.Encode(), nil
}

// FetchStaticMap proxy-fetches the static map so callers without provider
// network access still get pixels. Returns the bytes and the content type.
func (s *MapsService) FetchStaticMap(ctx context.Context, mapURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mapURL, nil)
	if err != nil {
		return nil, "", upstream("Failed to fetch map image", err)
	}

	resp, err := s.imageClient.Do(req)
	if err != nil {
		return nil, "", upstream("Failed to fetch map image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", upstream("Failed to fetch map image",
			fmt.Errorf("static map request returned status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", upstream("Failed to fetch map image", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}

	return data, contentType, nil
}

// splitMarkers unpacks "markers=a&markers=b" into ["a", "b"]. Bare segments
// without the prefix are kept as-is.
func splitMarkers(markers string) []string {
	var out []string

	for _, segment := range strings.Split(markers, "&") {
		segment = strings.TrimPrefix(segment, "markers=")
		if segment != "" {
			out = append(out, segment)
		}
	}

	return out
}
