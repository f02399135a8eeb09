// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/heypico/picomaps/gateway"
)

// Client calls the Maps Gateway and renders responses as markdown. Every
// failure — transport, timeout, or a non-2xx gateway response — is rendered
// as a user-facing error line; nothing is ever raised to the host runtime.
type Client struct {
	settings   Settings
	httpClient *http.Client
}

func NewClient(settings Settings) *Client {
	return &Client{
		settings:   settings,
		httpClient: &http.Client{Timeout: settings.RequestTimeout},
	}
}

// SearchPlaces searches for places and renders the hits, a result map, and
// deep links.
func (c *Client) SearchPlaces(query, location string, radius int) string {
	payload := map[string]any{"query": query, "radius": radius}
	if location != "" {
		payload["location"] = location
	}

	var data gateway.SearchResponse

	if errLine := c.postJSON("/search", payload, &data, nil); errLine != "" {
		return errLine
	}

	return c.renderSearch(&data, location)
}

// PlaceDetails fetches and renders one place.
func (c *Client) PlaceDetails(placeID string) string {
	var data gateway.PlaceDetail

	notFoundLine := fmt.Sprintf("❌ Place not found with ID: %s", placeID)
	if errLine := c.requestJSON(http.MethodGet, "/place/"+placeID, nil, &data, &notFoundLine); errLine != "" {
		return errLine
	}

	return c.renderPlaceDetail(&data)
}

// Directions fetches and renders a route.
func (c *Client) Directions(origin, destination, mode string) string {
	normalized, err := gateway.NormalizeTravelMode(mode)
	if err != nil {
		return fmt.Sprintf("❌ Invalid travel mode '%s'. Use: driving, walking, bicycling, transit", mode)
	}

	payload := map[string]any{"origin": origin, "destination": destination, "mode": normalized}

	var data gateway.DirectionsResponse

	notFoundLine := fmt.Sprintf("❌ No route found from %s to %s", origin, destination)
	if errLine := c.postJSON("/directions", payload, &data, &notFoundLine); errLine != "" {
		return errLine
	}

	return c.renderDirections(&data)
}

// GeocodeAddress resolves an address and renders the matches.
func (c *Client) GeocodeAddress(address string) string {
	payload := map[string]any{"address": address}

	var data gateway.GeocodeResponse

	notFoundLine := fmt.Sprintf("❌ Could not find location: %s", address)
	if errLine := c.postJSON("/geocode", payload, &data, &notFoundLine); errLine != "" {
		return errLine
	}

	return c.renderGeocode(&data)
}

// postJSON posts payload to the gateway and decodes the response into out.
// It returns "" on success or a rendered error line.
func (c *Client) postJSON(endpoint string, payload any, out any, notFoundLine *string) string {
	return c.requestJSON(http.MethodPost, endpoint, payload, out, notFoundLine)
}

func (c *Client) requestJSON(method, endpoint string, payload, out any, notFoundLine *string) string {
	reqURL := c.settings.BackendAPIURL + endpoint

	var body *bytes.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Sprintf("❌ Unexpected error: %v", err)
		}

		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, reqURL, body)
	if err != nil {
		return fmt.Sprintf("❌ Unexpected error: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Sprintf("⏱️ Request timed out after %d seconds. Please try again.",
				int(c.settings.RequestTimeout.Seconds()))
		}

		return fmt.Sprintf("❌ Network error connecting to backend: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && notFoundLine != nil {
		return *notFoundLine
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("❌ Error from backend (HTTP %d): %s", resp.StatusCode, gatewayErrorDetail(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Sprintf("❌ Unexpected error decoding response: %v", err)
	}

	return ""
}

func gatewayErrorDetail(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return "Unknown error"
	}

	return body.Error
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, os.ErrDeadlineExceeded) ||
		strings.Contains(err.Error(), "context deadline exceeded")
}

// proxyURL builds a gateway URL for image endpoints. Endpoints the chat
// client fetches itself use the browser-visible base.
func (c *Client) proxyURL(endpoint string, params url.Values) string {
	base := c.settings.BackendAPIURL
	if endpoint == "static-image" || endpoint == "embed-redirect" {
		base = c.settings.BrowserAPIURL
	}

	return base + "/" + endpoint + "?" + params.Encode()
}
