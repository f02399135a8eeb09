// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/heypico/picomaps/gateway"
	"github.com/heypico/picomaps/utils/textutils"
)

// maxRenderedSteps caps the turn-by-turn list; the remainder collapses into
// a trailing note.
const maxRenderedSteps = 20

var modeEmoji = map[string]string{
	"driving":   "🚗",
	"walking":   "🚶",
	"bicycling": "🚴",
	"transit":   "🚇",
}

// Stars renders a 0-5 rating as star glyphs, rounding half up and clamping
// to the valid range.
func Stars(rating float64) string {
	n := int(math.Round(rating))
	if n < 0 {
		n = 0
	}

	if n > 5 {
		n = 5
	}

	return strings.Repeat("⭐", n)
}

func ratingText(rating *float64, total *int) string {
	if rating == nil {
		return ""
	}

	text := fmt.Sprintf(" %s %g/5", Stars(*rating), *rating)
	if total != nil {
		text += fmt.Sprintf(" (%s reviews)", textutils.FormatInt(int64(*total)))
	}

	return text
}

// cleanInstruction substitutes the provider's HTML emphasis markup with chat
// markup and drops bare div tags.
func cleanInstruction(s string) string {
	replacer := strings.NewReplacer(
		"<b>", "**",
		"</b>", "**",
		"<div>", "",
		"</div>", "",
	)

	return replacer.Replace(s)
}

func (c *Client) renderSearch(data *gateway.SearchResponse, location string) string {
	locationText := ""
	if location != "" {
		locationText = " near " + location
	}

	if len(data.Results) == 0 {
		return fmt.Sprintf("🔍 No results found for '%s'%s. Try a different search term or location.",
			data.Query, locationText)
	}

	var out strings.Builder

	fmt.Fprintf(&out, "📍 **Found %d places for '%s'%s:**\n", data.Count, data.Query, locationText)

	displayCount := len(data.Results)
	if displayCount > c.settings.MaxResultsDisplay {
		displayCount = c.settings.MaxResultsDisplay
	}

	for i, place := range data.Results[:displayCount] {
		fmt.Fprintf(&out, "\n**%d. %s**%s\n", i+1, place.Name, ratingText(place.Rating, place.UserRatingsTotal))
		fmt.Fprintf(&out, "   📍 %s\n", place.Address)
		fmt.Fprintf(&out, "   🗺️ Coordinates: %.6f, %.6f\n", place.Location.Lat, place.Location.Lng)

		if c.settings.IncludeMapLinks && place.GoogleMapsURL != "" {
			fmt.Fprintf(&out, "   🔗 [View on Google Maps](%s)\n", place.GoogleMapsURL)
		}

		if len(place.Types) > 0 {
			fmt.Fprintf(&out, "   🏷️ Types: %s\n", strings.Join(firstN(place.Types, 3), ", "))
		}
	}

	if len(data.Results) > displayCount {
		fmt.Fprintf(&out, "\n_(%d more results available)_\n", len(data.Results)-displayCount)
	}

	if img := c.placesMapImage(data.Results[:displayCount]); img != "" {
		out.WriteString("\n## 🗺️ Map View\n")
		out.WriteString(img)
	}

	return out.String()
}

func (c *Client) renderPlaceDetail(place *gateway.PlaceDetail) string {
	var out strings.Builder

	fmt.Fprintf(&out, "📍 **%s**\n", place.Name)
	fmt.Fprintf(&out, "\n**Address:**\n%s\n", place.FormattedAddress)

	if place.Rating != nil {
		fmt.Fprintf(&out, "\n**Rating:** %s %g/5", Stars(*place.Rating), *place.Rating)

		if place.UserRatingsTotal != nil {
			fmt.Fprintf(&out, " (%s reviews)", textutils.FormatInt(int64(*place.UserRatingsTotal)))
		}

		out.WriteString("\n")
	}

	if place.PriceLevel != nil {
		fmt.Fprintf(&out, "\n**Price Level:** %s\n", strings.Repeat("$", *place.PriceLevel))
	}

	if place.FormattedPhoneNumber != "" {
		fmt.Fprintf(&out, "\n**Phone:** %s\n", place.FormattedPhoneNumber)
	}

	if place.Website != "" {
		fmt.Fprintf(&out, "\n**Website:** %s\n", place.Website)
	}

	if hours := place.OpeningHours; hours != nil {
		if hours.OpenNow != nil {
			status := "🔴 Closed now"
			if *hours.OpenNow {
				status = "🟢 Open now"
			}

			fmt.Fprintf(&out, "\n**Status:** %s\n", status)
		}

		if len(hours.WeekdayText) > 0 {
			out.WriteString("\n**Hours:**\n")

			for _, day := range hours.WeekdayText {
				fmt.Fprintf(&out, "  %s\n", day)
			}
		}
	}

	fmt.Fprintf(&out, "\n**Coordinates:** %.6f, %.6f\n", place.Location.Lat, place.Location.Lng)

	if len(place.Types) > 0 {
		fmt.Fprintf(&out, "\n**Categories:** %s\n", strings.Join(firstN(place.Types, 5), ", "))
	}

	if c.settings.IncludeMapLinks && place.GoogleMapsURL != "" {
		fmt.Fprintf(&out, "\n🔗 [View on Google Maps](%s)\n", place.GoogleMapsURL)
	}

	if img := c.locationMapImage(place.Location.Lat, place.Location.Lng, place.Name); img != "" {
		out.WriteString(img)
	}

	return out.String()
}

func (c *Client) renderDirections(data *gateway.DirectionsResponse) string {
	var out strings.Builder

	emoji := modeEmoji[data.Mode]
	if emoji == "" {
		emoji = "📍"
	}

	fmt.Fprintf(&out, "%s **Directions: %s → %s**\n", emoji, data.Origin, data.Destination)
	fmt.Fprintf(&out, "**Mode:** %s\n\n", capitalize(data.Mode))

	route := data.Route
	out.WriteString("**Route Summary:**\n")
	fmt.Fprintf(&out, "  📏 Distance: %s\n", route.Distance)
	fmt.Fprintf(&out, "  ⏱️ Duration: %s\n", route.Duration)
	fmt.Fprintf(&out, "  🏁 Start: %s\n", route.StartAddress)
	fmt.Fprintf(&out, "  🎯 End: %s\n", route.EndAddress)

	fmt.Fprintf(&out, "\n**Turn-by-Turn Directions** (%d steps):\n\n", len(route.Steps))

	shown := len(route.Steps)
	if shown > maxRenderedSteps {
		shown = maxRenderedSteps
	}

	for i, step := range route.Steps[:shown] {
		fmt.Fprintf(&out, "%d. %s\n", i+1, cleanInstruction(step.Instruction))
		fmt.Fprintf(&out, "   📏 %s • ⏱️ %s\n\n", step.Distance, step.Duration)
	}

	if len(route.Steps) > maxRenderedSteps {
		fmt.Fprintf(&out, "_(%d more steps...)_\n\n", len(route.Steps)-maxRenderedSteps)
	}

	if c.settings.IncludeMapLinks && data.GoogleMapsURL != "" {
		fmt.Fprintf(&out, "🗺️ [View full route on Google Maps](%s)\n", data.GoogleMapsURL)
	}

	if img := c.routeMapImage(data.Origin, data.Destination, &route); img != "" {
		out.WriteString("\n## 🗺️ Route Map\n")
		out.WriteString(img)
	}

	return out.String()
}

func (c *Client) renderGeocode(data *gateway.GeocodeResponse) string {
	if len(data.Results) == 0 {
		return fmt.Sprintf("🔍 No results found for: %s", data.Address)
	}

	var out strings.Builder

	fmt.Fprintf(&out, "📍 **Geocoding Results for '%s':**\n", data.Address)

	for i, result := range data.Results[:minInt(len(data.Results), 3)] {
		fmt.Fprintf(&out, "\n**%d. %s**\n", i+1, result.FormattedAddress)
		fmt.Fprintf(&out, "   🌐 Latitude: %.6f\n", result.Location.Lat)
		fmt.Fprintf(&out, "   🌐 Longitude: %.6f\n", result.Location.Lng)
		fmt.Fprintf(&out, "   🎯 Type: %s\n", result.LocationType)

		if c.settings.IncludeMapLinks {
			fmt.Fprintf(&out, "   🔗 [View on Map](https://www.google.com/maps?q=%v,%v)\n",
				result.Location.Lat, result.Location.Lng)
		}
	}

	return out.String()
}

// placesMapImage builds markdown for a static map with one numbered marker
// per place, fetched through the gateway proxy so no key reaches the chat.
func (c *Client) placesMapImage(places []gateway.PlaceSummary) string {
	if !c.settings.ShowMapImages || len(places) == 0 {
		return ""
	}

	center := fmt.Sprintf("%v,%v", places[0].Location.Lat, places[0].Location.Lng)

	markerParams := make([]string, 0, len(places))
	for i, place := range places {
		markerParams = append(markerParams, fmt.Sprintf("markers=color:red|label:%d|%v,%v",
			i+1, place.Location.Lat, place.Location.Lng))
	}

	params := url.Values{}
	params.Set("markers", strings.Join(markerParams, "&"))
	params.Set("width", fmt.Sprint(c.settings.MapWidth))
	params.Set("height", fmt.Sprint(c.settings.MapHeight))
	params.Set("q", center)

	imageURL := c.proxyURL("static-image", params)

	return fmt.Sprintf("\n![Map showing search results](%s)\n\n🔗 [**View on Google Maps**](https://www.google.com/maps/search/?api=1&query=%s)\n",
		imageURL, center)
}

func (c *Client) routeMapImage(origin, destination string, route *gateway.Route) string {
	if !c.settings.ShowMapImages {
		return ""
	}

	start, end := route.StartLocation, route.EndLocation

	markerParams := []string{
		fmt.Sprintf("markers=color:green|label:A|%v,%v", start.Lat, start.Lng),
		fmt.Sprintf("markers=color:red|label:B|%v,%v", end.Lat, end.Lng),
	}

	params := url.Values{}
	params.Set("markers", strings.Join(markerParams, "&"))
	params.Set("path", fmt.Sprintf("%v,%v|%v,%v", start.Lat, start.Lng, end.Lat, end.Lng))
	params.Set("width", fmt.Sprint(c.settings.MapWidth))
	params.Set("height", fmt.Sprint(c.settings.MapHeight))
	params.Set("q", fmt.Sprintf("%v,%v", start.Lat, start.Lng))

	return fmt.Sprintf("\n![Route map from %s to %s](%s)\n",
		origin, destination, c.proxyURL("static-image", params))
}

func (c *Client) locationMapImage(lat, lng float64, label string) string {
	if !c.settings.ShowMapImages {
		return ""
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%v,%v", lat, lng))
	params.Set("width", fmt.Sprint(c.settings.MapWidth))
	params.Set("height", fmt.Sprint(c.settings.MapHeight))

	labelText := ""
	if label != "" {
		labelText = " - " + label
	}

	return fmt.Sprintf("\n![Location map%s](%s)\n", labelText, c.proxyURL("static-image", params))
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}

	return items
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
