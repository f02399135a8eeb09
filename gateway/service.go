// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

// Package gateway exposes the mapping provider's search, geocoding,
// directions, and static-image capabilities behind a fixed JSON API while
// keeping the provider secret server-side.
package gateway

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"github.com/heypico/picomaps/config"
	"github.com/heypico/picomaps/utils/httputils"
	"github.com/heypico/picomaps/utils/textutils"
)

// maxGeocodeResults caps the matches returned by the geocode operation.
const maxGeocodeResults = 5

// defaultSearchRadius is used when a search request leaves the radius unset.
const defaultSearchRadius = 5000

// provider is the subset of the Google Maps client the service consumes.
// *maps.Client satisfies it; tests substitute a stub.
type provider interface {
	TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error)
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
	PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error)
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// travelModes maps the accepted travel-mode inputs to the provider enum.
var travelModes = map[string]maps.Mode{
	"driving":   maps.TravelModeDriving,
	"walking":   maps.TravelModeWalking,
	"bicycling": maps.TravelModeBicycling,
	"transit":   maps.TravelModeTransit,
}

const allowedModes = "driving, walking, bicycling, transit"

// MapsService holds the provider client and the settings it was built from.
// It is constructed once at startup so client construction failures surface
// there instead of mid-request.
type MapsService struct {
	provider    provider
	settings    config.Settings
	imageClient *http.Client
}

// NewMapsService builds the provider client from settings. A missing API key
// is not a construction error: the service starts and every provider-backed
// operation fails with a configuration error, which keeps /health reachable.
func NewMapsService(settings config.Settings) (*MapsService, error) {
	httpClient := &http.Client{Timeout: settings.APITimeout}
	if settings.Debug {
		httpClient.Transport = &httputils.LoggingRoundTripper{Writer: log.Writer()}
	}

	s := &MapsService{
		settings:    settings,
		imageClient: httpClient,
	}

	if settings.GoogleMapsAPIKey == "" {
		log.Println("no Google Maps API key configured; provider operations disabled")

		return s, nil
	}

	client, err := maps.NewClient(
		maps.WithAPIKey(settings.GoogleMapsAPIKey),
		maps.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}

	s.provider = client

	return s, nil
}

// callContext bounds a provider call with the configured timeout. It derives
// from the background context on purpose: an abandoned inbound request lets
// the in-flight provider call complete and discards the result.
func (s *MapsService) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.settings.APITimeout)
}

func (s *MapsService) checkProvider() *Error {
	if s.provider == nil {
		return configError("Google Maps API key not configured")
	}

	return nil
}

// Search resolves the optional center location, then runs a proximity or
// free-text search and maps the results.
func (s *MapsService) Search(req *SearchRequest) (*SearchResponse, error) {
	query, err := validateSearchQuery(req)
	if err != nil {
		return nil, err
	}

	if err := s.checkProvider(); err != nil {
		return nil, err
	}

	radius := req.Radius
	if radius == 0 {
		radius = defaultSearchRadius
	}

	var center *maps.LatLng

	if req.Location != "" {
		center, err = s.geocodeLocation(req.Location)
		if err != nil {
			return nil, err
		}
	}

	ctx, cancel := s.callContext()
	defer cancel()

	var resp maps.PlacesSearchResponse

	if center != nil {
		resp, err = s.provider.NearbySearch(ctx, &maps.NearbySearchRequest{
			Location: center,
			Radius:   uint(radius),
			Keyword:  query,
		})
	} else {
		resp, err = s.provider.TextSearch(ctx, &maps.TextSearchRequest{Query: query})
	}

	if err != nil {
		return nil, classifyProviderError(err, "Search failed", "No places found")
	}

	results := resp.Results
	if len(results) > s.settings.MaxResults {
		results = results[:s.settings.MaxResults]
	}

	places := make([]PlaceSummary, 0, len(results))
	for i := range results {
		places = append(places, newPlaceSummary(&results[i]))
	}

	log.Printf("search query=%q location=%q returned %d results", query, req.Location, len(places))

	return &SearchResponse{Query: query, Results: places, Count: len(places)}, nil
}

// placeDetailFields is the fixed field set requested from the provider.
var placeDetailFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskFormattedAddress,
	maps.PlaceDetailsFieldMaskFormattedPhoneNumber,
	maps.PlaceDetailsFieldMaskInternationalPhoneNumber,
	maps.PlaceDetailsFieldMaskWebsite,
	maps.PlaceDetailsFieldMaskRatings,
	maps.PlaceDetailsFieldMaskUserRatingsTotal,
	maps.PlaceDetailsFieldMaskPriceLevel,
	maps.PlaceDetailsFieldMaskOpeningHours,
	maps.PlaceDetailsFieldMaskGeometry,
	maps.PlaceDetailsFieldMaskTypes,
}

// PlaceDetails fetches the fixed field set for one place.
func (s *MapsService) PlaceDetails(placeID string) (*PlaceDetail, error) {
	if placeID == "" {
		return nil, invalidInput("place_id is required")
	}

	if err := s.checkProvider(); err != nil {
		return nil, err
	}

	ctx, cancel := s.callContext()
	defer cancel()

	result, err := s.provider.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields:  placeDetailFields,
	})
	if err != nil {
		return nil, classifyProviderError(err, "Failed to fetch place details", "Place not found: "+placeID)
	}

	if result.Name == "" && result.FormattedAddress == "" {
		return nil, notFound("Place not found: " + placeID)
	}

	detail := &PlaceDetail{
		Name:                     stringOr(result.Name, "Unknown"),
		FormattedAddress:         stringOr(result.FormattedAddress, "N/A"),
		FormattedPhoneNumber:     result.FormattedPhoneNumber,
		InternationalPhoneNumber: result.InternationalPhoneNumber,
		Website:                  result.Website,
		Rating:                   optionalRating(result.Rating),
		UserRatingsTotal:         optionalCount(result.UserRatingsTotal),
		PriceLevel:               optionalCount(result.PriceLevel),
		Location: Coordinates{
			Lat: result.Geometry.Location.Lat,
			Lng: result.Geometry.Location.Lng,
		},
		Types:         result.Types,
		GoogleMapsURL: placeDeepLink(placeID),
	}

	if result.OpeningHours != nil {
		detail.OpeningHours = &OpeningHours{
			OpenNow:     result.OpeningHours.OpenNow,
			WeekdayText: result.OpeningHours.WeekdayText,
		}
	}

	return detail, nil
}

// Directions maps the first route and leg returned by the provider.
func (s *MapsService) Directions(req *DirectionsRequest) (*DirectionsResponse, error) {
	mode, modeErr := NormalizeTravelMode(req.Mode)
	if modeErr != nil {
		return nil, modeErr
	}

	if err := s.checkProvider(); err != nil {
		return nil, err
	}

	ctx, cancel := s.callContext()
	defer cancel()

	routes, _, err := s.provider.Directions(ctx, &maps.DirectionsRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Mode:        travelModes[mode],
	})
	if err != nil {
		return nil, classifyProviderError(err, "Failed to get directions", "No route found")
	}

	if len(routes) == 0 {
		log.Printf("no route found from %q to %q", req.Origin, req.Destination)

		return nil, notFound("No route found")
	}

	route := routes[0]
	if len(route.Legs) == 0 {
		return nil, upstream("Failed to get directions", fmt.Errorf("route %q has no legs", route.Summary))
	}

	leg := route.Legs[0]

	steps := make([]RouteStep, 0, len(leg.Steps))
	for _, step := range leg.Steps {
		steps = append(steps, RouteStep{
			Instruction: step.HTMLInstructions,
			Distance:    step.Distance.HumanReadable,
			Duration:    formatDurationText(step.Duration),
		})
	}

	// Values are embedded unescaped: mode is constrained to the enum above
	// and origin/destination pass through as received.
	deepLink := fmt.Sprintf(
		"https://www.google.com/maps/dir/?api=1&origin=%s&destination=%s&travelmode=%s",
		req.Origin, req.Destination, mode,
	)

	return &DirectionsResponse{
		Origin:      req.Origin,
		Destination: req.Destination,
		Mode:        mode,
		Route: Route{
			Summary:       stringOr(route.Summary, "Route"),
			Distance:      leg.Distance.HumanReadable,
			Duration:      formatDurationText(leg.Duration),
			StartAddress:  leg.StartAddress,
			EndAddress:    leg.EndAddress,
			StartLocation: Coordinates{Lat: leg.StartLocation.Lat, Lng: leg.StartLocation.Lng},
			EndLocation:   Coordinates{Lat: leg.EndLocation.Lat, Lng: leg.EndLocation.Lng},
			Steps:         steps,
		},
		GoogleMapsURL: deepLink,
	}, nil
}

// Geocode resolves an address to up to maxGeocodeResults matches.
func (s *MapsService) Geocode(req *GeocodeRequest) (*GeocodeResponse, error) {
	if err := s.checkProvider(); err != nil {
		return nil, err
	}

	ctx, cancel := s.callContext()
	defer cancel()

	matches, err := s.provider.Geocode(ctx, &maps.GeocodingRequest{Address: req.Address})
	if err != nil {
		return nil, classifyProviderError(err, "Geocoding failed", "Could not geocode address")
	}

	if len(matches) == 0 {
		log.Printf("geocoding returned no results for %q", req.Address)

		return nil, notFound("Could not geocode address")
	}

	if len(matches) > maxGeocodeResults {
		matches = matches[:maxGeocodeResults]
	}

	results := make([]GeocodeMatch, 0, len(matches))
	for _, m := range matches {
		results = append(results, GeocodeMatch{
			FormattedAddress: m.FormattedAddress,
			Location: Coordinates{
				Lat: m.Geometry.Location.Lat,
				Lng: m.Geometry.Location.Lng,
			},
			LocationType: m.Geometry.LocationType,
			PlaceID:      m.PlaceID,
		})
	}

	return &GeocodeResponse{Address: req.Address, Results: results, Count: len(results)}, nil
}

// KeyConfigured reports whether a provider key is available.
func (s *MapsService) KeyConfigured() bool {
	return s.settings.GoogleMapsAPIKey != ""
}

// geocodeLocation resolves a free-text center location for search. Failure
// to resolve is the caller's fault, not the provider's.
func (s *MapsService) geocodeLocation(location string) (*maps.LatLng, error) {
	ctx, cancel := s.callContext()
	defer cancel()

	matches, err := s.provider.Geocode(ctx, &maps.GeocodingRequest{Address: location})
	if err != nil || len(matches) == 0 {
		if err != nil {
			log.Printf("geocoding center %q: %v", location, err)
		}

		return nil, invalidInput("Could not find location: %s", location)
	}

	return &maps.LatLng{
		Lat: matches[0].Geometry.Location.Lat,
		Lng: matches[0].Geometry.Location.Lng,
	}, nil
}

// NormalizeTravelMode validates a free-text travel mode against the closed
// enum. Input is case-insensitive and accent-folded; the returned value is
// the canonical lowercase form.
func NormalizeTravelMode(mode string) (string, error) {
	if mode == "" {
		return "driving", nil
	}

	normalized := textutils.LowerASCIIFolding(mode)
	if _, ok := travelModes[normalized]; !ok {
		return "", invalidInput("Mode must be one of: %s", allowedModes)
	}

	return normalized, nil
}

func validateSearchQuery(req *SearchRequest) (string, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return "", invalidInput("Query cannot be empty or whitespace")
	}

	if req.Radius < 0 || req.Radius > 50000 {
		return "", invalidInput("Radius must be between 1 and 50000 meters")
	}

	return query, nil
}

func newPlaceSummary(place *maps.PlacesSearchResult) PlaceSummary {
	address := place.Vicinity
	if address == "" {
		address = place.FormattedAddress
	}

	return PlaceSummary{
		Name:             stringOr(place.Name, "Unknown"),
		Address:          stringOr(address, "N/A"),
		PlaceID:          place.PlaceID,
		Rating:           optionalRating(place.Rating),
		UserRatingsTotal: optionalCount(place.UserRatingsTotal),
		Location: Coordinates{
			Lat: place.Geometry.Location.Lat,
			Lng: place.Geometry.Location.Lng,
		},
		Types:         place.Types,
		GoogleMapsURL: placeDeepLink(place.PlaceID),
	}
}

func placeDeepLink(placeID string) string {
	return "https://www.google.com/maps/place/?q=place_id:" + placeID
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

// The provider reports absent ratings and counts as zero; the wire shape
// keeps them absent instead.
func optionalRating(rating float32) *float64 {
	if rating == 0 {
		return nil
	}

	r := float64(rating)

	return &r
}

func optionalCount(n int) *int {
	if n == 0 {
		return nil
	}

	return &n
}

// formatDurationText renders a duration the way the provider's own text
// fields read, e.g. "1 min", "5 mins", "1 hour 5 mins".
func formatDurationText(d time.Duration) string {
	mins := int(math.Round(d.Minutes()))
	if mins < 1 {
		mins = 1
	}

	if mins < 60 {
		return pluralize(mins, "min")
	}

	text := pluralize(mins/60, "hour")
	if rem := mins % 60; rem > 0 {
		text += " " + pluralize(rem, "min")
	}

	return text
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}
