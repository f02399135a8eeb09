// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SearchRequest asks for places matching a free-text query, optionally
// centered on a location resolved by geocoding.
type SearchRequest struct {
	Query    string `json:"query" binding:"required"`
	Location string `json:"location,omitempty"`
	// Radius is in meters, 1..50000. Zero means the default.
	Radius int `json:"radius,omitempty"`
}

// PlaceSummary is a single search hit. Optional provider fields stay absent
// in JSON instead of carrying sentinel values.
type PlaceSummary struct {
	Name             string      `json:"name"`
	Address          string      `json:"address"`
	PlaceID          string      `json:"place_id"`
	Rating           *float64    `json:"rating,omitempty"`
	UserRatingsTotal *int        `json:"user_ratings_total,omitempty"`
	Location         Coordinates `json:"location"`
	Types            []string    `json:"types,omitempty"`
	GoogleMapsURL    string      `json:"google_maps_url"`
}

// SearchResponse lists the places found for a query. An empty result set is
// a valid response, not an error.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []PlaceSummary `json:"results"`
	Count   int            `json:"count"`
}

// OpeningHours reduces the provider's opening-hours record to what the chat
// surface renders.
type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// PlaceDetail extends PlaceSummary with contact and opening information.
type PlaceDetail struct {
	Name                     string        `json:"name"`
	FormattedAddress         string        `json:"formatted_address"`
	FormattedPhoneNumber     string        `json:"formatted_phone_number,omitempty"`
	InternationalPhoneNumber string        `json:"international_phone_number,omitempty"`
	Website                  string        `json:"website,omitempty"`
	Rating                   *float64      `json:"rating,omitempty"`
	UserRatingsTotal         *int          `json:"user_ratings_total,omitempty"`
	PriceLevel               *int          `json:"price_level,omitempty"`
	OpeningHours             *OpeningHours `json:"opening_hours,omitempty"`
	Location                 Coordinates   `json:"location"`
	Types                    []string      `json:"types,omitempty"`
	GoogleMapsURL            string        `json:"google_maps_url"`
}

// DirectionsRequest asks for a route between two free-text endpoints.
type DirectionsRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	// Mode is one of driving, walking, bicycling, transit. Case-insensitive.
	Mode string `json:"mode,omitempty"`
}

// RouteStep is one turn-by-turn instruction. Instruction text may carry the
// provider's HTML emphasis markup; the chat adapter substitutes it.
type RouteStep struct {
	Instruction string `json:"instruction"`
	Distance    string `json:"distance"`
	Duration    string `json:"duration"`
}

// Route describes the first route/leg returned by the provider.
type Route struct {
	Summary       string      `json:"summary"`
	Distance      string      `json:"distance"`
	Duration      string      `json:"duration"`
	StartAddress  string      `json:"start_address"`
	EndAddress    string      `json:"end_address"`
	StartLocation Coordinates `json:"start_location"`
	EndLocation   Coordinates `json:"end_location"`
	Steps         []RouteStep `json:"steps"`
}

// DirectionsResponse echoes the request endpoints plus the mapped route and
// a deep link to the provider's web directions page.
type DirectionsResponse struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	Mode          string `json:"mode"`
	Route         Route  `json:"route"`
	GoogleMapsURL string `json:"google_maps_url"`
}

// GeocodeRequest asks for coordinates of a free-text address.
type GeocodeRequest struct {
	Address string `json:"address" binding:"required"`
}

// GeocodeMatch is one geocoder hit.
type GeocodeMatch struct {
	FormattedAddress string      `json:"formatted_address"`
	Location         Coordinates `json:"location"`
	LocationType     string      `json:"location_type"`
	PlaceID          string      `json:"place_id"`
}

// GeocodeResponse lists up to maxGeocodeResults matches for an address.
type GeocodeResponse struct {
	Address string         `json:"address"`
	Results []GeocodeMatch `json:"results"`
	Count   int            `json:"count"`
}

// EmbedResponse carries a provider URL constructed server-side. The key is
// baked into the URL, never returned as a separate field.
type EmbedResponse struct {
	Src string `json:"src"`
}

// HealthResponse reports service status for probes.
type HealthResponse struct {
	Status            string `json:"status"`
	Service           string `json:"service"`
	Version           string `json:"version"`
	MapsAPIConfigured bool   `json:"maps_api_configured"`
}
