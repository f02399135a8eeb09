// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"github.com/heypico/picomaps/config"
)

// stubProvider is an in-memory provider recording which operations were
// invoked.
type stubProvider struct {
	searchResp     maps.PlacesSearchResponse
	searchErr      error
	detailsResult  maps.PlaceDetailsResult
	detailsErr     error
	routes         []maps.Route
	directionsErr  error
	geocodeResults []maps.GeocodingResult
	geocodeErr     error

	calls []string

	lastNearby *maps.NearbySearchRequest
	lastText   *maps.TextSearchRequest
}

func (p *stubProvider) TextSearch(_ context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error) {
	p.calls = append(p.calls, "text_search")
	p.lastText = r

	return p.searchResp, p.searchErr
}

func (p *stubProvider) NearbySearch(_ context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error) {
	p.calls = append(p.calls, "nearby_search")
	p.lastNearby = r

	return p.searchResp, p.searchErr
}

func (p *stubProvider) PlaceDetails(_ context.Context, _ *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error) {
	p.calls = append(p.calls, "place_details")

	return p.detailsResult, p.detailsErr
}

func (p *stubProvider) Directions(_ context.Context, _ *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error) {
	p.calls = append(p.calls, "directions")

	return p.routes, nil, p.directionsErr
}

func (p *stubProvider) Geocode(_ context.Context, _ *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	p.calls = append(p.calls, "geocode")

	return p.geocodeResults, p.geocodeErr
}

func testSettings() config.Settings {
	s := config.Defaults()
	s.GoogleMapsAPIKey = "test-key"

	return s
}

// newTestService builds a MapsService around a stub stub.
func newTestService(p provider, settings config.Settings) *MapsService {
	return &MapsService{
		provider:    p,
		settings:    settings,
		imageClient: &http.Client{Timeout: settings.APITimeout},
	}
}

func newStubService(p *stubProvider) *MapsService {
	return newTestService(p, testSettings())
}

func TestSearchValidation(t *testing.T) {
	tests := []struct {
		name string
		req  SearchRequest
	}{
		{name: "empty query", req: SearchRequest{Query: ""}},
		{name: "whitespace query", req: SearchRequest{Query: "   \t"}},
		{name: "radius too large", req: SearchRequest{Query: "pizza", Radius: 50001}},
		{name: "negative radius", req: SearchRequest{Query: "pizza", Radius: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubProvider{}
			service := newStubService(stub)

			_, err := service.Search(&tt.req)
			require.Error(t, err)
			assert.Equal(t, KindInvalidInput, AsError(err).Kind)
			assert.Empty(t, stub.calls, "no provider call may happen before validation")
		})
	}
}

func TestSearchZeroResultsIsNotAnError(t *testing.T) {
	stub := &stubProvider{}
	service := newStubService(stub)

	resp, err := service.Search(&SearchRequest{Query: "pizza"})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Results)
	assert.Equal(t, []string{"text_search"}, stub.calls)
}

func TestSearchUnresolvableLocation(t *testing.T) {
	stub := &stubProvider{}
	service := newStubService(stub)

	_, err := service.Search(&SearchRequest{Query: "pizza", Location: "Atlantis"})
	require.Error(t, err)

	e := AsError(err)
	assert.Equal(t, KindInvalidInput, e.Kind)
	assert.Contains(t, e.Message, "Atlantis")
	assert.Equal(t, []string{"geocode"}, stub.calls, "the search itself must not run")
}

func TestSearchUsesNearbyWhenLocationResolves(t *testing.T) {
	stub := &stubProvider{
		geocodeResults: []maps.GeocodingResult{{
			Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 40.758, Lng: -73.985}},
		}},
	}
	service := newStubService(stub)

	_, err := service.Search(&SearchRequest{Query: "pizza", Location: "Times Square"})
	require.NoError(t, err)

	assert.Equal(t, []string{"geocode", "nearby_search"}, stub.calls)
	require.NotNil(t, stub.lastNearby)
	assert.Equal(t, "pizza", stub.lastNearby.Keyword)
	assert.Equal(t, uint(defaultSearchRadius), stub.lastNearby.Radius)
	assert.InDelta(t, 40.758, stub.lastNearby.Location.Lat, 1e-9)
}

func TestSearchTruncatesAndMapsResults(t *testing.T) {
	stub := &stubProvider{
		searchResp: maps.PlacesSearchResponse{
			Results: []maps.PlacesSearchResult{
				{
					Name:             "Joe's Pizza",
					FormattedAddress: "7 Carmine St, New York",
					PlaceID:          "p1",
					Rating:           4.5,
					UserRatingsTotal: 1234,
					Geometry:         maps.AddressGeometry{Location: maps.LatLng{Lat: 40.73, Lng: -74.0}},
					Types:            []string{"restaurant", "food"},
				},
				{PlaceID: "p2"}, // provider omitted name, address, rating
				{Name: "Third", PlaceID: "p3"},
			},
		},
	}

	settings := testSettings()
	settings.MaxResults = 2
	service := newTestService(stub, settings)

	resp, err := service.Search(&SearchRequest{Query: "pizza"})
	require.NoError(t, err)

	rating := 4.5
	total := 1234
	want := &SearchResponse{
		Query: "pizza",
		Results: []PlaceSummary{
			{
				Name:             "Joe's Pizza",
				Address:          "7 Carmine St, New York",
				PlaceID:          "p1",
				Rating:           &rating,
				UserRatingsTotal: &total,
				Location:         Coordinates{Lat: 40.73, Lng: -74.0},
				Types:            []string{"restaurant", "food"},
				GoogleMapsURL:    "https://www.google.com/maps/place/?q=place_id:p1",
			},
			{
				Name:          "Unknown",
				Address:       "N/A",
				PlaceID:       "p2",
				Location:      Coordinates{},
				GoogleMapsURL: "https://www.google.com/maps/place/?q=place_id:p2",
			},
		},
		Count: 2,
	}

	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchPrefersVicinity(t *testing.T) {
	stub := &stubProvider{
		searchResp: maps.PlacesSearchResponse{
			Results: []maps.PlacesSearchResult{
				{Name: "X", PlaceID: "p", Vicinity: "near here", FormattedAddress: "full address"},
			},
		},
	}
	service := newStubService(stub)

	resp, err := service.Search(&SearchRequest{Query: "x"})
	require.NoError(t, err)
	assert.Equal(t, "near here", resp.Results[0].Address)
}

func TestNormalizeTravelMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		want    string
		wantErr bool
	}{
		{name: "empty defaults to driving", mode: "", want: "driving"},
		{name: "lowercase", mode: "transit", want: "transit"},
		{name: "uppercase", mode: "DRIVING", want: "driving"},
		{name: "mixed case with spaces", mode: " Walking ", want: "walking"},
		{name: "bicycling", mode: "Bicycling", want: "bicycling"},
		{name: "unknown mode", mode: "flying", wantErr: true},
		{name: "misspelled", mode: "drivin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTravelMode(tt.mode)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, AsError(err).Message, allowedModes)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirectionsNoRoute(t *testing.T) {
	stub := &stubProvider{}
	service := newStubService(stub)

	_, err := service.Directions(&DirectionsRequest{Origin: "A", Destination: "B", Mode: "driving"})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, AsError(err).Kind)
}

func TestDirectionsMapsFirstRouteAndLeg(t *testing.T) {
	stub := &stubProvider{
		routes: []maps.Route{
			{
				Summary: "I-95 N",
				Legs: []*maps.Leg{
					{
						Distance:      maps.Distance{HumanReadable: "12.3 km"},
						Duration:      65 * time.Minute,
						StartAddress:  "A St",
						EndAddress:    "B Ave",
						StartLocation: maps.LatLng{Lat: 1, Lng: 2},
						EndLocation:   maps.LatLng{Lat: 3, Lng: 4},
						Steps: []*maps.Step{
							{
								HTMLInstructions: "Turn <b>left</b>",
								Distance:         maps.Distance{HumanReadable: "0.5 km"},
								Duration:         5 * time.Minute,
							},
						},
					},
				},
			},
			{Summary: "ignored second route"},
		},
	}
	service := newStubService(stub)

	resp, err := service.Directions(&DirectionsRequest{Origin: "A St", Destination: "B Ave", Mode: "Driving"})
	require.NoError(t, err)

	assert.Equal(t, "driving", resp.Mode)
	assert.Equal(t, "I-95 N", resp.Route.Summary)
	assert.Equal(t, "12.3 km", resp.Route.Distance)
	assert.Equal(t, "1 hour 5 mins", resp.Route.Duration)
	assert.Equal(t, Coordinates{Lat: 1, Lng: 2}, resp.Route.StartLocation)
	require.Len(t, resp.Route.Steps, 1)
	assert.Equal(t, "Turn <b>left</b>", resp.Route.Steps[0].Instruction)
	assert.Equal(t, "5 mins", resp.Route.Steps[0].Duration)
	assert.Equal(t,
		"https://www.google.com/maps/dir/?api=1&origin=A St&destination=B Ave&travelmode=driving",
		resp.GoogleMapsURL)
}

func TestPlaceDetailsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
	}{
		{
			name:     "provider error",
			provider: &stubProvider{detailsErr: errors.New("maps: NOT_FOUND - no result")},
		},
		{
			name:     "empty result",
			provider: &stubProvider{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newStubService(tt.provider)

			_, err := service.PlaceDetails("ChIJmissing")
			require.Error(t, err)

			e := AsError(err)
			assert.Equal(t, KindNotFound, e.Kind)
			assert.Contains(t, e.Message, "ChIJmissing")
		})
	}
}

func TestPlaceDetailsMapsFields(t *testing.T) {
	openNow := true
	stub := &stubProvider{
		detailsResult: maps.PlaceDetailsResult{
			Name:                 "MoMA",
			FormattedAddress:     "11 W 53rd St",
			FormattedPhoneNumber: "(212) 708-9400",
			Website:              "https://www.moma.org/",
			Rating:               4.6,
			UserRatingsTotal:     50000,
			PriceLevel:           2,
			Geometry:             maps.AddressGeometry{Location: maps.LatLng{Lat: 40.7614, Lng: -73.9776}},
			Types:                []string{"museum"},
			OpeningHours: &maps.OpeningHours{
				OpenNow:     &openNow,
				WeekdayText: []string{"Monday: 10:30 AM – 5:30 PM"},
			},
		},
	}
	service := newStubService(stub)

	detail, err := service.PlaceDetails("ChIJmoma")
	require.NoError(t, err)

	assert.Equal(t, "MoMA", detail.Name)
	require.NotNil(t, detail.Rating)
	assert.InDelta(t, 4.6, *detail.Rating, 1e-6)
	require.NotNil(t, detail.PriceLevel)
	assert.Equal(t, 2, *detail.PriceLevel)
	require.NotNil(t, detail.OpeningHours)
	require.NotNil(t, detail.OpeningHours.OpenNow)
	assert.True(t, *detail.OpeningHours.OpenNow)
	assert.Equal(t, []string{"Monday: 10:30 AM – 5:30 PM"}, detail.OpeningHours.WeekdayText)
	assert.Equal(t, "https://www.google.com/maps/place/?q=place_id:ChIJmoma", detail.GoogleMapsURL)
}

func TestGeocodeCapsResults(t *testing.T) {
	results := make([]maps.GeocodingResult, 7)
	for i := range results {
		results[i] = maps.GeocodingResult{FormattedAddress: "addr", PlaceID: "id"}
	}

	service := newStubService(&stubProvider{geocodeResults: results})

	resp, err := service.Geocode(&GeocodeRequest{Address: "somewhere"})
	require.NoError(t, err)
	assert.Equal(t, maxGeocodeResults, resp.Count)
	assert.Len(t, resp.Results, maxGeocodeResults)
}

func TestGeocodeNoMatch(t *testing.T) {
	service := newStubService(&stubProvider{})

	_, err := service.Geocode(&GeocodeRequest{Address: "nowhere"})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, AsError(err).Kind)
}

func TestOperationsWithoutKey(t *testing.T) {
	settings := config.Defaults()
	service, err := NewMapsService(settings)
	require.NoError(t, err, "missing key must not fail construction")
	assert.False(t, service.KeyConfigured())

	_, err = service.Search(&SearchRequest{Query: "pizza"})
	assert.Equal(t, KindConfig, AsError(err).Kind)

	_, err = service.PlaceDetails("p1")
	assert.Equal(t, KindConfig, AsError(err).Kind)

	_, err = service.Directions(&DirectionsRequest{Origin: "A", Destination: "B"})
	assert.Equal(t, KindConfig, AsError(err).Kind)

	_, err = service.Geocode(&GeocodeRequest{Address: "x"})
	assert.Equal(t, KindConfig, AsError(err).Kind)
}

func TestFormatDurationText(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "1 min"},
		{time.Minute, "1 min"},
		{5 * time.Minute, "5 mins"},
		{60 * time.Minute, "1 hour"},
		{125 * time.Minute, "2 hours 5 mins"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDurationText(tt.d), "duration %v", tt.d)
	}
}
