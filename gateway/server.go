// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/heypico/picomaps/config"
)

// Server exposes the MapsService over HTTP.
type Server struct {
	service  *MapsService
	settings config.Settings
	version  string
}

func NewServer(service *MapsService, settings config.Settings, version string) *Server {
	return &Server{
		service:  service,
		settings: settings,
		version:  version,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	if !s.settings.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.settings.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	r.GET("/", s.root)
	r.GET("/health", s.health)

	api := r.Group("/api/maps")
	api.POST("/search", s.searchPlaces)
	api.GET("/place/:place_id", s.getPlaceDetails)
	api.POST("/directions", s.getDirections)
	api.POST("/geocode", s.geocodeAddress)
	api.GET("/embed", s.getEmbed)
	api.GET("/embed-redirect", s.embedRedirect)
	api.GET("/static", s.getStaticMap)
	api.GET("/static-image", s.getStaticMapImage)

	return r
}

// Run starts the HTTP server on addr.
func (s *Server) Run(addr string) error {
	log.Printf("starting %s on %s (key configured: %v)",
		s.settings.AppName, addr, s.service.KeyConfigured())

	return s.Router().Run(addr)
}

// respondError is the single boundary translating operation failures to HTTP
// responses. The full error is logged; only the categorized message goes out.
func respondError(ctx *gin.Context, op string, err error) {
	e := AsError(err)
	log.Printf("%s: %v", op, e)

	ctx.JSON(e.Kind.HTTPStatus(), gin.H{"error": e.Message})
}

func (s *Server) root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": s.settings.AppName,
		"version": s.version,
		"health":  "/health",
	})
}

func (s *Server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, HealthResponse{
		Status:            "healthy",
		Service:           "picomaps-gateway",
		Version:           s.version,
		MapsAPIConfigured: s.service.KeyConfigured(),
	})
}

func (s *Server) searchPlaces(ctx *gin.Context) {
	var req SearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, "search", invalidInput("Invalid request body"))

		return
	}

	resp, err := s.service.Search(&req)
	if err != nil {
		respondError(ctx, "search", err)

		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) getPlaceDetails(ctx *gin.Context) {
	detail, err := s.service.PlaceDetails(ctx.Param("place_id"))
	if err != nil {
		respondError(ctx, "place details", err)

		return
	}

	ctx.JSON(http.StatusOK, detail)
}

func (s *Server) getDirections(ctx *gin.Context) {
	var req DirectionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, "directions", invalidInput("Invalid request body"))

		return
	}

	resp, err := s.service.Directions(&req)
	if err != nil {
		respondError(ctx, "directions", err)

		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) geocodeAddress(ctx *gin.Context) {
	var req GeocodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, "geocode", invalidInput("Invalid request body"))

		return
	}

	resp, err := s.service.Geocode(&req)
	if err != nil {
		respondError(ctx, "geocode", err)

		return
	}

	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) getEmbed(ctx *gin.Context) {
	src, err := s.service.EmbedURL(ctx.Query("q"), intQuery(ctx, "zoom"))
	if err != nil {
		respondError(ctx, "embed", err)

		return
	}

	ctx.JSON(http.StatusOK, EmbedResponse{Src: src})
}

func (s *Server) embedRedirect(ctx *gin.Context) {
	src, err := s.service.EmbedURL(ctx.Query("q"), intQuery(ctx, "zoom"))
	if err != nil {
		respondError(ctx, "embed redirect", err)

		return
	}

	ctx.Redirect(http.StatusFound, src)
}

func (s *Server) getStaticMap(ctx *gin.Context) {
	src, err := s.staticMapURL(ctx)
	if err != nil {
		respondError(ctx, "static map", err)

		return
	}

	ctx.JSON(http.StatusOK, EmbedResponse{Src: src})
}

func (s *Server) getStaticMapImage(ctx *gin.Context) {
	src, err := s.staticMapURL(ctx)
	if err != nil {
		respondError(ctx, "static map image", err)

		return
	}

	data, contentType, err := s.service.FetchStaticMap(ctx.Request.Context(), src)
	if err != nil {
		respondError(ctx, "static map image", err)

		return
	}

	ctx.Header("Cache-Control", "public, max-age=3600")
	ctx.Data(http.StatusOK, contentType, data)
}

func (s *Server) staticMapURL(ctx *gin.Context) (string, error) {
	return s.service.StaticMapURL(
		ctx.Query("q"),
		intQuery(ctx, "width"),
		intQuery(ctx, "height"),
		ctx.Query("markers"),
		ctx.Query("path"),
	)
}

func intQuery(ctx *gin.Context, name string) int {
	n, err := strconv.Atoi(ctx.Query(name))
	if err != nil {
		return 0
	}

	return n
}
