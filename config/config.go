// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the gateway settings from the environment.
package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings is the closed configuration surface of the gateway. There is no
// dynamic override path: every knob is an explicit field.
type Settings struct {
	AppName  string
	Debug    bool
	LogLevel string

	// GoogleMapsAPIKey is the provider secret. It never leaves the server:
	// responses embed it only inside provider URLs that the gateway itself
	// constructs or fetches.
	GoogleMapsAPIKey string

	CORSOrigins []string

	// APITimeout bounds every single provider call.
	APITimeout time.Duration

	// MaxResults caps the number of places returned by a search.
	MaxResults int
}

// Defaults returns the built-in settings used when the environment is silent.
func Defaults() Settings {
	return Settings{
		AppName:     "PicoMaps Gateway",
		Debug:       false,
		LogLevel:    "INFO",
		CORSOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		APITimeout:  10 * time.Second,
		MaxResults:  10,
	}
}

// FromEnv builds Settings with precedence secret-file > environment variable
// > built-in default. A .env file in the working directory is merged below
// the process environment.
//
// The API key is special: when neither the secret file nor the environment
// provides one, a lookup through Application Default Credentials is
// attempted. Failure there only logs; the gateway still starts and reports
// key-configured=false on /health.
func FromEnv(ctx context.Context) Settings {
	envFile, _ := godotenv.Read(".env")

	lookup := func(name string) string {
		if v := os.Getenv(name); v != "" {
			return v
		}

		return envFile[name]
	}

	s := Defaults()

	if v := lookup("APP_NAME"); v != "" {
		s.AppName = v
	}

	if v := lookup("DEBUG"); v != "" {
		v = strings.ToLower(v)
		s.Debug = v == "true" || v == "1" || v == "yes"
	}

	if v := lookup("LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}

	if v := lookup("API_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			log.Printf("ignoring invalid API_TIMEOUT %q", v)
		} else {
			s.APITimeout = time.Duration(secs) * time.Second
		}
	}

	if v := lookup("MAX_RESULTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Printf("ignoring invalid MAX_RESULTS %q", v)
		} else {
			s.MaxResults = n
		}
	}

	if v := lookup("CORS_ORIGINS"); v != "" {
		var origins []string

		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}

		if len(origins) > 0 {
			s.CORSOrigins = origins
		}
	}

	s.GoogleMapsAPIKey = resolveAPIKey(ctx, lookup)

	return s
}

// resolveAPIKey applies the key precedence: secret file, then environment,
// then Application Default Credentials.
func resolveAPIKey(ctx context.Context, lookup func(string) string) string {
	if file := lookup("GOOGLE_MAPS_API_KEY_FILE"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Printf("reading API key secret file %s: %v", file, err)
		} else if key := strings.TrimSpace(string(data)); key != "" {
			log.Printf("loaded API key from secret file %s", file)

			return key
		}
	}

	if key := lookup("GOOGLE_MAPS_API_KEY"); key != "" {
		return key
	}

	log.Println("GOOGLE_MAPS_API_KEY is not set. Attempting to retrieve via ADC...")

	key, err := apiKeyFromADC(ctx)
	if err != nil {
		log.Printf("failed to retrieve API key via ADC: %v", err)

		return ""
	}

	log.Println("retrieved Google Maps API key via ADC")

	return key
}
