// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

// keyDisplayName is the display name of the Maps key provisioned for the
// gateway in the GCP project.
const keyDisplayName = "PicoMaps Gateway Key"

// apiKeyFromADC looks up the Maps API key through the API Keys service using
// Application Default Credentials. Useful on GCP deployments where the key is
// provisioned as a project resource instead of mounted as a secret.
func apiKeyFromADC(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("finding default credentials: %w", err)
	}

	projectID := creds.ProjectID
	if projectID == "" {
		return "", errors.New("no project ID found in default credentials")
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	req := &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	}

	it := client.ListKeys(ctx, req)

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName != keyDisplayName {
			continue
		}

		// ListKeys redacts KeyString; the secret needs a separate call.
		resp, err := client.GetKeyString(ctx, &apikeyspb.GetKeyStringRequest{Name: key.Name})
		if err != nil {
			return "", fmt.Errorf("getting key string: %w", err)
		}

		if resp.KeyString == "" {
			return "", fmt.Errorf("key %q found but KeyString is empty", keyDisplayName)
		}

		return resp.KeyString, nil
	}

	return "", fmt.Errorf("key with display name %q not found in project %s", keyDisplayName, projectID)
}
