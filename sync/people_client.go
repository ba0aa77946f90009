// ABOUTME: Google People API client for contact and birthday import
// ABOUTME: Creates an authenticated People API service
package sync

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

// NewPeopleClient creates a People API service from an OAuth token.
func NewPeopleClient(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (*people.Service, error) {
	client, err := HTTPClient(ctx, config, token)
	if err != nil {
		return nil, err
	}

	service, err := people.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}

	return service, nil
}
