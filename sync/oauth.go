// ABOUTME: OAuth configuration and token management for Google APIs
// ABOUTME: Handles the consent flow, token storage at XDG paths, and authenticated HTTP clients
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	scopeContacts = "https://www.googleapis.com/auth/contacts.readonly"
	scopeCalendar = "https://www.googleapis.com/auth/calendar.readonly"

	// oobRedirect makes Google show the code on screen for pasting back into the terminal.
	oobRedirect = "urn:ietf:wg:oauth:2.0:oob"
)

// NewOAuthConfig builds the Google OAuth config from client credentials.
func NewOAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  oobRedirect,
		Scopes:       []string{scopeContacts, scopeCalendar},
		Endpoint:     google.Endpoint,
	}
}

// RequireCredentials fails when the OAuth client is not configured.
func RequireCredentials(config *oauth2.Config) error {
	if config.ClientID == "" || config.ClientSecret == "" {
		return fmt.Errorf("google OAuth credentials not configured: set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")
	}
	return nil
}

// AuthURL is the consent page the user opens during `sync init`.
func AuthURL(config *oauth2.Config) string {
	return config.AuthCodeURL("kith", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode trades the pasted consent code for a token and stores it.
func ExchangeCode(ctx context.Context, config *oauth2.Config, code string) (*oauth2.Token, error) {
	token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	if err := SaveToken(token); err != nil {
		return nil, err
	}
	return token, nil
}

// TokenPath returns the XDG path for the stored OAuth token.
func TokenPath() string {
	return filepath.Join(xdg.DataHome, "kith", "google-credentials.json")
}

// SaveToken writes the token with owner-only permissions.
func SaveToken(token *oauth2.Token) error {
	path := TokenPath()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return nil
}

// LoadToken reads the stored token. Run `kith sync init` first.
func LoadToken() (*oauth2.Token, error) {
	f, err := os.Open(TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open token file (run 'kith sync init'): %w", err)
	}
	defer func() { _ = f.Close() }()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	return &token, nil
}

// HTTPClient returns a client that refreshes the token as needed.
func HTTPClient(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (*http.Client, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}
	return config.Client(ctx, token), nil
}
