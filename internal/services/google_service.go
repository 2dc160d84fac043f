package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"agroland-backend/config"
)

// ErrGoogleNotConfigured is returned when Google sign-in is used without credentials set up
var ErrGoogleNotConfigured = errors.New("google sign-in is not configured")

// GoogleService handles Google sign-in via ID tokens and the redirect code flow
type GoogleService struct {
	clientID string
	config   *oauth2.Config
}

// GoogleUserInfo is the profile returned by Google for an authenticated user
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// NewGoogleService creates a new Google sign-in service
func NewGoogleService(cfg *config.Config) *GoogleService {
	return &GoogleService{
		clientID: cfg.GoogleClientID,
		config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// IsConfigured reports whether Google credentials are set up
func (s *GoogleService) IsConfigured() bool {
	return s.clientID != "" && s.config.ClientSecret != ""
}

// AuthURL returns the Google consent page URL for the redirect flow
func (s *GoogleService) AuthURL(state string) (string, error) {
	if !s.IsConfigured() {
		return "", ErrGoogleNotConfigured
	}
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// VerifyIDToken validates a Google ID token against our client ID and
// returns the embedded profile. Used by clients that sign in with the
// Google SDK directly and post the credential to us.
func (s *GoogleService) VerifyIDToken(ctx context.Context, rawToken string) (*GoogleUserInfo, error) {
	if !s.IsConfigured() {
		return nil, ErrGoogleNotConfigured
	}

	payload, err := idtoken.Validate(ctx, rawToken, s.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", err)
	}

	info := &GoogleUserInfo{ID: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		info.Email = email
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		info.VerifiedEmail = verified
	}
	if name, ok := payload.Claims["name"].(string); ok {
		info.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		info.Picture = picture
	}

	if info.Email == "" {
		return nil, fmt.Errorf("google token is missing an email claim")
	}

	return info, nil
}

// ExchangeCode trades an authorization code from the redirect flow for
// the user's profile
func (s *GoogleService) ExchangeCode(ctx context.Context, code string) (*GoogleUserInfo, error) {
	if !s.IsConfigured() {
		return nil, ErrGoogleNotConfigured
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := s.config.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google userinfo request failed (%d): %s", resp.StatusCode, string(body))
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode google user info: %w", err)
	}

	if info.Email == "" {
		return nil, fmt.Errorf("google profile is missing an email")
	}

	return &info, nil
}
