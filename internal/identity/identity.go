// Package identity consumes the external identity provider. The provider
// itself (registration, login, token issuance) is not part of this service;
// we only verify a provider-issued token and read the resulting identity.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Identity is the shape the identity provider yields for an authenticated user.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

var (
	ErrInvalidToken  = errors.New("identity: token rejected by provider")
	ErrNotConfigured = errors.New("identity: verifier URL is not configured")
)

// Verifier resolves a provider-issued ID token into an identity.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

// HTTPVerifier verifies tokens against the provider's lookup endpoint.
type HTTPVerifier struct {
	url    string
	client *http.Client
}

func NewHTTPVerifier(url string) *HTTPVerifier {
	return &HTTPVerifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	if v.url == "" {
		return Identity{}, ErrNotConfigured
	}

	body, err := json.Marshal(map[string]string{"idToken": idToken})
	if err != nil {
		return Identity{}, fmt.Errorf("identity: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return Identity{}, fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("identity: verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return Identity{}, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("identity: provider returned status %d", resp.StatusCode)
	}

	var ident Identity
	if err := json.NewDecoder(resp.Body).Decode(&ident); err != nil {
		return Identity{}, fmt.Errorf("identity: decode response: %w", err)
	}
	if ident.UID == "" {
		return Identity{}, ErrInvalidToken
	}

	return ident, nil
}
