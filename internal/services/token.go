package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/tracksheet/internal/shared"
	"golang.org/x/oauth2"
)

// cachedToken is the on-disk token format.
//
// expires_at (unix seconds) is written alongside expiry so caches written by
// other Spotify clients load as well.
type cachedToken struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
	ExpiresAt    int64     `json:"expires_at,omitempty"`
}

// LoadToken reads a cached token from path.
//
// A missing file yields [shared.ErrNotAuthenticated].
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no cached token at %s, run `tracksheet auth` first", shared.ErrNotAuthenticated, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var cached cachedToken
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("%w: token cache %s is not valid JSON: %v", shared.ErrNotAuthenticated, path, err)
	}
	if cached.AccessToken == "" && cached.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token cache %s holds no token, run `tracksheet auth` again", shared.ErrNotAuthenticated, path)
	}

	token := &oauth2.Token{
		AccessToken:  cached.AccessToken,
		TokenType:    cached.TokenType,
		RefreshToken: cached.RefreshToken,
		Expiry:       cached.Expiry,
	}
	if token.Expiry.IsZero() && cached.ExpiresAt > 0 {
		token.Expiry = time.Unix(cached.ExpiresAt, 0)
	}
	if cached.Scope != "" {
		token = token.WithExtra(map[string]any{"scope": cached.Scope})
	}
	return token, nil
}

// SaveToken writes token to path with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: no token to save", shared.ErrInvalidInput)
	}

	cached := cachedToken{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}
	if !token.Expiry.IsZero() {
		cached.ExpiresAt = token.Expiry.Unix()
	}
	if scope, ok := token.Extra("scope").(string); ok {
		cached.Scope = scope
	}

	data, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}
