// package services defines interface Service for reading track collections over HTTP APIs
package services

import (
	"context"
	"iter"

	"github.com/desertthunder/tracksheet/internal/shared"
	"golang.org/x/oauth2"
)

// Service defines the interface for streaming providers that tracksheet reads from.
type Service interface {
	// Name returns the name of the service (e.g., "Spotify")
	Name() string

	// Playlist retrieves playlist metadata by ID.
	Playlist(ctx context.Context, playlistID string) (*SpotifyPlaylist, error)

	// PlaylistItems yields every item of a playlist in order, following pagination.
	// Iteration stops after the first error is yielded.
	PlaylistItems(ctx context.Context, playlistID string) iter.Seq2[PlaylistItem, error]

	// SavedTracks returns up to limit of the user's most recently saved tracks, newest first.
	SavedTracks(ctx context.Context, limit int) ([]SavedTrack, error)
}

// OAuthService extends [Service] for providers that authorize through the OAuth2 code flow.
type OAuthService interface {
	Service

	// GetAuthURL returns the consent page URL carrying state.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the client configuration for callback handlers.
	GetOAuthConfig() *oauth2.Config

	// Exchange trades an authorization code for a token and starts using it.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// SetToken authorizes subsequent requests with token, refreshing it as needed.
	SetToken(ctx context.Context, token *oauth2.Token)

	// Token returns the token currently in use, or nil before authorization.
	Token() (*oauth2.Token, error)
}

// CollectPlaylistItems buffers a playlist item sequence into one ordered slice.
func CollectPlaylistItems(seq iter.Seq2[PlaylistItem, error]) ([]PlaylistItem, error) {
	items, err := shared.Collect(seq)
	if err != nil {
		return nil, err
	}
	return items, nil
}
