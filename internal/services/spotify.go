// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/desertthunder/tracksheet/internal/shared"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"

	// MaxSavedTracks is the largest page /me/tracks accepts.
	MaxSavedTracks = 50

	// DefaultSavedTracks is used when no count is given.
	DefaultSavedTracks = 20

	defaultRequestsPerSecond = 10
)

// Scopes requested during authorization.
var Scopes = []string{
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
	spotifyauth.ScopeUserLibraryRead,
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Artists      []SpotifyArtist   `json:"artists"`
	ExternalURLs map[string]string `json:"external_urls"`
	URI          string            `json:"uri"`
}

// URL returns the open.spotify.com link for the track, if any.
func (t SpotifyTrack) URL() string {
	return t.ExternalURLs["spotify"]
}

// PlaylistItem is one entry of a playlist. Track is nil for removed or unavailable items.
type PlaylistItem struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SavedTrack represents a track saved in the user's library.
type SavedTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

type playlistTracks struct {
	Total int `json:"total"`
}

// SpotifyPlaylist represents playlist metadata.
type SpotifyPlaylist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Tracks playlistTracks `json:"tracks"`
}

// SpotifyPage is one page of a paginated Spotify response.
type SpotifyPage[T any] struct {
	Items  []T     `json:"items"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Next   *string `json:"next"`
}

type spotifyError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyOption customizes a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithBaseURL points API requests somewhere other than api.spotify.com.
func WithBaseURL(u string) SpotifyOption {
	return func(s *SpotifyService) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the transport used for API calls and token exchange/refresh.
func WithHTTPClient(c *http.Client) SpotifyOption {
	return func(s *SpotifyService) { s.base = c }
}

// WithRateLimit paces API requests to r per second with the given burst.
func WithRateLimit(r rate.Limit, burst int) SpotifyOption {
	return func(s *SpotifyService) { s.limiter = rate.NewLimiter(r, burst) }
}

// WithTokenEndpoint overrides the accounts service endpoints.
func WithTokenEndpoint(authURL, tokenURL string) SpotifyOption {
	return func(s *SpotifyService) {
		s.config.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
	}
}

// WithTokenRefreshCallback registers fn to run whenever the access token is refreshed.
func WithTokenRefreshCallback(fn func(*oauth2.Token)) SpotifyOption {
	return func(s *SpotifyService) { s.onRefresh = fn }
}

var _ OAuthService = (*SpotifyService)(nil)

// SpotifyService implements the [OAuthService] interface for Spotify API interactions.
// Uses [oauth2] for authentication; expired access tokens are refreshed transparently.
type SpotifyService struct {
	config     *oauth2.Config
	baseURL    string
	base       *http.Client
	httpClient *http.Client
	source     oauth2.TokenSource
	limiter    *rate.Limiter
	onRefresh  func(*oauth2.Token)
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string, opts ...SpotifyOption) (*SpotifyService, error) {
	for _, key := range []string{"client_id", "client_secret", "redirect_uri"} {
		if v, ok := credentials[key]; !ok || v == "" {
			return nil, fmt.Errorf("%w: missing %s in credentials", shared.ErrInvalidConfig, key)
		}
	}

	s := &SpotifyService{
		config: &oauth2.Config{
			ClientID:     credentials["client_id"],
			ClientSecret: credentials["client_secret"],
			RedirectURL:  credentials["redirect_uri"],
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyauth.AuthURL,
				TokenURL: spotifyauth.TokenURL,
			},
		},
		baseURL: spotifyBaseURL,
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// GetOAuthConfig returns the OAuth2 client configuration.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// Exchange trades an authorization code for a token and starts using it.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(s.oauthContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
	}
	s.SetToken(ctx, token)
	return token, nil
}

// SetToken authorizes subsequent requests with token.
func (s *SpotifyService) SetToken(ctx context.Context, token *oauth2.Token) {
	ctx = s.oauthContext(ctx)
	src := &notifyingSource{
		src:  s.config.TokenSource(ctx, token),
		last: token.AccessToken,
		fn:   s.onRefresh,
	}
	s.source = oauth2.ReuseTokenSource(token, src)
	s.httpClient = oauth2.NewClient(ctx, s.source)
}

// Token returns the token currently in use, refreshing it first when it has expired.
func (s *SpotifyService) Token() (*oauth2.Token, error) {
	if s.source == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return s.source.Token()
}

// oauthContext detaches ctx from cancellation so the refreshing client outlives a single call,
// and injects the base HTTP client for token requests.
func (s *SpotifyService) oauthContext(ctx context.Context) context.Context {
	ctx = context.WithoutCancel(ctx)
	if s.base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.base)
	}
	return ctx
}

// doRequest performs an authenticated GET against the Spotify API.
//
// endpoint is either a path relative to the base URL or an absolute URL, as returned in a page's next field.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.httpClient == nil {
		return fmt.Errorf("%w: call SetToken first", shared.ErrNotAuthenticated)
	}

	apiURL := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		apiURL = s.baseURL + endpoint
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(body))

		var apiErr spotifyError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return fmt.Errorf("%w: spotify API error: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// CurrentUser retrieves the authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Playlist retrieves playlist metadata by ID.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (*SpotifyPlaylist, error) {
	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/playlists/%s?fields=id,name,tracks.total", url.PathEscape(playlistID))
	if err := s.doRequest(ctx, endpoint, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// PlaylistItems requests pages at the API's default size and follows next until it is empty.
func (s *SpotifyService) PlaylistItems(ctx context.Context, playlistID string) iter.Seq2[PlaylistItem, error] {
	return func(yield func(PlaylistItem, error) bool) {
		next := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
		for next != "" {
			var page SpotifyPage[PlaylistItem]
			if err := s.doRequest(ctx, next, &page); err != nil {
				yield(PlaylistItem{}, err)
				return
			}

			for _, item := range page.Items {
				if !yield(item, nil) {
					return
				}
			}

			next = ""
			if page.Next != nil {
				next = *page.Next
			}
		}
	}
}

// SavedTracks issues exactly one request for the user's most recently saved tracks.
//
// limit must be within 1..[MaxSavedTracks]. The response is clamped to limit.
func (s *SpotifyService) SavedTracks(ctx context.Context, limit int) ([]SavedTrack, error) {
	if limit < 1 || limit > MaxSavedTracks {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d, got %d", shared.ErrInvalidArgument, MaxSavedTracks, limit)
	}

	var page SpotifyPage[SavedTrack]
	if err := s.doRequest(ctx, fmt.Sprintf("/me/tracks?limit=%d", limit), &page); err != nil {
		return nil, err
	}

	items := page.Items
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// notifyingSource reports refreshed tokens to fn.
type notifyingSource struct {
	mu   sync.Mutex
	src  oauth2.TokenSource
	last string
	fn   func(*oauth2.Token)
}

func (n *notifyingSource) Token() (*oauth2.Token, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	token, err := n.src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: token refresh failed: %v", shared.ErrNotAuthenticated, err)
	}

	if token.AccessToken != n.last {
		n.last = token.AccessToken
		if n.fn != nil {
			n.fn(token)
		}
	}
	return token, nil
}
