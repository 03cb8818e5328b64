package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FakePlaylist is a playlist served by [FakeSpotify]. Items are encoded as-is,
// so a nil entry becomes a JSON null track.
type FakePlaylist struct {
	Name  string
	Items []any
}

// FakeSpotify is an httptest server speaking the subset of the Spotify Web API tracksheet uses,
// plus the accounts token endpoint.
type FakeSpotify struct {
	Server *httptest.Server

	// PageSize is the number of playlist items per page.
	PageSize int
	// IgnoreLimit makes /me/tracks return every saved item regardless of ?limit.
	IgnoreLimit bool
	// Status, when set for a path, is returned instead of the normal response.
	Status map[string]int

	mu         sync.Mutex
	playlists  map[string]FakePlaylist
	saved      []any
	userID     string
	requests   []string
	grants     []string
	tokenCount int
}

// NewFakeSpotify starts a fake and registers its shutdown with t.
func NewFakeSpotify(t *testing.T) *FakeSpotify {
	t.Helper()

	f := &FakeSpotify{
		PageSize:  100,
		Status:    map[string]int{},
		playlists: map[string]FakePlaylist{},
		userID:    "fake-user",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/me", f.handleMe)
	mux.HandleFunc("GET /v1/me/tracks", f.handleSaved)
	mux.HandleFunc("GET /v1/playlists/{id}", f.handlePlaylist)
	mux.HandleFunc("GET /v1/playlists/{id}/tracks", f.handleItems)
	mux.HandleFunc("POST /api/token", f.handleToken)

	f.Server = httptest.NewServer(f.record(mux))
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL is the API root to hand to the client under test.
func (f *FakeSpotify) BaseURL() string { return f.Server.URL + "/v1" }

// TokenURL is the accounts token endpoint.
func (f *FakeSpotify) TokenURL() string { return f.Server.URL + "/api/token" }

// AuthURL is the accounts authorize endpoint. Nothing is served there.
func (f *FakeSpotify) AuthURL() string { return f.Server.URL + "/authorize" }

// AddPlaylist registers a playlist under id.
func (f *FakeSpotify) AddPlaylist(id string, p FakePlaylist) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playlists[id] = p
}

// SetSaved replaces the user's saved tracks, newest first.
func (f *FakeSpotify) SetSaved(items ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = items
}

// Requests returns the request paths (with query) seen so far.
func (f *FakeSpotify) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// Grants returns the grant_type of every token request.
func (f *FakeSpotify) Grants() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.grants...)
}

// Track builds a playlist or library track object.
func Track(name, url string, artists ...string) map[string]any {
	list := make([]map[string]any, 0, len(artists))
	for _, a := range artists {
		list = append(list, map[string]any{"name": a})
	}
	track := map[string]any{"name": name, "artists": list}
	if url != "" {
		track["external_urls"] = map[string]string{"spotify": url}
	}
	return track
}

// Item wraps a track (or nil) as a playlist or saved-track item.
func Item(track map[string]any, addedAt string) map[string]any {
	item := map[string]any{"added_at": addedAt, "track": nil}
	if track != nil {
		item["track"] = track
	}
	return item
}

func (f *FakeSpotify) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.URL.RequestURI())
		status, fail := f.Status[r.URL.Path]
		f.mu.Unlock()

		if fail {
			writeSpotifyError(w, status, http.StatusText(status))
			return
		}

		if strings.HasPrefix(r.URL.Path, "/v1/") && !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeSpotifyError(w, http.StatusUnauthorized, "No token provided")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeSpotify) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"id": f.userID, "display_name": "Fake User"})
}

func (f *FakeSpotify) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	p, ok := f.playlists[r.PathValue("id")]
	f.mu.Unlock()

	if !ok {
		writeSpotifyError(w, http.StatusNotFound, "Resource not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     r.PathValue("id"),
		"name":   p.Name,
		"tracks": map[string]int{"total": len(p.Items)},
	})
}

func (f *FakeSpotify) handleItems(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f.mu.Lock()
	p, ok := f.playlists[id]
	size := f.PageSize
	f.mu.Unlock()

	if !ok {
		writeSpotifyError(w, http.StatusNotFound, "Resource not found")
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		size = v
	}

	end := min(offset+size, len(p.Items))
	items := []any{}
	if offset < end {
		items = p.Items[offset:end]
	}

	var next any
	if end < len(p.Items) {
		next = fmt.Sprintf("%s/v1/playlists/%s/tracks?offset=%d&limit=%d", f.Server.URL, id, end, size)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"total":  len(p.Items),
		"limit":  size,
		"offset": offset,
		"next":   next,
	})
}

func (f *FakeSpotify) handleSaved(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	items := f.saved
	ignore := f.IgnoreLimit
	f.mu.Unlock()

	limit := 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = v
	}
	if limit < 1 || limit > 50 {
		writeSpotifyError(w, http.StatusBadRequest, "Invalid limit")
		return
	}
	if !ignore && len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []any{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"total":  len(f.saved),
		"limit":  limit,
		"offset": 0,
		"next":   nil,
	})
}

func (f *FakeSpotify) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.grants = append(f.grants, r.PostForm.Get("grant_type"))
	f.tokenCount++
	n := f.tokenCount
	f.mu.Unlock()

	if r.PostForm.Get("grant_type") == "authorization_code" && r.PostForm.Get("code") != "good-code" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant", "error_description": "Invalid authorization code"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  fmt.Sprintf("fake-access-%d", n),
		"token_type":    "Bearer",
		"refresh_token": "fake-refresh",
		"expires_in":    3600,
		"scope":         "playlist-read-private playlist-read-collaborative user-library-read",
	})
}

func writeSpotifyError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": map[string]any{"status": status, "message": msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
