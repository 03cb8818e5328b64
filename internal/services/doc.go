// Package services defines the [Service] interface for streaming providers and implements it for Spotify.
//
// # Service Interface
//
// A [Service] exposes the three reads tracksheet performs: playlist metadata, every item of a
// playlist, and the user's most recently saved tracks. Playlist items are produced lazily as an
// [iter.Seq2]; [CollectPlaylistItems] buffers them when the caller needs the whole list.
//
// # Spotify Implementation
//
// [SpotifyService] talks to the Web API with a plain HTTP client wrapped by [oauth2]. Endpoint and
// scope constants come from the zmb3/spotify auth package. Pagination follows each page's next URL
// verbatim until it is null, and requests are paced by a [rate.Limiter]; nothing is retried.
//
// # OAuth Service Extension
//
// The [OAuthService] interface extends Service for the authorization code flow used by
// `tracksheet auth`. Tokens are cached on disk with [SaveToken] and restored with [LoadToken];
// a refresh callback lets the caller rewrite the cache whenever oauth2 renews the access token.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no token, or the cached token could not be refreshed
//   - [shared.ErrAuthFailed] : the authorization code exchange was rejected
//   - [shared.ErrAPIRequest] : transport failure or non-2xx response (status and API message included)
//   - [shared.ErrInvalidArgument] : saved-track limit outside 1..50
package services
