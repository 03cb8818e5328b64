// Package server runs the short-lived local HTTP server that receives the Spotify authorization callback.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [BasicRouter] implements it on
// [http.ServeMux] method patterns; [Middleware] is applied in reverse order so the first one added is
// the outermost. [RequestLogger] logs every request through charmbracelet/log.
//
// # OAuth Callback Handler
//
// [OAuthHandler] serves the redirect URI path. It validates the state parameter, hands the code to an
// [ExchangeFunc] and publishes exactly one [OAuthResult]; later hits are rejected.
//
// # Callback Server
//
// [CallbackServer] binds the host:port named by the redirect URI before the browser is opened, so a
// port conflict fails fast instead of after the user has consented.
package server
