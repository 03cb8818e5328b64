package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// ExchangeFunc trades an authorization code for a token.
type ExchangeFunc func(ctx context.Context, code string) (*oauth2.Token, error)

// OAuthResult contains the result of an OAuth authorization flow.
type OAuthResult struct {
	Token *oauth2.Token
	Err   error
}

// OAuthHandler handles the authorization code callback.
type OAuthHandler struct {
	exchange ExchangeFunc
	state    string
	path     string
	results  chan OAuthResult
	once     sync.Once
	mu       sync.Mutex
	hit      bool
}

// NewOAuthHandler creates a handler serving path. state must be unguessable.
func NewOAuthHandler(exchange ExchangeFunc, state, path string) *OAuthHandler {
	return &OAuthHandler{
		exchange: exchange,
		state:    state,
		path:     path,
		results:  make(chan OAuthResult, 1),
	}
}

// Routes returns the callback path.
func (h *OAuthHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP validates state, exchanges the code and publishes the result. Only the first request is processed.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	h.mu.Unlock()

	q := r.URL.Query()
	if q.Get("state") != h.state {
		h.Send(OAuthResult{Err: fmt.Errorf("invalid state parameter")})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := q.Get("code")
	if code == "" {
		h.Send(OAuthResult{Err: fmt.Errorf("authorization denied: %s", q.Get("error"))})
		renderPage(w, http.StatusBadRequest, "Authorization failed", "Spotify did not grant access. You can close this window.")
		return
	}

	token, err := h.exchange(r.Context(), code)
	if err != nil {
		h.Send(OAuthResult{Err: err})
		renderPage(w, http.StatusInternalServerError, "Token exchange failed", "Check the terminal for details.")
		return
	}

	h.Send(OAuthResult{Token: token})
	renderPage(w, http.StatusOK, "✓ Authorization Successful", "You can close this window and return to the terminal.")
}

// Send publishes result once; later calls are ignored.
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

// Result receives exactly one result and is then closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.results
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>tracksheet</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = page.Execute(w, struct{ Title, Message string }{title, message})
}
