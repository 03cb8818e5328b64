package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tracksheet/internal/server"
	"github.com/desertthunder/tracksheet/internal/services"
	"github.com/desertthunder/tracksheet/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Auth performs the OAuth2 authorization code flow for Spotify and caches the token.
//
// Starts a local HTTP server on the redirect URI, opens the browser for user consent, and exchanges the code.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Require(shared.EnvSpotifyClientID, shared.EnvSpotifyClientSecret, shared.EnvSpotifyRedirectURI); err != nil {
		return err
	}

	svc, err := r.newSpotifyService()
	if err != nil {
		return err
	}

	token, err := r.doOAuth(ctx, svc)
	if err != nil {
		return err
	}

	cachePath := r.config.Credentials.Spotify.CachePath
	if err := services.SaveToken(cachePath, token); err != nil {
		return err
	}

	if user, err := svc.CurrentUser(ctx); err != nil {
		r.logger.Warn("authorized, but could not read the user profile", "error", err)
	} else {
		r.logger.Info("authorized", "user", user.ID, "name", user.DisplayName)
	}

	r.writePlainln("%s", r.palette.Success("✓ Authorization successful"))
	r.writePlain("✓ Token saved to %s\n\n", cachePath)
	r.writePlain("You can now use: tracksheet playlist <url>\n")
	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, svc services.OAuthService) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	redirectURI := r.config.Credentials.Spotify.RedirectURI
	oauthHandler := server.NewOAuthHandler(svc.Exchange, state, server.CallbackPath(redirectURI))
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(oauthHandler)

	callback, err := server.NewCallbackServer(redirectURI, router, r.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	if err := callback.Start(); err != nil {
		return nil, err
	}
	r.logger.Infof("started OAuth callback server at %v", callback.Addr())

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := callback.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	authURL := svc.GetAuthURL(state)
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := r.openBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("%s", r.palette.Warn("⚠ Could not open browser automatically."))
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", r.authTimeout)

	timeout := time.NewTimer(r.authTimeout)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-oauthHandler.Result():
	case err := <-callback.Errors():
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, r.authTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Err != nil {
		if errors.Is(result.Err, shared.ErrAuthFailed) {
			return nil, result.Err
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Err)
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}
