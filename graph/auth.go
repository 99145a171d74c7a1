package graph

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/microsoft"
)

// DefaultScope requests application permissions for the Graph API.
// Client-credentials tokens always use the .default scope; the effective
// permissions come from the app registration's admin consent.
const DefaultScope = "https://graph.microsoft.com/.default"

// ClientCredentials performs the OAuth2 client-credentials flow against
// the tenant's Azure AD endpoint and returns a TokenSource carrying the
// acquired token. The token is fetched eagerly, so bad credentials fail
// here rather than on the first API call. The token is cached for the
// process lifetime and is not refreshed when it expires.
//
// tokenURL overrides the Azure AD token endpoint; tests point it at a
// local server. Empty selects the production endpoint for tenantID.
func ClientCredentials(
	ctx context.Context, tenantID, clientID, clientSecret, tokenURL string, logger *slog.Logger,
) (TokenSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if tokenURL == "" {
		tokenURL = microsoft.AzureADEndpoint(tenantID).TokenURL
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{DefaultScope},
	}

	logger.Debug("acquiring client-credentials token",
		slog.String("tenant_id", tenantID),
		slog.String("client_id", clientID),
	)

	tok, err := cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("graph: acquiring client-credentials token: %w", err)
	}

	logger.Debug("token acquired", slog.Time("expiry", tok.Expiry))

	return StaticToken(tok.AccessToken), nil
}

// StaticToken is a TokenSource returning a fixed bearer token.
type StaticToken string

func (s StaticToken) Token() (string, error) {
	return string(s), nil
}

// OAuth2TokenSource adapts an oauth2.TokenSource, with whatever refresh
// behavior it carries, to the graph TokenSource interface. Callers who
// need tokens to outlive their initial expiry can build a refreshing
// source from clientcredentials.Config.TokenSource and wrap it here.
func OAuth2TokenSource(src oauth2.TokenSource, logger *slog.Logger) TokenSource {
	if logger == nil {
		logger = slog.Default()
	}

	return &tokenBridge{src: src, logger: logger}
}

// tokenBridge adapts oauth2.TokenSource to graph.TokenSource.
// Logs every token acquisition so refresh activity is visible.
type tokenBridge struct {
	src    oauth2.TokenSource
	logger *slog.Logger
}

func (b *tokenBridge) Token() (string, error) {
	t, err := b.src.Token()
	if err != nil {
		b.logger.Warn("token acquisition failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("graph: obtaining token: %w", err)
	}

	b.logger.Debug("token acquired",
		slog.Time("expiry", t.Expiry),
		slog.Bool("valid", t.Valid()),
	)

	return t.AccessToken, nil
}
