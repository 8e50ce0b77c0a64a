package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"

	"artmarket-app/internal/api/respond"
	"artmarket-app/internal/services"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleIssuer = "https://accounts.google.com"
	stateCookie  = "oauth_state"
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// FrontendRedirect receives ?token=...; empty means answer with JSON.
	FrontendRedirect string
	SecureCookie     bool
}

func (g *GoogleConfig) oauth() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		RedirectURL:  g.RedirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (h *Handler) googleEnabled(c *gin.Context) bool {
	if h.google == nil || h.google.ClientID == "" {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not enabled", "code": "not_found"})
		return false
	}
	return true
}

// GET /auth/google
func (h *Handler) GoogleStart(c *gin.Context) {
	if !h.googleEnabled(c) {
		return
	}
	state, err := randomState()
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 300, "/", "", h.google.SecureCookie, true)
	c.Redirect(http.StatusFound, h.google.oauth().AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// GET /auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	if !h.googleEnabled(c) {
		return
	}
	state, code := c.Query("state"), c.Query("code")
	if code == "" || state == "" {
		respond.BadRequest(c, "missing code/state")
		return
	}
	if cookieState, err := c.Cookie(stateCookie); err != nil || cookieState != state {
		respond.BadRequest(c, "invalid oauth state")
		return
	}

	ctx := c.Request.Context()
	tok, err := h.google.oauth().Exchange(ctx, code)
	if err != nil {
		respond.Error(c, services.ErrInvalidToken)
		return
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		respond.Error(c, services.ErrInvalidToken)
		return
	}
	id, err := h.verifyIDToken(c, rawIDToken)
	if err != nil {
		respond.Error(c, err)
		return
	}

	res, err := h.auth.GoogleLogin(ctx, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if h.google.FrontendRedirect == "" {
		c.JSON(http.StatusOK, res)
		return
	}
	c.Redirect(http.StatusFound, h.google.FrontendRedirect+"?token="+url.QueryEscape(res.Token))
}

type googleIDClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *Handler) verifyIDToken(c *gin.Context, raw string) (services.GoogleIdentity, error) {
	ctx := c.Request.Context()
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return services.GoogleIdentity{}, errors.New("failed to init google oidc provider")
	}
	idToken, err := provider.Verifier(&oidc.Config{ClientID: h.google.ClientID}).Verify(ctx, raw)
	if err != nil {
		return services.GoogleIdentity{}, services.ErrInvalidToken
	}
	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil || claims.Sub == "" {
		return services.GoogleIdentity{}, services.ErrInvalidToken
	}
	return services.GoogleIdentity{Sub: claims.Sub, Email: claims.Email, Name: claims.Name}, nil
}
