package auth

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"events-app/config"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

var (
	providerOnce sync.Once
	provider     *oidc.Provider
	providerErr  error
)

// The organization's SSO is a standard OIDC issuer backed by the core
// service; the access token it hands out works against the core API.
func oidcProvider(c *gin.Context) (*oidc.Provider, error) {
	providerOnce.Do(func() {
		provider, providerErr = oidc.NewProvider(c.Request.Context(), config.OIDC_ISSUER)
	})
	return provider, providerErr
}

func oauthConfig(p *oidc.Provider) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.OIDC_CLIENT_ID,
		ClientSecret: config.OIDC_CLIENT_SECRET,
		RedirectURL:  config.OIDC_REDIRECT_URL,
		Scopes:       []string{oidc.ScopeOpenID, "profile"},
		Endpoint:     p.Endpoint(),
	}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/login
func Login(c *gin.Context) {
	p, err := oidcProvider(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "identity provider unavailable"})
		return
	}

	state, err := randomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	// state in an HttpOnly cookie
	c.SetCookie("oauth_state", state, 300, "/", "", false, true)
	c.Redirect(http.StatusFound, oauthConfig(p).AuthCodeURL(state))
}

// GET /auth/callback
func Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
		return
	}

	cookieState, err := c.Cookie("oauth_state")
	if err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}

	p, err := oidcProvider(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "identity provider unavailable"})
		return
	}

	tok, err := oauthConfig(p).Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to exchange code"})
		return
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing id_token"})
		return
	}

	verifier := p.Verifier(&oidc.Config{ClientID: config.OIDC_CLIENT_ID})
	idToken, err := verifier.Verify(c.Request.Context(), rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id_token"})
		return
	}

	// The session JWT carries the core access token; every request resolves
	// the full identity (bodies, board positions) through the core client.
	sessionToken, err := issueSessionJWT(idToken.Subject, tok.AccessToken, tok.Expiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": sessionToken})
}

func issueSessionJWT(subject, coreToken string, expiry time.Time) (string, error) {
	if expiry.IsZero() || expiry.After(time.Now().Add(7*24*time.Hour)) {
		expiry = time.Now().Add(7 * 24 * time.Hour)
	}
	claims := jwt.MapClaims{
		"sub":        subject,
		"core_token": coreToken,
		"exp":        expiry.Unix(),
		"iat":        time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWT_SECRET))
}
