// Package handler serves the optional OAuth sign-in flow. A successful
// callback ends in the same session a password login creates.
package handler

import (
	"errors"
	"net/http"

	"portfolio-api/internal/auth/provider"
	"portfolio-api/internal/auth/resolver"
	"portfolio-api/internal/logger"
	"portfolio-api/internal/response"
	"portfolio-api/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	msgUnknownProvider = "unknown oauth provider"
	msgInvalidState    = "invalid oauth state"
	msgMissingCode     = "missing authorization code"
	msgMissingVerifier = "missing pkce verifier"
	msgAuthFailed      = "authentication failed"
	msgNoAccount       = "no account for this identity"
	msgSignedIn        = "User logged in successfully"
)

type Handler struct {
	providers *provider.Registry
	sessions  *session.Manager
	resolver  resolver.Resolver
	secure    bool
}

// NewHandler wires the flow. secure marks the short-lived flow cookies
// Secure and should follow the session cookie setting.
func NewHandler(
	registry *provider.Registry,
	sessions *session.Manager,
	resolver resolver.Resolver,
	secure bool,
) *Handler {
	return &Handler{
		providers: registry,
		sessions:  sessions,
		resolver:  resolver,
		secure:    secure,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/oauth")
	g.GET("/login/:provider", h.login)
	g.GET("/callback/:provider", h.callback)
}

func (h *Handler) provider(c *gin.Context) (provider.OAuthProvider, bool) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		response.Write(c, response.BadRequest(nil, response.WithMessage(msgUnknownProvider)))
		return nil, false
	}
	return p, true
}

func (h *Handler) login(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}

	state, err := h.generateState(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	challenge, err := h.generatePKCE(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, challenge))
}

func (h *Handler) callback(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}

	if !validateState(c) {
		unauthorized(c, msgInvalidState)
		return
	}
	h.clearFlowCookies(c)

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oidc callback returned error", map[string]any{
			"provider": p.Name(),
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		unauthorized(c, msgAuthFailed)
		return
	}

	code := c.Query("code")
	if code == "" {
		response.Write(c, response.BadRequest(nil, response.WithMessage(msgMissingCode)))
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		unauthorized(c, msgMissingVerifier)
		return
	}

	identity, err := p.ExchangeCode(c.Request.Context(), code, codeVerifier)
	if err != nil {
		logger.Warn("oauth code exchange failed", map[string]any{
			"provider": p.Name(),
			"error":    err.Error(),
		})
		unauthorized(c, msgAuthFailed)
		return
	}

	userID, err := h.resolver.Resolve(c.Request.Context(), identity)
	if errors.Is(err, resolver.ErrUnknownUser) {
		logger.Info("oauth identity has no account", map[string]any{
			"provider": p.Name(),
		})
		unauthorized(c, msgNoAccount)
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	if _, err := h.sessions.Login(c.Request.Context(), c.Writer, c.Request, userID); err != nil {
		_ = c.Error(err)
		return
	}

	logger.Info("oauth login succeeded", map[string]any{
		"provider": p.Name(),
		"user_id":  userID,
	})

	response.Write(c, response.Success(nil, response.WithMessage(msgSignedIn)))
}

func unauthorized(c *gin.Context, msg string) {
	response.Write(c, response.Unauthorized(nil, response.WithMessage(msg)))
}
