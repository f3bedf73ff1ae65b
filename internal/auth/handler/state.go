package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"portfolio-api/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	stateCookieName = "__oauth_state"
	stateTTL        = 5 * time.Minute
)

func (h *Handler) generateState(c *gin.Context) (string, error) {
	state, err := utils.RandomString(32)
	if err != nil {
		return "", err
	}
	h.setFlowCookie(c, stateCookieName, state, stateTTL)
	return state, nil
}

func validateState(c *gin.Context) bool {
	stateQuery := c.Query("state")
	if stateQuery == "" {
		return false
	}

	cookie, err := c.Request.Cookie(stateCookieName)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(stateQuery)) == 1
}

func (h *Handler) setFlowCookie(c *gin.Context, name, value string, ttl time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/oauth",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

// clearFlowCookies drops state and verifier once a callback has used them.
func (h *Handler) clearFlowCookies(c *gin.Context) {
	for _, name := range []string{stateCookieName, pkceCookieName} {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/oauth",
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}
