package middleware

import (
	"net/http"
	"strings"

	"resumehub/internal/config"
	"resumehub/internal/modules/session"
	"resumehub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const refreshCookieName = "refresh_token"

// SessionGate authenticates each request by its access credential and, when
// the credential has expired and a refresh cookie is present, transparently
// rotates the session. A rotated pair is handed back via the
// X-New-Access-Token header and a fresh refresh cookie.
func SessionGate(sessions *session.Service, cfg *config.SessionRuntimeConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		head := c.GetHeader("Authorization")
		if head == "" || !strings.HasPrefix(head, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "NO_TOKEN", "message": "Missing bearer access token"},
			})
			return
		}
		accessCred := strings.TrimSpace(strings.TrimPrefix(head, "Bearer "))

		refreshCred := ""
		if v, err := c.Cookie(refreshCookieName); err == nil {
			refreshCred = strings.TrimSpace(v)
		}

		res, err := sessions.CheckAndMaybeRefresh(c.Request.Context(), accessCred, refreshCred)
		if err != nil {
			response.Error(c, session.HTTPStatus(err), session.Code(err), "Not authorized")
			c.Abort()
			return
		}

		if res.Rotated != nil {
			c.Header("X-New-Access-Token", res.Rotated.AccessToken)
			c.SetSameSite(parseSameSite(cfg.CookieSameSite))
			c.SetCookie(refreshCookieName, res.Rotated.RefreshToken,
				int(cfg.RefreshTTL.Seconds()), cfg.CookiePath, "", cfg.CookieSecure, true)
		}

		c.Set("user_id", res.Identity.UserID)
		c.Set("email", res.Identity.Email)

		c.Next()
	}
}

func parseSameSite(mode string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
