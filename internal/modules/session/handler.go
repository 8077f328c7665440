package session

import (
	"net/http"
	"strings"
	"time"

	"resumehub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const refreshCookieName = "refresh_token"

// Handler exposes the explicit session endpoints: client-invoked rotation
// and logout. The transparent-refresh path lives in the gate middleware.
type Handler struct {
	service        *Service
	cookieSecure   bool
	cookieSameSite string
	cookiePath     string
	refreshTTL     time.Duration
}

func NewHandler(service *Service, cookieSecure bool, cookieSameSite, cookiePath string, refreshTTL time.Duration) *Handler {
	return &Handler{
		service:        service,
		cookieSecure:   cookieSecure,
		cookieSameSite: cookieSameSite,
		cookiePath:     cookiePath,
		refreshTTL:     refreshTTL,
	}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", h.Logout)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	userGroup := protected.Group("/users")
	{
		userGroup.GET("/me", h.GetMe)
	}
}

// Refresh exchanges the refresh credential (cookie, or JSON body for
// non-browser clients) for a brand-new pair. The old refresh credential is
// revoked: it is single-use.
func (h *Handler) Refresh(c *gin.Context) {
	refreshCred := h.refreshCredential(c)
	if refreshCred == "" {
		response.Error(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Refresh token is missing")
		return
	}

	pair, err := h.service.Rotate(c.Request.Context(), refreshCred)
	if err != nil {
		response.Error(c, HTTPStatus(err), Code(err), "Failed to refresh session")
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{"tokens": pair})
}

// Logout revokes the supplied access and refresh credentials. Reported
// successful only if every revoke durably committed.
func (h *Handler) Logout(c *gin.Context) {
	accessCred := bearerToken(c)
	refreshCred := h.refreshCredential(c)

	if err := h.service.Logout(c.Request.Context(), accessCred, refreshCred); err != nil {
		response.Error(c, HTTPStatus(err), Code(err), "Failed to logout")
		return
	}

	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetMe(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":    c.GetString("user_id"),
			"email": c.GetString("email"),
		},
	})
}

func (h *Handler) refreshCredential(c *gin.Context) string {
	if v, err := c.Cookie(refreshCookieName); err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		return strings.TrimSpace(req.RefreshToken)
	}
	return ""
}

func (h *Handler) setRefreshCookie(c *gin.Context, value string) {
	c.SetSameSite(parseSameSite(h.cookieSameSite))
	c.SetCookie(refreshCookieName, value, int(h.refreshTTL.Seconds()), h.cookiePath, "", h.cookieSecure, true)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(parseSameSite(h.cookieSameSite))
	c.SetCookie(refreshCookieName, "", -1, h.cookiePath, "", h.cookieSecure, true)
}

func bearerToken(c *gin.Context) string {
	head := c.GetHeader("Authorization")
	if !strings.HasPrefix(head, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(head, "Bearer "))
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
