package httpserver

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"farmstore/internal/domain"
	authsvc "farmstore/internal/service/auth"
	"farmstore/internal/session"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string          `json:"accessToken"`
	TokenType   string          `json:"tokenType"`
	ExpiresIn   int             `json:"expiresIn"`
	Session     session.Session `json:"session"`
	Profile     *domain.Profile `json:"profile"`
}

func (h *handlers) tokenResponse(p *domain.Profile, token string) tokenResponse {
	return tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   h.deps.AuthSvc.AccessTTLSeconds(),
		Session:     session.Authenticated(session.IdentityFrom(*p)),
		Profile:     p,
	}
}

func (h *handlers) signup(c *gin.Context) {
	var req authsvc.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p, token, err := h.deps.AuthSvc.Signup(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "signup", err)
		return
	}
	c.JSON(http.StatusCreated, h.tokenResponse(p, token))
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password required")
		return
	}
	p, token, err := h.deps.AuthSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, h.tokenResponse(p, token))
}

func (h *handlers) logout(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token != "" {
		if err := h.deps.AuthSvc.Logout(c.Request.Context(), token); err != nil {
			h.writeError(c, "logout", err)
			return
		}
	}
	c.JSON(http.StatusOK, session.Anonymous())
}

func (h *handlers) currentSession(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c))
}

// createAdmin bootstraps an administrator. It is guarded by the service key
// rather than a session so the first administrator can be created.
func (h *handlers) createAdmin(c *gin.Context) {
	key := h.deps.AdminServiceKey
	if key == "" {
		c.JSON(http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	given := bearerToken(c.GetHeader("Authorization"))
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(given)), []byte(key)) != 1 {
		c.JSON(http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}
	var req authsvc.AdminInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p, err := h.deps.AuthSvc.CreateAdmin(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "create admin", err)
		return
	}
	h.logger.Printf("admin created id=%s", p.ID)
	c.JSON(http.StatusCreated, p)
}
