package handler

import (
	"portfolio-api/internal/middleware"
	"portfolio-api/internal/response"
	"portfolio-api/internal/service"
	"portfolio-api/internal/session"
	"portfolio-api/internal/validation"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserHandler struct {
	svc      *service.UserService
	sessions *session.Manager
}

func NewUserHandler(svc *service.UserService, sessions *session.Manager) *UserHandler {
	return &UserHandler{svc: svc, sessions: sessions}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	g := rg.Group("/users")

	g.POST("/login", validation.Handle(loginRules...), h.login)
	g.POST("/logout", h.logout)
	g.GET("/me", requireAuth, h.me)
}

// login answers 201 only once the session is persisted and the cookie set.
func (h *UserHandler) login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}

	res, userID, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil || !res.IsSuccess() {
		respond(c, res, err)
		return
	}

	if _, err := h.sessions.Login(c.Request.Context(), c.Writer, c.Request, userID); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, res, nil)
}

func (h *UserHandler) logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), c.Writer, c.Request); err != nil {
		_ = c.Error(err)
		return
	}
	response.Write(c, response.FromResult(h.svc.Logout()))
}

func (h *UserHandler) me(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())
	res, err := h.svc.Me(c.Request.Context(), userID)
	respond(c, res, err)
}
