package auth

import (
	"net/http"

	"artmarket-app/internal/api/respond"
	"artmarket-app/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	auth   *services.AuthService
	google *GoogleConfig
}

// NewHandler wires the auth endpoints. google may be nil when Google sign-in
// is not configured.
func NewHandler(auth *services.AuthService, google *GoogleConfig) *Handler {
	return &Handler{auth: auth, google: google}
}

// POST /register
func (h *Handler) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	res, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// POST /login
func (h *Handler) Login(c *gin.Context) {
	var input services.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	res, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /change-password
func (h *Handler) ChangePassword(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	var input services.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), actor, input); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
