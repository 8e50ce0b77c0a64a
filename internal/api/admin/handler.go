package admin

import (
	"net/http"
	"time"

	"artmarket-app/internal/api/respond"
	"artmarket-app/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	admin *services.AdminService
}

func NewHandler(admin *services.AdminService) *Handler {
	return &Handler{admin: admin}
}

type AdminUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	Provider  string    `json:"auth_provider"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /admin/dashboard
func (h *Handler) AdminDashboard(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	st, err := h.admin.Stats(c.Request.Context(), actor)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// GET /admin/users?role=
func (h *Handler) ListAllUsers(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	list, err := h.admin.Users(c.Request.Context(), actor, c.Query("role"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	out := make([]AdminUser, 0, len(list))
	for _, u := range list {
		out = append(out, AdminUser{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Role:      u.Role,
			Provider:  u.AuthProvider,
			CreatedAt: u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// GET /admin/payments
func (h *Handler) ListAllPayments(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	list, err := h.admin.Payments(c.Request.Context(), actor)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list})
}

// POST /admin/auctions/sweep
func (h *Handler) SweepAuctions(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	n, err := h.admin.Sweep(c.Request.Context(), actor)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": n})
}
