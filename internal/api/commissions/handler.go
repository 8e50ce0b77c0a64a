package commissions

import (
	"net/http"

	"artmarket-app/internal/api/respond"
	"artmarket-app/internal/domain/commissions"
	"artmarket-app/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	commissions *services.CommissionService
}

func NewHandler(s *services.CommissionService) *Handler {
	return &Handler{commissions: s}
}

// GET /commissions/art-types
func (h *Handler) ArtTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"art_types": commissions.ArtTypes})
}

// POST /commissions
func (h *Handler) Create(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	var input services.CommissionInput
	if err := c.ShouldBind(&input); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	o, err := h.commissions.Create(c.Request.Context(), actor, input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// GET /commissions
func (h *Handler) Mine(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	list, err := h.commissions.Mine(c.Request.Context(), actor)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// GET /commissions/board
func (h *Handler) ArtistBoard(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	list, err := h.commissions.ArtistBoard(c.Request.Context(), actor)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// GET /commissions/:id
func (h *Handler) Detail(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	o, err := h.commissions.Detail(c.Request.Context(), actor, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// POST /commissions/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	var input services.StatusInput
	if err := c.ShouldBind(&input); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	o, err := h.commissions.UpdateStatus(c.Request.Context(), actor, id, input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
