package users

import (
	"net/http"

	"artmarket-app/internal/api/respond"
	"artmarket-app/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	accounts *services.AccountService
}

func NewHandler(accounts *services.AccountService) *Handler {
	return &Handler{accounts: accounts}
}

// GET /me
func (h *Handler) GetCurrentUser(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	p, err := h.accounts.Me(c.Request.Context(), actor.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PUT /me
func (h *Handler) UpdateProfile(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	var input services.ProfileInput
	if err := c.ShouldBind(&input); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	p, err := h.accounts.UpdateProfile(c.Request.Context(), actor, input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /me/profile-image (multipart field "image")
func (h *Handler) UploadProfileImage(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	up, ok := respond.Upload(c, "image")
	if !ok {
		return
	}
	if up == nil {
		respond.BadRequest(c, "image is required")
		return
	}
	p, err := h.accounts.SetProfileImage(c.Request.Context(), actor, *up)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /artists
func (h *Handler) ListArtists(c *gin.Context) {
	list, err := h.accounts.ListArtists(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"artists": list})
}

// GET /artists/:id
func (h *Handler) GetArtist(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	d, err := h.accounts.ArtistDetail(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /artists/:id/rate
func (h *Handler) RateArtist(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	var input services.RatingInput
	if err := c.ShouldBind(&input); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	r, err := h.accounts.RateArtist(c.Request.Context(), actor, id, input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// GET /dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	d, err := h.accounts.Dashboard(c.Request.Context(), actor)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
