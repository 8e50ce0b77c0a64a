package studio

import (
	"net/http"

	"artmarket-app/internal/api/respond"
	worksapi "artmarket-app/internal/api/works"
	"artmarket-app/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	studio *services.StudioService
}

func NewHandler(studio *services.StudioService) *Handler {
	return &Handler{studio: studio}
}

// GET /studio/styles
func (h *Handler) Styles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"styles": h.studio.Styles()})
}

// POST /studio/generate
//
// Generation failures are reported as 200 {success:false, error} so the
// studio page can show the message next to the prompt.
func (h *Handler) Generate(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	var input services.GenerateInput
	if err := c.ShouldBind(&input); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	gen, err := h.studio.Generate(c.Request.Context(), actor, input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gen)
}

// POST /studio/save
func (h *Handler) SaveConcept(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	var input services.ConceptInput
	if err := c.ShouldBind(&input); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	art, err := h.studio.SaveConcept(c.Request.Context(), actor, input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "artwork": worksapi.ToArtworkDTO(art)})
}
