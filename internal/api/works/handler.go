package works

import (
	"net/http"
	"strconv"

	"artmarket-app/internal/api/respond"
	"artmarket-app/internal/services"
	"artmarket-app/internal/storage"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog *services.CatalogService
}

func NewHandler(catalog *services.CatalogService) *Handler {
	return &Handler{catalog: catalog}
}

// GET /  (five newest artworks)
func (h *Handler) Home(c *gin.Context) {
	list, err := h.catalog.Home(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"artworks": ToArtworkDTOs(list)})
}

// GET /artworks?artist=&sale_mode=&available=
func (h *Handler) ListArtworks(c *gin.Context) {
	var f storage.ArtworkFilter
	if v := c.Query("artist"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			respond.BadRequest(c, "invalid artist")
			return
		}
		f.ArtistID = uint(id)
	}
	f.SaleMode = c.Query("sale_mode")
	f.AvailableOnly, _ = strconv.ParseBool(c.Query("available"))

	list, err := h.catalog.ListArtworks(c.Request.Context(), f)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"artworks": ToArtworkDTOs(list)})
}

// GET /artworks/:id
func (h *Handler) GetArtworkByID(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	d, err := h.catalog.ArtworkDetail(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ArtworkDetailDTO{Artwork: ToArtworkDTO(d.Artwork), Auction: d.Auction})
}

// GET /my-artworks
func (h *Handler) MyArtworks(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	list, err := h.catalog.MyArtworks(c.Request.Context(), actor)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"artworks": ToArtworkDTOs(list)})
}

// POST /artworks (JSON, or multipart with an "image" file)
func (h *Handler) CreateArtwork(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	var input services.ArtworkInput
	if err := c.ShouldBind(&input); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	img, ok := respond.Upload(c, "image")
	if !ok {
		return
	}
	created, err := h.catalog.CreateArtwork(c.Request.Context(), actor, input, img)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, ArtworkDetailDTO{Artwork: ToArtworkDTO(created.Artwork), Auction: created.Auction})
}
