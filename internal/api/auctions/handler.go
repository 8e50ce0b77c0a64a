package auctions

import (
	"net/http"

	"artmarket-app/internal/api/respond"
	"artmarket-app/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	auctions *services.AuctionService
}

func NewHandler(auctions *services.AuctionService) *Handler {
	return &Handler{auctions: auctions}
}

// GET /auctions
func (h *Handler) ListAuctions(c *gin.Context) {
	list, err := h.auctions.ListAuctions(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auctions": list})
}

// GET /auctions/winners
func (h *Handler) Winners(c *gin.Context) {
	list, err := h.auctions.Winners(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auctions": list})
}

// GET /auctions/:id
func (h *Handler) GetAuction(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	d, err := h.auctions.AuctionDetail(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /artists/:id/auctions
func (h *Handler) ArtistAuctions(c *gin.Context) {
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	list, err := h.auctions.ArtistAuctions(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auctions": list})
}

// POST /artworks/:id/auction
func (h *Handler) CreateAuction(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	var input services.CreateAuctionInput
	if err := c.ShouldBind(&input); err != nil {
		respond.BadRequest(c, err.Error())
		return
	}
	a, err := h.auctions.CreateAuction(c.Request.Context(), actor, id, input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

type bidRequest struct {
	BidAmount decimal.Decimal `json:"bid_amount" form:"bid_amount"`
}

// POST /auctions/:id/bid (field bid_amount)
func (h *Handler) PlaceBid(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	var input bidRequest
	if err := c.ShouldBind(&input); err != nil {
		respond.BadRequest(c, "bid_amount must be a number")
		return
	}
	a, bid, err := h.auctions.PlaceBid(c.Request.Context(), actor, id, input.BidAmount)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auction": a, "bid": bid})
}

// POST /auctions/:id/close
func (h *Handler) CloseAuction(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	res, err := h.auctions.CloseAuction(c.Request.Context(), actor, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
