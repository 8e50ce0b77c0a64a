package works

import (
	"time"

	"artmarket-app/internal/domain/works"
	"artmarket-app/internal/services"

	"github.com/shopspring/decimal"
)

type ArtworkDTO struct {
	ID          uint   `json:"id"`
	ArtistID    uint   `json:"artist_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`

	SaleMode      string           `json:"sale_mode"`
	StartingPrice *decimal.Decimal `json:"starting_price,omitempty"`
	FixedPrice    *decimal.Decimal `json:"fixed_price,omitempty"`
	Sold          bool             `json:"is_sold"`

	IsAIGenerated bool   `json:"is_ai_generated"`
	Prompt        string `json:"prompt,omitempty"`
	SourceModel   string `json:"source_model,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type ArtworkDetailDTO struct {
	Artwork ArtworkDTO            `json:"artwork"`
	Auction *services.AuctionView `json:"auction,omitempty"`
}

func ToArtworkDTO(a works.Artwork) ArtworkDTO {
	dto := ArtworkDTO{
		ID:            a.ID,
		ArtistID:      a.ArtistID,
		Title:         a.Title,
		Description:   a.Description,
		SaleMode:      a.SaleMode,
		StartingPrice: a.StartingPrice,
		FixedPrice:    a.FixedPrice,
		Sold:          a.Sold,
		IsAIGenerated: a.IsAIGenerated,
		Prompt:        a.Prompt,
		SourceModel:   a.SourceModel,
		CreatedAt:     a.CreatedAt,
	}
	if a.Image != nil {
		dto.ImageURL = a.Image.URL()
	}
	return dto
}

func ToArtworkDTOs(list []works.Artwork) []ArtworkDTO {
	out := make([]ArtworkDTO, 0, len(list))
	for _, a := range list {
		out = append(out, ToArtworkDTO(a))
	}
	return out
}
