package services

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"artmarket-app/internal/domain/access"
	"artmarket-app/internal/domain/media"
	"artmarket-app/internal/domain/works"
	"artmarket-app/internal/infra/previews"
	"artmarket-app/internal/infra/stability"
	"artmarket-app/internal/metrics"
	"artmarket-app/internal/storage"

	"github.com/sirupsen/logrus"
)

type StudioService struct {
	store    storage.Store
	media    *mediaStore
	ai       Generator
	previews previews.Store
	log      logrus.FieldLogger
	now      func() time.Time
}

type GenerateInput struct {
	Prompt string `json:"prompt" validate:"required,max=1000"`
	Style  string `json:"style"`
	Width  int    `json:"width"`
}

// Generation mirrors the adapter result; ImageURL is a data URL the browser
// can render directly.
type Generation struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"image_url,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Style    string `json:"style,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Styles lists the accepted style keywords.
func (s *StudioService) Styles() []string {
	return stability.Styles()
}

// Generate runs a text-to-image request. Remote failures come back as an
// unsuccessful Generation, not an error.
func (s *StudioService) Generate(ctx context.Context, actor Actor, in GenerateInput) (Generation, error) {
	if err := actor.require(access.CapGenerateAI); err != nil {
		return Generation{}, err
	}
	in.Prompt = strings.TrimSpace(in.Prompt)
	if err := check(in); err != nil {
		return Generation{}, err
	}

	started := s.now()
	var res stability.Result
	if s.ai == nil {
		res = stability.Result{Error: "API key not configured. Set STABILITY_API_KEY."}
	} else {
		res = s.ai.Generate(ctx, in.Prompt, in.Style, in.Width)
	}
	metrics.RecordGeneration(res.Success, s.now().Sub(started))

	log := s.log.WithFields(logrus.Fields{"user_id": actor.ID, "style": res.Style})
	if !res.Success {
		log.WithField("reason", res.Error).Warn("image generation failed")
		return Generation{Success: false, Prompt: in.Prompt, Style: in.Style, Error: res.Error}, nil
	}

	err := s.previews.Put(ctx, actor.ID, previews.Preview{
		Prompt:      in.Prompt,
		Style:       res.Style,
		ImageBase64: res.ImageBase64,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return Generation{}, err
	}
	log.Info("image generated")
	return Generation{
		Success:  true,
		ImageURL: "data:image/png;base64," + res.ImageBase64,
		Prompt:   in.Prompt,
		Style:    res.Style,
	}, nil
}

type ConceptInput struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"max=5000"`
}

// SaveConcept turns the caller's pending preview into an unpriced AI artwork.
func (s *StudioService) SaveConcept(ctx context.Context, actor Actor, in ConceptInput) (works.Artwork, error) {
	if err := actor.require(access.CapGenerateAI); err != nil {
		return works.Artwork{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := check(in); err != nil {
		return works.Artwork{}, err
	}
	p, err := s.previews.Get(ctx, actor.ID)
	if err != nil {
		return works.Artwork{}, err
	}
	data, err := base64.StdEncoding.DecodeString(p.ImageBase64)
	if err != nil || len(data) == 0 {
		return works.Artwork{}, ErrBadImage
	}
	img, err := s.media.save(ctx, media.KindAI, Upload{Data: data, Filename: "concept.png"})
	if err != nil {
		return works.Artwork{}, err
	}

	art, err := s.store.CreateArtwork(ctx, works.Artwork{
		ArtistID:      actor.ID,
		Title:         in.Title,
		Description:   strings.TrimSpace(in.Description),
		ImageID:       &img.ID,
		Image:         &img,
		SaleMode:      works.SaleFixed,
		IsAIGenerated: true,
		Prompt:        p.Prompt,
		SourceModel:   works.DefaultAISourceModel,
	})
	if err != nil {
		return works.Artwork{}, err
	}
	if err := s.previews.Delete(ctx, actor.ID); err != nil {
		s.log.WithError(err).WithField("user_id", actor.ID).Warn("preview not cleared")
	}
	s.log.WithFields(logrus.Fields{"artwork_id": art.ID, "artist_id": actor.ID}).Info("concept art saved")
	return art, nil
}
