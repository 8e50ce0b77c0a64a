// Package services implements the marketplace operations on top of a
// storage.Store. Handlers translate HTTP into these calls; nothing here knows
// about gin.
package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"artmarket-app/internal/domain/access"
	"artmarket-app/internal/events"
	"artmarket-app/internal/infra/blob"
	"artmarket-app/internal/infra/previews"
	"artmarket-app/internal/infra/stability"
	"artmarket-app/internal/infra/stripe"
	"artmarket-app/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotArtist          = errors.New("user is not an artist")
	ErrNotOwner           = errors.New("artwork belongs to another artist")
	ErrOwnArtwork         = errors.New("you cannot buy or rate your own work")
	ErrNotFixedPrice      = errors.New("auction artworks are sold through their auction")
	ErrNotPriced          = errors.New("artwork has no listed price")
	ErrNotAuctionMode     = errors.New("artwork is not listed for auction")
	ErrBadImage           = errors.New("image data could not be decoded")
	ErrNoPreview          = previews.ErrNoPreview
)

// ValidationError reports a single bad input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// Actor is the authenticated caller.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) require(c access.Capability) error {
	return access.Require(a.Role, c)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// check runs struct validation and reports the first failure as a
// ValidationError.
func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return err
	}
	fe := ves[0]
	return &ValidationError{Field: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte", "lte":
		return fmt.Sprintf("must be %s %s", map[string]string{"gte": ">=", "lte": "<="}[fe.Tag()], fe.Param())
	}
	return "is invalid"
}

// Generator is the text-to-image adapter.
type Generator interface {
	Generate(ctx context.Context, prompt, style string, width int) stability.Result
}

type Deps struct {
	Store     storage.Store
	Blobs     *blob.Store
	Previews  previews.Store
	AI        Generator
	Payments  stripe.Verifier
	Events    events.Publisher
	Log       logrus.FieldLogger
	JWTSecret string
	TokenTTL  time.Duration
	Now       func() time.Time
}

// Services bundles every operation the HTTP layer exposes.
type Services struct {
	Auth        *AuthService
	Accounts    *AccountService
	Catalog     *CatalogService
	Studio      *StudioService
	Auctions    *AuctionService
	Cart        *CartService
	Orders      *OrderService
	Commissions *CommissionService
	Admin       *AdminService
}

func New(d Deps) *Services {
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Payments == nil {
		d.Payments = stripe.MockVerifier{}
	}
	if d.Previews == nil {
		d.Previews = previews.NewMemory(previews.DefaultTTL)
	}
	media := &mediaStore{store: d.Store, blobs: d.Blobs}
	auctions := &AuctionService{store: d.Store, events: d.Events, log: d.Log.WithField("service", "auctions"), now: d.Now}
	return &Services{
		Auth:     NewAuthService(d.Store, d.JWTSecret, d.TokenTTL, d.Log),
		Accounts: &AccountService{store: d.Store, media: media, auctions: auctions, log: d.Log.WithField("service", "accounts")},
		Catalog:  &CatalogService{store: d.Store, media: media, auctions: auctions, log: d.Log.WithField("service", "catalog"), now: d.Now},
		Studio: &StudioService{
			store: d.Store, media: media, ai: d.AI, previews: d.Previews,
			log: d.Log.WithField("service", "studio"), now: d.Now,
		},
		Auctions:    auctions,
		Cart:        &CartService{store: d.Store, now: d.Now},
		Orders:      &OrderService{store: d.Store, verifier: d.Payments, events: d.Events, log: d.Log.WithField("service", "orders"), now: d.Now},
		Commissions: &CommissionService{store: d.Store, events: d.Events, log: d.Log.WithField("service", "commissions"), now: d.Now},
		Admin:       &AdminService{store: d.Store, auctions: auctions, now: d.Now},
	}
}
