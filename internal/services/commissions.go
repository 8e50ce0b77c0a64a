package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"artmarket-app/internal/domain/access"
	"artmarket-app/internal/domain/commissions"
	"artmarket-app/internal/events"
	"artmarket-app/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CommissionService struct {
	store  storage.Store
	events events.Publisher
	log    logrus.FieldLogger
	now    func() time.Time
}

type CommissionInput struct {
	Title            string          `json:"title" form:"title" validate:"required,max=200"`
	ArtType          string          `json:"art_type" form:"art_type" validate:"required"`
	Description      string          `json:"description" form:"description" validate:"required"`
	Dimensions       string          `json:"dimensions" form:"dimensions" validate:"max=100"`
	Budget           decimal.Decimal `json:"budget" form:"budget"`
	ArtistRequest    *string         `json:"artist_request" form:"artist_request"`
	AssignedArtistID *uint           `json:"assigned_artist_id" form:"assigned_artist_id"`
}

func (s *CommissionService) Create(ctx context.Context, actor Actor, in CommissionInput) (commissions.CustomArtOrder, error) {
	if err := actor.require(access.CapCommission); err != nil {
		return commissions.CustomArtOrder{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := check(in); err != nil {
		return commissions.CustomArtOrder{}, err
	}
	if !commissions.ValidArtType(in.ArtType) {
		return commissions.CustomArtOrder{}, invalid("art_type", "unknown art type")
	}
	if !in.Budget.IsPositive() {
		return commissions.CustomArtOrder{}, invalid("budget", "must be greater than zero")
	}
	if in.AssignedArtistID != nil {
		u, err := s.store.GetUser(ctx, *in.AssignedArtistID)
		if isNotFound(err) || (err == nil && !u.IsArtist()) {
			return commissions.CustomArtOrder{}, ErrNotArtist
		}
		if err != nil {
			return commissions.CustomArtOrder{}, err
		}
	}

	o, err := s.store.CreateCustomOrder(ctx, commissions.CustomArtOrder{
		UserID:           actor.ID,
		AssignedArtistID: in.AssignedArtistID,
		Title:            in.Title,
		ArtType:          in.ArtType,
		Description:      in.Description,
		Dimensions:       strings.TrimSpace(in.Dimensions),
		Budget:           in.Budget,
		ArtistRequest:    in.ArtistRequest,
		Status:           commissions.StatusPending,
		CreatedAt:        s.now(),
	})
	if err != nil {
		return commissions.CustomArtOrder{}, err
	}
	s.log.WithFields(logrus.Fields{"commission_id": o.ID, "user_id": actor.ID, "art_type": o.ArtType}).Info("commission requested")
	return o, nil
}

// Detail is visible to the requester and the assigned artist only.
func (s *CommissionService) Detail(ctx context.Context, actor Actor, id uint) (commissions.CustomArtOrder, error) {
	o, err := s.store.GetCustomOrder(ctx, id)
	if err != nil {
		return commissions.CustomArtOrder{}, err
	}
	if !o.VisibleTo(actor.ID) {
		return commissions.CustomArtOrder{}, storage.ErrNotFound
	}
	return o, nil
}

func (s *CommissionService) Mine(ctx context.Context, actor Actor) ([]commissions.CustomArtOrder, error) {
	list, err := s.store.ListCustomOrdersByUser(ctx, actor.ID)
	return nonNil(list), err
}

func (s *CommissionService) ArtistBoard(ctx context.Context, actor Actor) ([]commissions.CustomArtOrder, error) {
	if err := actor.require(access.CapManageCommissions); err != nil {
		return nil, err
	}
	list, err := s.store.ListCustomOrdersForArtist(ctx, actor.ID)
	return nonNil(list), err
}

type StatusInput struct {
	Status string `json:"status" form:"status" validate:"required"`
}

func (s *CommissionService) UpdateStatus(ctx context.Context, actor Actor, id uint, in StatusInput) (commissions.CustomArtOrder, error) {
	if err := actor.require(access.CapManageCommissions); err != nil {
		return commissions.CustomArtOrder{}, err
	}
	if err := check(in); err != nil {
		return commissions.CustomArtOrder{}, err
	}
	o, err := s.store.TransitionCustomOrder(ctx, id, actor.ID, strings.TrimSpace(in.Status), s.now())
	if err != nil {
		return commissions.CustomArtOrder{}, err
	}
	s.log.WithFields(logrus.Fields{"commission_id": o.ID, "artist_id": actor.ID, "status": o.Status}).Info("commission status changed")
	events.Emit(ctx, s.events, s.log, events.EventCommissionUpdated, fmt.Sprintf("commission:%d", o.ID), events.CommissionPayload{
		OrderID: o.ID, ArtistID: actor.ID, Status: o.Status,
	})
	return o, nil
}
