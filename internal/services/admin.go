package services

import (
	"context"
	"time"

	"artmarket-app/internal/domain/access"
	"artmarket-app/internal/domain/billing"
	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/metrics"
	"artmarket-app/internal/storage"

	"github.com/shopspring/decimal"
)

const revenueWindow = 30 * 24 * time.Hour

type AdminService struct {
	store    storage.Store
	auctions *AuctionService
	now      func() time.Time
}

func (s *AdminService) Users(ctx context.Context, actor Actor, role string) ([]users.User, error) {
	if err := actor.require(access.CapAdmin); err != nil {
		return nil, err
	}
	list, err := s.store.ListUsers(ctx, role)
	return nonNil(list), err
}

func (s *AdminService) Payments(ctx context.Context, actor Actor) ([]billing.Payment, error) {
	if err := actor.require(access.CapAdmin); err != nil {
		return nil, err
	}
	list, err := s.store.ListPayments(ctx)
	return nonNil(list), err
}

type Stats struct {
	Users          map[string]int  `json:"users"`
	Revenue        decimal.Decimal `json:"revenue"`
	Revenue30d     decimal.Decimal `json:"revenue_30d"`
	Payments       int             `json:"payments"`
	ActiveAuctions int             `json:"active_auctions"`
}

func (s *AdminService) Stats(ctx context.Context, actor Actor) (Stats, error) {
	if err := actor.require(access.CapAdmin); err != nil {
		return Stats{}, err
	}
	all, err := s.store.ListUsers(ctx, "")
	if err != nil {
		return Stats{}, err
	}
	st := Stats{
		Users:      map[string]int{users.RoleBuyer: 0, users.RoleArtist: 0, users.RoleAdmin: 0},
		Revenue:    decimal.Zero,
		Revenue30d: decimal.Zero,
	}
	for _, u := range all {
		st.Users[u.Role]++
	}

	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		return Stats{}, err
	}
	since := s.now().Add(-revenueWindow)
	for _, p := range payments {
		if !p.IsSuccessful {
			continue
		}
		st.Payments++
		st.Revenue = st.Revenue.Add(p.AmountPaid)
		if p.PaymentDate.After(since) {
			st.Revenue30d = st.Revenue30d.Add(p.AmountPaid)
		}
	}

	list, err := s.store.ListAuctions(ctx, storage.AuctionFilter{})
	if err != nil {
		return Stats{}, err
	}
	for _, a := range list {
		if a.IsActive {
			st.ActiveAuctions++
		}
	}
	return st, nil
}

// Sweep runs the expired-auction closer on demand.
func (s *AdminService) Sweep(ctx context.Context, actor Actor) (int, error) {
	if err := actor.require(access.CapAdmin); err != nil {
		return 0, err
	}
	n, err := s.auctions.CloseExpired(ctx)
	metrics.RecordSweep(err == nil)
	return n, err
}
