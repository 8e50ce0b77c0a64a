package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"artmarket-app/internal/domain/auctions"
	"artmarket-app/internal/domain/billing"
	"artmarket-app/internal/domain/commissions"
	"artmarket-app/internal/domain/media"
	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/domain/works"
	"artmarket-app/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is an in-memory implementation of storage.Store. A single mutex
// serialises every write, which gives the same all-or-nothing behaviour the
// postgres store gets from row locks. Used by tests and STORAGE=memory.
type Store struct {
	mu           sync.Mutex
	seq          map[string]uint
	users        map[uint]users.User
	ratings      []users.ArtistRating
	images       map[string]media.Image
	artworks     map[uint]works.Artwork
	auctions     map[uint]auctions.Auction
	bids         []auctions.Bid
	cart         map[uint]billing.CartItem
	orders       map[uint]billing.Order
	payments     map[uint]billing.Payment
	customOrders map[uint]commissions.CustomArtOrder
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		seq:          make(map[string]uint),
		users:        make(map[uint]users.User),
		images:       make(map[string]media.Image),
		artworks:     make(map[uint]works.Artwork),
		auctions:     make(map[uint]auctions.Auction),
		cart:         make(map[uint]billing.CartItem),
		orders:       make(map[uint]billing.Order),
		payments:     make(map[uint]billing.Payment),
		customOrders: make(map[uint]commissions.CustomArtOrder),
	}
}

func (s *Store) nextIDLocked(table string) uint {
	s.seq[table]++
	return s.seq[table]
}

// Users ----------------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u users.User) (users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return users.User{}, storage.ErrUsernameTaken
		}
		if u.GoogleSub != nil && existing.GoogleSub != nil && *existing.GoogleSub == *u.GoogleSub {
			return users.User{}, storage.ErrUsernameTaken
		}
	}
	u.ID = s.nextIDLocked("users")
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.Role == "" {
		u.Role = users.RoleBuyer
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id uint) (users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userLocked(id)
}

func (s *Store) userLocked(id uint) (users.User, error) {
	u, ok := s.users[id]
	if !ok {
		return users.User{}, storage.ErrNotFound
	}
	if u.ProfileImageID != nil {
		if img, ok := s.images[*u.ProfileImageID]; ok {
			u.ProfileImage = &img
		}
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if u.Username == username {
			return s.userLocked(id)
		}
	}
	return users.User{}, storage.ErrNotFound
}

func (s *Store) GetUserByGoogleSub(_ context.Context, sub string) (users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if u.GoogleSub != nil && *u.GoogleSub == sub {
			return s.userLocked(id)
		}
	}
	return users.User{}, storage.ErrNotFound
}

func (s *Store) UpdateUser(_ context.Context, id uint, f storage.UserUpdate) (users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return users.User{}, storage.ErrNotFound
	}
	if f.Bio != nil {
		u.Bio = *f.Bio
	}
	if f.ProfileImageID != nil {
		u.ProfileImageID = f.ProfileImageID
	}
	if f.ProfileSlug != nil {
		u.ProfileSlug = f.ProfileSlug
	}
	if f.PasswordHash != nil {
		hash := *f.PasswordHash
		u.Password = &hash
	}
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return s.userLocked(id)
}

func (s *Store) ListUsers(_ context.Context, role string) ([]users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]users.User, 0, len(s.users))
	for id, u := range s.users {
		if role != "" && u.Role != role {
			continue
		}
		hydrated, _ := s.userLocked(id)
		out = append(out, hydrated)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateRating(_ context.Context, r users.ArtistRating) (users.ArtistRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[r.ArtistID]; !ok {
		return users.ArtistRating{}, storage.ErrNotFound
	}
	r.ID = s.nextIDLocked("ratings")
	r.CreatedAt = time.Now()
	s.ratings = append(s.ratings, r)
	return r, nil
}

func (s *Store) ListRatings(_ context.Context, artistID uint) ([]users.ArtistRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []users.ArtistRating
	for _, r := range s.ratings {
		if r.ArtistID != artistID {
			continue
		}
		if rater, err := s.userLocked(r.RaterID); err == nil {
			r.Rater = &rater
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Media ----------------------------------------------------------------------

func (s *Store) CreateImage(_ context.Context, img media.Image) (media.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	now := time.Now()
	img.CreatedAt, img.UpdatedAt = now, now
	s.images[img.ID] = img
	return img, nil
}

// Artworks -------------------------------------------------------------------

func (s *Store) CreateArtwork(_ context.Context, a works.Artwork) (works.Artwork, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[a.ArtistID]; !ok {
		return works.Artwork{}, storage.ErrNotFound
	}
	a.ID = s.nextIDLocked("artworks")
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = a.CreatedAt
	s.artworks[a.ID] = a
	return s.artworkLocked(a.ID)
}

func (s *Store) GetArtwork(_ context.Context, id uint) (works.Artwork, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artworkLocked(id)
}

func (s *Store) artworkLocked(id uint) (works.Artwork, error) {
	a, ok := s.artworks[id]
	if !ok {
		return works.Artwork{}, storage.ErrNotFound
	}
	if a.ImageID != nil {
		if img, ok := s.images[*a.ImageID]; ok {
			a.Image = &img
		}
	}
	return a, nil
}

func (s *Store) ListArtworks(_ context.Context, f storage.ArtworkFilter) ([]works.Artwork, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []works.Artwork
	for id, a := range s.artworks {
		if f.ArtistID != 0 && a.ArtistID != f.ArtistID {
			continue
		}
		if f.SaleMode != "" && a.SaleMode != f.SaleMode {
			continue
		}
		if f.AvailableOnly && a.Sold {
			continue
		}
		hydrated, _ := s.artworkLocked(id)
		out = append(out, hydrated)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Auctions -------------------------------------------------------------------

func (s *Store) CreateAuction(_ context.Context, a auctions.Auction) (auctions.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.artworks[a.ArtworkID]; !ok {
		return auctions.Auction{}, storage.ErrNotFound
	}
	for _, existing := range s.auctions {
		if existing.ArtworkID == a.ArtworkID {
			return auctions.Auction{}, storage.ErrAuctionExists
		}
	}
	a.ID = s.nextIDLocked("auctions")
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	a.Bids = nil
	s.auctions[a.ID] = a
	return s.auctionLocked(a.ID)
}

func (s *Store) CreateArtworkWithAuction(_ context.Context, art works.Artwork, auc auctions.Auction) (works.Artwork, auctions.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[art.ArtistID]; !ok {
		return works.Artwork{}, auctions.Auction{}, storage.ErrNotFound
	}
	now := time.Now()
	art.ID = s.nextIDLocked("artworks")
	if art.CreatedAt.IsZero() {
		art.CreatedAt = now
	}
	art.UpdatedAt = art.CreatedAt
	s.artworks[art.ID] = art

	auc.ID = s.nextIDLocked("auctions")
	auc.ArtworkID = art.ID
	auc.CreatedAt, auc.UpdatedAt = now, now
	auc.Artwork, auc.Winner, auc.Bids = nil, nil, nil
	s.auctions[auc.ID] = auc

	gotArt, err := s.artworkLocked(art.ID)
	if err != nil {
		return works.Artwork{}, auctions.Auction{}, err
	}
	gotAuc, err := s.auctionLocked(auc.ID)
	return gotArt, gotAuc, err
}

func (s *Store) GetAuction(_ context.Context, id uint) (auctions.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auctionLocked(id)
}

func (s *Store) GetAuctionByArtwork(_ context.Context, artworkID uint) (auctions.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.auctions {
		if a.ArtworkID == artworkID {
			return s.auctionLocked(id)
		}
	}
	return auctions.Auction{}, storage.ErrNotFound
}

func (s *Store) auctionLocked(id uint) (auctions.Auction, error) {
	a, ok := s.auctions[id]
	if !ok {
		return auctions.Auction{}, storage.ErrNotFound
	}
	if art, err := s.artworkLocked(a.ArtworkID); err == nil {
		a.Artwork = &art
	}
	if a.WinnerID != nil {
		if w, err := s.userLocked(*a.WinnerID); err == nil {
			a.Winner = &w
		}
	}
	return a, nil
}

func (s *Store) ListAuctions(_ context.Context, f storage.AuctionFilter) ([]auctions.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []auctions.Auction
	for id, a := range s.auctions {
		if f.WinnersOnly && (a.IsActive || a.WinnerID == nil) {
			continue
		}
		if f.EndedBefore != nil && (!a.IsActive || a.EndTime.After(*f.EndedBefore)) {
			continue
		}
		if f.ArtistID != 0 {
			art, ok := s.artworks[a.ArtworkID]
			if !ok || art.ArtistID != f.ArtistID {
				continue
			}
		}
		hydrated, _ := s.auctionLocked(id)
		out = append(out, hydrated)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListBids(_ context.Context, auctionID uint) ([]auctions.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []auctions.Bid
	for _, b := range s.bids {
		if b.AuctionID != auctionID {
			continue
		}
		if u, err := s.userLocked(b.BidderID); err == nil {
			b.Bidder = &u
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BidTime.Equal(out[j].BidTime) {
			return out[i].ID > out[j].ID
		}
		return out[i].BidTime.After(out[j].BidTime)
	})
	return out, nil
}

func (s *Store) PlaceBid(_ context.Context, auctionID, bidderID uint, amount decimal.Decimal, now time.Time) (auctions.Auction, auctions.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.auctions[auctionID]
	if !ok {
		return auctions.Auction{}, auctions.Bid{}, storage.ErrNotFound
	}
	art, ok := s.artworks[a.ArtworkID]
	if !ok {
		return auctions.Auction{}, auctions.Bid{}, storage.ErrNotFound
	}
	if err := a.CheckBid(now, bidderID, art.ArtistID, amount); err != nil {
		return auctions.Auction{}, auctions.Bid{}, err
	}

	bid := auctions.Bid{
		ID:        s.nextIDLocked("bids"),
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		BidTime:   now,
	}
	a.Accept(bid)
	a.UpdatedAt = now
	s.bids = append(s.bids, bid)
	s.auctions[auctionID] = a

	out, err := s.auctionLocked(auctionID)
	return out, bid, err
}

func (s *Store) CloseAuction(_ context.Context, auctionID uint, now time.Time, force bool) (auctions.Auction, *billing.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.auctions[auctionID]
	if !ok {
		return auctions.Auction{}, nil, storage.ErrNotFound
	}
	if err := a.Close(now, force); err != nil {
		return auctions.Auction{}, nil, err
	}
	a.UpdatedAt = now
	s.auctions[auctionID] = a

	var order *billing.Order
	if a.WinnerID != nil {
		artworkID, auctionRef := a.ArtworkID, a.ID
		o := billing.Order{
			ID:        s.nextIDLocked("orders"),
			BuyerID:   *a.WinnerID,
			ArtworkID: &artworkID,
			Source:    billing.SourceAuction,
			AuctionID: &auctionRef,
			Amount:    a.CurrentBid,
			Status:    billing.OrderPending,
			OrderDate: now,
			UpdatedAt: now,
		}
		s.orders[o.ID] = o
		order = &o
	}
	out, err := s.auctionLocked(auctionID)
	return out, order, err
}

// Cart -----------------------------------------------------------------------

func (s *Store) AddToCart(_ context.Context, userID, artworkID uint, now time.Time) (billing.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.artworks[artworkID]; !ok {
		return billing.CartItem{}, storage.ErrNotFound
	}
	for id, it := range s.cart {
		if it.UserID == userID && it.ArtworkID == artworkID {
			it.Quantity++
			s.cart[id] = it
			return s.cartItemLocked(it), nil
		}
	}
	it := billing.CartItem{
		ID:        s.nextIDLocked("cart_items"),
		UserID:    userID,
		ArtworkID: artworkID,
		Quantity:  1,
		AddedAt:   now,
	}
	s.cart[it.ID] = it
	return s.cartItemLocked(it), nil
}

func (s *Store) cartItemLocked(it billing.CartItem) billing.CartItem {
	if art, err := s.artworkLocked(it.ArtworkID); err == nil {
		it.Artwork = &art
	}
	return it
}

func (s *Store) ListCart(_ context.Context, userID uint) ([]billing.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []billing.CartItem
	for _, it := range s.cart {
		if it.UserID == userID {
			out = append(out, s.cartItemLocked(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) RemoveFromCart(_ context.Context, userID, itemID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.cart[itemID]
	if !ok || it.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.cart, itemID)
	return nil
}

// Orders & payments ----------------------------------------------------------

func (s *Store) CreateOrder(_ context.Context, o billing.Order) (billing.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ArtworkID != nil {
		if _, ok := s.artworks[*o.ArtworkID]; !ok {
			return billing.Order{}, storage.ErrNotFound
		}
	}
	o.ID = s.nextIDLocked("orders")
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now()
	}
	if o.Status == "" {
		o.Status = billing.OrderPending
	}
	if o.Source == "" {
		o.Source = billing.SourceCheckout
	}
	o.UpdatedAt = o.OrderDate
	o.Payment = nil
	s.orders[o.ID] = o
	return s.orderLocked(o.ID)
}

func (s *Store) GetOrder(_ context.Context, id uint) (billing.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderLocked(id)
}

func (s *Store) orderLocked(id uint) (billing.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return billing.Order{}, storage.ErrNotFound
	}
	if o.ArtworkID != nil {
		if art, err := s.artworkLocked(*o.ArtworkID); err == nil {
			o.Artwork = &art
		}
	}
	for _, p := range s.payments {
		if p.OrderID == id {
			o.Payment = &p
			break
		}
	}
	return o, nil
}

func (s *Store) ListOrders(_ context.Context, buyerID uint) ([]billing.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []billing.Order
	for id, o := range s.orders {
		if o.BuyerID != buyerID {
			continue
		}
		hydrated, _ := s.orderLocked(id)
		out = append(out, hydrated)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) ListPayments(_ context.Context) ([]billing.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]billing.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) GetPayment(_ context.Context, id uint) (billing.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return billing.Payment{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *Store) RecordPayment(_ context.Context, orderID uint, p billing.Payment) (billing.Order, billing.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return billing.Order{}, billing.Payment{}, storage.ErrNotFound
	}
	if err := o.Complete(); err != nil {
		return billing.Order{}, billing.Payment{}, err
	}
	for _, existing := range s.payments {
		if existing.ExternalPaymentID == p.ExternalPaymentID {
			return billing.Order{}, billing.Payment{}, billing.ErrDuplicatePayment
		}
	}
	var art works.Artwork
	if o.ArtworkID != nil {
		art, ok = s.artworks[*o.ArtworkID]
		if !ok {
			return billing.Order{}, billing.Payment{}, storage.ErrNotFound
		}
		if art.Sold {
			return billing.Order{}, billing.Payment{}, storage.ErrArtworkSold
		}
	}

	now := p.PaymentDate
	if now.IsZero() {
		now = time.Now()
	}
	p.ID = s.nextIDLocked("payments")
	p.OrderID = orderID
	p.IsSuccessful = true
	p.PaymentDate = now
	s.payments[p.ID] = p

	if o.ArtworkID != nil {
		art.Sold = true
		art.UpdatedAt = now
		s.artworks[art.ID] = art
	}
	o.UpdatedAt = now
	s.orders[orderID] = o

	out, err := s.orderLocked(orderID)
	return out, p, err
}

func (s *Store) CancelOrder(_ context.Context, orderID uint) (billing.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return billing.Order{}, storage.ErrNotFound
	}
	if err := o.Cancel(); err != nil {
		return billing.Order{}, err
	}
	o.UpdatedAt = time.Now()
	s.orders[orderID] = o
	return s.orderLocked(orderID)
}

// Custom orders --------------------------------------------------------------

func (s *Store) CreateCustomOrder(_ context.Context, o commissions.CustomArtOrder) (commissions.CustomArtOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = s.nextIDLocked("custom_orders")
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	if o.Status == "" {
		o.Status = commissions.StatusPending
	}
	s.customOrders[o.ID] = o
	return s.customOrderLocked(o.ID)
}

func (s *Store) GetCustomOrder(_ context.Context, id uint) (commissions.CustomArtOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customOrderLocked(id)
}

func (s *Store) customOrderLocked(id uint) (commissions.CustomArtOrder, error) {
	o, ok := s.customOrders[id]
	if !ok {
		return commissions.CustomArtOrder{}, storage.ErrNotFound
	}
	if o.AssignedArtistID != nil {
		if a, err := s.userLocked(*o.AssignedArtistID); err == nil {
			o.AssignedArtist = &a
		}
	}
	return o, nil
}

func (s *Store) listCustomOrdersLocked(keep func(commissions.CustomArtOrder) bool) []commissions.CustomArtOrder {
	var out []commissions.CustomArtOrder
	for id, o := range s.customOrders {
		if keep(o) {
			hydrated, _ := s.customOrderLocked(id)
			out = append(out, hydrated)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) ListCustomOrdersByUser(_ context.Context, userID uint) ([]commissions.CustomArtOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCustomOrdersLocked(func(o commissions.CustomArtOrder) bool {
		return o.UserID == userID
	}), nil
}

func (s *Store) ListCustomOrdersForArtist(_ context.Context, artistID uint) ([]commissions.CustomArtOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCustomOrdersLocked(func(o commissions.CustomArtOrder) bool {
		if o.AssignedArtistID != nil {
			return *o.AssignedArtistID == artistID
		}
		return o.Status == commissions.StatusPending
	}), nil
}

func (s *Store) TransitionCustomOrder(_ context.Context, id, artistID uint, to string, now time.Time) (commissions.CustomArtOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.customOrders[id]
	if !ok {
		return commissions.CustomArtOrder{}, storage.ErrNotFound
	}
	if !o.ManageableBy(artistID) {
		return commissions.CustomArtOrder{}, storage.ErrNotManageable
	}
	if err := o.Transition(to, now); err != nil {
		return commissions.CustomArtOrder{}, err
	}
	if o.AssignedArtistID == nil {
		assigned := artistID
		o.AssignedArtistID = &assigned
	}
	s.customOrders[id] = o
	return s.customOrderLocked(id)
}
