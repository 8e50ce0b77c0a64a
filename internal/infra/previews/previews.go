// Package previews holds the last AI image a user generated until they save
// it as concept art or it expires.
package previews

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNoPreview = errors.New("no generated image to save")

// DefaultTTL is how long an unsaved preview survives.
const DefaultTTL = time.Hour

type Preview struct {
	Prompt      string    `json:"prompt"`
	Style       string    `json:"style"`
	ImageBase64 string    `json:"image_base64"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store keeps at most one preview per user; Put replaces the previous one.
type Store interface {
	Put(ctx context.Context, userID uint, p Preview) error
	Get(ctx context.Context, userID uint) (Preview, error)
	Delete(ctx context.Context, userID uint) error
}

type entry struct {
	p       Preview
	expires time.Time
}

type Memory struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[uint]entry
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{ttl: ttl, now: time.Now, m: make(map[uint]entry)}
}

func (s *Memory) Put(_ context.Context, userID uint, p Preview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = entry{p: p, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *Memory) Get(_ context.Context, userID uint) (Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[userID]
	if !ok {
		return Preview{}, ErrNoPreview
	}
	if !s.now().Before(e.expires) {
		delete(s.m, userID)
		return Preview{}, ErrNoPreview
	}
	return e.p, nil
}

func (s *Memory) Delete(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
	return nil
}
