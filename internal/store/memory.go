package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/farm-insight/internal/geo"
)

var (
	// ErrEmpty is returned when nothing has been stored yet.
	ErrEmpty = errors.New("cache slot is empty")
	// ErrExpired is returned when the stored entry is older than the TTL.
	ErrExpired = errors.New("cache entry expired")
	// ErrDrifted is returned when the caller moved too far from the stored location.
	ErrDrifted = errors.New("location drifted from cached entry")
)

const (
	// DefaultTTL is the maximum age of a fresh entry.
	DefaultTTL = time.Hour
	// DefaultMaxDrift is the per-axis location tolerance in degrees (~1.1 km).
	DefaultMaxDrift = 0.01
)

// Entry is the single value held by a Slot. Payload and location are always
// written together.
type Entry[T any] struct {
	Payload    T         `json:"payload"`
	CapturedAt time.Time `json:"capturedAt"`
	Location   geo.Fix   `json:"location"`
}

// Slot is a concurrency-safe single-entry cache keyed implicitly by the last
// known location.
type Slot[T any] struct {
	mu    sync.RWMutex
	entry *Entry[T]

	ttl      time.Duration
	maxDrift float64
	now      func() time.Time
}

// NewSlot creates an empty Slot. Non-positive ttl or maxDrift select the defaults.
func NewSlot[T any](ttl time.Duration, maxDrift float64) *Slot[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxDrift <= 0 {
		maxDrift = DefaultMaxDrift
	}
	return &Slot[T]{
		ttl:      ttl,
		maxDrift: maxDrift,
		now:      time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (s *Slot[T]) WithClock(now func() time.Time) *Slot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// Get returns the entry if it is younger than the TTL and was captured within
// maxDrift of current on both axes.
func (s *Slot[T]) Get(current geo.Fix) (Entry[T], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entry == nil {
		return Entry[T]{}, ErrEmpty
	}
	if s.now().Sub(s.entry.CapturedAt) >= s.ttl {
		return Entry[T]{}, ErrExpired
	}
	if !s.entry.Location.Within(current, s.maxDrift) {
		return Entry[T]{}, ErrDrifted
	}
	return *s.entry, nil
}

// Peek returns the stored entry regardless of age or location.
func (s *Slot[T]) Peek() (Entry[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entry == nil {
		return Entry[T]{}, false
	}
	return *s.entry, true
}

// Set replaces the stored entry wholesale.
func (s *Slot[T]) Set(payload T, loc geo.Fix) Entry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entry = &Entry[T]{
		Payload:    payload,
		CapturedAt: s.now(),
		Location:   loc,
	}
	return *s.entry
}

// Clear discards the stored entry.
func (s *Slot[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = nil
}
