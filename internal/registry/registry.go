package registry

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/clck-dev/clck/internal/model"
)

// Custom errors for registry operations
var (
	ErrInvalidURL     = errors.New("target URL must be absolute (scheme and host)")
	ErrInvalidLimit   = errors.New("click limit must be at least 1")
	ErrNotFound       = errors.New("link not found")
	ErrExpired        = errors.New("link has expired")
	ErrLimitExhausted = errors.New("click limit exhausted")
	ErrForbidden      = errors.New("link belongs to another owner")
)

// Notifier delivers system messages to a link owner's mailbox.
type Notifier interface {
	Notify(owner model.Owner, message string)
}

// SlugGenerator produces candidate slugs. The registry retries until
// a candidate is free, so the generator itself need not guarantee
// uniqueness.
type SlugGenerator interface {
	Next() (string, error)
}

// Config holds registry settings.
type Config struct {
	TTL       time.Duration // lifetime of every new link
	ShortBase string        // prefix for the short display form, e.g. "clck.ru/"
}

// Store owns the slug -> link mapping and the owner index. Both live
// under one lock, so every mutation updates them as a single unit: a
// concurrent ListByOwner never observes a link in one structure but
// not the other, and the expiry-check/limit-check/decrement sequence
// in Consume is linearizable per slug.
type Store struct {
	mu      sync.RWMutex
	links   map[string]*model.Link
	byOwner map[model.Owner]map[string]struct{}

	gen      SlugGenerator
	notifier Notifier
	ttl      time.Duration
	base     string

	now func() time.Time // swapped out in expiry tests
}

// New creates an empty store. Links expire cfg.TTL after creation;
// expiry and limit notifications go through the notifier.
func New(cfg Config, gen SlugGenerator, notifier Notifier) *Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	base := cfg.ShortBase
	if base == "" {
		base = "clck.ru/"
	}
	return &Store{
		links:    make(map[string]*model.Link),
		byOwner:  make(map[model.Owner]map[string]struct{}),
		gen:      gen,
		notifier: notifier,
		ttl:      ttl,
		base:     base,
		now:      time.Now,
	}
}

// Create validates the target, assigns a collision-free slug and
// inserts the new link into the registry and the owner index.
func (s *Store) Create(owner model.Owner, target string, limit model.ClickLimit) (*model.Link, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}
	if limit.IsLimited() && limit.Count() < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Generate-and-check stays inside the write lock so two concurrent
	// creates can never both claim the same slug.
	var sl string
	for {
		next, err := s.gen.Next()
		if err != nil {
			return nil, fmt.Errorf("generate slug: %w", err)
		}
		if _, taken := s.links[next]; !taken {
			sl = next
			break
		}
	}

	now := s.now()
	link := &model.Link{
		Slug:      sl,
		Target:    target,
		Owner:     owner,
		Limit:     limit,
		Remaining: limit,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.links[sl] = link
	set, ok := s.byOwner[owner]
	if !ok {
		set = make(map[string]struct{})
		s.byOwner[owner] = set
	}
	set[sl] = struct{}{}

	snapshot := *link
	return &snapshot, nil
}

// Resolve looks up a link without touching its click budget. An
// expired link is evicted on sight: the owner is notified and
// ErrExpired returned, so a stale slug is never served.
func (s *Store) Resolve(sl string) (*model.Link, error) {
	s.mu.Lock()
	link, ok := s.links[sl]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if link.ExpiredAt(s.now()) {
		s.removeLocked(link)
		s.mu.Unlock()
		s.notifyExpired(link)
		return nil, ErrExpired
	}
	snapshot := *link
	s.mu.Unlock()
	return &snapshot, nil
}

// Consume is the click-through operation: one atomic transition per
// slug. Expired links are evicted with an expiry notification. An
// already exhausted link re-notifies the owner on every attempt.
// Otherwise the budget is decremented, with a limit notification the
// moment it reaches zero, and the target URL is returned.
func (s *Store) Consume(sl string) (string, error) {
	s.mu.Lock()
	link, ok := s.links[sl]
	if !ok {
		s.mu.Unlock()
		return "", ErrNotFound
	}
	if link.ExpiredAt(s.now()) {
		s.removeLocked(link)
		s.mu.Unlock()
		s.notifyExpired(link)
		return "", ErrExpired
	}
	if link.Remaining.Exhausted() {
		s.mu.Unlock()
		s.notifyExhausted(link)
		return "", ErrLimitExhausted
	}

	link.Remaining = link.Remaining.Decrement()
	hitZero := link.Remaining.Exhausted()
	target := link.Target
	s.mu.Unlock()

	if hitZero {
		s.notifyExhausted(link)
	}
	return target, nil
}

// Delete removes the link if the requester owns it.
func (s *Store) Delete(sl string, requester model.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[sl]
	if !ok {
		return ErrNotFound
	}
	if link.Owner != requester {
		return ErrForbidden
	}
	s.removeLocked(link)
	return nil
}

// ListByOwner returns snapshot copies of the owner's links, oldest
// first. The snapshot may be stale relative to concurrent mutations;
// it is never torn. Expired links that the sweeper has not yet caught
// are included, so callers can mark them.
func (s *Store) ListByOwner(owner model.Owner) []*model.Link {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.byOwner[owner]
	out := make([]*model.Link, 0, len(set))
	for sl := range set {
		link, ok := s.links[sl]
		if !ok {
			continue
		}
		snapshot := *link
		out = append(out, &snapshot)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Slug < out[j].Slug
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// EvictExpired removes every link whose TTL elapsed before now,
// notifying each owner, and returns snapshots of what was evicted.
// The sweeper calls this on its schedule; the scan is a snapshot and
// each eviction is individually atomic.
func (s *Store) EvictExpired(now time.Time) []*model.Link {
	s.mu.Lock()
	var evicted []*model.Link
	for _, link := range s.links {
		if link.ExpiredAt(now) {
			snapshot := *link
			evicted = append(evicted, &snapshot)
		}
	}
	for _, link := range evicted {
		if live, ok := s.links[link.Slug]; ok {
			s.removeLocked(live)
		}
	}
	s.mu.Unlock()

	for _, link := range evicted {
		s.notifyExpired(link)
	}
	return evicted
}

// Len returns the number of live links.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.links)
}

// ShortURL renders the canonical short display form for a slug.
func (s *Store) ShortURL(sl string) string {
	return s.base + sl
}

// removeLocked deletes the link from both structures. Callers hold
// the write lock.
func (s *Store) removeLocked(link *model.Link) {
	delete(s.links, link.Slug)
	if set, ok := s.byOwner[link.Owner]; ok {
		delete(set, link.Slug)
		if len(set) == 0 {
			delete(s.byOwner, link.Owner)
		}
	}
}

func (s *Store) notifyExpired(link *model.Link) {
	s.notifier.Notify(link.Owner, fmt.Sprintf("Your link %s has expired and was removed.", s.ShortURL(link.Slug)))
}

func (s *Store) notifyExhausted(link *model.Link) {
	s.notifier.Notify(link.Owner, fmt.Sprintf("Click limit for link %s is exhausted.", s.ShortURL(link.Slug)))
}

func validateTarget(target string) error {
	if strings.TrimSpace(target) == "" {
		return ErrInvalidURL
	}
	parsed, err := url.Parse(target)
	if err != nil {
		return ErrInvalidURL
	}
	// Must have scheme and host
	if parsed.Scheme == "" || parsed.Host == "" {
		return ErrInvalidURL
	}
	return nil
}
