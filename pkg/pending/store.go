// Package pending holds content staged between submission and payment
// confirmation. The registry is memory-only by design: entries either get
// handed off to the admin backend on confirmation or silently expire.
package pending

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"screenpay/models"
)

var (
	// ErrNotFound means the id is unknown or the entry already expired.
	ErrNotFound = errors.New("upload not found or expired")
	// ErrHandOff wraps a failed forward to the admin backend. The entry
	// stays pending and the caller may retry until expiry.
	ErrHandOff = errors.New("hand-off to admin failed")
)

// Forwarder delivers a confirmed upload to the admin backend.
type Forwarder interface {
	ForwardUpload(u *models.PendingUpload) error
}

// Store is the pending upload registry. A single mutex guards the map; both
// confirm and expiry treat delete as the sole state transition and
// check-then-delete while holding the lock, so an entry can terminate exactly
// once. Confirm keeps the lock across the admin hand-off, which reproduces
// the strictly serialized ordering of the original single-threaded service;
// the forwarder's request timeout bounds the critical section.
type Store struct {
	mu      sync.Mutex
	entries map[string]*models.PendingUpload

	ttl     time.Duration
	forward Forwarder

	now   func() time.Time // injected for tests
	newID func() string
}

// NewStore creates a registry whose entries expire ttl after creation.
func NewStore(ttl time.Duration, forward Forwarder) *Store {
	return &Store{
		entries: make(map[string]*models.PendingUpload),
		ttl:     ttl,
		forward: forward,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Create registers content awaiting payment and returns its id. The staged
// file (if any) is owned by the store until the entry terminates.
func (s *Store) Create(u models.PendingUpload) string {
	u.ID = s.newID()
	u.Status = "pending"
	u.CreatedAt = s.now()

	s.mu.Lock()
	s.entries[u.ID] = &u
	s.mu.Unlock()

	log.WithFields(log.Fields{"uploadId": u.ID, "type": u.Type}).Info("pending upload created")
	return u.ID
}

// Get returns a copy of the entry. It never mutates state or resets expiry.
func (s *Store) Get(id string) (models.PendingUpload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return models.PendingUpload{}, false
	}
	return *e, true
}

// Confirm forwards the staged content to the admin backend and removes the
// entry. On hand-off failure the entry is left pending (still subject to
// expiry) so the caller can retry.
func (s *Store) Confirm(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return ErrNotFound
	}
	if err := s.forward.ForwardUpload(e); err != nil {
		log.WithError(err).WithField("uploadId", id).Error("admin hand-off failed")
		return fmt.Errorf("%w: %v", ErrHandOff, err)
	}
	delete(s.entries, id)
	s.releaseFile(e)
	log.WithField("uploadId", id).Info("payment confirmed, content handed off")
	return nil
}

// Run sweeps for expired entries until ctx is cancelled. One periodic sweep
// instead of a timer per entry: nothing to cancel on confirm, nothing to
// leak.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweepOnce()
		}
	}
}

// sweepOnce deletes every entry past its expiry window and releases its
// staged file. A no-op for entries already confirmed.
func (s *Store) sweepOnce() {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if e.CreatedAt.After(cutoff) {
			continue
		}
		delete(s.entries, id)
		s.releaseFile(e)
		log.WithField("uploadId", id).Infof("upload expired after %s", s.ttl)
	}
}

// Len reports the number of entries still pending.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) releaseFile(e *models.PendingUpload) {
	if e.FilePath == "" {
		return
	}
	if err := os.Remove(e.FilePath); err != nil && !os.IsNotExist(err) {
		log.WithError(err).WithField("file", e.FilePath).Warn("staged file not released")
	}
}
