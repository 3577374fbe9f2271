// Package trip is a minimal stand-in for the trip layer spec §6 treats
// as an external collaborator: it owns trip identifiers and receives
// finish(trip, result) notifications. This implementation just records
// them, which is enough to drive the engine end-to-end in tests and
// small deployments; a real deployment would forward Finish on to the
// economy/household layer that actually owns trip state.
package trip

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/citybound-go/microtraffic/entity"
)

var log = logrus.WithField("module", "trip")

// Store records every trip result it's handed. It tolerates duplicate or
// late finish calls, as spec §7 requires of any trip-layer collaborator.
type Store struct {
	mu      sync.Mutex
	results map[entity.TripID]entity.TripResult
}

// NewStore builds an empty trip result store.
func NewStore() *Store {
	return &Store{results: map[entity.TripID]entity.TripResult{}}
}

// Finish satisfies entity.Trips.
func (s *Store) Finish(trip entity.TripID, result entity.TripResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, already := s.results[trip]; already {
		log.WithField("trip", trip).Debug("duplicate or late trip finish, ignoring the later one")
		return
	}
	s.results[trip] = result
}

// Result reports a trip's recorded outcome, if any.
func (s *Store) Result(trip entity.TripID) (entity.TripResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[trip]
	return r, ok
}

// Count returns how many trips have finished so far.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}
