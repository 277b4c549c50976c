package store

import (
	"errors"
	"sync"
	"time"

	"github.com/ndmitriev/weathercast/internal/weather"
)

// ErrNotFound is returned before the first successful refresh.
var ErrNotFound = errors.New("no weather snapshot available")

// SnapshotStore is a concurrency-safe holder of the last good snapshot.
// Failed refreshes never write, so previously displayed data survives until
// the next successful assembly overwrites it.
type SnapshotStore struct {
	mu        sync.RWMutex
	current   weather.WeatherSnapshot
	updatedAt time.Time
	hasData   bool
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// SaveSnapshot replaces the stored snapshot.
func (s *SnapshotStore) SaveSnapshot(snapshot weather.WeatherSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snapshot
	s.updatedAt = time.Now().UTC()
	s.hasData = true
}

// Latest returns the most recent snapshot.
func (s *SnapshotStore) Latest() (weather.WeatherSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasData {
		return weather.WeatherSnapshot{}, ErrNotFound
	}
	return s.current, nil
}

// UpdatedAt reports when the stored snapshot was assembled; zero before the
// first successful refresh.
func (s *SnapshotStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
