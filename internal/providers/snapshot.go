package providers

import (
	"context"
	"sync"

	"github.com/nichepilot/nichepilot-go/internal/models"
)

// KeywordSnapshot is the full set of resolved signals for one keyword and
// marketplace. The external fetch layer pushes snapshots in; evaluations read
// them synchronously.
type KeywordSnapshot struct {
	ClickConcentration *float64     `json:"click_concentration,omitempty"`
	Competitors        []Competitor `json:"competitors,omitempty"`
	TitleDensity       *float64     `json:"title_density,omitempty"`
	SearchVolume       *int         `json:"search_volume,omitempty"`
}

// SnapshotStore is an in-memory KeywordIntel backed by pushed snapshots.
// Lookups for keywords without a snapshot return unknown for every signal.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]KeywordSnapshot
}

// NewSnapshotStore creates an empty snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: make(map[string]KeywordSnapshot)}
}

func snapshotKey(keyword string, marketplace models.Marketplace) string {
	return string(marketplace) + ":" + keyword
}

// Put stores or replaces the snapshot for a keyword and marketplace.
func (s *SnapshotStore) Put(keyword string, marketplace models.Marketplace, snap KeywordSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshotKey(keyword, marketplace)] = snap
}

// Get returns the stored snapshot, if any.
func (s *SnapshotStore) Get(keyword string, marketplace models.Marketplace) (KeywordSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[snapshotKey(keyword, marketplace)]
	return snap, ok
}

// ClickConcentration implements KeywordIntel.
func (s *SnapshotStore) ClickConcentration(_ context.Context, keyword string, marketplace models.Marketplace) (*float64, error) {
	snap, ok := s.Get(keyword, marketplace)
	if !ok {
		return nil, nil
	}
	return snap.ClickConcentration, nil
}

// TopCompetitors implements KeywordIntel.
func (s *SnapshotStore) TopCompetitors(_ context.Context, keyword string, marketplace models.Marketplace, limit int) ([]Competitor, error) {
	snap, ok := s.Get(keyword, marketplace)
	if !ok || len(snap.Competitors) == 0 {
		return nil, nil
	}
	if limit > 0 && limit < len(snap.Competitors) {
		return snap.Competitors[:limit], nil
	}
	return snap.Competitors, nil
}

// TitleDensity implements KeywordIntel.
func (s *SnapshotStore) TitleDensity(_ context.Context, keyword string, marketplace models.Marketplace) (*float64, error) {
	snap, ok := s.Get(keyword, marketplace)
	if !ok {
		return nil, nil
	}
	return snap.TitleDensity, nil
}

// SearchVolume implements KeywordIntel.
func (s *SnapshotStore) SearchVolume(_ context.Context, keyword string, marketplace models.Marketplace) (*int, error) {
	snap, ok := s.Get(keyword, marketplace)
	if !ok {
		return nil, nil
	}
	return snap.SearchVolume, nil
}
