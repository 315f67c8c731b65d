package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/prasdev/ebay-scraper-api/internal/models"
)

// Snapshot is the persisted result of the most recent successful scrape run.
// Each run overwrites the previous one; there is no retention.
type Snapshot struct {
	RunID     string           `json:"runId"`
	Keyword   string           `json:"keyword"`
	Pages     int              `json:"pages"`
	ScrapedAt time.Time        `json:"scrapedAt"`
	Count     int              `json:"count"`
	Products  []models.Product `json:"products"`
}

// Store writes and serves the snapshot file. Writes go through a temp file
// and rename so a crashed write never leaves a torn snapshot behind.
type Store struct {
	mu   sync.RWMutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Write(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmpFile := s.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return os.Rename(tmpFile, s.path)
}

func (s *Store) Read() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &snap, nil
}

func (s *Store) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.path)
	return err == nil
}

func (s *Store) Path() string {
	return s.path
}
