// Package bookmark stores one resume position per transcript.
package bookmark

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mgpai22/lekh/internal/logging"
)

const keyPrefix = "bookmark:"

type record struct {
	Segment int       `json:"segment"`
	SavedAt time.Time `json:"saved_at"`
}

type Store struct {
	kv     KV
	now    func() time.Time
	logger *logging.Logger
}

func New(kv KV, logger *logging.Logger) *Store {
	return &Store{kv: kv, now: time.Now, logger: logger.Component("bookmark")}
}

func key(fileID string) string {
	return keyPrefix + fileID
}

// Set overwrites the bookmark for fileID.
func (s *Store) Set(fileID string, index int) error {
	if index < 0 {
		return fmt.Errorf("invalid bookmark segment %d", index)
	}
	data, err := json.Marshal(record{Segment: index, SavedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode bookmark: %w", err)
	}
	if err := s.kv.Set(key(fileID), string(data)); err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	return nil
}

// Get returns the bookmarked segment. Unreadable or malformed entries are
// reported as no bookmark.
func (s *Store) Get(fileID string) (int, bool) {
	raw, ok, err := s.kv.Get(key(fileID))
	if err != nil {
		s.logger.Debugw("Bookmark unreadable", "file_id", fileID, "error", err)
		return 0, false
	}
	if !ok {
		return 0, false
	}

	index, ok := decode(raw)
	if !ok {
		s.logger.Debugw("Ignoring malformed bookmark", "file_id", fileID, "value", raw)
	}
	return index, ok
}

func decode(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, n >= 0
	}

	var rec struct {
		Segment *int `json:"segment"`
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.Segment == nil {
		return 0, false
	}
	return *rec.Segment, *rec.Segment >= 0
}

func (s *Store) Clear(fileID string) error {
	if err := s.kv.Delete(key(fileID)); err != nil {
		return fmt.Errorf("failed to clear bookmark: %w", err)
	}
	return nil
}

// Toggle clears the bookmark when it already points at index and sets it
// otherwise. It reports whether index is bookmarked afterwards.
func (s *Store) Toggle(fileID string, index int) (bool, error) {
	if current, ok := s.Get(fileID); ok && current == index {
		return false, s.Clear(fileID)
	}
	if err := s.Set(fileID, index); err != nil {
		return false, err
	}
	return true, nil
}
