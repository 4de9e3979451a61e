// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buildboard-dev/buildboard/internal/log"
)

// DefaultCapacity is how many runs the history keeps when the
// configuration does not say otherwise.
const DefaultCapacity = 10

// Store is the bounded, newest-first record list. It is loaded once per
// invocation, mutated by a single Merge, saved once, and then read-only.
type Store struct {
	capacity int
	records  []Record
}

// NewStore returns an empty store. Non-positive capacities fall back to
// the default rather than producing a store that can hold nothing.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity}
}

// Len reports the number of records currently held.
func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of the record list, newest first. Callers
// (notably the renderer) must not be able to mutate the store.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// SHAs returns the commit identifiers currently in the store, in order.
func (s *Store) SHAs() []string {
	out := make([]string, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.CommitSHA)
	}
	return out
}

// Merge applies the single insert-or-replace-then-trim step. A record
// whose commit SHA is already present replaces the old one in place,
// keeping its position; a novel SHA is prepended and the list is trimmed
// to capacity, evicting the oldest entry.
func (s *Store) Merge(rec Record) {
	for i, existing := range s.records {
		if existing.CommitSHA == rec.CommitSHA {
			s.records[i] = rec
			return
		}
	}
	s.records = append([]Record{rec}, s.records...)
	if len(s.records) > s.capacity {
		s.records = s.records[:s.capacity]
	}
}

func backupPath(path string) string { return path + ".bak" }

// Load reads the persisted history. A missing file is an empty store,
// never an error. A file that exists but does not decode is recovered
// from the backup snapshot taken before the previous write; if that also
// fails the store resets to empty, the accepted data-loss mode. Only an
// unreadable file (permissions, I/O) aborts the run.
func Load(path string, capacity int) (*Store, error) {
	s := NewStore(capacity)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history %s: %w", path, err)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err == nil {
		s.records = clip(records, s.capacity)
		return s, nil
	}
	log.Warnf("history %s is corrupt, trying backup: %v", path, err)

	bak := backupPath(path)
	raw, err = os.ReadFile(bak)
	if err == nil {
		if uerr := json.Unmarshal(raw, &records); uerr == nil {
			log.Infof("recovered %d record(s) from %s", len(records), bak)
			s.records = clip(records, s.capacity)
			return s, nil
		}
		log.Warnf("backup %s is also corrupt, starting fresh", bak)
		return s, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading history backup %s: %w", bak, err)
	}
	log.Warnf("no backup at %s, starting fresh", bak)
	return s, nil
}

func clip(records []Record, capacity int) []Record {
	if len(records) > capacity {
		return records[:capacity]
	}
	return records
}

// Save snapshots the current on-disk file to the backup, then rewrites
// the history whole as a 2-space-indented JSON array. The backup is what
// Load falls back to when a later write leaves the file corrupt, so it
// is taken first; a failed snapshot is logged but does not stop the save.
func (s *Store) Save(path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	if prev, rerr := os.ReadFile(path); rerr == nil {
		if werr := os.WriteFile(backupPath(path), prev, 0o644); werr != nil {
			log.Warnf("could not snapshot %s: %v", path, werr)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing history %s: %w", path, err)
	}
	defer func() {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if s.records == nil {
		// Keep the file a JSON array even when empty.
		return enc.Encode([]Record{})
	}
	return enc.Encode(s.records)
}
