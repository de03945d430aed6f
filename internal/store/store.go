package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"likeshelf/internal/domain"
)

// Bucket names
var (
	bucketVideos = []byte("videos")
	bucketMeta   = []byte("meta")
)

var metaSyncKey = []byte("sync")

// VideoStore implements domain.Store using BoltDB. Each video is one JSON
// record keyed by its id. A page merge is a single transaction: either all
// new items in a page are committed or none are.
type VideoStore struct {
	db *bolt.DB

	mu sync.RWMutex
	// Snapshot of all records for hot-path reads, rebuilt lazily and
	// invalidated on every write.
	snapshot []*domain.VideoRecord
}

// NewVideoStore opens (or creates) the database under dir. An empty dir
// yields a memory-only store with no persistence, used by tests.
func NewVideoStore(dir string) (*VideoStore, error) {
	if dir == "" {
		return newMemoryStore()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	dbPath := filepath.Join(dir, "likeshelf.db")
	return openAt(dbPath)
}

func newMemoryStore() (*VideoStore, error) {
	// bbolt has no true in-memory mode; back the store with a temp file
	// that is unlinked immediately so nothing survives the process.
	f, err := os.CreateTemp("", "likeshelf-mem-*.db")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	f.Close()
	s, err := openAt(path)
	if err != nil {
		return nil, err
	}
	os.Remove(path)
	return s, nil
}

func openAt(dbPath string) (*VideoStore, error) {
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketVideos, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &VideoStore{db: db}, nil
}

func (s *VideoStore) Close() error {
	return s.db.Close()
}

func (s *VideoStore) invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
}

// === Merge ===

// MergePage inserts the page's items that are not yet present, in one
// transaction. Existing records are skipped entirely: no field of a record
// already in the store is touched (first-seen-wins). Returns the number of
// newly inserted records.
func (s *VideoStore) MergePage(items []*domain.VideoRecord) (int, error) {
	inserted := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVideos)
		for _, v := range items {
			if v == nil || v.ID == "" {
				continue
			}
			if b.Get([]byte(v.ID)) != nil {
				continue
			}
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(v.ID), data); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		s.invalidate()
	}
	return inserted, nil
}

// === Reads ===

func (s *VideoStore) Get(id string) (*domain.VideoRecord, bool) {
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketVideos).Get([]byte(id)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return nil, false
	}
	var rec domain.VideoRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false
	}
	return &rec, true
}

// All returns every record, ordered by id. Callers receive the shared
// snapshot and must not mutate the records.
func (s *VideoStore) All() ([]*domain.VideoRecord, error) {
	s.mu.RLock()
	if s.snapshot != nil {
		snap := s.snapshot
		s.mu.RUnlock()
		return snap, nil
	}
	s.mu.RUnlock()

	var records []*domain.VideoRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVideos).ForEach(func(k, v []byte) error {
			var rec domain.VideoRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("corrupt record %q: %w", k, err)
			}
			records = append(records, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	s.mu.Lock()
	s.snapshot = records
	s.mu.Unlock()
	return records, nil
}

func (s *VideoStore) Count() (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketVideos).Stats().KeyN
		return nil
	})
	return n, err
}

// === Mutations ===

// SetThumbnailPath records the local mirror path for id. The transition is
// strictly unset to set: a record that already has a local path is left
// unchanged, and an unknown id is an error.
func (s *VideoStore) SetThumbnailPath(id, path string) error {
	if path == "" {
		return nil
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVideos)
		data := b.Get([]byte(id))
		if data == nil {
			return domain.ErrNotFound
		}
		var rec domain.VideoRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		if rec.ThumbnailLocalPath != "" {
			return nil
		}
		rec.ThumbnailLocalPath = path
		out, err := json.Marshal(&rec)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), out)
	})
	if err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// ApplyAvailability flags every id in missing as IsMissing=true and every
// other checked id as IsMissing=false, in one transaction. Ids that were
// never checked are untouched; IsMissing is the only field rewritten.
func (s *VideoStore) ApplyAvailability(checked, missing []string) error {
	missingSet := make(map[string]bool, len(missing))
	for _, id := range missing {
		missingSet[id] = true
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVideos)
		for _, id := range checked {
			data := b.Get([]byte(id))
			if data == nil {
				continue
			}
			var rec domain.VideoRecord
			if err := json.Unmarshal(data, &rec); err != nil {
				return err
			}
			want := missingSet[id]
			if rec.IsMissing == want {
				continue
			}
			rec.IsMissing = want
			out, err := json.Marshal(&rec)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(id), out); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// === Sync metadata ===

func (s *VideoStore) GetSyncMeta() (domain.SyncMeta, bool) {
	var meta domain.SyncMeta
	found := false
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketMeta).Get(metaSyncKey); v != nil {
			found = json.Unmarshal(v, &meta) == nil
		}
		return nil
	})
	return meta, found
}

func (s *VideoStore) SaveSyncMeta(meta domain.SyncMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(metaSyncKey, data)
	})
}

// === Wipe ===

// Wipe removes every record and all sync metadata. This is the only
// deletion path the store offers.
func (s *VideoStore) Wipe() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketVideos, bucketMeta} {
			if err := tx.DeleteBucket(bucket); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate()
	return nil
}
