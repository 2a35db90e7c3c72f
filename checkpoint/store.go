// Package checkpoint persists per-image summaries in a bbolt file so an
// interrupted collection run can resume where it stopped.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/wbrown/flowerhue"
)

var bucketSummaries = []byte("summaries")

// Store maps a key (image path plus run parameters) to its Summary.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the checkpoint file at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSummaries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored summary for key, if any.
func (s *Store) Get(key string) (flowerhue.Summary, bool, error) {
	var sum flowerhue.Summary
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSummaries).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &sum)
	})
	if err != nil {
		return flowerhue.Summary{}, false, fmt.Errorf("checkpoint entry %q: %w", key, err)
	}
	return sum, found, nil
}

// Put stores the summary for key.
func (s *Store) Put(key string, sum flowerhue.Summary) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(sum)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketSummaries).Put([]byte(key), data)
	})
}

// Len returns the number of stored summaries.
func (s *Store) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketSummaries).Stats().KeyN
		return nil
	})
	return n, err
}
