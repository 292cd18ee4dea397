package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mmcdole/marquee/internal/domain"
	bolt "go.etcd.io/bbolt"
	bolterrors "go.etcd.io/bbolt/errors"
)

// Bucket names
var (
	bucketMovies  = []byte("movies")
	bucketDetails = []byte("details")
)

// BoltStore implements domain.Store using BoltDB.
// Movies are keyed by ID in one bucket, details by ID in another.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the cache database under baseCacheDir.
// A non-empty apiURL gives each API endpoint its own subdirectory.
func NewBoltStore(baseCacheDir, apiURL string) (*BoltStore, error) {
	dir := cacheDir(baseCacheDir, apiURL)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "marquee.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketMovies, bucketDetails} {
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

	return &BoltStore{db: db}, nil
}

// cacheDir returns the per-endpoint cache directory
func cacheDir(baseCacheDir, apiURL string) string {
	if apiURL == "" {
		return baseCacheDir
	}
	return filepath.Join(baseCacheDir, hashURL(apiURL))
}

func hashURL(apiURL string) string {
	normalized := strings.TrimRight(strings.ToLower(apiURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Movies ===

func (s *BoltStore) SaveMovies(movies []domain.Movie) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMovies)
		for _, m := range movies {
			data, err := json.Marshal(toMovieRow(m))
			if err != nil {
				return err
			}
			if err := b.Put(idKey(m.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
	return storeErr("save movies", err)
}

func (s *BoltStore) LoadMovies() ([]domain.Movie, error) {
	var movies []domain.Movie
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMovies).ForEach(func(_, v []byte) error {
			var row movieRow
			if err := json.Unmarshal(v, &row); err != nil {
				return err
			}
			movies = append(movies, row.toMovie())
			return nil
		})
	})
	if err != nil {
		return nil, storeErr("load movies", err)
	}
	sortByRating(movies)
	return movies, nil
}

// === Details ===

func (s *BoltStore) UpsertDetail(detail domain.MovieDetail) error {
	data, err := json.Marshal(toDetailRow(detail))
	if err != nil {
		return storeErr("save detail", err)
	}
	// Put replaces an existing row for the key or inserts a new one
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDetails).Put(idKey(detail.ID), data)
	})
	return storeErr("save detail", err)
}

func (s *BoltStore) LoadDetail(id int) (*domain.MovieDetail, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketDetails).Get(idKey(id)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("load detail", err)
	}
	if data == nil {
		return nil, nil
	}

	var row detailRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, storeErr("load detail", err)
	}
	detail := row.toDetail()
	return &detail, nil
}

// === Invalidation ===

// Clear deletes every cached row
func (s *BoltStore) Clear() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketMovies, bucketDetails} {
			if err := tx.DeleteBucket(bucket); err != nil && !errors.Is(err, bolterrors.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	return storeErr("clear", err)
}
