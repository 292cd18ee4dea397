package store

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/mmcdole/marquee/internal/domain"
)

const (
	movieKeyPrefix  = "movie:"
	detailKeyPrefix = "detail:"
)

// BadgerStore implements domain.Store on BadgerDB.
// Keys are "movie:{id}" and "detail:{id}".
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens a badger database under baseCacheDir.
// An empty baseCacheDir runs badger in memory.
func NewBadgerStore(baseCacheDir, apiURL string) (*BadgerStore, error) {
	var opts badger.Options
	if baseCacheDir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		dir := cacheDir(baseCacheDir, apiURL)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return NewBadgerStoreWithDB(db), nil
}

// NewBadgerStoreWithDB wraps an already open badger database
func NewBadgerStoreWithDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) SaveMovies(movies []domain.Movie) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, m := range movies {
			data, err := json.Marshal(toMovieRow(m))
			if err != nil {
				return fmt.Errorf("marshal movie %d: %w", m.ID, err)
			}
			if err := txn.Set([]byte(movieKeyPrefix+strconv.Itoa(m.ID)), data); err != nil {
				return fmt.Errorf("set movie %d: %w", m.ID, err)
			}
		}
		return nil
	})
	return storeErr("save movies", err)
}

func (s *BadgerStore) LoadMovies() ([]domain.Movie, error) {
	var movies []domain.Movie
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(movieKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var row movieRow
				if err := json.Unmarshal(val, &row); err != nil {
					return err
				}
				movies = append(movies, row.toMovie())
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("load movies", err)
	}
	sortByRating(movies)
	return movies, nil
}

func (s *BadgerStore) UpsertDetail(detail domain.MovieDetail) error {
	data, err := json.Marshal(toDetailRow(detail))
	if err != nil {
		return storeErr("save detail", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(detailKeyPrefix+strconv.Itoa(detail.ID)), data)
	})
	return storeErr("save detail", err)
}

func (s *BadgerStore) LoadDetail(id int) (*domain.MovieDetail, error) {
	var row detailRow
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(detailKeyPrefix + strconv.Itoa(id)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &row)
		})
	})
	if err != nil {
		return nil, storeErr("load detail", err)
	}
	if !found {
		return nil, nil
	}

	detail := row.toDetail()
	return &detail, nil
}

func (s *BadgerStore) Clear() error {
	return storeErr("clear", s.db.DropAll())
}
