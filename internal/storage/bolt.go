package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

var recordsBucket = []byte("url_records")

// BoltStorage persists records in a single bbolt bucket keyed by short code.
// Every mutation runs inside one bbolt write transaction, so UpdateActive is
// atomic with respect to concurrent writers of the same code.
type BoltStorage struct {
	db *bbolt.DB
}

// NewBoltStorage opens (creating if needed) the database file at path.
func NewBoltStorage(path string) (*BoltStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return nil, errors.Wrap(err, "create storage dir failed")
	}

	db, err := bbolt.Open(path, 0660, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open bolt file failed")
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(recordsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create bucket failed")
	}

	return &BoltStorage{db: db}, nil
}

func (s *BoltStorage) Create(_ context.Context, record URLRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshal record failed")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		key := []byte(record.ShortCode)
		if b.Get(key) != nil {
			return ErrDuplicateKey
		}
		return errors.Wrap(b.Put(key, value), "put record failed")
	})
}

func (s *BoltStorage) FindByCode(_ context.Context, code string) (*URLRecord, error) {
	var r URLRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		value := tx.Bucket(recordsBucket).Get([]byte(code))
		if value == nil {
			return ErrNotFound
		}
		return errors.Wrap(json.Unmarshal(value, &r), "unmarshal record failed")
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *BoltStorage) UpdateActive(_ context.Context, code string, active bool) (*URLRecord, error) {
	var r URLRecord
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		key := []byte(code)
		value := b.Get(key)
		if value == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(value, &r); err != nil {
			return errors.Wrap(err, "unmarshal record failed")
		}

		now := time.Now().UTC()
		r.Active = active
		r.UpdatedAt = &now

		updated, err := json.Marshal(r)
		if err != nil {
			return errors.Wrap(err, "marshal record failed")
		}
		return errors.Wrap(b.Put(key, updated), "put record failed")
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *BoltStorage) Delete(_ context.Context, code string) (bool, error) {
	var deleted bool
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		key := []byte(code)
		if b.Get(key) == nil {
			return nil
		}
		deleted = true
		return b.Delete(key)
	})
	if err != nil {
		return false, errors.Wrap(err, "delete record failed")
	}
	return deleted, nil
}

// PingContext reports whether the database file is still open.
func (s *BoltStorage) PingContext(_ context.Context) error {
	return s.db.View(func(*bbolt.Tx) error { return nil })
}

func (s *BoltStorage) Close() error {
	return s.db.Close()
}
