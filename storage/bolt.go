package storage

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var stateBucket = []byte("state")

// Bolt stores contract state in a single bbolt bucket. Every batch runs in
// one read-write transaction.
type Bolt struct {
	db *bolt.DB
}

// NewBolt opens the database file at path.
func NewBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		if err == bolt.ErrTimeout {
			return nil, errors.Errorf("bolt database %s is in use by another process", path)
		}
		return nil, errors.Wrapf(err, "bolt %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(stateBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init state bucket")
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(key string) (*string, error) {
	var out *string
	err := b.db.View(func(tx *bolt.Tx) error {
		// a cursor tells empty values apart from missing keys
		k, v := tx.Bucket(stateBucket).Cursor().Seek([]byte(key))
		if k != nil && bytes.Equal(k, []byte(key)) {
			s := string(v)
			out = &s
		}
		return nil
	})
	return out, err
}

func (b *Bolt) Set(key, value string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put([]byte(key), []byte(value))
	})
}

func (b *Bolt) Delete(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Delete([]byte(key))
	})
}

func (b *Bolt) ApplyBatch(sets map[string]string, deletes []string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(stateBucket)
		for k, v := range sets {
			if err := bkt.Put([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		for _, k := range deletes {
			if err := bkt.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Bolt) Close() error { return b.db.Close() }
