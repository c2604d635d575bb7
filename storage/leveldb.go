package storage

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDB stores contract state in a leveldb directory. Batches are written
// with a single leveldb.Batch so they land atomically.
type LevelDB struct {
	db   *leveldb.DB
	path string
}

// NewLevelDB opens (or creates) the database at path, recovering it when
// the manifest is corrupted.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		OpenFilesCacheCapacity: 64,
		BlockCacheCapacity:     8 * opt.MiB,
		WriteBuffer:            4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*lerrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "leveldb %s", path)
	}
	return &LevelDB{db: db, path: path}, nil
}

func (l *LevelDB) Get(key string) (*string, error) {
	v, err := l.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s := string(v)
	return &s, nil
}

func (l *LevelDB) Set(key, value string) error {
	return l.db.Put([]byte(key), []byte(value), nil)
}

func (l *LevelDB) Delete(key string) error {
	return l.db.Delete([]byte(key), nil)
}

func (l *LevelDB) ApplyBatch(sets map[string]string, deletes []string) error {
	b := new(leveldb.Batch)
	for k, v := range sets {
		b.Put([]byte(k), []byte(v))
	}
	for _, k := range deletes {
		b.Delete([]byte(k))
	}
	return l.db.Write(b, &opt.WriteOptions{Sync: true})
}

// Path returns the path to the database directory.
func (l *LevelDB) Path() string { return l.path }

func (l *LevelDB) Close() error { return l.db.Close() }
