// Package storage provides the key/value backends a DAO runs on, plus the
// ledger bank and outbox dispatcher used by the command line host.
package storage

import (
	"io"

	"github.com/pkg/errors"

	"franchise_dao/sdk"
)

// Store is a closable state backend able to apply batches atomically.
type Store interface {
	sdk.State
	sdk.Batcher
	io.Closer
}

// Kind names a backend in configuration.
type Kind string

const (
	KindMemory  Kind = "memory"
	KindLevelDB Kind = "leveldb"
	KindBolt    Kind = "bolt"
)

// Options configures Open.
type Options struct {
	Kind Kind
	// Path is a directory for leveldb, a file for bolt and the snapshot file
	// for memory (empty keeps memory purely in-process).
	Path string
	// CacheSize wraps the store in an LRU read cache when positive.
	CacheSize int
}

// Open builds the configured backend.
func Open(opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Kind {
	case KindMemory, "":
		s, err = NewMemory(opts.Path)
	case KindLevelDB:
		s, err = NewLevelDB(opts.Path)
	case KindBolt:
		s, err = NewBolt(opts.Path)
	default:
		return nil, errors.Errorf("unknown store kind %q", opts.Kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s store", opts.Kind)
	}
	if opts.CacheSize > 0 {
		return NewCached(s, opts.CacheSize)
	}
	return s, nil
}
