package config

import (
	"path/filepath"
	"time"

	"franchise_dao/sdk"
	"franchise_dao/storage"
)

// RuntimeConfig is the resolved configuration of one daoctl invocation.
type RuntimeConfig struct {
	DataDir   string
	Store     storage.Kind
	CacheSize int
	// Caller is the principal every operation of this invocation runs as.
	Caller sdk.Address
	// Height overrides the persisted chain height when non-zero.
	Height  uint64
	Debug   bool
	JSON    bool
	Timeout time.Duration
}

// StorePath resolves where the configured backend keeps its files.
func (c *RuntimeConfig) StorePath() string {
	switch c.Store {
	case storage.KindLevelDB:
		return filepath.Join(c.DataDir, "state.ldb")
	case storage.KindBolt:
		return filepath.Join(c.DataDir, "state.bolt")
	default:
		return filepath.Join(c.DataDir, "state.json")
	}
}
