package storage

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// Memory is a map backed store. When a snapshot file is set every committed
// change is written to it as JSON with hex encoded keys and values.
type Memory struct {
	mu       sync.RWMutex
	db       map[string]string
	filename string
}

// NewMemory returns an empty store, loading filename first if it exists.
func NewMemory(filename string) (*Memory, error) {
	m := &Memory{db: map[string]string{}, filename: filename}
	if err := m.loadFromFile(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Memory) Get(key string) (*string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.db[key]
	if !ok {
		return nil, nil
	}
	return &val, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.db[key] = value
	return m.saveToFile()
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.db, key)
	return m.saveToFile()
}

func (m *Memory) ApplyBatch(sets map[string]string, deletes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range sets {
		m.db[k] = v
	}
	for _, k := range deletes {
		delete(m.db, k)
	}
	return m.saveToFile()
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.db)
}

func (m *Memory) Close() error { return nil }

// saveToFile writes the full map to the snapshot file.
func (m *Memory) saveToFile() error {
	if m.filename == "" {
		return nil
	}
	out := make(map[string]string, len(m.db))
	for k, v := range m.db {
		out[hexutil.Encode([]byte(k))] = hexutil.Encode([]byte(v))
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	return errors.Wrap(os.WriteFile(m.filename, data, 0o644), "write snapshot")
}

// loadFromFile restores the map from the snapshot file, if any.
func (m *Memory) loadFromFile() error {
	if m.filename == "" {
		return nil
	}
	data, err := os.ReadFile(m.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "read snapshot")
	}
	var in map[string]string
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrap(err, "decode snapshot")
	}
	for hk, hv := range in {
		k, err := hexutil.Decode(hk)
		if err != nil {
			return errors.Wrapf(err, "snapshot key %s", hk)
		}
		v, err := hexutil.Decode(hv)
		if err != nil {
			return errors.Wrapf(err, "snapshot value for %s", hk)
		}
		m.db[string(k)] = string(v)
	}
	return nil
}
