package contract

import (
	"sort"

	"github.com/pkg/errors"

	"franchise_dao/sdk"
)

// stagedState buffers the writes of one operation on top of the host store.
// Reads see staged writes first. Nothing reaches the host until commit.
type stagedState struct {
	base    sdk.State
	writes  map[string]string
	deletes map[string]struct{}
}

func newStagedState(base sdk.State) *stagedState {
	return &stagedState{
		base:    base,
		writes:  map[string]string{},
		deletes: map[string]struct{}{},
	}
}

func (s *stagedState) get(key string) (*string, error) {
	if v, ok := s.writes[key]; ok {
		return &v, nil
	}
	if _, ok := s.deletes[key]; ok {
		return nil, nil
	}
	v, err := s.base.Get(key)
	if err != nil {
		return nil, errors.Wrapf(err, "state get %x", key)
	}
	return v, nil
}

func (s *stagedState) set(key, value string) {
	delete(s.deletes, key)
	s.writes[key] = value
}

func (s *stagedState) del(key string) {
	delete(s.writes, key)
	s.deletes[key] = struct{}{}
}

// commit flushes staged writes, in one batch when the host store supports it.
func (s *stagedState) commit() error {
	dels := make([]string, 0, len(s.deletes))
	for k := range s.deletes {
		dels = append(dels, k)
	}
	sort.Strings(dels)
	if b, ok := s.base.(sdk.Batcher); ok {
		return errors.Wrap(b.ApplyBatch(s.writes, dels), "state batch")
	}
	keys := make([]string, 0, len(s.writes))
	for k := range s.writes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := s.setIfChanged(k, s.writes[k]); err != nil {
			return err
		}
	}
	for _, k := range dels {
		if err := s.base.Delete(k); err != nil {
			return errors.Wrapf(err, "state delete %x", k)
		}
	}
	return nil
}

// setIfChanged avoids unnecessary writes on stores without batching.
func (s *stagedState) setIfChanged(key, value string) error {
	existing, err := s.base.Get(key)
	if err != nil {
		return errors.Wrapf(err, "state get %x", key)
	}
	if existing != nil && *existing == value {
		return nil
	}
	return errors.Wrapf(s.base.Set(key, value), "state set %x", key)
}
