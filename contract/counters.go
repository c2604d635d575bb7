package contract

import (
	"strconv"

	"github.com/pkg/errors"
)

// getCount reads the decimal counter under key and defaults to zero.
func (s *stagedState) getCount(key string) (uint64, error) {
	ptr, err := s.get(key)
	if err != nil {
		return 0, err
	}
	if ptr == nil || *ptr == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(*ptr, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrCorruptState, "counter %s: %v", key, err)
	}
	return n, nil
}

// setCount stores uint64 counters back as decimal strings for the host kv.
func (s *stagedState) setCount(key string, n uint64) {
	s.set(key, strconv.FormatUint(n, 10))
}
