package app

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"franchise_dao/internal/config"
	"franchise_dao/sdk"
	"franchise_dao/storage"
)

const heightKey = "host:height"

// Clock is the env provider of the command line host. The chain height is
// persisted next to the contract state and only moves when advanced.
type Clock struct {
	store storage.Store
	cfg   *config.RuntimeConfig
}

func NewClock(store storage.Store, cfg *config.RuntimeConfig) *Clock {
	return &Clock{store: store, cfg: cfg}
}

func (c *Clock) Env() (sdk.Env, error) {
	h, err := c.Height()
	if err != nil {
		return sdk.Env{}, errors.Wrap(err, "chain height")
	}
	return sdk.Env{
		Sender:      c.cfg.Caller,
		TxId:        uuid.NewString(),
		BlockHeight: h,
		Timestamp:   time.Now().Unix(),
	}, nil
}

// Height is the --height override, or the persisted height.
func (c *Clock) Height() (uint64, error) {
	if c.cfg.Height > 0 {
		return c.cfg.Height, nil
	}
	v, err := c.store.Get(heightKey)
	if err != nil || v == nil {
		return 0, err
	}
	h, err := strconv.ParseUint(*v, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "stored height")
	}
	return h, nil
}

// Advance moves the persisted height forward by blocks.
func (c *Clock) Advance(blocks uint64) (uint64, error) {
	v, err := c.store.Get(heightKey)
	if err != nil {
		return 0, err
	}
	var h uint64
	if v != nil {
		if h, err = strconv.ParseUint(*v, 10, 64); err != nil {
			return 0, errors.Wrap(err, "stored height")
		}
	}
	h += blocks
	return h, c.store.Set(heightKey, strconv.FormatUint(h, 10))
}
