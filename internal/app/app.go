package app

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/pkg/errors"

	"franchise_dao/contract"
	"franchise_dao/internal/config"
	"franchise_dao/internal/logging"
	"franchise_dao/sdk"
	"franchise_dao/storage"
)

// Custody is the ledger account holding everything the contract escrows.
const Custody sdk.Address = "contract:dao"

// App holds the wired dependencies of one daoctl invocation.
type App struct {
	Config *config.RuntimeConfig
	Log    *slog.Logger
	Events *logging.EventLogger
	Store  storage.Store
	Ledger *storage.Ledger
	Outbox *storage.Outbox
	Clock  *Clock
	DAO    *contract.DAO
}

var HostSet = wire.NewSet(
	ProvideStore,
	ProvideLedger,
	storage.NewOutbox,
	NewClock,
	ProvideHost,
	contract.New,
)

func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	events *logging.EventLogger,
	store storage.Store,
	ledger *storage.Ledger,
	outbox *storage.Outbox,
	clock *Clock,
	dao *contract.DAO,
) *App {
	return &App{
		Config: cfg,
		Log:    log,
		Events: events,
		Store:  store,
		Ledger: ledger,
		Outbox: outbox,
		Clock:  clock,
		DAO:    dao,
	}
}

// ProvideStore opens the configured backend; the cleanup closes it.
func ProvideStore(cfg *config.RuntimeConfig, log *slog.Logger) (storage.Store, func(), error) {
	s, err := storage.Open(storage.Options{
		Kind:      cfg.Store,
		Path:      cfg.StorePath(),
		CacheSize: cfg.CacheSize,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "open store")
	}
	log.Debug("store opened", "kind", cfg.Store, "path", cfg.StorePath(), "cache", cfg.CacheSize)
	return s, func() {
		if err := s.Close(); err != nil {
			log.Warn("closing store", "err", err)
		}
	}, nil
}

func ProvideLedger(store storage.Store) *storage.Ledger {
	return storage.NewLedger(store, Custody)
}

func ProvideHost(store storage.Store, clock *Clock, ledger *storage.Ledger, outbox *storage.Outbox, events *logging.EventLogger) sdk.Host {
	return sdk.Host{
		State:      store,
		Env:        clock,
		Bank:       ledger,
		Dispatcher: outbox,
		Events:     events,
	}
}
