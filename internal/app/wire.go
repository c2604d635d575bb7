//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"franchise_dao/internal/config"
	"franchise_dao/internal/logging"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,
		HostSet,
		NewApp,
	)
	return nil, nil, nil
}
