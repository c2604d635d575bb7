package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"franchise_dao/sdk"
	"franchise_dao/storage"
)

const (
	EnvPrefix      = "DAO"
	ConfigName     = "daoctl"
	DefaultDataDir = ".dao"
)

// Provider creates RuntimeConfig for Wire dependency injection.
func Provider(v *viper.Viper) (*RuntimeConfig, error) {
	kind := storage.Kind(strings.ToLower(v.GetString("store")))
	switch kind {
	case storage.KindMemory, storage.KindLevelDB, storage.KindBolt:
	default:
		return nil, errors.Errorf("unknown store %q (memory, leveldb, bolt)", kind)
	}
	cfg := &RuntimeConfig{
		DataDir:   v.GetString("data_dir"),
		Store:     kind,
		CacheSize: v.GetInt("cache_size"),
		Caller:    sdk.Address(v.GetString("caller")).Canonical(),
		Height:    v.GetUint64("height"),
		Debug:     v.GetBool("debug"),
		JSON:      v.GetBool("json"),
		Timeout:   v.GetDuration("timeout"),
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.Caller != "" && !cfg.Caller.IsValid() {
		return nil, errors.Errorf("invalid caller address %q", cfg.Caller)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	return cfg, nil
}

// SetupViper creates and configures a viper instance. A .env file in the
// working directory or data dir is loaded first so DAO_* variables in it apply.
func SetupViper(dataDir string) *viper.Viper {
	for _, f := range []string{".env", filepath.Join(dataDir, ".env")} {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	v := viper.New()
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dataDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("data_dir", dataDir)
	v.SetDefault("store", string(storage.KindLevelDB))
	v.SetDefault("cache_size", 256)
	v.SetDefault("timeout", "30s")
	v.SetDefault("debug", false)
	v.SetDefault("json", false)

	// config file is optional
	_ = v.ReadInConfig()
	return v
}

// BindFlags maps changed command line flags onto viper keys.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		v.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
	})
}
