package main

import (
	"fmt"

	"github.com/ruixin/snapsolve/internal/config"
	"github.com/ruixin/snapsolve/internal/storage"
)

func loadConfig() (*config.Config, error) {
	if configFlag != "" {
		return config.Load(configFlag)
	}
	return config.LoadDefault()
}

// openStore builds the configured key-value backend. The returned closer is a
// no-op for backends with nothing to release.
func openStore(cfg *config.Config) (storage.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case "sqlite":
		s, err := storage.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "memory":
		return storage.NewMemoryStore(), noop, nil
	case "file":
		s, err := storage.NewFileStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
