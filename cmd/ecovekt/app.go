package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ecovekt/backend/config"
	"github.com/ecovekt/backend/internal/application/adapter"
	"github.com/ecovekt/backend/internal/application/usecase/catalog"
	"github.com/ecovekt/backend/internal/application/usecase/statistics"
	"github.com/ecovekt/backend/internal/application/usecase/wasteentry"
	"github.com/ecovekt/backend/internal/integration/adapters"
	"github.com/ecovekt/backend/internal/integration/kvstore"
	"github.com/ecovekt/backend/internal/integration/localstore"
	"github.com/ecovekt/backend/internal/integration/remote"
)

// app holds the dependencies of one CLI invocation. Tests pre-fill kv and
// documents; otherwise they are opened from the device configuration.
type app struct {
	out        io.Writer
	configPath string
	cfg        *config.DeviceConfig

	kv        adapter.KeyValueStore
	documents adapter.DocumentStore
	clock     adapter.Clock
	identity  *adapters.TokenIdentityProvider

	workflow *wasteentry.Workflow
	closers  []func() error
}

// init loads the configuration and opens the stores that are not set yet.
func (a *app) init() error {
	if a.workflow != nil {
		return nil
	}

	if a.cfg == nil {
		if a.configPath == "" {
			a.configPath = config.DefaultDeviceConfigPath()
		}
		cfg, err := config.LoadDevice(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	if a.clock == nil {
		a.clock = adapters.NewSystemClock()
	}

	a.identity = adapters.NewTokenIdentityProvider(a.cfg.Token)
	a.identity.OnIdentityChange(func(userID string, ok bool) {
		if ok {
			slog.Info("Signed in", "user_id", userID)
		} else {
			slog.Info("Signed out")
		}
	})

	if a.kv == nil {
		store, err := kvstore.OpenBadgerStore(kvstore.BadgerConfig{
			Path:       filepath.Join(a.cfg.DataDir, "pending"),
			SyncWrites: true,
			Logger:     slog.Default(),
		})
		if err != nil {
			return fmt.Errorf("failed to open local storage: %w", err)
		}
		a.kv = store
		a.closers = append(a.closers, store.Close)
	}

	if a.documents == nil {
		a.documents = remote.NewDocumentClient(a.cfg.ServerURL, nil, a.token)
	}

	a.workflow = wasteentry.NewWorkflow(
		localstore.NewPendingEntryStore(a.kv, localstore.DefaultKeys()),
		a.documents,
		a.identity,
		a.clock,
	)
	return nil
}

// token returns the current bearer token.
func (a *app) token() string {
	if a.cfg == nil {
		return ""
	}
	return a.cfg.Token
}

// setToken stores token in the configuration file and updates the identity.
func (a *app) setToken(token string) error {
	a.cfg.Token = token
	if a.configPath != "" {
		if err := config.SaveDevice(a.configPath, a.cfg); err != nil {
			return err
		}
	}
	a.identity.SetToken(token)
	return nil
}

func (a *app) listCategories() *catalog.ListWasteCategoriesUseCase {
	return catalog.NewListWasteCategoriesUseCase(a.documents)
}

func (a *app) getSelection() *catalog.GetSelectedWasteUseCase {
	return catalog.NewGetSelectedWasteUseCase(a.documents, a.identity)
}

func (a *app) updateSelection() *catalog.UpdateSelectedWasteUseCase {
	return catalog.NewUpdateSelectedWasteUseCase(a.documents, a.identity, a.clock)
}

func (a *app) statistics() *statistics.GetWasteStatisticsUseCase {
	return statistics.NewGetWasteStatisticsUseCase(a.documents, a.identity, a.clock, statistics.DefaultWindow)
}

// Close releases the local storage. It is safe to call more than once.
func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			fmt.Fprintln(os.Stderr, "Error closing storage:", err)
		}
	}
	a.closers = nil
}
