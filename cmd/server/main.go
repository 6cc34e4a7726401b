package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hiddenuae/gems-service/internal/config"
	"github.com/hiddenuae/gems-service/internal/gem"
	"github.com/hiddenuae/gems-service/internal/httpapi"
	"github.com/hiddenuae/gems-service/internal/progress"
	"github.com/hiddenuae/gems-service/internal/search"
	"github.com/hiddenuae/gems-service/shared/logging"
	sharedserver "github.com/hiddenuae/gems-service/shared/server"
)

const serviceName = "gems-service"

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config error: %w", err))
	}

	logger := logging.NewLogger(serviceName)

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		panic(fmt.Errorf("rules error: %w", err))
	}

	if cfg.Firestore.EmulatorHost != "" {
		if err := os.Setenv("FIRESTORE_EMULATOR_HOST", cfg.Firestore.EmulatorHost); err != nil {
			panic(fmt.Errorf("set FIRESTORE_EMULATOR_HOST: %w", err))
		}
	}

	sources, closeSources, err := openSources(ctx, cfg, logger)
	if err != nil {
		panic(fmt.Errorf("catalog source error: %w", err))
	}
	defer closeSources()

	loader := gem.NewLoader(logger, cfg.Catalog.FetchTimeout, sources...)
	catalog := gem.NewHolder(loader.Load(ctx))

	persistence := newPersistence(cfg)
	store, err := progress.NewStore(persistence, cfg.StorageKey, catalog, rules, logger)
	if err != nil {
		panic(fmt.Errorf("progress store init error: %w", err))
	}

	progressService, err := progress.NewService(store, catalog, progress.NewSystemClock(), progress.NewUUIDGenerator())
	if err != nil {
		panic(fmt.Errorf("progress service init error: %w", err))
	}

	searcher, err := search.NewSearcher(catalog, cfg.SearchCacheSize)
	if err != nil {
		panic(fmt.Errorf("searcher init error: %w", err))
	}

	router := sharedserver.NewRouter(serviceName, func() int { return catalog.Current().Len() }, func(r chi.Router) {
		httpapi.RegisterRoutes(r, httpapi.Dependencies{
			Service:  progressService,
			Searcher: searcher,
			Catalog:  catalog,
			Reloader: loader,
			Logger:   logger,
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := sharedserver.Run(ctx, srv, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}

// openSources opens every configured catalog source. A source that cannot be opened is
// fatal; one that opens but later fails to fetch only degrades the catalog.
func openSources(ctx context.Context, cfg config.Config, logger *slog.Logger) ([]gem.Source, func(), error) {
	var (
		sources  []gem.Source
		cleanups []func()
	)
	closeAll := func() {
		for _, c := range cleanups {
			c()
		}
	}

	opts := cfg.SourceOptions()
	opts.Logger = logger
	for _, uri := range cfg.Catalog.Sources {
		src, cleanup, err := gem.OpenSource(ctx, uri, opts)
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("open %s: %w", uri, err)
		}
		logger.Info("catalog source configured", slog.String("source", src.Name()))
		sources = append(sources, src)
		cleanups = append(cleanups, cleanup)
	}
	return sources, closeAll, nil
}

func newPersistence(cfg config.Config) progress.Persistence {
	switch cfg.DataStore {
	case config.DataStoreFile:
		return progress.NewFilePersistence(cfg.DataDir)
	default:
		return progress.NewMemoryPersistence()
	}
}
