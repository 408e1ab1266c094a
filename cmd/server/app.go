package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aggarwalComputronix/website/config"
	"github.com/aggarwalComputronix/website/internal/domain"
	"github.com/aggarwalComputronix/website/internal/infrastructure/cache"
	"github.com/aggarwalComputronix/website/internal/infrastructure/memstore"
	"github.com/aggarwalComputronix/website/internal/infrastructure/restdb"
	"github.com/aggarwalComputronix/website/internal/infrastructure/sqlite"
	"github.com/aggarwalComputronix/website/internal/infrastructure/token"
	"github.com/aggarwalComputronix/website/internal/usecase"
	"go.uber.org/zap"
)

// app is the wired dependency graph shared by every subcommand
type app struct {
	catalog  *usecase.CatalogService
	importer *usecase.ImportService
	auth     *usecase.AuthService
	contact  *usecase.ContactService

	// persistent is false for the memory driver, where writes vanish on exit
	persistent bool
	closers    []func() error
}

// stores groups the repositories chosen by store.driver
type stores struct {
	products   domain.ProductStore
	users      domain.UserRepository
	messages   domain.MessageRepository
	persistent bool
	db         *sql.DB
}

func openStores(cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Info("using in-memory store with demo catalog")
		return &stores{
			products: memstore.NewProductStore(memstore.DemoProducts()...),
			users:    memstore.NewUserStore(),
			messages: memstore.NewMessageStore(),
		}, nil

	case config.DriverSQLite, config.DriverREST:
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		s := &stores{
			products:   sqlite.NewProductRepo(db),
			users:      sqlite.NewUserRepo(db),
			messages:   sqlite.NewMessageRepo(db),
			persistent: true,
			db:         db,
		}
		if cfg.Store.Driver == config.DriverREST {
			// Accounts and messages stay local; the catalog lives in the hosted table.
			s.products = restdb.NewClient(
				cfg.Store.REST.BaseURL,
				cfg.Store.REST.APIKey,
				cfg.Store.REST.Table,
				cfg.Store.REST.RequestsPerSecond,
				logger,
			)
			logger.Info("using hosted catalog table",
				zap.String("base_url", cfg.Store.REST.BaseURL),
				zap.String("table", cfg.Store.REST.Table),
				zap.String("accounts_db", cfg.Store.SQLitePath))
		} else {
			logger.Info("using sqlite store", zap.String("path", cfg.Store.SQLitePath))
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	st, err := openStores(cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &app{persistent: st.persistent}
	if st.db != nil {
		a.closers = append(a.closers, st.db.Close)
	}

	var aliases *usecase.AliasTable
	if cfg.Catalog.AliasFile != "" {
		aliases, err = usecase.LoadAliasFile(cfg.Catalog.AliasFile)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		logger.Info("loaded category aliases",
			zap.String("file", cfg.Catalog.AliasFile),
			zap.Int("categories", len(aliases.Labels())))
	}

	memoryCache := cache.NewMemoryCache(cache.DefaultCleanupInterval)
	a.closers = append(a.closers, memoryCache.Close)
	logger.Info("catalog cache ready", zap.Duration("ttl", cfg.Cache.TTL))

	a.catalog = usecase.NewCatalogService(st.products, memoryCache, aliases, usecase.CatalogServiceConfig{
		CacheTTL:        cfg.Cache.TTL,
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		MaxPageSize:     cfg.Catalog.MaxPageSize,
		AdminPageSize:   cfg.Catalog.AdminPageSize,
	}, logger.Named("catalog"))

	a.importer = usecase.NewImportService(st.products, a.catalog, logger.Named("import"))

	a.auth = usecase.NewAuthService(
		st.users,
		token.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
		usecase.AuthServiceConfig{AdminEmails: cfg.Auth.AdminEmails},
		logger.Named("auth"),
	)
	if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("using the default JWT secret; set COMPUTRONIX_AUTH_JWT_SECRET")
	}

	a.contact = usecase.NewContactService(st.messages, logger.Named("contact"))

	return a, nil
}

// Close releases stores and background workers in reverse order of creation
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// cliTimeout bounds one-shot CLI tasks
const cliTimeout = 5 * time.Minute
