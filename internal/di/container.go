package di

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-l10nfallback/internal/allowlist"
	"github.com/goliatone/go-l10nfallback/internal/commands"
	allowlistcmd "github.com/goliatone/go-l10nfallback/internal/commands/allowlist"
	"github.com/goliatone/go-l10nfallback/internal/dbquery"
	"github.com/goliatone/go-l10nfallback/internal/extconfig"
	"github.com/goliatone/go-l10nfallback/internal/l10n"
	"github.com/goliatone/go-l10nfallback/internal/logging"
	"github.com/goliatone/go-l10nfallback/internal/logging/gologger"
	"github.com/goliatone/go-l10nfallback/internal/runtimeconfig"
	"github.com/goliatone/go-l10nfallback/internal/tableschema"
	"github.com/goliatone/go-l10nfallback/pkg/interfaces"
)

// ErrBunDBRequired is returned when bun storage is configured without a database.
var ErrBunDBRequired = errors.New("di: bun storage requires a database (WithBunDB)")

const seedTimeout = 10 * time.Second

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider

	settingsRepo extconfig.Repository
	schemas      *tableschema.Registry

	resolver *allowlist.Resolver
	builder  *l10n.Builder
	parser   *dbquery.Parser

	configureTables *allowlistcmd.ConfigureTablesHandler
	clearTables     *allowlistcmd.ClearTablesHandler

	optionErr error
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies the database used by the bun storage provider.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithSettingsRepository replaces the extension settings store entirely.
func WithSettingsRepository(repo extconfig.Repository) Option {
	return func(c *Container) {
		c.settingsRepo = repo
	}
}

// WithSchemas registers additional table schemas.
func WithSchemas(schemas ...tableschema.TableLanguageSchema) Option {
	return func(c *Container) {
		for _, s := range schemas {
			if err := c.schemas.Register(s); err != nil && c.optionErr == nil {
				c.optionErr = fmt.Errorf("di: register schema: %w", err)
			}
		}
	}
}

// NewContainer validates cfg and wires the fallback services.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:  cfg,
		schemas: tableschema.NewRegistry(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.optionErr != nil {
		return nil, c.optionErr
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureSchemas(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureRepositories(); err != nil {
		return nil, err
	}
	c.configureServices()

	if err := c.seedTables(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) != runtimeconfig.LoggingGoLogger {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureSchemas() error {
	for _, s := range c.Config.Schemas {
		if err := c.schemas.Register(tableschema.TableLanguageSchema{
			Table:                  s.Table,
			LanguageField:          s.LanguageField,
			TranslationParentField: s.TranslationParentField,
			UIDField:               s.UIDField,
		}); err != nil {
			return err
		}
	}

	path := strings.TrimSpace(c.Config.SchemaFile)
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("di: open schema file: %w", err)
	}
	defer file.Close()

	loaded, err := tableschema.LoadYAML(file)
	if err != nil {
		return err
	}
	c.schemas.Merge(loaded)
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cfg.TTL = c.Config.Cache.TTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() error {
	if c.settingsRepo != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider)) {
	case runtimeconfig.StorageBun:
		if c.bunDB == nil {
			return ErrBunDBRequired
		}
		if c.cacheService != nil && c.keySerializer != nil {
			c.settingsRepo = extconfig.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
			return nil
		}
		c.settingsRepo = extconfig.NewBunRepository(c.bunDB)
	default:
		c.settingsRepo = extconfig.NewMemoryRepository()
	}
	return nil
}

func (c *Container) configureServices() {
	c.resolver = allowlist.NewResolver(c.settingsRepo,
		allowlist.WithExtension(c.Config.Extension),
		allowlist.WithPath(c.Config.Path),
		allowlist.WithLogger(logging.AllowListLogger(c.loggerProvider)),
	)
	c.builder = l10n.NewBuilder(
		l10n.WithEligibility(c.resolver),
		l10n.WithSchemaSource(c.schemas),
		l10n.WithLogger(logging.PredicateLogger(c.loggerProvider)),
	)
	c.parser = dbquery.NewParser(c.builder, c.schemas,
		dbquery.WithLogger(logging.QueryLogger(c.loggerProvider)),
	)

	commandLogger := logging.CommandLogger(c.loggerProvider, "allowlist")
	c.configureTables = allowlistcmd.NewConfigureTablesHandler(c.settingsRepo, c.resolver.Path(), commandLogger)
	c.clearTables = allowlistcmd.NewClearTablesHandler(c.settingsRepo, c.resolver.Path(), commandLogger,
		commands.WithTimeout[allowlistcmd.ClearTablesCommand](commands.DefaultTimeout),
	)
}

// seedTables writes Config.Tables into the settings store. Configured
// tables replace whatever list the store held before.
func (c *Container) seedTables() error {
	if len(c.Config.Tables) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()
	return c.configureTables.Execute(ctx, allowlistcmd.ConfigureTablesCommand{
		Extension: c.resolver.Extension(),
		Tables:    c.Config.Tables,
	})
}

// LoggerProvider returns the resolved logger provider, which may be nil.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// SettingsRepository returns the extension settings store.
func (c *Container) SettingsRepository() extconfig.Repository { return c.settingsRepo }

// Schemas returns the table schema registry.
func (c *Container) Schemas() *tableschema.Registry { return c.schemas }

// Resolver returns the allow list resolver.
func (c *Container) Resolver() *allowlist.Resolver { return c.resolver }

// Builder returns the predicate builder.
func (c *Container) Builder() *l10n.Builder { return c.builder }

// Parser returns the bun query adapter.
func (c *Container) Parser() *dbquery.Parser { return c.parser }

// ConfigureTablesHandler returns the handler that writes the allow list.
func (c *Container) ConfigureTablesHandler() *allowlistcmd.ConfigureTablesHandler {
	return c.configureTables
}

// ClearTablesHandler returns the handler that removes the allow list.
func (c *Container) ClearTablesHandler() *allowlistcmd.ClearTablesHandler {
	return c.clearTables
}
