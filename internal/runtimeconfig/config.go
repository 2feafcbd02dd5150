package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-l10nfallback/internal/allowlist"
)

var (
	// ErrExtensionRequired indicates an empty allow list section name.
	ErrExtensionRequired = errors.New("l10n config: extension is required")
	// ErrTablesInvalid indicates a malformed seed table list.
	ErrTablesInvalid = errors.New("l10n config: tables must be \"*\" or a list of table names")
	// ErrSchemaTableRequired indicates a schema entry without a table name.
	ErrSchemaTableRequired = errors.New("l10n config: schema table name is required")
	// ErrSchemaDuplicate indicates two schema entries for the same table.
	ErrSchemaDuplicate = errors.New("l10n config: duplicate schema table")
	// ErrStorageProviderUnknown indicates an unsupported settings store.
	ErrStorageProviderUnknown = errors.New("l10n config: storage provider is invalid")
	// ErrCacheRequiresBunStorage ensures the repository cache wraps a database store.
	ErrCacheRequiresBunStorage = errors.New("l10n config: cache requires the bun storage provider")
	// ErrCacheTTLInvalid indicates a negative cache TTL.
	ErrCacheTTLInvalid = errors.New("l10n config: cache ttl must be zero or positive")
	// ErrLoggingProviderUnknown indicates an unsupported logging provider.
	ErrLoggingProviderUnknown = errors.New("l10n config: logging provider is invalid")
	// ErrLoggingLevelInvalid indicates an unsupported log level.
	ErrLoggingLevelInvalid = errors.New("l10n config: logging level is invalid")
	// ErrLoggingFormatInvalid indicates an unsupported log format.
	ErrLoggingFormatInvalid = errors.New("l10n config: logging format is invalid")
)

// Storage providers.
const (
	StorageMemory = "memory"
	StorageBun    = "bun"
)

// Logging providers.
const (
	LoggingNone     = "none"
	LoggingGoLogger = "gologger"
)

// Config aggregates the fallback module settings.
type Config struct {
	// Extension names the configuration section holding the allow list.
	Extension string
	// Path is the key of the allow list inside the section.
	Path string
	// Tables seeds the allow list at startup when non-empty.
	Tables []string
	// Schemas registers localizable tables.
	Schemas []TableSchemaConfig
	// SchemaFile optionally points at a YAML schema document loaded after Schemas.
	SchemaFile string
	Storage    StorageConfig
	Cache      CacheConfig
	Logging    LoggingConfig
}

// TableSchemaConfig declares the localization columns of one table.
type TableSchemaConfig struct {
	Table                  string
	LanguageField          string
	TranslationParentField string
	UIDField               string
}

// StorageConfig selects the extension settings store.
type StorageConfig struct {
	Provider string
}

// CacheConfig toggles the repository cache over bun storage.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns an in-memory, silent configuration.
func DefaultConfig() Config {
	return Config{
		Extension: allowlist.DefaultExtension,
		Path:      allowlist.DefaultPath,
		Storage: StorageConfig{
			Provider: StorageMemory,
		},
		Cache: CacheConfig{
			TTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: LoggingNone,
			Level:    "info",
			Format:   "json",
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Extension) == "" {
		return ErrExtensionRequired
	}
	if err := validateTables(cfg.Tables); err != nil {
		return err
	}

	seen := map[string]struct{}{}
	for i, schema := range cfg.Schemas {
		table := strings.TrimSpace(schema.Table)
		if table == "" {
			return fmt.Errorf("%w: entry %d", ErrSchemaTableRequired, i)
		}
		if _, ok := seen[table]; ok {
			return fmt.Errorf("%w: %s", ErrSchemaDuplicate, table)
		}
		seen[table] = struct{}{}
	}

	provider := normalize(cfg.Storage.Provider)
	switch provider {
	case "", StorageMemory, StorageBun:
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Cache.Enabled && provider != StorageBun {
		return ErrCacheRequiresBunStorage
	}
	if cfg.Cache.TTL < 0 {
		return ErrCacheTTLInvalid
	}

	switch logging := normalize(cfg.Logging.Provider); logging {
	case "", LoggingNone:
	case LoggingGoLogger:
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	default:
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, logging)
	}
	return nil
}

func validateTables(tables []string) error {
	for _, table := range tables {
		name := strings.TrimSpace(table)
		if name == "" {
			return fmt.Errorf("%w: empty entry", ErrTablesInvalid)
		}
		if name == allowlist.Wildcard && len(tables) > 1 {
			return fmt.Errorf("%w: wildcard combined with names", ErrTablesInvalid)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
