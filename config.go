package l10nfallback

import "github.com/goliatone/go-l10nfallback/internal/runtimeconfig"

var (
	ErrExtensionRequired       = runtimeconfig.ErrExtensionRequired
	ErrTablesInvalid           = runtimeconfig.ErrTablesInvalid
	ErrSchemaTableRequired     = runtimeconfig.ErrSchemaTableRequired
	ErrSchemaDuplicate         = runtimeconfig.ErrSchemaDuplicate
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
	ErrCacheRequiresBunStorage = runtimeconfig.ErrCacheRequiresBunStorage
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config            = runtimeconfig.Config
	TableSchemaConfig = runtimeconfig.TableSchemaConfig
	StorageConfig     = runtimeconfig.StorageConfig
	CacheConfig       = runtimeconfig.CacheConfig
	LoggingConfig     = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
