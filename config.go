package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

const (
	StorageMemory   = runtimeconfig.StorageMemory
	StorageSQLite   = runtimeconfig.StorageSQLite
	StoragePostgres = runtimeconfig.StoragePostgres
)

var (
	ErrDefaultLocaleInvalid    = runtimeconfig.ErrDefaultLocaleInvalid
	ErrLocaleInvalid           = runtimeconfig.ErrLocaleInvalid
	ErrDefaultLocaleNotEnabled = runtimeconfig.ErrDefaultLocaleNotEnabled
	ErrSiteBaseURLInvalid      = runtimeconfig.ErrSiteBaseURLInvalid
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
	ErrShortCodeLengthInvalid  = runtimeconfig.ErrShortCodeLengthInvalid
	ErrShortCodeAttempts       = runtimeconfig.ErrShortCodeAttempts
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrHTTPAdminPrefixInvalid  = runtimeconfig.ErrHTTPAdminPrefixInvalid
)

type (
	Config          = runtimeconfig.Config
	SiteConfig      = runtimeconfig.SiteConfig
	URLKitConfig    = runtimeconfig.URLKitConfig
	StorageConfig   = runtimeconfig.StorageConfig
	CacheConfig     = runtimeconfig.CacheConfig
	ShortCodeConfig = runtimeconfig.ShortCodeConfig
	InflowConfig    = runtimeconfig.InflowConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	CommandsConfig  = runtimeconfig.CommandsConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	HTTPConfig      = runtimeconfig.HTTPConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
