package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-blog/internal/locale"
)

var (
	ErrDefaultLocaleInvalid    = errors.New("blog config: default locale is not supported")
	ErrLocaleInvalid           = errors.New("blog config: locale is not supported")
	ErrDefaultLocaleNotEnabled = errors.New("blog config: default locale must be listed in locales")
	ErrSiteBaseURLInvalid      = errors.New("blog config: site base url must be an absolute http(s) url")
	ErrStorageProviderUnknown  = errors.New("blog config: storage provider is invalid")
	ErrStorageDSNRequired      = errors.New("blog config: storage dsn is required for sql providers")
	ErrCacheTTLInvalid         = errors.New("blog config: cache ttl must be positive when cache is enabled")
	ErrShortCodeLengthInvalid  = errors.New("blog config: short code length must be between 4 and 22")
	ErrShortCodeAttempts       = errors.New("blog config: short code max attempts must be positive")
	ErrLoggingProviderUnknown  = errors.New("blog config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("blog config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("blog config: logging format is invalid")
	ErrHTTPAdminPrefixInvalid  = errors.New("blog config: admin prefix must start with /")
)

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config aggregates the settings used to assemble a blog module.
type Config struct {
	DefaultLocale string
	Locales       []string
	Site          SiteConfig
	Storage       StorageConfig
	Cache         CacheConfig
	ShortCodes    ShortCodeConfig
	Inflow        InflowConfig
	Markdown      MarkdownConfig
	Commands      CommandsConfig
	Logging       LoggingConfig
	HTTP          HTTPConfig
}

// SiteConfig controls absolute URL generation. When Routes is set, links are
// built through go-urlkit; otherwise BaseURL is joined with canonical paths.
type SiteConfig struct {
	BaseURL string
	Routes  *urlkit.Config
	URLKit  URLKitConfig
}

// URLKitConfig names the route group and params used by the urlkit link builder.
type URLKitConfig struct {
	Group       string
	SlugParam   string
	LocaleParam string
}

type StorageConfig struct {
	Provider string
	DSN      string
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type ShortCodeConfig struct {
	Length      int
	MaxAttempts int
}

type InflowConfig struct {
	Enabled     bool
	BotPatterns []string
}

// MarkdownConfig mirrors markdown.RenderOptions.
type MarkdownConfig struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// CommandsConfig controls command registration. PublishDueCron is a
// go-command cron expression; empty disables the schedule.
type CommandsConfig struct {
	Enabled        bool
	PublishDueCron string
}

type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

type HTTPConfig struct {
	Address         string
	AdminPrefix     string
	ShutdownTimeout time.Duration
}

// DefaultConfig returns an in-memory configuration serving Korean content by default.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: locale.Default.String(),
		Locales:       locale.Codes(),
		Site: SiteConfig{
			BaseURL: "http://localhost:8080",
		},
		Storage: StorageConfig{
			Provider: StorageMemory,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     time.Minute,
		},
		ShortCodes: ShortCodeConfig{
			Length:      7,
			MaxAttempts: 5,
		},
		Inflow: InflowConfig{
			Enabled: true,
		},
		Markdown: MarkdownConfig{
			Extensions: []string{"gfm"},
		},
		Commands: CommandsConfig{
			Enabled:        true,
			PublishDueCron: "@every 1m",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		HTTP: HTTPConfig{
			Address:         ":8080",
			AdminPrefix:     "/admin/api",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	def, ok := locale.Parse(cfg.DefaultLocale)
	if !ok {
		return fmt.Errorf("%w: %q", ErrDefaultLocaleInvalid, cfg.DefaultLocale)
	}
	if len(cfg.Locales) > 0 {
		found := false
		for _, code := range cfg.Locales {
			parsed, ok := locale.Parse(code)
			if !ok {
				return fmt.Errorf("%w: %q", ErrLocaleInvalid, code)
			}
			if parsed == def {
				found = true
			}
		}
		if !found {
			return ErrDefaultLocaleNotEnabled
		}
	}
	if cfg.Site.Routes == nil {
		parsed, err := url.Parse(strings.TrimSpace(cfg.Site.BaseURL))
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("%w: %q", ErrSiteBaseURLInvalid, cfg.Site.BaseURL)
		}
	}
	switch provider := normalize(cfg.Storage.Provider); provider {
	case "", StorageMemory:
	case StorageSQLite, StoragePostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, provider)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.ShortCodes.Length < 4 || cfg.ShortCodes.Length > 22 {
		return fmt.Errorf("%w: %d", ErrShortCodeLengthInvalid, cfg.ShortCodes.Length)
	}
	if cfg.ShortCodes.MaxAttempts <= 0 {
		return ErrShortCodeAttempts
	}
	if provider := normalize(cfg.Logging.Provider); provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	if prefix := strings.TrimSpace(cfg.HTTP.AdminPrefix); prefix != "" && !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("%w: %q", ErrHTTPAdminPrefixInvalid, prefix)
	}
	return nil
}

// DefaultLocaleValue returns the parsed default locale, falling back to locale.Default.
func (cfg Config) DefaultLocaleValue() locale.Locale {
	return locale.ParseOrDefault(cfg.DefaultLocale)
}

// StorageProvider returns the normalized storage provider name.
func (cfg Config) StorageProvider() string {
	if provider := normalize(cfg.Storage.Provider); provider != "" {
		return provider
	}
	return StorageMemory
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
