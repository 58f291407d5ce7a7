// Package bootstrap builds blog modules for the command line tools from
// BLOG_* environment variables.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-blog"
	markdowncmd "github.com/goliatone/go-blog/internal/commands/markdown"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Env mirrors the process environment.
type Env struct {
	Addr            string        `env:"BLOG_ADDR" envDefault:":8080"`
	BaseURL         string        `env:"BLOG_BASE_URL" envDefault:"http://localhost:8080"`
	DefaultLocale   string        `env:"BLOG_DEFAULT_LOCALE" envDefault:"ko"`
	AdminPrefix     string        `env:"BLOG_ADMIN_PREFIX" envDefault:"/admin/api"`
	Storage         string        `env:"BLOG_STORAGE" envDefault:"memory"`
	DSN             string        `env:"BLOG_DSN"`
	AutoMigrate     bool          `env:"BLOG_AUTO_MIGRATE" envDefault:"true"`
	CacheEnabled    bool          `env:"BLOG_CACHE_ENABLED" envDefault:"false"`
	CacheTTL        time.Duration `env:"BLOG_CACHE_TTL" envDefault:"1m"`
	ShortCodeLength int           `env:"BLOG_SHORT_CODE_LENGTH" envDefault:"7"`
	InflowEnabled   bool          `env:"BLOG_INFLOW_ENABLED" envDefault:"true"`
	BotPatterns     []string      `env:"BLOG_BOT_PATTERNS" envSeparator:","`
	PublishDueCron  string        `env:"BLOG_PUBLISH_DUE_CRON" envDefault:"@every 1m"`
	LogProvider     string        `env:"BLOG_LOG_PROVIDER" envDefault:"gologger"`
	LogLevel        string        `env:"BLOG_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"BLOG_LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"BLOG_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadEnv parses the process environment. A non-nil environ replaces it,
// which keeps tests hermetic.
func LoadEnv(environ map[string]string) (Env, error) {
	var cfg Env
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Config maps the environment onto a blog.Config.
func (e Env) Config() blog.Config {
	cfg := blog.DefaultConfig()
	cfg.DefaultLocale = strings.TrimSpace(e.DefaultLocale)
	cfg.Site.BaseURL = strings.TrimSpace(e.BaseURL)
	cfg.Storage.Provider = strings.TrimSpace(e.Storage)
	cfg.Storage.DSN = strings.TrimSpace(e.DSN)
	cfg.Cache.Enabled = e.CacheEnabled
	cfg.Cache.TTL = e.CacheTTL
	if e.ShortCodeLength > 0 {
		cfg.ShortCodes.Length = e.ShortCodeLength
	}
	cfg.Inflow.Enabled = e.InflowEnabled
	cfg.Inflow.BotPatterns = e.BotPatterns
	cfg.Commands.PublishDueCron = strings.TrimSpace(e.PublishDueCron)
	cfg.Logging.Provider = e.LogProvider
	cfg.Logging.Level = e.LogLevel
	cfg.Logging.Format = e.LogFormat
	cfg.HTTP.Address = e.Addr
	cfg.HTTP.AdminPrefix = e.AdminPrefix
	cfg.HTTP.ShutdownTimeout = e.ShutdownTimeout
	return cfg
}

// OpenDB opens the SQL store named by cfg. Memory storage returns nil.
func OpenDB(cfg blog.Config) (*bun.DB, error) {
	switch cfg.StorageProvider() {
	case blog.StorageSQLite:
		sqlDB, err := sql.Open("sqlite3", cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case blog.StoragePostgres:
		sqlDB, err := sql.Open("postgres", cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, nil
	}
}

// Module bundles a built blog module with the resources it owns.
type Module struct {
	Module   *blog.Module
	Markdown markdowncmd.Importer
	DB       *bun.DB
	Logger   interfaces.Logger
	Env      Env
}

// Close releases the database handle.
func (m *Module) Close() error {
	if m == nil || m.DB == nil {
		return nil
	}
	return m.DB.Close()
}

// BuildModule wires a blog module from env. Extra DI options are appended.
func BuildModule(ctx context.Context, e Env, opts ...di.Option) (*Module, error) {
	cfg := e.Config()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	if db != nil {
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		if e.AutoMigrate {
			if err := blog.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		opts = append([]di.Option{di.WithBunDB(db)}, opts...)
	}

	module, err := blog.New(cfg, opts...)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("initialise blog module: %w", err)
	}
	built := &Module{
		Module: module,
		DB:     db,
		Logger: logging.ModuleLogger(module.Container().LoggerProvider(), "blog.cmd"),
		Env:    e,
	}
	if importer := module.Markdown(); importer != nil {
		built.Markdown = importer
	}
	return built, nil
}
