package di

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	command "github.com/goliatone/go-command"
	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-blog/internal/commands"
	markdowncmd "github.com/goliatone/go-blog/internal/commands/markdown"
	variantscmd "github.com/goliatone/go-blog/internal/commands/variants"
	bloghttp "github.com/goliatone/go-blog/internal/http"
	"github.com/goliatone/go-blog/internal/inflow"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/resolver"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/internal/sitemap"
	"github.com/goliatone/go-blog/internal/variants"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Container wires module dependencies. Repositories are in-memory unless a
// *bun.DB is supplied.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider  interfaces.LoggerProvider
	routeManager    *urlkit.RouteManager
	commandRegistry commands.CommandRegistry
	cronRegistrar   commands.CronRegistrar
	clock           func() time.Time

	variantRepo variants.Repository
	visitStore  inflow.Store

	renderer        *markdown.Renderer
	links           resolver.LinkBuilder
	variantSvc      variants.Service
	resolver        *resolver.Resolver
	inflowSvc       *inflow.Service
	sitemap         *sitemap.Builder
	importer        *markdown.Importer
	variantCommands *variantscmd.HandlerSet
	markdownCommand *markdowncmd.ImportMarkdownHandler
	handler         http.Handler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service used by bun repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithRouteManager supplies a prebuilt go-urlkit manager for absolute links.
func WithRouteManager(manager *urlkit.RouteManager) Option {
	return func(c *Container) {
		c.routeManager = manager
	}
}

// WithCommandRegistry registers command handlers with a host dispatcher.
func WithCommandRegistry(registry commands.CommandRegistry) Option {
	return func(c *Container) {
		c.commandRegistry = registry
	}
}

// WithCronRegistrar schedules the publish-due command.
func WithCronRegistrar(registrar commands.CronRegistrar) Option {
	return func(c *Container) {
		c.cronRegistrar = registrar
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithVariantRepository replaces the variant store.
func WithVariantRepository(repo variants.Repository) Option {
	return func(c *Container) {
		c.variantRepo = repo
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureLinks()
	c.configureServices()
	if err := c.configureCommands(); err != nil {
		return nil, err
	}
	if err := c.configureHTTP(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	logCfg := c.Config.Logging
	provider := strings.ToLower(strings.TrimSpace(logCfg.Provider))
	if provider == "noop" {
		return nil
	}
	format := logCfg.Format
	if strings.TrimSpace(format) == "" && provider != "gologger" {
		format = "console"
	}
	built, err := gologger.NewProvider(gologger.Config{
		Level:     logCfg.Level,
		Format:    format,
		AddSource: logCfg.AddSource,
		Focus:     logCfg.Focus,
	})
	if err != nil {
		return fmt.Errorf("di: logger provider: %w", err)
	}
	c.loggerProvider = built
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
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

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		if c.variantRepo == nil {
			c.variantRepo = variants.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		c.visitStore = inflow.NewBunStore(c.bunDB)
		return
	}
	if c.variantRepo == nil {
		c.variantRepo = variants.NewMemoryRepository()
	}
	c.visitStore = inflow.NewMemoryStore()
}

func (c *Container) configureLinks() {
	site := c.Config.Site
	if c.routeManager == nil && site.Routes != nil {
		c.routeManager = urlkit.NewRouteManager(site.Routes)
	}
	if c.routeManager != nil {
		c.links = resolver.NewURLKitLinks(resolver.URLKitLinksOptions{
			Manager:     c.routeManager,
			Group:       strings.TrimSpace(site.URLKit.Group),
			SlugParam:   strings.TrimSpace(site.URLKit.SlugParam),
			LocaleParam: strings.TrimSpace(site.URLKit.LocaleParam),
		})
		return
	}
	c.links = resolver.BaseURLLinks{BaseURL: site.BaseURL}
}

func (c *Container) configureServices() {
	cfg := c.Config

	mdCfg := cfg.Markdown
	c.renderer = markdown.NewRenderer(markdown.RenderOptions{
		Extensions: mdCfg.Extensions,
		HardWraps:  mdCfg.HardWraps,
		SafeMode:   mdCfg.SafeMode,
	})

	c.variantSvc = variants.NewService(c.variantRepo,
		variants.WithClock(c.clock),
		variants.WithShortCodeGenerator(variants.NewShortCodeGenerator(cfg.ShortCodes.Length)),
		variants.WithShortCodeMaxAttempts(cfg.ShortCodes.MaxAttempts),
		variants.WithBodyRenderer(c.renderer.Render),
		variants.WithLogger(logging.VariantsLogger(c.loggerProvider)),
	)

	c.resolver = resolver.New(c.variantRepo,
		resolver.WithLinks(c.links),
		resolver.WithDefaultLocale(cfg.DefaultLocaleValue()),
		resolver.WithLogger(logging.ResolverLogger(c.loggerProvider)),
	)

	c.inflowSvc = inflow.NewService(c.visitStore,
		inflow.WithEnabled(cfg.Inflow.Enabled),
		inflow.WithBotPatterns(cfg.Inflow.BotPatterns...),
		inflow.WithSiteHost(siteHost(cfg.Site.BaseURL)),
		inflow.WithClock(c.clock),
		inflow.WithLogger(logging.InflowLogger(c.loggerProvider)),
	)

	c.sitemap = sitemap.NewBuilder(c.variantRepo, c.links)
	c.importer = markdown.NewImporter(c.variantSvc, c.variantRepo, logging.MarkdownLogger(c.loggerProvider))
}

func (c *Container) configureCommands() error {
	if !c.Config.Commands.Enabled {
		return nil
	}
	set, err := variantscmd.RegisterVariantCommands(c.commandRegistry, c.variantSvc, c.loggerProvider)
	if err != nil {
		return err
	}
	c.variantCommands = set

	importHandler, err := markdowncmd.RegisterMarkdownCommands(c.commandRegistry, c.importer, nil, c.loggerProvider)
	if err != nil {
		return err
	}
	c.markdownCommand = importHandler

	if expr := strings.TrimSpace(c.Config.Commands.PublishDueCron); expr != "" && c.cronRegistrar != nil {
		if err := commands.RegisterCron[variantscmd.PublishDueCommand](
			c.cronRegistrar,
			set.PublishDue,
			command.HandlerConfig{Expression: expr},
			variantscmd.PublishDueCommand{},
		); err != nil {
			return fmt.Errorf("di: publish-due cron: %w", err)
		}
	}
	return nil
}

func (c *Container) configureHTTP() error {
	logger := logging.HTTPLogger(c.loggerProvider)
	mux := http.NewServeMux()

	public := bloghttp.NewPublicAPI(
		bloghttp.WithResolver(c.resolver),
		bloghttp.WithVisitRecorder(c.inflowSvc),
		bloghttp.WithSitemap(c.sitemap),
		bloghttp.WithPublicLogger(logger),
	)
	if err := public.Register(mux); err != nil {
		return err
	}

	admin := bloghttp.NewAdminAPI(
		bloghttp.WithBasePath(c.Config.HTTP.AdminPrefix),
		bloghttp.WithVariantService(c.variantSvc),
		bloghttp.WithGroupPreviewer(c.resolver),
		bloghttp.WithStatsReader(c.inflowSvc),
		bloghttp.WithCommandHandlers(c.variantCommands),
		bloghttp.WithAdminLogger(logger),
	)
	if err := admin.Register(mux); err != nil {
		return err
	}
	c.handler = mux
	return nil
}

// EnsureSchema creates the variant and visit tables when running on bun.
func (c *Container) EnsureSchema(ctx context.Context) error {
	if c.bunDB == nil {
		return nil
	}
	if err := variants.EnsureSchema(ctx, c.bunDB); err != nil {
		return err
	}
	return inflow.EnsureSchema(ctx, c.bunDB)
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) VariantRepository() variants.Repository { return c.variantRepo }

func (c *Container) VariantService() variants.Service { return c.variantSvc }

func (c *Container) Resolver() *resolver.Resolver { return c.resolver }

func (c *Container) InflowService() *inflow.Service { return c.inflowSvc }

func (c *Container) SitemapBuilder() *sitemap.Builder { return c.sitemap }

func (c *Container) MarkdownImporter() *markdown.Importer { return c.importer }

// VariantCommands is nil when commands are disabled.
func (c *Container) VariantCommands() *variantscmd.HandlerSet { return c.variantCommands }

func (c *Container) MarkdownCommand() *markdowncmd.ImportMarkdownHandler { return c.markdownCommand }

func (c *Container) Handler() http.Handler { return c.handler }

func (c *Container) Links() resolver.LinkBuilder { return c.links }

func siteHost(baseURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
