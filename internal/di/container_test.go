package di

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-blog/internal/commands/fixtures"
	"github.com/goliatone/go-blog/internal/locale"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/resolver"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/internal/variants"
	"github.com/goliatone/go-blog/pkg/testsupport"
)

func quietConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "noop"
	return cfg
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := quietConfig()
	cfg.DefaultLocale = "fr"

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrDefaultLocaleInvalid) {
		t.Fatalf("expected ErrDefaultLocaleInvalid, got %v", err)
	}
}

func TestNewContainerDefaultsToMemory(t *testing.T) {
	container, err := NewContainer(quietConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.VariantRepository().(*variants.MemoryRepository); !ok {
		t.Fatalf("expected memory repository, got %T", container.VariantRepository())
	}
	if container.LoggerProvider() != nil {
		t.Fatalf("expected noop provider to leave logger provider unset")
	}
	if _, ok := container.Links().(resolver.BaseURLLinks); !ok {
		t.Fatalf("expected base url links, got %T", container.Links())
	}
	if err := container.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema without bun should be a no-op: %v", err)
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	provider, ok := container.LoggerProvider().(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
	if provider.GetLogger("blog.test") == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestContainerServesShortLinksEndToEnd(t *testing.T) {
	container, err := NewContainer(quietConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	ctx := context.Background()
	svc := container.VariantService()

	ko, err := svc.Create(ctx, variants.CreateVariantRequest{
		Locale: locale.Korean,
		Title:  "안녕하세요",
		Slug:   "annyeong",
		Body:   "**hi**",
		Status: variants.StatusPublished,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ko.BodyHTML == "" {
		t.Fatalf("expected markdown renderer to populate body html")
	}
	if _, err := svc.AddTranslation(ctx, variants.AddTranslationRequest{
		SourceID: ko.ID,
		Locale:   locale.English,
		Title:    "Hello",
		Status:   variants.StatusPublished,
	}); err != nil {
		t.Fatalf("translation: %v", err)
	}
	coded, err := svc.AssignShortCode(ctx, ko.ID)
	if err != nil {
		t.Fatalf("assign short code: %v", err)
	}
	if len(coded.ShortCode) != runtimeconfig.DefaultConfig().ShortCodes.Length {
		t.Fatalf("expected configured short code length, got %q", coded.ShortCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/s/"+coded.ShortCode, nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	req.Header.Set("User-Agent", "Mozilla/5.0")
	rec := httptest.NewRecorder()
	container.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != "/en/blog/hello" {
		t.Fatalf("unexpected redirect %q", got)
	}
}

func TestContainerRegistersCommandsAndCron(t *testing.T) {
	registry := fixtures.NewRecordingRegistry()
	cron := fixtures.NewCronRecorder()
	cfg := quietConfig()
	cfg.Commands.PublishDueCron = "@every 5m"

	container, err := NewContainer(cfg,
		WithCommandRegistry(registry),
		WithCronRegistrar(cron.Registrar()),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if len(registry.Handlers) != 5 {
		t.Fatalf("expected 5 registered handlers, got %d", len(registry.Handlers))
	}
	if container.VariantCommands() == nil || container.MarkdownCommand() == nil {
		t.Fatalf("expected command handlers to be exposed")
	}
	if len(cron.Registrations) != 1 || cron.Registrations[0].Config.Expression != "@every 5m" {
		t.Fatalf("unexpected cron registrations: %+v", cron.Registrations)
	}
}

func TestContainerCronFailureIsReturned(t *testing.T) {
	cron := fixtures.NewCronRecorder()
	cron.Fail(errors.New("scheduler offline"))

	if _, err := NewContainer(quietConfig(), WithCronRegistrar(cron.Registrar())); err == nil {
		t.Fatal("expected cron registration failure")
	}
}

func TestContainerCommandsDisabled(t *testing.T) {
	registry := fixtures.NewRecordingRegistry()
	cfg := quietConfig()
	cfg.Commands.Enabled = false

	container, err := NewContainer(cfg, WithCommandRegistry(registry))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if len(registry.Handlers) != 0 || container.VariantCommands() != nil {
		t.Fatalf("expected no command wiring when disabled")
	}
}

func TestContainerUsesURLKitRoutes(t *testing.T) {
	cfg := quietConfig()
	cfg.Site.Routes = &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "frontend",
				BaseURL: "https://blog.example",
				Paths: map[string]string{
					resolver.RoutePost:    "/:locale/blog/:slug",
					resolver.RouteLanding: "/:locale/landing/:slug",
				},
			},
		},
	}

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	href, err := container.Links().AbsoluteURL(&variants.Variant{
		ID:     uuid.New(),
		Kind:   variants.KindLanding,
		Locale: locale.Japanese,
		Slug:   "spring-sale",
	})
	if err != nil {
		t.Fatalf("absolute url: %v", err)
	}
	if href != "https://blog.example/ja/landing/spring-sale" {
		t.Fatalf("unexpected href %q", href)
	}
}

func TestContainerWithBunStorage(t *testing.T) {
	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)

	cfg := quietConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.TTL = time.Minute

	container, err := NewContainer(cfg, WithBunDB(bunDB))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	ctx := context.Background()
	if err := container.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if _, ok := container.VariantRepository().(*variants.BunRepository); !ok {
		t.Fatalf("expected bun repository, got %T", container.VariantRepository())
	}

	created, err := container.VariantService().Create(ctx, variants.CreateVariantRequest{
		Kind:   variants.KindLanding,
		Locale: locale.Korean,
		Title:  "Launch",
		Slug:   "di-launch",
		Status: variants.StatusPublished,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resolution, err := container.Resolver().ResolveSlug(ctx, variants.KindLanding, locale.Korean, "di-launch", true)
	if err != nil {
		t.Fatalf("resolve slug: %v", err)
	}
	if resolution.Variant.ID != created.ID || resolution.Path != "/ko/landing/di-launch" {
		t.Fatalf("unexpected resolution: %+v", resolution)
	}
}
