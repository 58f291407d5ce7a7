package blog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/locale"
	"github.com/goliatone/go-blog/internal/variants"
	"github.com/goliatone/go-blog/pkg/testsupport"
)

func TestConfigValidateRejectsUnknownStorage(t *testing.T) {
	cfg := blog.DefaultConfig()
	cfg.Storage.Provider = "cassandra"
	if err := cfg.Validate(); !errors.Is(err, blog.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
	if _, err := blog.New(cfg); !errors.Is(err, blog.ErrStorageProviderUnknown) {
		t.Fatalf("expected New to surface config error, got %v", err)
	}
}

func TestMigrationFilesAreOrdered(t *testing.T) {
	for _, dir := range []string{"postgres", "sqlite"} {
		files, err := blog.MigrationFiles(dir)
		if err != nil {
			t.Fatalf("%s: %v", dir, err)
		}
		if len(files) != 2 {
			t.Fatalf("%s: expected 2 up migrations, got %v", dir, files)
		}
		if !strings.Contains(files[0], "content_variants") || !strings.Contains(files[1], "inflow_visits") {
			t.Fatalf("%s: unexpected order %v", dir, files)
		}
	}
}

func TestModuleOnMigratedSQLite(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	if err := blog.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := blog.Migrate(ctx, db); err != nil {
		t.Fatalf("second migrate should be idempotent: %v", err)
	}

	cfg := blog.DefaultConfig()
	cfg.Logging.Provider = "noop"
	cfg.Site.BaseURL = "https://blog.example"
	module, err := blog.New(cfg, di.WithBunDB(db))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	if err := module.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema after migrate: %v", err)
	}

	ko, err := module.Variants().Create(ctx, variants.CreateVariantRequest{
		Locale: locale.Korean,
		Title:  "봄 세일",
		Slug:   "spring",
		Kind:   variants.KindLanding,
		Status: variants.StatusPublished,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := module.Variants().AddTranslation(ctx, variants.AddTranslationRequest{
		SourceID: ko.ID,
		Locale:   locale.Japanese,
		Title:    "春のセール",
		Slug:     "spring",
		Status:   variants.StatusPublished,
	}); err != nil {
		t.Fatalf("translation: %v", err)
	}
	coded, err := module.Variants().AssignShortCode(ctx, ko.ID)
	if err != nil {
		t.Fatalf("short code: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/s/"+coded.ShortCode+"?lang=ja", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	rec := httptest.NewRecorder()
	module.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/ja/landing/spring" {
		t.Fatalf("unexpected redirect %d %q", rec.Code, rec.Header().Get("Location"))
	}

	views, err := module.Inflow().ViewCount(ctx, coded.ID)
	if err != nil {
		t.Fatalf("view count: %v", err)
	}
	if views != 0 {
		t.Fatalf("visit should be recorded against the served variant, not the representative")
	}

	body, err := module.Sitemap().Render(ctx)
	if err != nil {
		t.Fatalf("sitemap: %v", err)
	}
	if !strings.Contains(string(body), "https://blog.example/ja/landing/spring") {
		t.Fatalf("sitemap missing japanese landing page:\n%s", body)
	}

	if module.Commands() == nil || module.Commands().Variants.PublishDue == nil {
		t.Fatalf("expected command handlers on module")
	}
}
