package markdown_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-blog/internal/locale"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/variants"
	"github.com/goliatone/go-blog/pkg/testsupport"
)

type documentGolden struct {
	Group        string    `json:"group"`
	Locale       string    `json:"locale"`
	Slug         string    `json:"slug"`
	Kind         string    `json:"kind"`
	Status       string    `json:"status"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	ShortCode    bool      `json:"short_code"`
	PublishAt    time.Time `json:"publish_at"`
	HTMLContains []string  `json:"html_contains"`
}

func TestParseDocumentMatchesGolden(t *testing.T) {
	source, err := testsupport.LoadFixture("spring-sale.ja.md")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	var want documentGolden
	if err := testsupport.LoadGolden("spring-sale.ja.golden.json", &want); err != nil {
		t.Fatalf("load golden: %v", err)
	}

	doc, err := markdown.ParseDocument("landing/spring-sale.ja.md", source)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	fm := doc.FrontMatter
	if fm.Group != want.Group || fm.Locale != want.Locale || fm.Slug != want.Slug || fm.Kind != want.Kind {
		t.Fatalf("unexpected identity fields %+v, want %+v", fm, want)
	}
	if fm.Status != want.Status || fm.Title != want.Title || fm.Summary != want.Summary || fm.ShortCode != want.ShortCode {
		t.Fatalf("unexpected content fields %+v, want %+v", fm, want)
	}
	if fm.PublishAt == nil || !fm.PublishAt.Equal(want.PublishAt) {
		t.Fatalf("unexpected publish_at %v, want %v", fm.PublishAt, want.PublishAt)
	}

	html, err := markdown.NewRenderer(markdown.RenderOptions{}).Render(doc.Body)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, fragment := range want.HTMLContains {
		if !strings.Contains(string(html), fragment) {
			t.Fatalf("expected %q in rendered html:\n%s", fragment, html)
		}
	}
}

func TestParseDocumentFallsBackToFileName(t *testing.T) {
	doc, err := markdown.ParseDocument("posts/hello.en.md", []byte("---\ntitle: Hello\nstatus: published\n---\n# Hello\n"))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	fm := doc.FrontMatter
	if fm.Group != "hello" || fm.Locale != "en" || fm.Title != "Hello" || fm.Status != "published" {
		t.Fatalf("unexpected frontmatter %+v", fm)
	}
	if strings.TrimSpace(string(doc.Body)) != "# Hello" {
		t.Fatalf("unexpected body %q", doc.Body)
	}
	if len(doc.Checksum) != 32 {
		t.Fatalf("expected sha256 checksum, got %d bytes", len(doc.Checksum))
	}
}

func TestRendererProducesHTML(t *testing.T) {
	r := markdown.NewRenderer(markdown.RenderOptions{})
	html, err := r.Render([]byte("# Title\n\n- [x] done\n\n<span>raw</span>\n"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, `<h1 id="title">Title</h1>`) {
		t.Fatalf("expected heading with id, got %s", out)
	}
	if !strings.Contains(out, "<span>raw</span>") {
		t.Fatalf("expected raw html to pass through, got %s", out)
	}

	safe := markdown.NewRenderer(markdown.RenderOptions{SafeMode: true})
	html, err = safe.Render([]byte("<span>raw</span>\n"))
	if err != nil {
		t.Fatalf("Render safe: %v", err)
	}
	if strings.Contains(string(html), "<span>") {
		t.Fatalf("expected raw html to be dropped in safe mode, got %s", html)
	}
}

func TestImportDirectoryBuildsGroups(t *testing.T) {
	ctx := context.Background()
	repo := variants.NewMemoryRepository()
	renderer := markdown.NewRenderer(markdown.RenderOptions{})
	svc := variants.NewService(repo, variants.WithBodyRenderer(renderer.Render))
	importer := markdown.NewImporter(svc, repo, nil)

	fsys := fstest.MapFS{
		"content/launch.en.md": {Data: []byte("---\ntitle: Launch\nslug: launch\nstatus: published\n---\nHello *world*\n")},
		"content/launch.ko.md": {Data: []byte("---\ntitle: 출시\nslug: launch-ko\nstatus: published\nshort_code: true\n---\n안녕하세요\n")},
		"content/sale.md":      {Data: []byte("---\ngroup: sale\nlocale: ja\nkind: landing\ntitle: Sale\nslug: sale\n---\nBuy\n")},
		"content/notes.txt":    {Data: []byte("ignored")},
	}

	result, err := importer.ImportDirectory(ctx, fsys, markdown.ImportOptions{Root: "content"})
	if err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}
	if len(result.Created) != 3 {
		t.Fatalf("expected 3 created variants, got %d", len(result.Created))
	}

	ko, err := repo.GetBySlug(ctx, variants.KindPost, locale.Korean, "launch-ko")
	if err != nil {
		t.Fatalf("GetBySlug ko: %v", err)
	}
	en, err := repo.GetBySlug(ctx, variants.KindPost, locale.English, "launch")
	if err != nil {
		t.Fatalf("GetBySlug en: %v", err)
	}
	if ko.GroupID != en.GroupID {
		t.Fatalf("expected translations to share a group")
	}
	if ko.ShortCode == "" {
		t.Fatalf("expected short code to be assigned")
	}
	if !strings.Contains(en.BodyHTML, "<em>world</em>") {
		t.Fatalf("expected rendered body, got %q", en.BodyHTML)
	}
	landing, err := repo.GetBySlug(ctx, variants.KindLanding, locale.Japanese, "sale")
	if err != nil {
		t.Fatalf("GetBySlug landing: %v", err)
	}
	if landing.Status != variants.StatusDraft {
		t.Fatalf("expected draft landing, got %s", landing.Status)
	}

	fsys["content/launch.en.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Launch v2\nslug: launch\nstatus: published\n---\nUpdated\n")}
	result, err = importer.ImportDirectory(ctx, fsys, markdown.ImportOptions{Root: "content"})
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if len(result.Created) != 0 || len(result.Updated) != 3 {
		t.Fatalf("expected 3 updates on re-import, got created=%d updated=%d", len(result.Created), len(result.Updated))
	}
	en, _ = repo.GetBySlug(ctx, variants.KindPost, locale.English, "launch")
	if en.Title != "Launch v2" {
		t.Fatalf("expected updated title, got %q", en.Title)
	}
}

func TestImportDirectoryReportsBadDocuments(t *testing.T) {
	svc := variants.NewService(variants.NewMemoryRepository())
	importer := markdown.NewImporter(svc, nil, nil)
	fsys := fstest.MapFS{
		"a.md":    {Data: []byte("---\ntitle: No locale\n---\nbody\n")},
		"b.fr.md": {Data: []byte("---\ntitle: Bonjour\n---\nbody\n")},
	}

	result, err := importer.ImportDirectory(context.Background(), fsys, markdown.ImportOptions{})
	if !errors.Is(err, markdown.ErrLocaleMissing) {
		t.Fatalf("expected ErrLocaleMissing, got %v", err)
	}
	if len(result.Errors) != 2 || len(result.Created) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestImportDirectoryDryRun(t *testing.T) {
	repo := variants.NewMemoryRepository()
	importer := markdown.NewImporter(variants.NewService(repo), repo, nil)
	fsys := fstest.MapFS{
		"x.ko.md": {Data: []byte("---\ntitle: X\nslug: x\n---\nbody\n")},
	}
	result, err := importer.ImportDirectory(context.Background(), fsys, markdown.ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skipped doc, got %+v", result)
	}
	all, _ := repo.List(context.Background(), "")
	if len(all) != 0 {
		t.Fatalf("dry run wrote %d variants", len(all))
	}
}
