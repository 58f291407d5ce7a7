package markdowncmd

import (
	"context"
	"io/fs"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blog/internal/commands/fixtures"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/variants"
)

func TestImportMarkdownHandler(t *testing.T) {
	repo := variants.NewMemoryRepository()
	importer := markdown.NewImporter(variants.NewService(repo), repo, nil)

	var opened string
	open := func(dir string) fs.FS {
		opened = dir
		return fstest.MapFS{
			"hello.ko.md": {Data: []byte("---\ntitle: 안녕\nslug: hello\nstatus: published\n---\nbody\n")},
		}
	}

	reg := fixtures.NewRecordingRegistry()
	handler, err := RegisterMarkdownCommands(reg, importer, open, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(reg.Handlers) != 1 || reg.Handlers[0] != handler {
		t.Fatalf("expected handler to be registered, got %#v", reg.Handlers)
	}

	if err := handler.Execute(context.Background(), ImportMarkdownCommand{Directory: " content "}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if opened != "content" {
		t.Fatalf("expected trimmed directory, got %q", opened)
	}
	all, _ := repo.List(context.Background(), "")
	if len(all) != 1 || all[0].Slug != "hello" {
		t.Fatalf("expected imported variant, got %+v", all)
	}

	err = handler.Execute(context.Background(), ImportMarkdownCommand{Directory: "  "})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
