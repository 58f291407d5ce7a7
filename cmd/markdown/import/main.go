package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/goliatone/go-blog/cmd/internal/bootstrap"
	markdowncmd "github.com/goliatone/go-blog/internal/commands/markdown"
)

var (
	moduleBuilder = buildModule
	openDir       = func(dir string) fs.FS { return os.DirFS(dir) }
)

func buildModule(ctx context.Context) (*bootstrap.Module, error) {
	env, err := bootstrap.LoadEnv(nil)
	if err != nil {
		return nil, err
	}
	return bootstrap.BuildModule(ctx, env)
}

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("markdown import: %v", err)
	}
}

func runImport(args []string) error {
	flags := flag.NewFlagSet("markdown-import", flag.ExitOnError)
	directory := flags.String("dir", "content", "Directory holding markdown documents")
	dryRun := flags.Bool("dry-run", false, "Parse and plan without writing variants")

	if err := flags.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	module, err := moduleBuilder(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()
	if module.Markdown == nil {
		return fmt.Errorf("markdown importer not configured")
	}

	handler := markdowncmd.NewImportMarkdownHandler(module.Markdown, openDir, module.Logger)
	cmd := markdowncmd.ImportMarkdownCommand{
		Directory: *directory,
		DryRun:    *dryRun,
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "markdown import command executed successfully")
	return nil
}
