package markdowncmd

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const importMarkdownMessageType = "blog.markdown.import"

// ImportMarkdownCommand imports every markdown file below Directory.
type ImportMarkdownCommand struct {
	Directory string `json:"directory"`
	DryRun    bool   `json:"dry_run,omitempty"`
}

func (ImportMarkdownCommand) Type() string { return importMarkdownMessageType }

func (cmd ImportMarkdownCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("blog.markdown.import.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// Importer is the markdown importer contract the handler drives.
type Importer interface {
	ImportDirectory(ctx context.Context, fsys fs.FS, opts markdown.ImportOptions) (*markdown.ImportResult, error)
}

// FSOpener maps a directory onto a filesystem. The default is os.DirFS.
type FSOpener func(dir string) fs.FS

var _ command.Commander[ImportMarkdownCommand] = (*ImportMarkdownHandler)(nil)

type ImportMarkdownHandler struct {
	inner *commands.Handler[ImportMarkdownCommand]
}

func NewImportMarkdownHandler(importer Importer, open FSOpener, logger interfaces.Logger, opts ...commands.HandlerOption[ImportMarkdownCommand]) *ImportMarkdownHandler {
	if open == nil {
		open = os.DirFS
	}
	base := logger
	if base == nil {
		base = logging.NoOp()
	}
	exec := func(ctx context.Context, msg ImportMarkdownCommand) error {
		if importer == nil {
			return markdown.ErrVariantServiceRequired
		}
		result, err := importer.ImportDirectory(ctx, open(strings.TrimSpace(msg.Directory)), markdown.ImportOptions{DryRun: msg.DryRun})
		if result != nil {
			logging.WithFields(base, map[string]any{
				"created_count": len(result.Created),
				"updated_count": len(result.Updated),
				"skipped_count": len(result.Skipped),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("markdown.command.import.completed")
		}
		return err
	}
	handlerOpts := append([]commands.HandlerOption[ImportMarkdownCommand]{
		commands.WithLogger[ImportMarkdownCommand](logger),
		commands.WithOperation[ImportMarkdownCommand]("markdown.import"),
	}, opts...)
	return &ImportMarkdownHandler{inner: commands.NewHandler[ImportMarkdownCommand](exec, handlerOpts...)}
}

func (h *ImportMarkdownHandler) Execute(ctx context.Context, msg ImportMarkdownCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RegisterMarkdownCommands builds the import handler and registers it with reg.
func RegisterMarkdownCommands(reg commands.CommandRegistry, importer Importer, open FSOpener, provider interfaces.LoggerProvider) (*ImportMarkdownHandler, error) {
	if importer == nil {
		return nil, errors.New("markdown command registration: importer is nil")
	}
	handler := NewImportMarkdownHandler(importer, open, commands.CommandLogger(provider, "markdown"))
	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return handler, nil
}
