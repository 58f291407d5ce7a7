// Package markdown imports posts and landing pages written as markdown files
// with YAML frontmatter.
package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/locale"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/variants"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	ErrVariantServiceRequired = errors.New("markdown importer: variant service is required")
	ErrLocaleMissing          = errors.New("markdown importer: locale could not be determined")
	ErrTitleMissing           = errors.New("markdown importer: frontmatter title is required")
)

// SlugLookup finds an already imported variant.
type SlugLookup interface {
	GetBySlug(ctx context.Context, kind variants.Kind, loc locale.Locale, slug string) (*variants.Variant, error)
}

// ImportOptions controls a directory import.
type ImportOptions struct {
	// Root is the directory inside the filesystem to walk; empty means ".".
	Root string
	// DryRun parses and plans without writing.
	DryRun bool
}

// ImportResult summarises an import run.
type ImportResult struct {
	Created []uuid.UUID
	Updated []uuid.UUID
	Skipped []string
	Errors  []error
}

// Importer writes parsed documents through the variant service.
type Importer struct {
	variants variants.Service
	lookup   SlugLookup
	logger   interfaces.Logger
}

func NewImporter(service variants.Service, lookup SlugLookup, logger interfaces.Logger) *Importer {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{variants: service, lookup: lookup, logger: logger}
}

// ImportDirectory walks *.md files below opts.Root. Files sharing a group key
// become translations of one another; the default-locale file, when present,
// is created first so it anchors the group.
func (i *Importer) ImportDirectory(ctx context.Context, fsys fs.FS, opts ImportOptions) (*ImportResult, error) {
	if i.variants == nil {
		return nil, ErrVariantServiceRequired
	}
	root := strings.TrimSpace(opts.Root)
	if root == "" {
		root = "."
	}

	result := &ImportResult{}
	groups := map[string][]*Document{}
	walkErr := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(path.Ext(p), ".md") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		source, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("markdown importer read %s: %w", p, err)
		}
		doc, err := ParseDocument(p, source)
		if err != nil {
			result.Errors = append(result.Errors, err)
			return nil
		}
		key := string(normalizeKind(doc.FrontMatter.Kind)) + "|" + doc.FrontMatter.Group
		groups[key] = append(groups[key], doc)
		return nil
	})
	if walkErr != nil {
		return result, walkErr
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		i.importGroup(ctx, groups[key], opts.DryRun, result)
	}

	i.logger.Info("markdown.import.completed",
		"created", len(result.Created),
		"updated", len(result.Updated),
		"skipped", len(result.Skipped),
		"errors", len(result.Errors),
	)
	return result, errors.Join(result.Errors...)
}

func (i *Importer) importGroup(ctx context.Context, docs []*Document, dryRun bool, result *ImportResult) {
	sort.SliceStable(docs, func(a, b int) bool {
		la, lb := locale.Locale(docs[a].FrontMatter.Locale), locale.Locale(docs[b].FrontMatter.Locale)
		if la.IsDefault() != lb.IsDefault() {
			return la.IsDefault()
		}
		return la < lb
	})

	var anchor *variants.Variant
	pending := make([]*Document, 0, len(docs))
	existing := map[*Document]*variants.Variant{}
	for _, doc := range docs {
		found, err := i.find(ctx, doc)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		if found != nil {
			existing[doc] = found
			if anchor == nil {
				anchor = found
			}
		}
		pending = append(pending, doc)
	}

	for _, doc := range pending {
		if dryRun {
			result.Skipped = append(result.Skipped, doc.Path)
			continue
		}
		var (
			saved *variants.Variant
			err   error
		)
		if current, ok := existing[doc]; ok {
			saved, err = i.update(ctx, current, doc)
			if err == nil {
				result.Updated = append(result.Updated, saved.ID)
			}
		} else {
			saved, err = i.create(ctx, anchor, doc)
			if err == nil {
				result.Created = append(result.Created, saved.ID)
				if anchor == nil {
					anchor = saved
				}
			}
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("markdown importer %s: %w", doc.Path, err))
			continue
		}
		if doc.FrontMatter.ShortCode && saved.ShortCode == "" {
			if _, err := i.variants.AssignShortCode(ctx, saved.ID); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("markdown importer %s short code: %w", doc.Path, err))
			}
		}
	}
}

func (i *Importer) find(ctx context.Context, doc *Document) (*variants.Variant, error) {
	loc, ok := locale.Parse(doc.FrontMatter.Locale)
	if !ok {
		return nil, fmt.Errorf("%s: %w", doc.Path, ErrLocaleMissing)
	}
	doc.FrontMatter.Locale = loc.String()
	if strings.TrimSpace(doc.FrontMatter.Title) == "" {
		return nil, fmt.Errorf("%s: %w", doc.Path, ErrTitleMissing)
	}
	if i.lookup == nil || strings.TrimSpace(doc.FrontMatter.Slug) == "" {
		return nil, nil
	}
	found, err := i.lookup.GetBySlug(ctx, normalizeKind(doc.FrontMatter.Kind), loc, strings.TrimSpace(doc.FrontMatter.Slug))
	if err != nil {
		if errors.Is(err, variants.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("markdown importer lookup %s: %w", doc.Path, err)
	}
	return found, nil
}

func (i *Importer) create(ctx context.Context, anchor *variants.Variant, doc *Document) (*variants.Variant, error) {
	fm := doc.FrontMatter
	status := variants.Status(strings.ToLower(strings.TrimSpace(fm.Status)))
	if anchor == nil {
		return i.variants.Create(ctx, variants.CreateVariantRequest{
			Kind:      normalizeKind(fm.Kind),
			Locale:    locale.Locale(fm.Locale),
			Slug:      fm.Slug,
			Title:     fm.Title,
			Summary:   fm.Summary,
			Body:      string(doc.Body),
			Status:    status,
			PublishAt: fm.PublishAt,
		})
	}
	return i.variants.AddTranslation(ctx, variants.AddTranslationRequest{
		SourceID:  anchor.ID,
		Locale:    locale.Locale(fm.Locale),
		Slug:      fm.Slug,
		Title:     fm.Title,
		Summary:   fm.Summary,
		Body:      string(doc.Body),
		Status:    status,
		PublishAt: fm.PublishAt,
	})
}

func (i *Importer) update(ctx context.Context, current *variants.Variant, doc *Document) (*variants.Variant, error) {
	fm := doc.FrontMatter
	body := string(doc.Body)
	updated, err := i.variants.Update(ctx, variants.UpdateVariantRequest{
		ID:      current.ID,
		Title:   &fm.Title,
		Summary: &fm.Summary,
		Body:    &body,
	})
	if err != nil {
		return nil, err
	}
	status := variants.Status(strings.ToLower(strings.TrimSpace(fm.Status)))
	switch {
	case status == "" || status == updated.Status:
		return updated, nil
	case status == variants.StatusScheduled && fm.PublishAt != nil:
		return i.variants.Schedule(ctx, updated.ID, *fm.PublishAt)
	default:
		return i.variants.SetStatus(ctx, updated.ID, status)
	}
}

func normalizeKind(value string) variants.Kind {
	kind, ok := variants.ParseKind(value)
	if !ok {
		return variants.Kind(strings.ToLower(strings.TrimSpace(value)))
	}
	return kind
}
