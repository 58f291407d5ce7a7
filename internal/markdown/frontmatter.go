package markdown

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block at the top of an imported post.
type FrontMatter struct {
	Group     string     `yaml:"group"`
	Locale    string     `yaml:"locale"`
	Slug      string     `yaml:"slug"`
	Kind      string     `yaml:"kind"`
	Status    string     `yaml:"status"`
	Title     string     `yaml:"title"`
	Summary   string     `yaml:"summary"`
	ShortCode bool       `yaml:"short_code"`
	PublishAt *time.Time `yaml:"publish_at"`
}

// Document is a parsed markdown file.
type Document struct {
	Path        string
	FrontMatter FrontMatter
	Body        []byte
	Checksum    []byte
}

// ParseDocument splits source into frontmatter and body. Group and locale
// fall back to the file name: "hello.en.md" is group "hello", locale "en".
func ParseDocument(filePath string, source []byte) (*Document, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter %s: %w", filePath, err)
	}

	base := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	group, loc := base, ""
	if idx := strings.LastIndex(base, "."); idx > 0 {
		group, loc = base[:idx], base[idx+1:]
	}
	if strings.TrimSpace(meta.Group) == "" {
		meta.Group = group
	}
	if strings.TrimSpace(meta.Locale) == "" {
		meta.Locale = loc
	}

	sum := sha256.Sum256(source)
	return &Document{
		Path:        filePath,
		FrontMatter: meta,
		Body:        body,
		Checksum:    sum[:],
	}, nil
}
