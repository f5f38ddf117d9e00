package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Manual file names served by the docs endpoints.
var manualFiles = map[string]string{
	"dev":  "dev_manual.md",
	"user": "user_manual.md",
}

// DocsService renders the static markdown manuals to HTML.
type DocsService struct {
	docsDir string
	logger  *slog.Logger
	md      goldmark.Markdown
}

// NewDocsService creates a docs service.
func NewDocsService(docsDir string, logger *slog.Logger) *DocsService {
	return &DocsService{
		docsDir: docsDir,
		logger:  logger.With(slog.String("service", "docs")),
		md:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render converts the named manual ("dev" or "user") to HTML.
func (s *DocsService) Render(ctx context.Context, name string) ([]byte, error) {
	file, ok := manualFiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown manual %q", name)
	}

	source, err := os.ReadFile(filepath.Join(s.docsDir, file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("manual %s not found in %s", file, s.docsDir)
		}
		return nil, fmt.Errorf("read manual %s: %w", file, err)
	}

	var buf bytes.Buffer
	if err := s.md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("render manual %s: %w", file, err)
	}

	s.logger.InfoContext(ctx, "manual rendered", slog.String("manual", name))
	return buf.Bytes(), nil
}
