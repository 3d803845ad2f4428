package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ralvarado/sigma/internal/insight"
)

// Research bundles use a fixed file naming scheme; the filename decides the
// topic category of the fragment extracted from it.
var fileCategories = map[string]insight.Category{
	"01_overview.md":               insight.CategoryArchitecture,
	"02_architecture-deep-dive.md": insight.CategoryArchitecture,
	"03_codebase-setup.md":         insight.CategoryDeployment,
	"04_prompt-structure.md":       insight.CategoryPrompting,
	"05_enhancements.md":           insight.CategoryScalability,
}

const defaultConfidence = 0.95

// DirSource reads research bundles laid out as
// <root>/<perspective>/<numbered file>.md, one fragment per file. Unknown
// perspective directories and unrecognized filenames are skipped; missing
// roots yield zero fragments rather than an error, mirroring how research
// drops arrive incrementally.
type DirSource struct {
	Roots []string
}

// NewDirSource builds a source over the given research roots.
func NewDirSource(roots ...string) *DirSource {
	return &DirSource{Roots: roots}
}

// Fragments implements Source by walking every root.
func (d *DirSource) Fragments(ctx context.Context) ([]Fragment, error) {
	var fragments []Fragment
	for _, root := range d.Roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("ingest: read root %s: %w", root, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			perspective, err := insight.ParsePerspective(entry.Name())
			if err != nil {
				continue
			}
			dirFragments, err := d.readPerspectiveDir(filepath.Join(root, entry.Name()), perspective)
			if err != nil {
				return nil, err
			}
			fragments = append(fragments, dirFragments...)
		}
	}
	return fragments, nil
}

func (d *DirSource) readPerspectiveDir(dir string, perspective insight.Perspective) ([]Fragment, error) {
	var fragments []Fragment
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ingest: read %s: %w", dir, err)
	}
	for _, entry := range entries {
		category, ok := fileCategories[entry.Name()]
		if !ok {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ingest: read %s: %w", path, err)
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			content = fmt.Sprintf("synthesized insight from %s (%s perspective)", entry.Name(), perspective)
		}
		fragments = append(fragments, Fragment{
			Perspective: perspective.String(),
			Category:    category.String(),
			Content:     firstLine(content),
			Confidence:  defaultConfidence,
			SourceFile:  path,
		})
	}
	return fragments, nil
}

// firstLine keeps fragments to a single excerpt line; full documents remain
// on disk for the reader.
func firstLine(content string) string {
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		return strings.TrimSpace(strings.TrimLeft(content[:idx], "# "))
	}
	return strings.TrimSpace(strings.TrimLeft(content, "# "))
}
