package cyclonedx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/idlab-discover/AIBOM/pkg/core"
)

// fileSuffix marks generated BOM files so CleanOutputs never touches
// anything else in the output directory.
const fileSuffix = ".cyclonedx.json"

// safeName reduces an arbitrary entity name or version to a filename
// fragment: path separators and whitespace become dashes.
func safeName(s string) string {
	if s == "" {
		return "unversioned"
	}
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ', '\t':
			return '-'
		}
		return r
	}, s)
	return strings.Trim(mapped, "-.")
}

// FileName returns the output filename for a document. Collisions between
// documents of different kinds are resolved by filePaths at write time.
func FileName(doc *core.Document) string {
	return fmt.Sprintf("%s-%s%s", safeName(doc.Name), safeName(doc.Version), fileSuffix)
}

// filePaths assigns every document a distinct filename. When two documents
// share a name and version (a model and a dataset both called X@1), the
// kind is folded into the filename; remaining duplicates get a numeric
// suffix. Deterministic for a given document order.
func filePaths(docs []*core.Document) map[*core.Document]string {
	counts := map[string]int{}
	for _, d := range docs {
		counts[FileName(d)]++
	}
	taken := map[string]struct{}{}
	out := make(map[*core.Document]string, len(docs))
	for _, d := range docs {
		name := FileName(d)
		if counts[name] > 1 && d.Kind != "" {
			name = fmt.Sprintf("%s-%s-%s%s",
				safeName(d.Name), safeName(d.Version), strings.ToLower(safeName(d.Kind)), fileSuffix)
		}
		base := strings.TrimSuffix(name, fileSuffix)
		for n := 2; ; n++ {
			if _, ok := taken[name]; !ok {
				break
			}
			name = fmt.Sprintf("%s-%d%s", base, n, fileSuffix)
		}
		taken[name] = struct{}{}
		out[d] = name
	}
	return out
}

// CleanOutputs removes previously generated BOM files from dir. A missing
// directory is not an error.
func CleanOutputs(dir string, logger *slog.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading output dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing stale output %s: %w", path, err)
		}
		logger.Debug("removed stale output", "path", path)
	}
	return nil
}

// WriteFiles serializes one BOM file per document into dir. Documents are
// fully linked before this runs, so files are independent and written
// concurrently.
func (g *Generator) WriteFiles(ctx context.Context, dir string, docs []*core.Document, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	paths := filePaths(docs)
	eg, ctx := errgroup.WithContext(ctx)
	for _, doc := range docs {
		doc := doc
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, paths[doc])
			data, err := json.MarshalIndent(g.Generate(doc), "", "  ")
			if err != nil {
				return fmt.Errorf("encoding %s: %w", path, err)
			}
			if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			logger.Info("wrote BOM", "path", path, "serial", doc.SerialNumber)
			return nil
		})
	}
	return eg.Wait()
}
