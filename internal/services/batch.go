package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"payroll/internal/core"
	"payroll/internal/payfile"
)

const maxParallelParses = 8

type parsedFile struct {
	path    string
	month   string
	records []core.HourRecord
}

// LoadDirectory ingests every .txt pay file under dir. Files are parsed
// concurrently but applied to the ledger one at a time in file name order,
// so a batch load is deterministic. Base names listed in skip (typically
// the registry file) are ignored. Already processed months are left
// untouched; a batch load never replaces.
func (s *PayrollService) LoadDirectory(ctx context.Context, dir string, skip ...string) ([]core.IngestResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read pay file directory %s: %w", dir, err)
	}

	skipped := make(map[string]struct{}, len(skip))
	for _, name := range skip {
		skipped[name] = struct{}{}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
			continue
		}
		if _, ok := skipped[entry.Name()]; ok {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	parsed := make([]parsedFile, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelParses)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open pay file %s: %w", path, err)
			}
			defer f.Close()

			records, err := payfile.ParsePayFile(f)
			if err != nil {
				return err
			}
			parsed[i] = parsedFile{
				path:    path,
				month:   payfile.MonthKeyFromFilename(path),
				records: records,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]core.IngestResult, 0, len(parsed))
	for _, p := range parsed {
		res, err := s.ingest(ctx, p.month, p.records, nil, filepath.Base(p.path))
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	slog.InfoContext(ctx, "Loaded pay file directory",
		"dir", dir,
		"files", len(paths))
	return results, nil
}
