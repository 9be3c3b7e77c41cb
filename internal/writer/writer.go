// Package writer persists generated output units to disk. The output
// directory is created once up front; unit writes then fan out in parallel,
// each targeting a distinct path, so no further locking is needed.
package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ormgen/ormgen/internal/codegen"
)

// DefaultParallelism bounds the write fan-out.
const DefaultParallelism = 8

// Result records the outcome of one unit write.
type Result struct {
	Path string
	Err  error
}

// WriteUnits writes every unit under dir. A failed write is reported in its
// Result but does not unwind writes that already succeeded; the returned
// slice is in unit order.
func WriteUnits(dir string, units []codegen.OutputUnit, parallelism int) ([]Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}

	results := make([]Result, len(units))
	var g errgroup.Group
	g.SetLimit(parallelism)

	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			path := filepath.Join(dir, u.RelativePath)
			results[i] = Result{Path: path, Err: writeUnit(path, u.Content)}
			return nil
		})
	}
	g.Wait()
	return results, nil
}

func writeUnit(path, content string) error {
	if sub := filepath.Dir(path); sub != "." {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
