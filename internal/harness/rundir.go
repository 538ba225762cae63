package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FileResult pairs a scenario file with the outcome of running it.
type FileResult struct {
	Path   string
	Result *Result
	Err    error
}

// Passed reports whether the scenario loaded, ran and met its expectations.
func (r FileResult) Passed() bool {
	return r.Err == nil && r.Result != nil && r.Result.Pass
}

// ScenarioFiles lists the *.yaml and *.yml files directly inside dir,
// sorted by name.
func ScenarioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// RunDir runs every scenario file in dir concurrently. Results are returned
// in file order. A scenario that fails to load or run is reported in its
// FileResult; the returned error is for the directory itself or ctx.
func (h *Harness) RunDir(ctx context.Context, dir string) ([]FileResult, error) {
	files, err := ScenarioFiles(dir)
	if err != nil {
		return nil, err
	}
	return h.RunFiles(ctx, files)
}

// RunFiles runs the given scenario files concurrently, each with its own
// program and interpreter. Results are in the order of files.
func (h *Harness) RunFiles(ctx context.Context, files []string) ([]FileResult, error) {
	results := make([]FileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = h.runFile(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (h *Harness) runFile(path string) FileResult {
	s, err := LoadScenario(path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}
	result, err := h.Run(s)
	return FileResult{Path: path, Result: result, Err: err}
}
