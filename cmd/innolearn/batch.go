package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Alishbarana/InnoLearn/internal/debug"
	ierrors "github.com/Alishbarana/InnoLearn/internal/errors"
	"github.com/Alishbarana/InnoLearn/internal/types"
)

// batchLine is one non-empty input line
type batchLine struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"-"`
}

// batchRecord is one JSON line of batch output
type batchRecord struct {
	batchLine
	Result *types.RecognitionResult `json:"result"`
}

func batchCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	if c.IsSet("workers") {
		cfg.Batch.Workers = c.Int("workers")
	}
	rec, _, err := newRecognizer(cfg)
	if err != nil {
		return err
	}

	files, err := expandInputs(c.StringSlice("input"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files match %s", strings.Join(c.StringSlice("input"), ", "))
	}

	lines, readErrs := readLines(files, cfg.Batch.Workers)

	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	results, err := rec.RecognizeBatch(c.Context, texts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	for i, l := range lines {
		if err := enc.Encode(batchRecord{batchLine: l, Result: results[i]}); err != nil {
			return err
		}
	}
	debug.LogMatch("batch: %d files, %d lines, %s\n", len(files), len(lines), rec.Stats())

	// Unreadable files are reported after the readable ones were processed
	return readErrs.ErrorOrNil()
}

// expandInputs resolves doublestar globs into a sorted, deduplicated file list
func expandInputs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// readLines reads every file concurrently and returns the non-empty lines in
// file then line order. Per-file failures are collected rather than aborting.
func readLines(files []string, workers int) ([]batchLine, *ierrors.MultiError) {
	perFile := make([][]batchLine, len(files))
	var (
		mu   sync.Mutex
		errs []error
	)

	var g errgroup.Group
	g.SetLimit(max(1, workers))
	for i, path := range files {
		g.Go(func() error {
			lines, err := readFileLines(path)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			perFile[i] = lines
			return nil
		})
	}
	_ = g.Wait()

	var out []batchLine
	for _, lines := range perFile {
		out = append(out, lines...)
	}
	return out, ierrors.NewMultiError(errs)
}

func readFileLines(path string) ([]batchLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []batchLine
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, batchLine{File: path, Line: n, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}
