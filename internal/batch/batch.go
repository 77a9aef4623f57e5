// Package batch imports memories in bulk from YAML or JSON files.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/echomind/internal/workflow"
)

// File is the on-disk format of a memory file.
type File struct {
	Memories []string `json:"memories" yaml:"memories"`
}

// ValidationResult represents the outcome of checking a memory file.
type ValidationResult struct {
	Valid    bool
	Warnings []string
	Errors   []string
}

// Load reads a memory file (JSON or YAML).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read memory file: %w", err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON memory file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to unmarshal YAML memory file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported memory file format: %s (use .json or .yaml)", ext)
	}
	return &f, nil
}

// Validate flags files without entries and warns about blank ones.
func Validate(f File) ValidationResult {
	res := ValidationResult{Valid: true}

	if len(f.Memories) == 0 {
		res.Valid = false
		res.Errors = append(res.Errors, "file contains no memories")
		return res
	}
	for i, m := range f.Memories {
		if _, err := workflow.Validate(m); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("entry %d is blank and will be skipped", i+1))
		}
	}
	return res
}

// Expand resolves doublestar patterns to a sorted, de-duplicated file list.
// A pattern without glob characters must name an existing file.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", p)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Outcome is the result of importing one entry.
type Outcome struct {
	Path   string          `json:"path"`
	Entry  int             `json:"entry"`
	Notice workflow.Notice `json:"notice"`
	ID     string          `json:"id,omitempty"`
}

// Summary aggregates an import run.
type Summary struct {
	Stored   int       `json:"stored"`
	Failed   int       `json:"failed"`
	Skipped  int       `json:"skipped"`
	Outcomes []Outcome `json:"outcomes"`
}

// Importer feeds memory files through the add workflow.
type Importer struct {
	wf *workflow.Workflows
}

func NewImporter(wf *workflow.Workflows) *Importer {
	return &Importer{wf: wf}
}

// Import stores every non-blank entry of each file in order, one request at a
// time. A failed entry does not stop the run and is not retried. Files that
// fail to load or validate are reported as errors before anything is sent.
func (im *Importer) Import(ctx context.Context, paths []string) (Summary, error) {
	files := make([]*File, len(paths))
	for i, p := range paths {
		f, err := Load(p)
		if err != nil {
			return Summary{}, err
		}
		if res := Validate(*f); !res.Valid {
			return Summary{}, fmt.Errorf("%s: %s", p, strings.Join(res.Errors, ", "))
		}
		files[i] = f
	}

	var sum Summary
	for i, f := range files {
		for j, text := range f.Memories {
			if _, err := workflow.Validate(text); err != nil {
				sum.Skipped++
				continue
			}
			v := im.wf.Add(ctx, workflow.AddView{Input: text})
			out := Outcome{Path: paths[i], Entry: j + 1, Notice: v.Notice, ID: v.LastID}
			if v.Notice.Failed() {
				sum.Failed++
			} else {
				sum.Stored++
			}
			sum.Outcomes = append(sum.Outcomes, out)
		}
	}
	return sum, nil
}
