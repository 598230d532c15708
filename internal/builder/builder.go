// Package builder runs the extraction pipeline over a project: it resolves
// the configured file set, parses every file, and assembles the per-file
// documentation models into one result ready for serialization.
package builder

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jfcliche/vhdl-doc/internal/config"
	"github.com/jfcliche/vhdl-doc/internal/diag"
	"github.com/jfcliche/vhdl-doc/internal/doctree"
	"github.com/jfcliche/vhdl-doc/internal/extractor"
	"github.com/jfcliche/vhdl-doc/internal/token"
)

// FileResult is the serializable documentation of one source file.
type FileResult struct {
	File  string                `json:"file"`
	Units []*doctree.DesignUnit `json:"units"`
}

// Stats summarizes a build.
type Stats struct {
	Files       int `json:"files"`
	Units       int `json:"units"`
	Diagnostics int `json:"diagnostics"`
}

// Result is the complete output of one build: file documentation in sorted
// file order, the diagnostics of every stage, and summary counts. Two builds
// of the same tree produce equal Results.
type Result struct {
	Files       []FileResult      `json:"files"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Stats       Stats             `json:"stats"`
}

// Lookup finds a unit by name anywhere in the build, folding case. When a
// name is declared in several files the first in sorted file order wins.
func (r *Result) Lookup(name string) (*doctree.DesignUnit, bool) {
	for _, f := range r.Files {
		for _, u := range f.Units {
			if strings.EqualFold(u.Name, name) {
				return u, true
			}
		}
	}
	return nil, false
}

// ParseSource runs the full pipeline on one source text: tokenize, extract
// design units, associate comments. All diagnostics come back tagged with
// filename; none are fatal.
func ParseSource(filename, source string, std token.Standard) (*doctree.FileDocs, []diag.Diagnostic) {
	toks, diags := token.Tokenize(source, std)
	decls, extractDiags := extractor.Extract(toks)
	diags = append(diags, extractDiags...)
	diags = append(diags, extractor.Associate(decls, toks)...)
	for i := range diags {
		diags[i].File = filename
	}
	return doctree.NewFileDocs(filename, extractor.Units(decls)), diags
}

// ParseFile reads and parses one file from disk.
func ParseFile(path string, std token.Standard) (*doctree.FileDocs, []diag.Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	docs, diags := ParseSource(path, string(data), std)
	return docs, diags, nil
}

// Builder runs builds for one configuration.
type Builder struct {
	cfg *config.Config
	log *logrus.Logger
}

// New creates a Builder. A nil logger gets a discard-free default.
func New(cfg *config.Config, log *logrus.Logger) *Builder {
	if log == nil {
		log = logrus.New()
	}
	return &Builder{cfg: cfg, log: log}
}

// Build resolves the configured file set under rootPath and parses every
// file, in parallel up to the configured worker count. File order in the
// result is sorted, independent of completion order.
func (b *Builder) Build(rootPath string) (*Result, error) {
	start := time.Now()

	files, err := b.cfg.ResolveFiles(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolving file set: %w", err)
	}
	b.log.WithFields(logrus.Fields{
		"root":  rootPath,
		"files": len(files),
	}).Debug("starting documentation build")

	result, err := b.BuildFiles(files)
	if err != nil {
		return nil, err
	}

	b.log.WithFields(logrus.Fields{
		"files":       result.Stats.Files,
		"units":       result.Stats.Units,
		"diagnostics": result.Stats.Diagnostics,
		"elapsed":     time.Since(start).Round(time.Millisecond).String(),
	}).Info("documentation build finished")
	return result, nil
}

// BuildFiles parses an explicit file list. The list is parsed in parallel;
// a file that cannot be read fails the whole build.
func (b *Builder) BuildFiles(files []string) (*Result, error) {
	type fileOut struct {
		docs  *doctree.FileDocs
		diags []diag.Diagnostic
		err   error
	}

	workers := b.cfg.Analysis.MaxParallelFiles
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string, len(files))
	outs := make(map[string]fileOut, len(files))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				docs, diags, err := ParseFile(path, token.Standard(b.cfg.Standard))
				mu.Lock()
				outs[path] = fileOut{docs: docs, diags: diags, err: err}
				mu.Unlock()
			}
		}()
	}
	for _, path := range files {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	result := &Result{
		Files:       []FileResult{},
		Diagnostics: []diag.Diagnostic{},
	}
	for _, path := range sorted {
		out := outs[path]
		if out.err != nil {
			return nil, out.err
		}
		units := out.docs.Units()
		if units == nil {
			units = []*doctree.DesignUnit{}
		}
		result.Files = append(result.Files, FileResult{File: path, Units: units})
		result.Diagnostics = append(result.Diagnostics, out.diags...)
		result.Stats.Units += len(units)
		for _, d := range out.diags {
			b.log.WithFields(logrus.Fields{
				"file": d.File,
				"line": d.Line,
				"kind": d.Kind.String(),
			}).Warn(d.Message)
		}
	}
	result.Stats.Files = len(result.Files)
	result.Stats.Diagnostics = len(result.Diagnostics)
	return result, nil
}
