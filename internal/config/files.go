package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// LibraryFiles is the resolved file set of one library
type LibraryFiles struct {
	Name  string
	Files []string
}

// ResolveLibraries expands each library's glob patterns against the tree
// rooted at rootPath. Results are sorted and de-duplicated; a file matched by
// several libraries belongs to each of them. Patterns support ** for
// recursive matching.
func (c *Config) ResolveLibraries(rootPath string) ([]LibraryFiles, error) {
	var names []string
	for name := range c.Libraries {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []LibraryFiles
	for _, name := range names {
		lib := c.Libraries[name]
		files, err := resolvePatterns(rootPath, lib.Files, lib.Exclude)
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", name, err)
		}
		out = append(out, LibraryFiles{Name: name, Files: files})
	}
	return out, nil
}

// ResolveFiles expands the union of all libraries into one sorted file list.
func (c *Config) ResolveFiles(rootPath string) ([]string, error) {
	libs, err := c.ResolveLibraries(rootPath)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var files []string
	for _, lib := range libs {
		for _, f := range lib.Files {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func resolvePatterns(rootPath string, include, exclude []string) ([]string, error) {
	var includes, excludes []glob.Glob
	for _, pat := range include {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pat, err)
		}
		includes = append(includes, g)
	}
	for _, pat := range exclude {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pat, err)
		}
		excludes = append(excludes, g)
	}

	seen := make(map[string]bool)
	var files []string
	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !IsVHDLFile(path) {
			return nil
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		matched := false
		for _, g := range includes {
			if g.Match(rel) {
				matched = true
				break
			}
		}
		if !matched {
			return nil
		}
		for _, g := range excludes {
			if g.Match(rel) {
				return nil
			}
		}
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", rootPath, err)
	}
	sort.Strings(files)
	return files, nil
}

// IsVHDLFile reports whether path has a VHDL source extension.
func IsVHDLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vhd", ".vhdl":
		return true
	}
	return false
}
