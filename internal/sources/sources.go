// Package sources finds and loads Rockstar source files named on the command
// line.
package sources

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extensions are the file extensions recognized as Rockstar source.
var Extensions = []string{".rock", ".rockstar"}

// Source is a named program text.
type Source struct {
	Name string
	Code string
}

// IsSource reports whether path has a Rockstar source extension.
func IsSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Discover expands patterns into a list of source files. A pattern may be a
// file, a directory (its source files, not recursive), a directory followed
// by "/..." (recursive), or a glob. Files named explicitly are kept whatever
// their extension. Each file appears once, in discovery order.
func Discover(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	var files []string
	seen := map[string]bool{}
	add := func(path string) {
		if !seen[path] {
			files = append(files, path)
			seen[path] = true
		}
	}

	for _, pattern := range patterns {
		if strings.ContainsAny(pattern, "*?[") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				if IsSource(m) {
					add(m)
				}
			}
			continue
		}

		recursive := false
		dir := pattern
		if strings.HasSuffix(pattern, "...") {
			recursive = true
			dir = strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
			if dir == "" {
				dir = "."
			}
		}

		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path not found: %s", dir)
			}
			return nil, err
		}
		if !info.IsDir() {
			add(pattern)
			continue
		}

		if recursive {
			err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && IsSource(path) {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && IsSource(e.Name()) {
				add(filepath.Join(dir, e.Name()))
			}
		}
	}
	return files, nil
}

// Load reads each file.
func Load(files []string) ([]Source, error) {
	out := make([]Source, 0, len(files))
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		out = append(out, Source{Name: f, Code: string(b)})
	}
	return out, nil
}

// OutputPath returns the path of the artifact built from a source file: the
// source path with its extension replaced by ext. When dir is set the file
// is placed in dir instead of next to its source.
func OutputPath(source, dir, ext string) string {
	base := strings.TrimSuffix(source, filepath.Ext(source)) + ext
	if dir == "" {
		return base
	}
	return filepath.Join(dir, filepath.Base(base))
}
