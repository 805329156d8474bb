package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// discover finds Go files under paths and groups them by directory. Files
// of a group are sorted.
func discover(paths []string) (map[string][]string, error) {
	var (
		mu   sync.Mutex
		pkgs = map[string][]string{}
	)
	add := func(path string) {
		path = filepath.Clean(path)
		dir := filepath.Dir(path)

		mu.Lock()
		defer mu.Unlock()
		pkgs[dir] = append(pkgs[dir], path)
	}

	conf := fastwalk.Config{Follow: false}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !isGoFile(root) {
				return nil, fmt.Errorf("%s is not a Go source file", root)
			}
			add(root)
			continue
		}

		err = fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if filepath.Clean(p) != filepath.Clean(root) && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && isGoFile(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	for dir, files := range pkgs {
		slices.Sort(files)
		pkgs[dir] = slices.Compact(files)
	}
	return pkgs, nil
}

func skipDir(name string) bool {
	switch {
	case name == "vendor", name == "testdata":
		return true
	case strings.HasPrefix(name, "."), strings.HasPrefix(name, "_"):
		return true
	default:
		return false
	}
}

func isGoFile(path string) bool {
	name := filepath.Base(path)
	return strings.HasSuffix(name, ".go") && !strings.HasPrefix(name, ".") && !strings.HasPrefix(name, "_")
}

// relPath makes path relative to the working directory so that patterns
// like "internal/**" work as expected.
func relPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return filepath.ToSlash(path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
