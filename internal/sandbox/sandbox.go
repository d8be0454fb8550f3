// Package sandbox supplies the isolated compiler context used for each
// markup compile: the source text plus font and file resolution.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-text/typesetting/fontscan"
)

// InitError reports a font or resource discovery failure. It is fatal for
// the whole show.
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("sandbox init: %s: %v", e.Op, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// Options controls font discovery.
type Options struct {
	// Root is the directory that relative file paths in markup resolve against.
	Root string
	// FontPaths are extra font directories. Each must exist.
	FontPaths []string
	// IgnoreSystemFonts skips the system font scan.
	IgnoreSystemFonts bool
	// CacheDir is where fontscan keeps its index. Defaults to os.UserCacheDir.
	CacheDir string
}

// World is the per-compile context. A World is consumed by exactly one
// compile call.
type World struct {
	Source            string
	Root              string
	FontDirs          []string
	IgnoreSystemFonts bool
}

// Sandbox holds the result of font discovery. It carries no state that
// changes between compiles.
type Sandbox struct {
	root      string
	fontDirs  []string
	families  int
	ignoreSys bool
}

// scanSystemFonts is replaced in tests.
var scanSystemFonts = func(cacheDir string) ([]fontscan.Footprint, error) {
	return fontscan.SystemFonts(nil, cacheDir)
}

// New discovers fonts once and returns a Sandbox that can build any number
// of Worlds.
func New(opts Options) (*Sandbox, error) {
	root := opts.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, &InitError{Op: "resolve root", Err: err}
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, &InitError{Op: "resolve root", Err: err}
	}

	dirs := map[string]struct{}{}
	for _, p := range opts.FontPaths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, &InitError{Op: "font path", Err: err}
		}
		if !fi.IsDir() {
			return nil, &InitError{Op: "font path", Err: fmt.Errorf("%s is not a directory", p)}
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, &InitError{Op: "font path", Err: err}
		}
		dirs[abs] = struct{}{}
	}

	families := map[string]struct{}{}
	if !opts.IgnoreSystemFonts {
		cacheDir := opts.CacheDir
		if cacheDir == "" {
			cacheDir, err = os.UserCacheDir()
			if err != nil {
				return nil, &InitError{Op: "cache dir", Err: err}
			}
		}
		footprints, err := scanSystemFonts(cacheDir)
		if err != nil {
			return nil, &InitError{Op: "scan system fonts", Err: err}
		}
		for _, fp := range footprints {
			families[fp.Family] = struct{}{}
			if fp.Location.File != "" {
				dirs[filepath.Dir(fp.Location.File)] = struct{}{}
			}
		}
	}

	if len(dirs) == 0 && !opts.IgnoreSystemFonts {
		return nil, &InitError{Op: "scan system fonts", Err: fmt.Errorf("no fonts found")}
	}

	fontDirs := make([]string, 0, len(dirs))
	for d := range dirs {
		fontDirs = append(fontDirs, d)
	}
	sort.Strings(fontDirs)

	return &Sandbox{
		root:      root,
		fontDirs:  fontDirs,
		families:  len(families),
		ignoreSys: opts.IgnoreSystemFonts,
	}, nil
}

// WithSource binds source text to a fresh World.
func (s *Sandbox) WithSource(source string) World {
	dirs := make([]string, len(s.fontDirs))
	copy(dirs, s.fontDirs)
	return World{
		Source:            source,
		Root:              s.root,
		FontDirs:          dirs,
		IgnoreSystemFonts: s.ignoreSys,
	}
}

// FontDirs returns the discovered font directories.
func (s *Sandbox) FontDirs() []string { return s.fontDirs }

// Families returns the number of distinct system font families found.
func (s *Sandbox) Families() int { return s.families }

// Root returns the file resolution root.
func (s *Sandbox) Root() string { return s.root }
