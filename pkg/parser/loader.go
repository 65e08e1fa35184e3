package parser

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cpyvn/cpyvn/pkg/script"
)

// Loader reads script files from disk and caches fully resolved programs
// by absolute path, so repeated calls and includes of the same file reuse
// one parse. Registered overlays merge into every top-level load, which
// keeps saved command indexes valid across entry, call and restore.
type Loader struct {
	cache        map[string]*script.Program
	merged       map[string]*script.Program
	inFlight     map[string]bool
	overlays     []Aliased
	overlayPaths map[string]bool
}

// NewLoader creates an empty Loader.
func NewLoader() *Loader {
	return &Loader{
		cache:        make(map[string]*script.Program),
		merged:       make(map[string]*script.Program),
		inFlight:     make(map[string]bool),
		overlayPaths: make(map[string]bool),
	}
}

// Overlay parses the script at path and registers it to merge under alias
// into every program this loader serves from now on. Overlay files
// themselves and nested includes load without the merge.
func (ld *Loader) Overlay(alias, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve overlay path: %w", err)
	}
	ld.overlayPaths[abs] = true
	prog, err := ld.Load(abs)
	if err != nil {
		return err
	}
	ld.overlays = append(ld.overlays, Aliased{Alias: alias, Program: prog})
	return nil
}

// Load parses the script at path, expanding includes relative to the
// file's directory. The result is cached; callers must not mutate it.
func (ld *Loader) Load(path string) (*script.Program, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve script path: %w", err)
	}
	nested := len(ld.inFlight) > 0
	if nested || len(ld.overlays) == 0 || ld.overlayPaths[abs] {
		return ld.loadBare(abs)
	}
	if prog, ok := ld.merged[abs]; ok {
		return prog, nil
	}
	base, err := ld.loadBare(abs)
	if err != nil {
		return nil, err
	}
	prog := MergeAliased(base, ld.overlays...)
	ld.merged[abs] = prog
	return prog, nil
}

func (ld *Loader) loadBare(abs string) (*script.Program, error) {
	if prog, ok := ld.cache[abs]; ok {
		return prog, nil
	}
	if ld.inFlight[abs] {
		return nil, &ParseError{Phase: "loader", Message: "include cycle detected", File: abs}
	}
	ld.inFlight[abs] = true
	defer delete(ld.inFlight, abs)

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &ParseError{Phase: "loader", Message: err.Error(), File: abs}
	}
	source, err := decodeScript(data)
	if err != nil {
		return nil, &ParseError{Phase: "loader", Message: "decode script: " + err.Error(), File: abs}
	}

	res, err := NewParser(source, abs).Parse()
	if err != nil {
		return nil, err
	}

	var included []*script.Program
	for _, inc := range res.Includes {
		sub, err := ld.Load(filepath.Join(filepath.Dir(abs), filepath.FromSlash(inc.Path)))
		if err != nil {
			return nil, err
		}
		included = append(included, rewriteAlias(sub, inc.Alias))
	}

	prog := mergePrograms(included, res.Program)
	ld.cache[abs] = prog
	return prog, nil
}

// Has reports whether a resolved parse for path is cached.
func (ld *Loader) Has(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	_, ok := ld.cache[abs]
	return ok
}

// Len returns the number of cached programs.
func (ld *Loader) Len() int {
	return len(ld.cache)
}

// Remove drops one cached program. It reports whether an entry existed.
func (ld *Loader) Remove(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	_, ok := ld.cache[abs]
	delete(ld.cache, abs)
	delete(ld.merged, abs)
	return ok
}

// Clear drops every cached program. Registered overlays stay in effect.
func (ld *Loader) Clear() {
	ld.cache = make(map[string]*script.Program)
	ld.merged = make(map[string]*script.Program)
}

// decodeScript converts raw file bytes to source text, stripping a UTF-8
// byte order mark when one is present.
func decodeScript(data []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
