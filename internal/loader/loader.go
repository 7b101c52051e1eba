// Package loader reads calendar definition JSON files and turns them
// into validated calendar engines. This is the single explicit
// parse-and-validate step; the engine itself trusts the definitions it
// is handed. One JSON file describes one calendar.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rayners/fvtt-seasons-and-stars-sub001/internal/calendar"
)

// Parse decodes one calendar definition from JSON and verifies it can
// back an engine. The returned definition is structurally valid.
func Parse(data []byte) (calendar.Definition, error) {
	var def calendar.Definition
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		return calendar.Definition{}, fmt.Errorf("decoding calendar definition: %w", err)
	}
	if def.Name == "" {
		return calendar.Definition{}, fmt.Errorf("calendar definition has no name")
	}
	if _, err := calendar.NewEngine(def); err != nil {
		return calendar.Definition{}, err
	}
	return def, nil
}

// LoadFile reads and parses one calendar definition file.
func LoadFile(path string) (calendar.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return calendar.Definition{}, fmt.Errorf("reading %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return calendar.Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// LoadDir parses every *.json file in dir, sorted by filename. A missing
// directory is not an error: the service then runs with only the
// built-in calendars.
func LoadDir(dir string) ([]calendar.Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading calendar directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	defs := make([]calendar.Definition, 0, len(names))
	for _, name := range names {
		def, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Registry holds one engine per loaded calendar, keyed by calendar name.
// Built once at startup; engines are immutable, so lookups are safe from
// any goroutine.
type Registry struct {
	engines map[string]*calendar.Engine
	names   []string
}

// BuildRegistry loads the calendars in dir on top of the built-in ones.
// A file calendar with the same name as a built-in replaces it; two
// files with the same calendar name are an error.
func BuildRegistry(dir string) (*Registry, error) {
	r := &Registry{engines: make(map[string]*calendar.Engine)}

	for _, def := range []calendar.Definition{calendar.Gregorian()} {
		if err := r.add(def); err != nil {
			return nil, err
		}
	}

	defs, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, def := range defs {
		if seen[def.Name] {
			return nil, fmt.Errorf("duplicate calendar name %q in %s", def.Name, dir)
		}
		seen[def.Name] = true
		if err := r.add(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewRegistry builds a registry from in-memory definitions, mostly for
// tests.
func NewRegistry(defs ...calendar.Definition) (*Registry, error) {
	r := &Registry{engines: make(map[string]*calendar.Engine)}
	for _, def := range defs {
		if err := r.add(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(def calendar.Definition) error {
	eng, err := calendar.NewEngine(def)
	if err != nil {
		return err
	}
	if _, exists := r.engines[def.Name]; !exists {
		r.names = append(r.names, def.Name)
	}
	r.engines[def.Name] = eng
	return nil
}

// Engine returns the engine for a calendar name.
func (r *Registry) Engine(name string) (*calendar.Engine, bool) {
	eng, ok := r.engines[name]
	return eng, ok
}

// Names returns the registered calendar names in load order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
