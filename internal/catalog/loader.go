package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed archetypes/*.toml
var builtinFS embed.FS

const builtinDir = "archetypes"

type archetypeFile struct {
	Archetypes []Archetype `toml:"archetype"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(builtinFS, builtinDir)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded archetypes: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Load reads every *.toml file under dir in fsys, in file-name order.
func Load(fsys fs.FS, dir string) (*Catalog, error) {
	archetypes, err := readFS(fsys, dir)
	if err != nil {
		return nil, err
	}
	return New(archetypes), nil
}

// LoadAll merges the embedded archetypes with files from extraDir. Files in
// extraDir may add archetypes or override built-in ones by id. A missing
// extraDir is not an error.
func LoadAll(extraDir string) (*Catalog, error) {
	archetypes, err := readFS(builtinFS, builtinDir)
	if err != nil {
		return nil, err
	}
	if extraDir == "" {
		return New(archetypes), nil
	}

	entries, err := os.ReadDir(extraDir)
	if err != nil {
		if os.IsNotExist(err) {
			return New(archetypes), nil
		}
		return nil, fmt.Errorf("read archetype dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(extraDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		extra, err := decode(entry.Name(), data)
		if err != nil {
			return nil, err
		}
		archetypes = append(archetypes, extra...)
	}

	return New(archetypes), nil
}

func readFS(fsys fs.FS, dir string) ([]Archetype, error) {
	names, err := fs.Glob(fsys, path.Join(dir, "*.toml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var archetypes []Archetype
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		parsed, err := decode(name, data)
		if err != nil {
			return nil, err
		}
		archetypes = append(archetypes, parsed...)
	}
	return archetypes, nil
}

func decode(name string, data []byte) ([]Archetype, error) {
	var f archetypeFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	for i := range f.Archetypes {
		if err := check(&f.Archetypes[i]); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return f.Archetypes, nil
}

// check rejects archetypes that would produce invalid nodes and normalises
// option values to the type their input type expects.
func check(a *Archetype) error {
	if a.ID == "" {
		return fmt.Errorf("archetype %q: missing id", a.Label)
	}
	for i := range a.UIOptions {
		o := &a.UIOptions[i]
		if !o.InputType.Valid() {
			return fmt.Errorf("archetype %s option %d: unknown input type %q", a.ID, i, o.InputType)
		}
		switch {
		case !o.InputType.HoldsValue():
			o.Value = nil
		case o.Value != nil && !o.InputType.Accepts(o.Value):
			return fmt.Errorf("archetype %s option %d: value %v does not fit %s", a.ID, i, o.Value, o.InputType)
		}
	}
	return nil
}
