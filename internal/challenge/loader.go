package challenge

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// packFile is the on-disk shape of a challenge pack.
type packFile struct {
	Kind          string      `yaml:"kind"`
	SchemaVersion int         `yaml:"schema_version"`
	Name          string      `yaml:"name"`
	Challenges    []Challenge `yaml:"challenges"`
}

const (
	packKind               = "challenge_pack"
	supportedSchemaVersion = 1
)

// LoadPack parses a single pack file.
func LoadPack(path string) ([]Challenge, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pack %s: %w", path, err)
	}
	var pack packFile
	if err := yaml.Unmarshal(b, &pack); err != nil {
		return nil, fmt.Errorf("parse pack %s: %w", path, err)
	}
	if pack.Kind != packKind {
		return nil, fmt.Errorf("pack %s: kind must be %q", path, packKind)
	}
	if pack.SchemaVersion == 0 || pack.SchemaVersion > supportedSchemaVersion {
		return nil, fmt.Errorf("pack %s: unsupported schema_version %d", path, pack.SchemaVersion)
	}
	for _, ch := range pack.Challenges {
		if err := ch.Validate(); err != nil {
			return nil, fmt.Errorf("pack %s: %w", path, err)
		}
	}
	return pack.Challenges, nil
}

// LoadDir builds a catalog from the built-in challenges plus any
// *.yaml packs found under dir, appended in file-name order. A missing
// directory is not an error.
func LoadDir(dir string) (*Catalog, error) {
	all := append([]Challenge(nil), builtinChallenges...)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return NewCatalog(all)
		}
		return nil, fmt.Errorf("scan challenge dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		chs, err := LoadPack(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded challenge pack %s (%d challenges)", name, len(chs))
		all = append(all, chs...)
	}

	return NewCatalog(all)
}
