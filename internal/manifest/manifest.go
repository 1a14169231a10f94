// Package manifest parses the optional rupc.yaml batch-compilation
// project file, using github.com/goccy/go-yaml for parsing and
// doublestar for glob expansion of source patterns.
package manifest

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"
)

// Manifest is the parsed shape of rupc.yaml:
//
//	target: cil
//	sources:
//	  - "examples/**/*.рус"
//	output: build/
type Manifest struct {
	Target  string   `yaml:"target"`
	Sources []string `yaml:"sources"`
	Output  string   `yaml:"output"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать манифест %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("ошибка разбора манифеста %s: %w", path, err)
	}
	if m.Target != "cil" && m.Target != "jvm" {
		return nil, fmt.Errorf("манифест %s: неизвестная цель %q (ожидалось cil или jvm)", path, m.Target)
	}
	return &m, nil
}

// ResolveSources expands every glob pattern in Sources (relative to
// root) into a deduplicated, sorted list of concrete file paths.
func (m *Manifest) ResolveSources(root string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range m.Sources {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("неверный шаблон %q: %w", pattern, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
