package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// ErrNewerManifest is returned when the manifest was written by a newer
// generator than the one running.
var ErrNewerManifest = errors.New("manifest was written by a newer generator")

// Entry records one generated builder.
type Entry struct {
	Target   string `yaml:"target" json:"target"`
	Builder  string `yaml:"builder" json:"builder"`
	Source   string `yaml:"source" json:"source"`
	File     string `yaml:"file" json:"file"`
	Checksum string `yaml:"sha256" json:"sha256"`
}

// Manifest tracks the builders written by generation runs.
type Manifest struct {
	GeneratorVersion string  `yaml:"generator_version" json:"generator_version"`
	Builders         []Entry `yaml:"builders" json:"builders"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	sort.SliceStable(m.Builders, func(i, j int) bool {
		if m.Builders[i].Target != m.Builders[j].Target {
			return m.Builders[i].Target < m.Builders[j].Target
		}
		return m.Builders[i].Builder < m.Builders[j].Builder
	})

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// Add records a builder, replacing an existing entry for the same target
// and builder name.
func (m *Manifest) Add(e Entry) {
	for i := range m.Builders {
		if m.Builders[i].Target == e.Target && m.Builders[i].Builder == e.Builder {
			m.Builders[i] = e
			return
		}
	}

	m.Builders = append(m.Builders, e)
}

// Lookup returns the entry for builder in target, if present.
func (m *Manifest) Lookup(target, builder string) (Entry, bool) {
	for _, e := range m.Builders {
		if e.Target == target && e.Builder == builder {
			return e, true
		}
	}
	return Entry{}, false
}

// Target returns every entry recorded for target.
func (m *Manifest) Target(target string) []Entry {
	var out []Entry
	for _, e := range m.Builders {
		if e.Target == target {
			out = append(out, e)
		}
	}
	return out
}

// CheckVersion fails with ErrNewerManifest when the manifest records a
// generator version above current. Versions that are not semantic
// versions are not compared.
func (m *Manifest) CheckVersion(current string) error {
	have, run := canonical(m.GeneratorVersion), canonical(current)
	if have == "" || run == "" {
		return nil
	}
	if semver.Compare(have, run) > 0 {
		return fmt.Errorf("%w: manifest %s, generator %s", ErrNewerManifest, m.GeneratorVersion, current)
	}
	return nil
}

// Stamp records the running generator version.
func (m *Manifest) Stamp(version string) {
	m.GeneratorVersion = version
}

func canonical(v string) string {
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// Checksum is the hex sha256 of a rendered builder.
func Checksum(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
