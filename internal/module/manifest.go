package module

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestName is the per-project configuration file
const ManifestName = "lang.yaml"

// Manifest is the optional project configuration. Search paths are resolved
// relative to the directory containing the manifest.
type Manifest struct {
	SearchPaths []string `yaml:"search_paths"`
}

// LoadManifest reads lang.yaml from dir. A missing manifest is not an
// error; it yields an empty configuration.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	for i, p := range m.SearchPaths {
		if !filepath.IsAbs(p) {
			m.SearchPaths[i] = filepath.Join(dir, p)
		}
	}
	return &m, nil
}
