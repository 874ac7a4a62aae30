// Package pkginfo reads package manifests and decides which discovered
// packages are activated for an environment run.
package pkginfo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// ManifestFileName is the manifest file at the root of every package.
const ManifestFileName = "package.yaml"

// AllApplications in a manifest activates the package for every application.
const AllApplications = "all"

var (
	ErrManifestMissing   = errors.New("package manifest not found")
	ErrMalformedManifest = errors.New("malformed package manifest")
)

type Document struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// Manifest describes a package.
type Manifest struct {
	Name        string     `yaml:"name"`
	Version     string     `yaml:"version"`
	Description string     `yaml:"description"`
	Keywords    []string   `yaml:"keywords"`
	Platforms   []string   `yaml:"platforms"`
	Documents   []Document `yaml:"documents"`
	// Applications lists the applications the package is activated for.
	// Empty or containing "all" means every application.
	Applications []string `yaml:"applications"`
	// RuntimeVersions lists the supported interpreter major versions.
	RuntimeVersions   VersionList `yaml:"runtimeVersions"`
	IsActive          *bool       `yaml:"isActive"`
	IsExternal        bool        `yaml:"isExternal"`
	Developers        []string    `yaml:"developers"`
	DependentPackages []string    `yaml:"dependentPackages"`
}

// ManifestPath returns the manifest location of the package at packageRoot.
func ManifestPath(packageRoot string) string {
	return filepath.Join(packageRoot, ManifestFileName)
}

// Load reads the manifest of the package at packageRoot. Unknown keys are
// rejected.
func Load(packageRoot string) (*Manifest, error) {
	path := ManifestPath(packageRoot)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestMissing, path)
		}
		return nil, fmt.Errorf("failed to read package manifest: %w", err)
	}

	var m Manifest
	if err := yaml.UnmarshalWithOptions(data, &m, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedManifest, path, err)
	}
	return &m, nil
}

// Active reports whether the package is active. A manifest without an
// isActive key is active.
func (m *Manifest) Active() bool {
	return m.IsActive == nil || *m.IsActive
}

// VersionList is a list of versions that accepts both quoted and bare
// numeric YAML scalars.
type VersionList []string

func (v *VersionList) UnmarshalYAML(unmarshal func(any) error) error {
	var raw []any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	list := make(VersionList, 0, len(raw))
	for _, item := range raw {
		switch item.(type) {
		case string, int, int64, uint64, float64:
			list = append(list, fmt.Sprint(item))
		default:
			return fmt.Errorf("invalid version %v", item)
		}
	}
	*v = list
	return nil
}
