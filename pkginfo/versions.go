package pkginfo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// Package is a package found in a tier.
type Package struct {
	Name string
	// Version is empty for unversioned tiers.
	Version string
	// Root is the directory holding the package manifest and resources.
	Root string
}

// LatestVersion returns the highest version directory under
// <root>/<packageName>, or an empty string when the package is not installed
// under root. Directory names that are not semantic versions are ignored.
func LatestVersion(root, packageName string) (string, error) {
	entries, err := os.ReadDir(filepath.Join(root, packageName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read versions of %s: %w", packageName, err)
	}

	latest := ""
	for _, e := range entries {
		if !e.IsDir() || !semver.IsValid("v"+e.Name()) {
			continue
		}
		if latest == "" || semver.Compare("v"+e.Name(), "v"+latest) > 0 {
			latest = e.Name()
		}
	}
	return latest, nil
}

// Discover lists the packages of a tier sorted by name. Versioned tiers lay
// packages out as <tier>/<name>/<version>/<name> and only the latest version
// is returned. A missing tier holds no packages.
func Discover(tierRoot string, versioned bool) ([]Package, error) {
	entries, err := os.ReadDir(tierRoot)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read packages in %s: %w", tierRoot, err)
	}

	var packages []Package
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !versioned {
			packages = append(packages, Package{Name: name, Root: filepath.Join(tierRoot, name)})
			continue
		}
		version, err := LatestVersion(tierRoot, name)
		if err != nil {
			return nil, err
		}
		if version == "" {
			continue
		}
		packages = append(packages, Package{
			Name:    name,
			Version: version,
			Root:    filepath.Join(tierRoot, name, version, name),
		})
	}
	slices.SortFunc(packages, func(a, b Package) int { return strings.Compare(a.Name, b.Name) })
	return packages, nil
}
