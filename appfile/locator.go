package appfile

import (
	"fmt"
	"path/filepath"

	"github.com/meco-pipeline/mecosettings/fileutil"
	"github.com/meco-pipeline/mecosettings/paths"
)

// VersionLookup returns the version of packageName installed under root, or
// an empty string when the package is not installed there.
type VersionLookup func(root, packageName string) (string, error)

// Query describes the app file to locate and the environment to search.
type Query struct {
	Platform       paths.Platform
	Project        string
	Developer      string
	DevelopmentEnv string
	StageEnv       string
	// App is either an app name or a path to a descriptor file.
	App string
	// ProjectAppsOnly skips the master project tier.
	ProjectAppsOnly bool
}

// Locator finds app descriptors across the package tiers.
type Locator struct {
	paths    *paths.Resolver
	versions VersionLookup
}

func NewLocator(resolver *paths.Resolver, versions VersionLookup) *Locator {
	return &Locator{paths: resolver, versions: versions}
}

// Resolve returns the descriptor file for q.App. An existing absolute file
// path is returned as is. Otherwise the tiers are probed in order and the
// first existing file wins:
//
//  1. development packages
//  2. stage packages
//  3. project internal packages, unless the project is the master project
//  4. master project internal packages, unless ProjectAppsOnly is set
//
// A *NotFoundError listing every probed path is returned when no tier has it.
// An empty app name resolves to an empty path.
func (l *Locator) Resolve(q Query) (string, error) {
	if q.App == "" {
		return "", nil
	}
	if filepath.IsAbs(q.App) && fileutil.IsFile(q.App) {
		return q.App, nil
	}
	if err := q.Platform.Validate(); err != nil {
		return "", err
	}

	fileName := withExtension(q.App)
	var probed []string

	probe := func(candidate string) bool {
		if fileutil.IsFile(candidate) {
			return true
		}
		probed = append(probed, candidate)
		return false
	}

	if q.DevelopmentEnv != "" {
		root, err := l.paths.DevelopmentPackagesPath(q.Platform, q.Project, q.Developer, q.DevelopmentEnv, false)
		if err != nil {
			return "", err
		}
		if candidate := unversionedAppFile(root, fileName); probe(candidate) {
			return candidate, nil
		}
	}

	if q.StageEnv != "" {
		root, err := l.paths.StagePackagesPath(q.Platform, q.Project, q.Developer, q.StageEnv)
		if err != nil {
			return "", err
		}
		if candidate := unversionedAppFile(root, fileName); probe(candidate) {
			return candidate, nil
		}
	}

	if q.Project != "" && q.Project != paths.MasterProjectName {
		root, err := l.paths.ProjectInternalPackagesPath(q.Platform, q.Project)
		if err != nil {
			return "", err
		}
		candidate, err := l.versionedAppFile(root, fileName)
		if err != nil {
			return "", err
		}
		if candidate != "" && probe(candidate) {
			return candidate, nil
		}
	}

	if !q.ProjectAppsOnly {
		root, err := l.paths.MasterProjectInternalPackagesPath(q.Platform)
		if err != nil {
			return "", err
		}
		candidate, err := l.versionedAppFile(root, fileName)
		if err != nil {
			return "", err
		}
		if candidate != "" && probe(candidate) {
			return candidate, nil
		}
	}

	return "", &NotFoundError{Name: q.App, Probed: probed}
}

func unversionedAppFile(root, fileName string) string {
	return filepath.Join(AppsDir(filepath.Join(root, paths.SettingsPackageName)), fileName)
}

// versionedAppFile returns the candidate under the installed version of the
// settings package, or an empty string when no version is installed.
func (l *Locator) versionedAppFile(root, fileName string) (string, error) {
	if l.versions == nil {
		return "", nil
	}
	version, err := l.versions(root, paths.SettingsPackageName)
	if err != nil {
		return "", fmt.Errorf("failed to look up %s version: %w", paths.SettingsPackageName, err)
	}
	if version == "" {
		return "", nil
	}
	packageRoot := filepath.Join(root, paths.SettingsPackageName, version, paths.SettingsPackageName)
	return filepath.Join(AppsDir(packageRoot), fileName), nil
}
