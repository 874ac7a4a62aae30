package appfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/meco-pipeline/mecosettings/fileutil"
	"github.com/meco-pipeline/mecosettings/paths"
)

// AppsDir returns the directory holding the app descriptors of a settings package.
func AppsDir(packageRoot string) string {
	return filepath.Join(packageRoot, "resources", "apps")
}

// Store lists the descriptors of the initialized environment and creates new
// ones in the developer's development environment.
type Store struct {
	appsDir                 string
	developmentPackagesPath string
}

// NewStore returns a Store listing descriptors from appsDir. developmentPackagesPath
// is the active development environment, empty when none is initialized.
func NewStore(appsDir, developmentPackagesPath string) *Store {
	return &Store{
		appsDir:                 appsDir,
		developmentPackagesPath: developmentPackagesPath,
	}
}

// List returns the descriptors in the apps directory sorted by file name,
// keeping only those matching keyword when it is not empty. A missing apps
// directory and a directory without matches both yield an empty, non-nil slice.
func (s *Store) List(keyword string) ([]*Descriptor, error) {
	descriptors := []*Descriptor{}
	if s.appsDir == "" || !fileutil.IsDir(s.appsDir) {
		return descriptors, nil
	}

	names, err := doublestar.Glob(os.DirFS(s.appsDir), "*."+Extension)
	if err != nil {
		return nil, fmt.Errorf("failed to list app files: %w", err)
	}
	slices.Sort(names)

	for _, name := range names {
		if strings.HasPrefix(name, ".") {
			continue
		}
		d, err := Load(filepath.Join(s.appsDir, name))
		if err != nil {
			return nil, err
		}
		if keyword != "" && !d.Matches(keyword) {
			continue
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

// Create writes fields to <development>/mMecoSettings/resources/apps/<name>.json
// and returns the descriptor bound to the new file. An existing file is left
// untouched unless overwrite is set.
func (s *Store) Create(name string, fields Descriptor, overwrite bool) (*Descriptor, error) {
	if name == "" {
		return nil, errors.New("app name cannot be empty")
	}
	if s.developmentPackagesPath == "" {
		return nil, fmt.Errorf("%w: initialize a development environment to create a Meco app", ErrEnvironmentNotInitialized)
	}

	packageRoot := filepath.Join(s.developmentPackagesPath, paths.SettingsPackageName)
	if !fileutil.IsDir(packageRoot) {
		return nil, fmt.Errorf("%w: %s package must exist in your development environment to create a Meco app",
			ErrPackageMissing, paths.SettingsPackageName)
	}

	appsDir := AppsDir(packageRoot)
	if err := os.MkdirAll(appsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create apps directory: %w", err)
	}

	file := filepath.Join(appsDir, withExtension(name))
	if _, err := os.Stat(file); err == nil && !overwrite {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, file)
	}

	d := fields
	d.Packages = append([]string{}, fields.Packages...)
	d.file = file
	if err := d.Write(); err != nil {
		return nil, err
	}
	return &d, nil
}
