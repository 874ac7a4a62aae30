package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

const (
	// MasterProjectName is the project every other project inherits packages from.
	MasterProjectName = "master"
	// ReservedEnvName is the name of a developer's reserved environment.
	ReservedEnvName = "main"
	// SettingsPackageName is the package that carries app descriptors and env scripts.
	SettingsPackageName = "mMecoSettings"

	projectsDirName = "meco"

	// Number of parents between the settings package root and the folder that
	// holds the projects directory.
	productionDepth  = 6
	developmentDepth = 7
)

// productionPattern matches an install path that contains a released,
// versioned copy of the settings package.
var productionPattern = regexp.MustCompile(
	`(^|[\\/])` + SettingsPackageName + `[\\/][0-9]+\.[0-9]+\.[0-9]+(\.[0-9]+){0,3}([\\/]|$)`)

// Resolver computes Meco paths relative to an installed settings package.
type Resolver struct {
	installPath string
	root        string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRoot pins the projects path instead of deriving it from the install path.
func WithRoot(root string) Option {
	return func(r *Resolver) {
		r.root = root
	}
}

// New returns a Resolver for the settings package installed at installPath.
func New(installPath string, opts ...Option) *Resolver {
	r := &Resolver{installPath: filepath.Clean(installPath)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// InstallPath returns the settings package root the resolver was built with.
func (r *Resolver) InstallPath() string {
	return r.installPath
}

// IsProduction reports whether the settings package is a released install.
func (r *Resolver) IsProduction() bool {
	return productionPattern.MatchString(r.installPath)
}

// ProjectsPath returns the directory that contains every project.
func (r *Resolver) ProjectsPath(platform Platform) (string, error) {
	if err := platform.Validate(); err != nil {
		return "", err
	}
	if r.root != "" {
		return filepath.Clean(r.root), nil
	}

	depth := developmentDepth
	if r.IsProduction() {
		depth = productionDepth
	}

	path := r.installPath
	for i := 0; i < depth; i++ {
		path = filepath.Dir(path)
	}
	return filepath.Join(path, projectsDirName), nil
}

// ProjectRootPath returns the root directory of a project.
func (r *Resolver) ProjectRootPath(platform Platform, project string) (string, error) {
	return r.join(platform, projectOrMaster(project))
}

// MasterProjectRootPath returns the root directory of the master project.
func (r *Resolver) MasterProjectRootPath(platform Platform) (string, error) {
	return r.ProjectRootPath(platform, MasterProjectName)
}

// ReservedPackagesPath returns the reserved environment of a developer. Reserved
// environments always live in the master project.
func (r *Resolver) ReservedPackagesPath(platform Platform, developer string) (string, error) {
	return r.join(platform, MasterProjectName, "developers", developer, "reserved", ReservedEnvName)
}

// DevelopmentPackagesPath returns a developer's development environment. When
// create is set the directory is created if it does not exist yet.
func (r *Resolver) DevelopmentPackagesPath(platform Platform, project, developer, envName string, create bool) (string, error) {
	path, err := r.join(platform, projectOrMaster(project), "developers", developer, "development", envName)
	if err != nil {
		return "", err
	}
	if create {
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", fmt.Errorf("failed to create development environment: %w", err)
		}
	}
	return path, nil
}

// StagePackagesPath returns a developer's stage environment.
func (r *Resolver) StagePackagesPath(platform Platform, project, developer, envName string) (string, error) {
	return r.join(platform, projectOrMaster(project), "developers", developer, "stage", envName)
}

// ProjectInternalPackagesPath returns the directory of a project's internal packages.
func (r *Resolver) ProjectInternalPackagesPath(platform Platform, project string) (string, error) {
	return r.join(platform, projectOrMaster(project), "internal")
}

// ProjectExternalPackagesPath returns the directory of a project's third party packages.
func (r *Resolver) ProjectExternalPackagesPath(platform Platform, project string) (string, error) {
	return r.join(platform, projectOrMaster(project), "external")
}

// MasterProjectInternalPackagesPath returns the studio wide internal packages
// directory, the internal packages of the master project.
func (r *Resolver) MasterProjectInternalPackagesPath(platform Platform) (string, error) {
	return r.ProjectInternalPackagesPath(platform, MasterProjectName)
}

// MasterProjectExternalPackagesPath returns the studio wide third party
// packages directory, the external packages of the master project.
func (r *Resolver) MasterProjectExternalPackagesPath(platform Platform) (string, error) {
	return r.ProjectExternalPackagesPath(platform, MasterProjectName)
}

// LogFilePath returns the environment log file of a user. It returns an empty
// string when the projects path does not exist. The log directory is created
// when create is set.
func (r *Resolver) LogFilePath(platform Platform, project, user, developmentEnv, stageEnv string, create bool) (string, error) {
	project = projectOrMaster(project)

	projectsPath, err := r.ProjectsPath(platform)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(projectsPath); err != nil || !info.IsDir() {
		return "", nil
	}

	logDir := filepath.Join(projectsPath, project, "users", user, "env", "log")
	if create {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	name := envFileBaseName("log", project, user, developmentEnv, stageEnv) + ".txt"
	return filepath.Join(logDir, name), nil
}

// ScriptFilePath returns the environment script a user's shell sources. The
// base name of appFile, if any, is appended so every app gets its own script.
// The script directory is created when create is set.
func (r *Resolver) ScriptFilePath(platform Platform, project, user, developmentEnv, stageEnv, appFile string, create bool) (string, error) {
	project = projectOrMaster(project)

	scriptDir, err := r.join(platform, project, "users", user, "env", "script")
	if err != nil {
		return "", err
	}
	if create {
		if err := os.MkdirAll(scriptDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create script directory: %w", err)
		}
	}

	name := envFileBaseName("env", project, user, developmentEnv, stageEnv)
	if appFile != "" {
		base := filepath.Base(appFile)
		name += "_" + base[:len(base)-len(filepath.Ext(base))]
	}
	return filepath.Join(scriptDir, name+"."+platform.ScriptExtension()), nil
}

// envFileBaseName builds <prefix>_<project>_<user>[_development_<env>|_stage_<env>].
// A development environment wins over a stage environment.
func envFileBaseName(prefix, project, user, developmentEnv, stageEnv string) string {
	name := fmt.Sprintf("%s_%s_%s", prefix, project, user)
	switch {
	case developmentEnv != "":
		name += "_development_" + developmentEnv
	case stageEnv != "":
		name += "_stage_" + stageEnv
	}
	return name
}

func (r *Resolver) join(platform Platform, elem ...string) (string, error) {
	projectsPath, err := r.ProjectsPath(platform)
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{projectsPath}, elem...)...), nil
}

func projectOrMaster(project string) string {
	if project == "" {
		return MasterProjectName
	}
	return project
}
