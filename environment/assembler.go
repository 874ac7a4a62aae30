// Package environment assembles the environment of a Meco run: the pre build
// phase, the activated packages and the post build phase, written to the
// script the user's shell sources.
package environment

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/meco-pipeline/mecosettings/appfile"
	"github.com/meco-pipeline/mecosettings/cache"
	"github.com/meco-pipeline/mecosettings/env"
	"github.com/meco-pipeline/mecosettings/fileutil"
	"github.com/meco-pipeline/mecosettings/paths"
	"github.com/meco-pipeline/mecosettings/pkginfo"
	"github.com/meco-pipeline/mecosettings/request"
)

var ErrScriptMissing = errors.New("environment script does not exist")

type phase string

const (
	phasePre  phase = "pre"
	phasePost phase = "post"
)

// Assembler builds environments. The zero value is not usable, use
// NewAssembler.
type Assembler struct {
	Paths *paths.Resolver
	// Version is exported as MECO_ES_VERSION.
	Version string
	// ScriptsRoot holds script/shell and script/powershell. No phase script
	// is added when it is empty.
	ScriptsRoot string
	// Custom variables are added in the pre build phase.
	Custom   []env.Variable
	Hooks    map[string]AppHook
	Policy   *pkginfo.Policy
	Versions appfile.VersionLookup
	Failures pkginfo.FailureSink
	// DryRun resolves the layout without creating the script and log
	// directories.
	DryRun bool
}

// NewAssembler returns an Assembler with the default hooks, the manifest
// activation policy and a cached version lookup. failures may be nil.
func NewAssembler(resolver *paths.Resolver, version, scriptsRoot string, failures pkginfo.FailureSink) *Assembler {
	return &Assembler{
		Paths:       resolver,
		Version:     version,
		ScriptsRoot: scriptsRoot,
		Hooks:       DefaultHooks(),
		Policy:      pkginfo.NewPolicy(failures),
		Versions:    cache.NewVersionCache(pkginfo.LatestVersion).Get,
		Failures:    failures,
	}
}

// Layout holds the resolved locations of one run. Inactive tiers are empty.
type Layout struct {
	ProjectName             string
	ReservedPackagesPath    string
	DevelopmentPackagesPath string
	StagePackagesPath       string
	AppFilePath             string
	ScriptFilePath          string
	LogFilePath             string
}

// Layout resolves the locations of req. The app, when given, is located
// through the package tiers. The script and log directories are created unless
// DryRun is set.
func (a *Assembler) Layout(req request.Context) (Layout, error) {
	if err := req.Validate(); err != nil {
		return Layout{}, err
	}

	var err error
	l := Layout{ProjectName: req.ProjectName()}

	if req.Reserved {
		if l.ReservedPackagesPath, err = a.Paths.ReservedPackagesPath(req.Platform, req.Developer); err != nil {
			return Layout{}, err
		}
	}
	if req.DevelopmentEnv != "" {
		l.DevelopmentPackagesPath, err = a.Paths.DevelopmentPackagesPath(req.Platform, l.ProjectName, req.Developer, req.DevelopmentEnv, false)
		if err != nil {
			return Layout{}, err
		}
	}
	if req.StageEnv != "" {
		if l.StagePackagesPath, err = a.Paths.StagePackagesPath(req.Platform, l.ProjectName, req.Developer, req.StageEnv); err != nil {
			return Layout{}, err
		}
	}

	l.AppFilePath = req.AppFile
	if l.AppFilePath == "" && req.App != "" {
		locator := appfile.NewLocator(a.Paths, a.Versions)
		l.AppFilePath, err = locator.Resolve(appfile.Query{
			Platform:        req.Platform,
			Project:         l.ProjectName,
			Developer:       req.Developer,
			DevelopmentEnv:  req.DevelopmentEnv,
			StageEnv:        req.StageEnv,
			App:             req.App,
			ProjectAppsOnly: req.ProjectAppsOnly,
		})
		if err != nil {
			return Layout{}, err
		}
	}

	user := req.User
	if user == "" {
		user = req.Developer
	}
	l.ScriptFilePath, err = a.Paths.ScriptFilePath(req.Platform, l.ProjectName, user, req.DevelopmentEnv, req.StageEnv, l.AppFilePath, !a.DryRun)
	if err != nil {
		return Layout{}, err
	}
	l.LogFilePath, err = a.Paths.LogFilePath(req.Platform, l.ProjectName, user, req.DevelopmentEnv, req.StageEnv, !a.DryRun)
	if err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Result is an assembled environment.
type Result struct {
	Env      *env.Container
	Layout   Layout
	Packages []ActivatedPackage
}

// Build resolves the layout of req and runs the pre build phase, the package
// collection and the post build phase on a fresh container.
func (a *Assembler) Build(req request.Context) (*Result, error) {
	layout, err := a.Layout(req)
	if err != nil {
		return nil, err
	}
	req.AppFile = layout.AppFilePath

	c := env.NewContainer()
	if err := a.PreBuild(req, layout, c); err != nil {
		return nil, err
	}
	packages, err := a.CollectPackages(req, layout, c)
	if err != nil {
		return nil, err
	}
	if err := a.PostBuild(req, layout, c); err != nil {
		return nil, err
	}
	return &Result{Env: c, Layout: layout, Packages: packages}, nil
}

// PreBuild adds the pre environment script and the custom variables.
func (a *Assembler) PreBuild(req request.Context, layout Layout, c *env.Container) error {
	script, err := a.phaseScript(req.Platform, phasePre)
	if err != nil {
		return err
	}
	c.AddScript(script)

	for _, v := range a.Custom {
		c.AddVariable(v)
	}

	c.Sort()
	return nil
}

// PostBuild adds the post environment script, the MECO_* variables, the
// entries of the selected app's hook and the commands changing into the
// active development or stage environment.
func (a *Assembler) PostBuild(req request.Context, layout Layout, c *env.Container) error {
	script, err := a.phaseScript(req.Platform, phasePost)
	if err != nil {
		return err
	}
	c.AddScript(script)

	p := req.Platform

	c.AddSingle(VarESVersion, a.Version)
	if p.IsWindows() {
		c.AddSingle(VarESCommand, req.Command)
	} else {
		c.AddSingle(VarESCommand, `"'`+req.Command+`'"`)
	}

	c.AddSingle(VarPythonExecutablePath, req.InterpreterPath)
	c.AddSingle(VarPythonVersion, req.InterpreterVersion)
	c.AddSingle(VarDeveloperName, req.Developer)

	if layout.ReservedPackagesPath != "" {
		c.AddSingle(VarReservedEnvName, paths.ReservedEnvName)
	} else {
		c.AddSingle(VarReservedEnvName, "")
	}
	c.AddSingle(VarReservedPackagesPath, layout.ReservedPackagesPath)

	c.AddSingle(VarDevelopmentEnvName, envName(req.DevelopmentEnv, layout.DevelopmentPackagesPath))
	c.AddSingle(VarDevelopmentPackagesPath, layout.DevelopmentPackagesPath)
	c.AddSingle(VarStageEnvName, envName(req.StageEnv, layout.StagePackagesPath))
	c.AddSingle(VarStagePackagesPath, layout.StagePackagesPath)

	project, err := a.projectVariables(p, layout.ProjectName)
	if err != nil {
		return err
	}
	c.AddSingle(VarProjectName, layout.ProjectName)
	c.AddSingle(VarProjectInternalPackagesPath, project.internal)
	c.AddSingle(VarProjectExternalPackagesPath, project.external)
	c.AddSingle(VarProjectPath, project.projects)
	c.AddSingle(VarProjectRootPath, project.root)

	c.AddSingle(VarEnvScriptFilePath, layout.ScriptFilePath)

	master, err := a.projectVariables(p, paths.MasterProjectName)
	if err != nil {
		return err
	}
	c.AddSingle(VarMasterProjectName, paths.MasterProjectName)
	c.AddSingle(VarMasterProjectInternalPackagesPath, master.internal)
	c.AddSingle(VarMasterProjectExternalPackagesPath, master.external)
	c.AddSingle(VarMasterProjectPath, master.projects)
	c.AddSingle(VarMasterProjectRootPath, master.root)

	c.AddSingle(VarUseProjectAppsOnly, useProjectAppsOnly(req))

	if layout.AppFilePath != "" {
		c.AddSingle(VarAppName, req.App)
		c.AddSingle(VarAppPath, layout.AppFilePath)

		d, err := appfile.Load(layout.AppFilePath)
		if err != nil {
			return err
		}
		if hook, ok := a.Hooks[d.Application]; ok {
			if err := hook(req, d, c); err != nil {
				return fmt.Errorf("%s hook failed: %w", d.Application, err)
			}
		}
	} else {
		c.AddSingle(VarAppName, "")
		c.AddSingle(VarAppPath, "")
	}

	c.AddSingle(VarEnvLogFilePath, layout.LogFilePath)

	if layout.DevelopmentPackagesPath != "" {
		c.AddCommand("cd " + variableReference(p, VarDevelopmentPackagesPath) + ";")
	}
	if layout.StagePackagesPath != "" {
		c.AddCommand("cd " + variableReference(p, VarStagePackagesPath) + ";")
	}

	c.Sort()
	return nil
}

// WriteScript renders c for platform and writes it to path.
func WriteScript(path string, platform paths.Platform, c *env.Container) error {
	body, err := c.Render(platform)
	if err != nil {
		return err
	}
	if err := fileutil.AtomicWrite(path, []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to write environment script: %w", err)
	}
	return nil
}

// PreScriptPath returns the pre environment script of platform, or an empty
// string when no scripts root is configured.
func (a *Assembler) PreScriptPath(platform paths.Platform) (string, error) {
	return a.scriptPath(platform, phasePre)
}

// PostScriptPath returns the post environment script of platform, or an
// empty string when no scripts root is configured.
func (a *Assembler) PostScriptPath(platform paths.Platform) (string, error) {
	return a.scriptPath(platform, phasePost)
}

func (a *Assembler) scriptPath(platform paths.Platform, ph phase) (string, error) {
	if err := platform.Validate(); err != nil {
		return "", err
	}
	if a.ScriptsRoot == "" {
		return "", nil
	}
	dir := string(ph) + "Env"
	name := fmt.Sprintf("mmecosettings-%s-env-%s.%s", ph, strings.ToLower(platform.String()), platform.ScriptExtension())
	if platform.IsWindows() {
		return filepath.Join(a.ScriptsRoot, "script", "powershell", dir, name), nil
	}
	return filepath.Join(a.ScriptsRoot, "script", "shell", dir, name), nil
}

// phaseScript returns the phase script, failing when it is configured but
// does not exist.
func (a *Assembler) phaseScript(platform paths.Platform, ph phase) (string, error) {
	path, err := a.scriptPath(platform, ph)
	if err != nil || path == "" {
		return "", err
	}
	if !fileutil.IsFile(path) {
		return "", fmt.Errorf("%w: %s", ErrScriptMissing, path)
	}
	return path, nil
}

type projectPaths struct {
	internal string
	external string
	projects string
	root     string
}

func (a *Assembler) projectVariables(platform paths.Platform, project string) (projectPaths, error) {
	var (
		out projectPaths
		err error
	)
	if out.internal, err = a.Paths.ProjectInternalPackagesPath(platform, project); err != nil {
		return out, err
	}
	if out.external, err = a.Paths.ProjectExternalPackagesPath(platform, project); err != nil {
		return out, err
	}
	if out.projects, err = a.Paths.ProjectsPath(platform); err != nil {
		return out, err
	}
	if out.root, err = a.Paths.ProjectRootPath(platform, project); err != nil {
		return out, err
	}
	return out, nil
}

func envName(name, packagesPath string) string {
	if packagesPath == "" {
		return ""
	}
	return name
}

func useProjectAppsOnly(req request.Context) string {
	if req.ProjectAppsOnly {
		return req.ProjectAppsOnlyValue
	}
	if req.Platform.IsWindows() {
		return "0"
	}
	return `"0"`
}
