// Package request holds the immutable per-run context threaded through path
// resolution, environment assembly and package activation.
package request

import (
	"errors"
	"slices"
	"strings"

	"github.com/meco-pipeline/mecosettings/paths"
)

// StandaloneApplication is the target application when no app is selected.
const StandaloneApplication = "standalone"

// Context describes one environment run. It is passed by value and never
// modified after construction.
type Context struct {
	Platform paths.Platform

	// App is the app name or descriptor path given by the user.
	App string
	// AppFile is the resolved descriptor path, empty when no app is selected.
	AppFile string

	Developer string
	// User is the operating system user the run belongs to.
	User    string
	Project string

	DevelopmentEnv string
	StageEnv       string
	// Reserved is set when the developer's reserved environment is active.
	Reserved bool

	// UnknownArgs are the command line arguments the launcher did not consume.
	UnknownArgs []string

	InterpreterPath    string
	InterpreterVersion string

	// Command is the launch command line.
	Command string

	// ProjectAppsOnly is set when MECO_USE_PROJECT_APPS_ONLY is present in
	// the launching environment. ProjectAppsOnlyValue holds its raw value.
	ProjectAppsOnly      bool
	ProjectAppsOnlyValue string
}

// Validate checks the fields every run needs.
func (c Context) Validate() error {
	if err := c.Platform.Validate(); err != nil {
		return err
	}
	if c.Developer == "" {
		return errors.New("developer name cannot be empty")
	}
	return nil
}

// ProjectName returns the project in use, the master project when none is set.
func (c Context) ProjectName() string {
	if c.Project == "" {
		return paths.MasterProjectName
	}
	return c.Project
}

// RuntimeMajorVersion returns the major component of the interpreter version.
func (c Context) RuntimeMajorVersion() string {
	major, _, _ := strings.Cut(c.InterpreterVersion, ".")
	return major
}

// Args returns a copy of the unknown arguments.
func (c Context) Args() []string {
	return slices.Clone(c.UnknownArgs)
}
