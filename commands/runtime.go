// Package commands holds the mecosettings command line: app file management,
// environment assembly and path inspection.
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/meco-pipeline/mecosettings/appfile"
	"github.com/meco-pipeline/mecosettings/config"
	"github.com/meco-pipeline/mecosettings/display"
	"github.com/meco-pipeline/mecosettings/log"
	"github.com/meco-pipeline/mecosettings/paths"
)

// Runtime is what every command works with: the platform, the path resolver
// and the configuration of the current process.
type Runtime struct {
	Platform paths.Platform
	Paths    *paths.Resolver
	Env      *config.Environment
	Config   *config.Config
	// ConfigErr is why Config holds the defaults instead of the user's file.
	ConfigErr error
	Version   string
}

// Loader builds the Runtime of a command invocation.
type Loader func() (*Runtime, error)

// DefaultLoader reads the platform, the MECO_* environment and the user config.
// The settings package is MECO_SETTINGS_PATH, or the parent of the directory
// holding the executable.
func DefaultLoader(version string) Loader {
	return func() (*Runtime, error) {
		platform, err := paths.CurrentPlatform()
		if err != nil {
			return nil, err
		}
		e, err := config.LoadEnvironment()
		if err != nil {
			return nil, err
		}

		installPath := e.SettingsPath
		if installPath == "" {
			exe, err := os.Executable()
			if err != nil {
				return nil, fmt.Errorf("failed to locate executable: %w", err)
			}
			installPath = filepath.Dir(filepath.Dir(exe))
		}

		var opts []paths.Option
		if e.ProjectsRoot != "" {
			opts = append(opts, paths.WithRoot(e.ProjectsRoot))
		}

		cfg, cfgErr := config.LoadConfig()
		return &Runtime{
			Platform:  platform,
			Paths:     paths.New(installPath, opts...),
			Env:       e,
			Config:    cfg,
			ConfigErr: cfgErr,
			Version:   version,
		}, nil
	}
}

// Printer returns a printer writing to w in the configured colour mode.
func (rt *Runtime) Printer(w io.Writer) *display.Printer {
	mode, err := display.ParseColorMode(rt.Config.Color)
	if err != nil {
		mode = display.ColorAuto
	}
	return display.NewPrinter(w, mode)
}

// ReportConfigError logs and prints the config load failure, if any. Call it
// once logging is initialized.
func (rt *Runtime) ReportConfigError(w io.Writer) {
	if rt.ConfigErr == nil {
		return
	}
	log.L().Warn("using default configuration", zap.Error(rt.ConfigErr))
	rt.Printer(w).Failure("%v (using default configuration)", rt.ConfigErr)
}

// Store returns the app file store of the installed settings package.
func (rt *Runtime) Store() *appfile.Store {
	return appfile.NewStore(appfile.AppsDir(rt.Paths.InstallPath()), rt.Env.DevelopmentPackagesPath)
}

// Once returns a Loader calling load a single time and returning its result
// on every call.
func Once(load Loader) Loader {
	var (
		once sync.Once
		rt   *Runtime
		err  error
	)
	return func() (*Runtime, error) {
		once.Do(func() {
			rt, err = load()
		})
		return rt, err
	}
}
