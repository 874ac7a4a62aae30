package environment

import (
	"slices"

	"github.com/meco-pipeline/mecosettings/appfile"
	"github.com/meco-pipeline/mecosettings/env"
	"github.com/meco-pipeline/mecosettings/paths"
	"github.com/meco-pipeline/mecosettings/request"
)

// Applications with a registered hook.
const (
	AppHoudini = "houdini"
	AppKatana  = "katana"
	AppMari    = "mari"
	AppMaya    = "maya"
	AppNuke    = "nuke"
)

// AppHook adds application specific entries after the common post build
// entries. It is called with the descriptor of the selected app.
type AppHook func(req request.Context, app *appfile.Descriptor, c *env.Container) error

// DefaultHooks returns a no-op hook for every supported application.
func DefaultHooks() map[string]AppHook {
	noop := func(request.Context, *appfile.Descriptor, *env.Container) error { return nil }
	return map[string]AppHook{
		AppHoudini: noop,
		AppKatana:  noop,
		AppMari:    noop,
		AppMaya:    noop,
		AppNuke:    noop,
	}
}

var editors = []string{
	"atom",
	"brackets",
	"charm",
	"code",
	"coda",
	"coffecup",
	"jedit",
	"kate",
	"komodo",
	"notepad",
	"notepadpp",
	"pycharm",
	"sublime",
	"textwrangler",
	"wingide",
}

// IsEditor reports whether application is a code editor.
func IsEditor(application string) bool {
	return slices.Contains(editors, application)
}

// AppExecutableFlags returns extra arguments for the executable of the
// selected app. Editors launched from a development environment open the
// development packages directory. An empty string means no extra arguments.
func (a *Assembler) AppExecutableFlags(req request.Context, layout Layout) (string, error) {
	if layout.AppFilePath == "" || req.DevelopmentEnv == "" {
		return "", nil
	}
	d, err := appfile.Load(layout.AppFilePath)
	if err != nil {
		return "", err
	}
	if !IsEditor(d.Application) {
		return "", nil
	}
	return variableReference(req.Platform, VarDevelopmentPackagesPath), nil
}

// variableReference returns a quoted shell reference to name.
func variableReference(platform paths.Platform, name string) string {
	if platform.IsWindows() {
		return "$env:" + name
	}
	return `"$` + name + `"`
}
