package environment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meco-pipeline/mecosettings/appfile"
	"github.com/meco-pipeline/mecosettings/env"
	"github.com/meco-pipeline/mecosettings/paths"
	"github.com/meco-pipeline/mecosettings/request"
)

type fixture struct {
	root        string
	scriptsRoot string
	assembler   *Assembler
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := filepath.Join(t.TempDir(), "meco")
	require.NoError(t, os.MkdirAll(root, 0755))

	scriptsRoot := t.TempDir()
	for _, name := range []string{
		"script/shell/preEnv/mmecosettings-pre-env-linux.sh",
		"script/shell/postEnv/mmecosettings-post-env-linux.sh",
		"script/powershell/preEnv/mmecosettings-pre-env-windows.ps1",
		"script/powershell/postEnv/mmecosettings-post-env-windows.ps1",
	} {
		writeFile(t, filepath.Join(scriptsRoot, filepath.FromSlash(name)), "")
	}

	resolver := paths.New("/unused", paths.WithRoot(root))
	return fixture{
		root:        root,
		scriptsRoot: scriptsRoot,
		assembler:   NewAssembler(resolver, "2.4.0", scriptsRoot, nil),
	}
}

func (f fixture) developmentPath() string {
	return filepath.Join(f.root, "lynx", "developers", "jdoe", "development", "feature")
}

func linuxRequest() request.Context {
	return request.Context{
		Platform:           paths.Linux,
		Developer:          "jdoe",
		User:               "jdoe",
		Project:            "lynx",
		DevelopmentEnv:     "feature",
		Command:            "meco env",
		InterpreterPath:    "/usr/bin/python3",
		InterpreterVersion: "3.11.4",
	}
}

func singles(c *env.Container) map[string]string {
	out := make(map[string]string)
	for _, e := range c.Entries() {
		if e.Kind == env.KindSingle {
			out[e.Name] = e.Value
		}
	}
	return out
}

func kinds(c *env.Container, kind env.Kind) []env.Entry {
	var out []env.Entry
	for _, e := range c.Entries() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestLayout(t *testing.T) {
	f := newFixture(t)

	layout, err := f.assembler.Layout(linuxRequest())
	require.NoError(t, err)

	assert.Equal(t, "lynx", layout.ProjectName)
	assert.Empty(t, layout.ReservedPackagesPath)
	assert.Equal(t, f.developmentPath(), layout.DevelopmentPackagesPath)
	assert.Empty(t, layout.StagePackagesPath)
	assert.Empty(t, layout.AppFilePath)
	assert.Equal(t,
		filepath.Join(f.root, "lynx", "users", "jdoe", "env", "script", "env_lynx_jdoe_development_feature.sh"),
		layout.ScriptFilePath)
	assert.Equal(t,
		filepath.Join(f.root, "lynx", "users", "jdoe", "env", "log", "log_lynx_jdoe_development_feature.txt"),
		layout.LogFilePath)
	assert.DirExists(t, filepath.Dir(layout.ScriptFilePath))
	assert.DirExists(t, filepath.Dir(layout.LogFilePath))
}

func TestLayoutDryRun(t *testing.T) {
	f := newFixture(t)
	f.assembler.DryRun = true

	layout, err := f.assembler.Layout(linuxRequest())
	require.NoError(t, err)

	assert.Equal(t, "env_lynx_jdoe_development_feature.sh", filepath.Base(layout.ScriptFilePath))
	assert.Equal(t, "log_lynx_jdoe_development_feature.txt", filepath.Base(layout.LogFilePath))
	assert.NoDirExists(t, filepath.Join(f.root, "lynx", "users"))
}

func TestLayoutResolvesApp(t *testing.T) {
	f := newFixture(t)
	appFile := filepath.Join(f.developmentPath(), paths.SettingsPackageName, "resources", "apps", "maya.json")
	writeFile(t, appFile, `{"developer": "jdoe", "description": "Maya", "application": "maya"}`)

	req := linuxRequest()
	req.App = "maya"
	layout, err := f.assembler.Layout(req)
	require.NoError(t, err)

	assert.Equal(t, appFile, layout.AppFilePath)
	assert.Equal(t, "env_lynx_jdoe_development_feature_maya.sh", filepath.Base(layout.ScriptFilePath))
}

func TestLayoutUnknownApp(t *testing.T) {
	f := newFixture(t)
	req := linuxRequest()
	req.App = "katana"

	_, err := f.assembler.Layout(req)
	assert.ErrorIs(t, err, appfile.ErrNotFound)
}

func TestLayoutReservedAndMaster(t *testing.T) {
	f := newFixture(t)
	req := linuxRequest()
	req.Project = ""
	req.DevelopmentEnv = ""
	req.Reserved = true

	layout, err := f.assembler.Layout(req)
	require.NoError(t, err)
	assert.Equal(t, paths.MasterProjectName, layout.ProjectName)
	assert.Equal(t, filepath.Join(f.root, "master", "developers", "jdoe", "reserved", "main"), layout.ReservedPackagesPath)
	assert.Equal(t, "env_master_jdoe.sh", filepath.Base(layout.ScriptFilePath))
}

func TestLayoutInvalidRequest(t *testing.T) {
	f := newFixture(t)
	req := linuxRequest()
	req.Platform = "Solaris"

	_, err := f.assembler.Layout(req)
	assert.ErrorIs(t, err, paths.ErrUnsupportedPlatform)
}

func TestPreBuild(t *testing.T) {
	f := newFixture(t)
	f.assembler.Custom = []env.Variable{
		{Name: "STUDIO_PATH", Value: "/studio/bin", Append: true},
		{Name: "STUDIO", Value: "north"},
	}
	req := linuxRequest()
	layout, err := f.assembler.Layout(req)
	require.NoError(t, err)

	c := env.NewContainer()
	require.NoError(t, f.assembler.PreBuild(req, layout, c))

	assert.Equal(t, []env.Entry{
		{Kind: env.KindSingle, Name: "STUDIO", Value: "north"},
		{Kind: env.KindMulti, Name: "STUDIO_PATH", Value: "/studio/bin"},
		{Kind: env.KindScript, Value: filepath.Join(f.scriptsRoot, "script", "shell", "preEnv", "mmecosettings-pre-env-linux.sh")},
	}, c.Entries())
}

func TestPhaseScripts(t *testing.T) {
	f := newFixture(t)
	req := linuxRequest()

	t.Run("missing pre script is fatal", func(t *testing.T) {
		req := req
		req.Platform = paths.Darwin
		c := env.NewContainer()
		err := f.assembler.PreBuild(req, Layout{ProjectName: "lynx"}, c)
		assert.ErrorIs(t, err, ErrScriptMissing)
		assert.Zero(t, c.Len())
	})

	t.Run("missing post script is fatal", func(t *testing.T) {
		req := req
		req.Platform = paths.Darwin
		err := f.assembler.PostBuild(req, Layout{ProjectName: "lynx"}, env.NewContainer())
		assert.ErrorIs(t, err, ErrScriptMissing)
	})

	t.Run("no scripts root configured", func(t *testing.T) {
		a := NewAssembler(f.assembler.Paths, "2.4.0", "", nil)
		c := env.NewContainer()
		require.NoError(t, a.PreBuild(req, Layout{ProjectName: "lynx"}, c))
		assert.Empty(t, kinds(c, env.KindScript))
	})

	t.Run("script locations", func(t *testing.T) {
		pre, err := f.assembler.PreScriptPath(paths.Windows)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(f.scriptsRoot, "script", "powershell", "preEnv", "mmecosettings-pre-env-windows.ps1"), pre)

		post, err := f.assembler.PostScriptPath(paths.Darwin)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(f.scriptsRoot, "script", "shell", "postEnv", "mmecosettings-post-env-darwin.sh"), post)
	})
}

func TestPostBuild(t *testing.T) {
	f := newFixture(t)
	req := linuxRequest()
	layout, err := f.assembler.Layout(req)
	require.NoError(t, err)

	c := env.NewContainer()
	require.NoError(t, f.assembler.PostBuild(req, layout, c))

	got := singles(c)
	assert.Len(t, got, 26)
	assert.Equal(t, map[string]string{
		VarESVersion:                         "2.4.0",
		VarESCommand:                         `"'meco env'"`,
		VarPythonExecutablePath:              "/usr/bin/python3",
		VarPythonVersion:                     "3.11.4",
		VarDeveloperName:                     "jdoe",
		VarReservedEnvName:                   "",
		VarReservedPackagesPath:              "",
		VarDevelopmentEnvName:                "feature",
		VarDevelopmentPackagesPath:           f.developmentPath(),
		VarStageEnvName:                      "",
		VarStagePackagesPath:                 "",
		VarProjectName:                       "lynx",
		VarProjectInternalPackagesPath:       filepath.Join(f.root, "lynx", "internal"),
		VarProjectExternalPackagesPath:       filepath.Join(f.root, "lynx", "external"),
		VarProjectPath:                       f.root,
		VarProjectRootPath:                   filepath.Join(f.root, "lynx"),
		VarEnvScriptFilePath:                 layout.ScriptFilePath,
		VarMasterProjectName:                 "master",
		VarMasterProjectInternalPackagesPath: filepath.Join(f.root, "master", "internal"),
		VarMasterProjectExternalPackagesPath: filepath.Join(f.root, "master", "external"),
		VarMasterProjectPath:                 f.root,
		VarMasterProjectRootPath:             filepath.Join(f.root, "master"),
		VarUseProjectAppsOnly:                `"0"`,
		VarAppName:                           "",
		VarAppPath:                           "",
		VarEnvLogFilePath:                    layout.LogFilePath,
	}, got)

	entries := c.Entries()
	assert.Equal(t, env.Entry{Kind: env.KindCommand, Value: `cd "$MECO_DEVELOPMENT_PACKAGES_PATH";`}, entries[len(entries)-1])
	assert.Len(t, kinds(c, env.KindScript), 1)
	assert.Len(t, kinds(c, env.KindCommand), 1)
}

func TestPostBuildWindows(t *testing.T) {
	f := newFixture(t)
	req := linuxRequest()
	req.Platform = paths.Windows
	req.DevelopmentEnv = ""
	req.StageEnv = "review"
	layout, err := f.assembler.Layout(req)
	require.NoError(t, err)

	c := env.NewContainer()
	require.NoError(t, f.assembler.PostBuild(req, layout, c))

	got := singles(c)
	assert.Equal(t, "meco env", got[VarESCommand])
	assert.Equal(t, "0", got[VarUseProjectAppsOnly])
	assert.Equal(t, "review", got[VarStageEnvName])
	assert.Empty(t, got[VarDevelopmentEnvName])
	assert.Equal(t, []env.Entry{{Kind: env.KindCommand, Value: "cd $env:MECO_STAGE_PACKAGES_PATH;"}}, kinds(c, env.KindCommand))
}

func TestPostBuildProjectAppsOnly(t *testing.T) {
	f := newFixture(t)
	req := linuxRequest()
	req.ProjectAppsOnly = true
	req.ProjectAppsOnlyValue = "1"
	layout, err := f.assembler.Layout(req)
	require.NoError(t, err)

	c := env.NewContainer()
	require.NoError(t, f.assembler.PostBuild(req, layout, c))
	assert.Equal(t, "1", singles(c)[VarUseProjectAppsOnly])
}

func TestPostBuildDispatchesAppHook(t *testing.T) {
	f := newFixture(t)
	appFile := filepath.Join(f.developmentPath(), paths.SettingsPackageName, "resources", "apps", "maya.json")
	writeFile(t, appFile, `{"developer": "jdoe", "description": "Maya", "application": "maya"}`)

	var called []string
	f.assembler.Hooks[AppMaya] = func(req request.Context, app *appfile.Descriptor, c *env.Container) error {
		called = append(called, app.Application)
		c.AddSingle("MAYA_DISABLE_CIP", "1")
		return nil
	}

	req := linuxRequest()
	req.App = "maya"
	layout, err := f.assembler.Layout(req)
	require.NoError(t, err)

	c := env.NewContainer()
	require.NoError(t, f.assembler.PostBuild(req, layout, c))

	assert.Equal(t, []string{"maya"}, called)
	got := singles(c)
	assert.Equal(t, "maya", got[VarAppName])
	assert.Equal(t, appFile, got[VarAppPath])
	assert.Equal(t, "1", got["MAYA_DISABLE_CIP"])
}

func TestBuildAndWriteScript(t *testing.T) {
	f := newFixture(t)
	req := linuxRequest()

	res, err := f.assembler.Build(req)
	require.NoError(t, err)
	require.NoError(t, WriteScript(res.Layout.ScriptFilePath, req.Platform, res.Env))

	data, err := os.ReadFile(res.Layout.ScriptFilePath)
	require.NoError(t, err)
	script := string(data)

	assert.Contains(t, script, `export MECO_PROJECT_NAME="lynx"`+"\n")
	assert.Contains(t, script, `source "`+filepath.Join(f.scriptsRoot, "script", "shell", "preEnv", "mmecosettings-pre-env-linux.sh")+`"`)
	assert.True(t, strings.HasSuffix(script, `cd "$MECO_DEVELOPMENT_PACKAGES_PATH";`+"\n"))

	preIndex := strings.Index(script, "preEnv")
	postIndex := strings.Index(script, "postEnv")
	assert.Less(t, preIndex, postIndex, "scripts keep their phase order")
}

func TestAppExecutableFlags(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	code := filepath.Join(dir, "code.json")
	writeFile(t, code, `{"developer": "jdoe", "description": "VS Code", "application": "code"}`)
	nuke := filepath.Join(dir, "nuke.json")
	writeFile(t, nuke, `{"developer": "jdoe", "description": "Nuke", "application": "nuke"}`)

	tests := []struct {
		name     string
		platform paths.Platform
		devEnv   string
		appFile  string
		want     string
	}{
		{name: "editor on linux", platform: paths.Linux, devEnv: "feature", appFile: code, want: `"$MECO_DEVELOPMENT_PACKAGES_PATH"`},
		{name: "editor on windows", platform: paths.Windows, devEnv: "feature", appFile: code, want: "$env:MECO_DEVELOPMENT_PACKAGES_PATH"},
		{name: "editor without development env", platform: paths.Linux, appFile: code},
		{name: "not an editor", platform: paths.Linux, devEnv: "feature", appFile: nuke},
		{name: "no app", platform: paths.Linux, devEnv: "feature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := linuxRequest()
			req.Platform = tt.platform
			req.DevelopmentEnv = tt.devEnv

			got, err := f.assembler.AppExecutableFlags(req, Layout{AppFilePath: tt.appFile})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsEditor(t *testing.T) {
	assert.True(t, IsEditor("pycharm"))
	assert.False(t, IsEditor("maya"))
}
