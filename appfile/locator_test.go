package appfile

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meco-pipeline/mecosettings/paths"
)

type tierLayout struct {
	root     string
	resolver *paths.Resolver
}

func newTierLayout(t *testing.T) tierLayout {
	t.Helper()
	root := t.TempDir()
	return tierLayout{root: root, resolver: paths.New("/unused", paths.WithRoot(root))}
}

func (l tierLayout) development() string {
	return filepath.Join(l.root, "lynx", "developers", "jdoe", "development", "feature",
		paths.SettingsPackageName, "resources", "apps", "maya.json")
}

func (l tierLayout) stage() string {
	return filepath.Join(l.root, "lynx", "developers", "jdoe", "stage", "review",
		paths.SettingsPackageName, "resources", "apps", "maya.json")
}

func (l tierLayout) projectInternal() string {
	return filepath.Join(l.root, "lynx", "internal",
		paths.SettingsPackageName, "1.0.0", paths.SettingsPackageName, "resources", "apps", "maya.json")
}

func (l tierLayout) masterInternal() string {
	return filepath.Join(l.root, "master", "internal",
		paths.SettingsPackageName, "2.1.0", paths.SettingsPackageName, "resources", "apps", "maya.json")
}

func fixedVersions(root, _ string) (string, error) {
	switch filepath.Base(filepath.Dir(root)) {
	case "lynx":
		return "1.0.0", nil
	case "master":
		return "2.1.0", nil
	}
	return "", nil
}

func query() Query {
	return Query{
		Platform:       paths.Linux,
		Project:        "lynx",
		Developer:      "jdoe",
		DevelopmentEnv: "feature",
		StageEnv:       "review",
		App:            "maya",
	}
}

func TestLocatorResolveOrder(t *testing.T) {
	t.Run("development wins", func(t *testing.T) {
		l := newTierLayout(t)
		for _, p := range []string{l.development(), l.stage(), l.projectInternal(), l.masterInternal()} {
			writeFile(t, p, mayaJSON)
		}

		got, err := NewLocator(l.resolver, fixedVersions).Resolve(query())
		require.NoError(t, err)
		assert.Equal(t, l.development(), got)
	})

	t.Run("only the stage file exists", func(t *testing.T) {
		l := newTierLayout(t)
		writeFile(t, l.stage(), mayaJSON)

		got, err := NewLocator(l.resolver, fixedVersions).Resolve(query())
		require.NoError(t, err)
		assert.Equal(t, l.stage(), got)
		assert.Contains(t, got, "stage")
		assert.NotContains(t, got, "development")
	})

	t.Run("project internal before master", func(t *testing.T) {
		l := newTierLayout(t)
		writeFile(t, l.projectInternal(), mayaJSON)
		writeFile(t, l.masterInternal(), mayaJSON)

		got, err := NewLocator(l.resolver, fixedVersions).Resolve(query())
		require.NoError(t, err)
		assert.Equal(t, l.projectInternal(), got)
	})

	t.Run("falls back to master", func(t *testing.T) {
		l := newTierLayout(t)
		writeFile(t, l.masterInternal(), mayaJSON)

		got, err := NewLocator(l.resolver, fixedVersions).Resolve(query())
		require.NoError(t, err)
		assert.Equal(t, l.masterInternal(), got)
	})

	t.Run("project apps only skips master", func(t *testing.T) {
		l := newTierLayout(t)
		writeFile(t, l.masterInternal(), mayaJSON)

		q := query()
		q.ProjectAppsOnly = true
		_, err := NewLocator(l.resolver, fixedVersions).Resolve(q)

		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, []string{l.development(), l.stage(), l.projectInternal()}, notFound.Probed)
	})
}

func TestLocatorResolveNotFound(t *testing.T) {
	l := newTierLayout(t)

	_, err := NewLocator(l.resolver, fixedVersions).Resolve(query())
	assert.ErrorIs(t, err, ErrNotFound)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{l.development(), l.stage(), l.projectInternal(), l.masterInternal()}, notFound.Probed)
	for _, p := range notFound.Probed {
		assert.True(t, strings.Contains(err.Error(), p), "error message lists %s", p)
	}
}

func TestLocatorResolveSkipsTiers(t *testing.T) {
	t.Run("master project has no separate project tier", func(t *testing.T) {
		l := newTierLayout(t)
		q := query()
		q.Project = paths.MasterProjectName
		q.DevelopmentEnv = ""
		q.StageEnv = ""

		_, err := NewLocator(l.resolver, fixedVersions).Resolve(q)

		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, []string{l.masterInternal()}, notFound.Probed)
	})

	t.Run("tiers without an installed version are skipped", func(t *testing.T) {
		l := newTierLayout(t)
		noVersions := func(string, string) (string, error) { return "", nil }

		_, err := NewLocator(l.resolver, noVersions).Resolve(query())

		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, []string{l.development(), l.stage()}, notFound.Probed)
	})

	t.Run("version lookup errors propagate", func(t *testing.T) {
		l := newTierLayout(t)
		boom := errors.New("boom")
		failing := func(string, string) (string, error) { return "", boom }

		q := query()
		q.DevelopmentEnv = ""
		q.StageEnv = ""
		_, err := NewLocator(l.resolver, failing).Resolve(q)
		assert.ErrorIs(t, err, boom)
	})
}

func TestLocatorResolveShortcuts(t *testing.T) {
	l := newTierLayout(t)
	locator := NewLocator(l.resolver, fixedVersions)

	t.Run("empty app", func(t *testing.T) {
		q := query()
		q.App = ""
		got, err := locator.Resolve(q)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("existing absolute path is returned unchanged", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.json")
		writeFile(t, path, mayaJSON)

		q := query()
		q.App = path
		got, err := locator.Resolve(q)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("unsupported platform", func(t *testing.T) {
		q := query()
		q.Platform = paths.Platform("Amiga")
		_, err := locator.Resolve(q)
		assert.ErrorIs(t, err, paths.ErrUnsupportedPlatform)
	})
}
