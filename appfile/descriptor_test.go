package appfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meco-pipeline/mecosettings/paths"
)

const atomJSON = `{
    "developer": "jdoe@studio.com",
    "description": "Atom",
    "darwinExecutable": "open -a Atom.app",
    "linuxExecutable": "atom",
    "windowsExecutable": "atom.exe",
    "globalEnvClassName": "Atom",
    "application": "atom",
    "folderName": "atom",
    "version": "1.53.0",
    "packages": []
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "atom.json"), atomJSON)

	t.Run("reads every field", func(t *testing.T) {
		d, err := Load(filepath.Join(dir, "atom.json"))
		require.NoError(t, err)

		assert.Equal(t, "jdoe@studio.com", d.Developer)
		assert.Equal(t, "Atom", d.Description)
		assert.Equal(t, "open -a Atom.app", d.DarwinExecutable)
		assert.Equal(t, "atom", d.LinuxExecutable)
		assert.Equal(t, "atom.exe", d.WindowsExecutable)
		assert.Equal(t, "Atom", d.GlobalEnvClassName)
		assert.Equal(t, "atom", d.Application)
		assert.Equal(t, "atom", d.FolderName)
		assert.Equal(t, "1.53.0", d.Version)
		assert.NotNil(t, d.Packages)
		assert.Empty(t, d.Packages)
		assert.True(t, d.IsValid())
		assert.Equal(t, "atom", d.Name())
	})

	t.Run("appends the extension", func(t *testing.T) {
		d, err := Load(filepath.Join(dir, "atom"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "atom.json"), d.File())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		path := filepath.Join(dir, "extra.json")
		writeFile(t, path, `{"developer": "a", "description": "b", "icon": "x.png"}`)

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrMalformedData)
	})

	t.Run("non string values are rejected", func(t *testing.T) {
		path := filepath.Join(dir, "number.json")
		writeFile(t, path, `{"developer": "a", "description": "b", "version": 2024}`)

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrMalformedData)
	})

	t.Run("content must be a mapping", func(t *testing.T) {
		path := filepath.Join(dir, "list.json")
		writeFile(t, path, `["maya"]`)

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrMalformedData)

		for name, content := range map[string]string{
			"null.json":   "null",
			"string.json": `"maya"`,
			"number.json": " 42\n",
		} {
			path := filepath.Join(dir, name)
			writeFile(t, path, content)

			_, err := Load(path)
			assert.ErrorIs(t, err, ErrMalformedData, name)
		}
	})
}

func TestDescriptorIsValid(t *testing.T) {
	d := &Descriptor{Developer: "a@b.com", Description: "Lynx"}
	assert.False(t, d.IsValid(), "unbound descriptors are never valid")

	d.file = "/tmp/lynx.json"
	assert.True(t, d.IsValid())

	d.Description = ""
	assert.False(t, d.IsValid())

	d.Description = "Lynx"
	d.Developer = ""
	assert.False(t, d.IsValid())
}

func TestDescriptorWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atom.json")
	writeFile(t, path, atomJSON)

	d, err := Load(path)
	require.NoError(t, err)

	d.Version = "1.60.0"
	d.Packages = []string{"mAtomTools"}
	require.NoError(t, d.Write())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1.60.0", reloaded.Version)
	assert.Equal(t, []string{"mAtomTools"}, reloaded.Packages)

	t.Run("unbound descriptors cannot be written", func(t *testing.T) {
		assert.ErrorIs(t, (&Descriptor{}).Write(), ErrNotBound)
		assert.ErrorIs(t, (&Descriptor{}).Read(), ErrNotBound)
	})
}

func TestDescriptorWriteFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atom.json")
	writeFile(t, path, atomJSON)

	d, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, d.Write())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, atomJSON, string(data))
}

func TestDescriptorSetContent(t *testing.T) {
	t.Run("replaces every field", func(t *testing.T) {
		d := &Descriptor{Developer: "old", Version: "1"}
		err := d.SetContent(map[string]any{
			KeyDeveloper:   "a@b.com",
			KeyDescription: "Nuke",
			KeyApplication: "nuke",
			KeyPackages:    []any{"mNukeTools", "mComp"},
		})
		require.NoError(t, err)

		assert.Equal(t, "a@b.com", d.Developer)
		assert.Equal(t, "Nuke", d.Description)
		assert.Equal(t, "nuke", d.Application)
		assert.Empty(t, d.Version, "missing keys are reset")
		assert.Equal(t, []string{"mNukeTools", "mComp"}, d.Packages)
	})

	t.Run("round trips through Content", func(t *testing.T) {
		d := &Descriptor{Developer: "a@b.com", Description: "Mari", Packages: []string{"mMari"}}
		other := &Descriptor{}
		require.NoError(t, other.SetContent(d.Content()))
		assert.Equal(t, d.Content(), other.Content())
	})

	malformed := map[string]map[string]any{
		"unknown key":         {"icon": "x.png"},
		"nested mapping":      {KeyDeveloper: map[string]any{"name": "jdoe"}},
		"number value":        {KeyVersion: 3},
		"packages not a list": {KeyPackages: "mMaya"},
		"packages of numbers": {KeyPackages: []any{1, 2}},
	}
	for name, content := range malformed {
		t.Run(name, func(t *testing.T) {
			d := &Descriptor{Developer: "keep"}
			err := d.SetContent(content)
			assert.ErrorIs(t, err, ErrMalformedData)
			assert.Equal(t, "keep", d.Developer, "descriptor is untouched on error")
		})
	}
}

func TestDescriptorExecutable(t *testing.T) {
	d := &Descriptor{
		DarwinExecutable:  "open -a Lynx.app",
		LinuxExecutable:   "lynx",
		WindowsExecutable: "lynx.exe",
	}
	assert.Equal(t, "open -a Lynx.app", d.Executable(paths.Darwin))
	assert.Equal(t, "lynx", d.Executable(paths.Linux))
	assert.Equal(t, "lynx.exe", d.Executable(paths.Windows))
}

func TestDescriptorMatches(t *testing.T) {
	d := &Descriptor{
		Developer:   "jdoe@studio.com",
		Description: "Houdini FX",
		Application: "houdini",
		Version:     "20.5",
		Packages:    []string{"mHoudiniTools"},
	}

	assert.True(t, d.Matches("studio"))
	assert.True(t, d.Matches("FX"))
	assert.True(t, d.Matches("houd"))
	assert.True(t, d.Matches("20."))
	assert.True(t, d.Matches("mHoudiniTools"))
	assert.False(t, d.Matches("mHoudini"), "package names must match exactly")
	assert.False(t, d.Matches("maya"))
}

func TestDescriptorDetail(t *testing.T) {
	d := &Descriptor{Developer: "jdoe@studio.com", Packages: []string{"a", "b"}, file: "/apps/x.json"}
	detail := d.Detail()

	lines := strings.Split(strings.TrimRight(detail, "\n"), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "Meco App File      : /apps/x.json", lines[0])
	assert.Equal(t, "developer          : jdoe@studio.com", lines[1])
	assert.Equal(t, "packages           : a,b", lines[10])
}
