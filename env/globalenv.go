package env

import (
	"fmt"
	"slices"
	"strings"

	"github.com/meco-pipeline/mecosettings/paths"
)

// Global env class names.
const (
	ClassPackage = "Package"
	ClassMaya    = "Maya"
)

// Placeholders substituted in global env templates.
const (
	FolderNamePlaceholder = "FOLDER_NAME"
	VersionPlaceholder    = "VERSION"
)

// platformDirPlaceholder is replaced by the lower case platform name.
const platformDirPlaceholder = "{platform}"

// Templates are written with forward slashes and converted per platform.
var globalEnvClasses = map[string]map[paths.Platform]map[string][]string{
	ClassPackage: {
		paths.Linux: {
			"PATH":            {"bin/{platform}", "python/bin"},
			"LD_LIBRARY_PATH": {"lib/{platform}"},
			"PYTHONPATH":      {"python"},
		},
		paths.Darwin: {
			"PATH":                       {"bin/{platform}", "python/bin"},
			"DYLD_FALLBACK_LIBRARY_PATH": {"lib/{platform}"},
			"PYTHONPATH":                 {"python"},
		},
		paths.Windows: {
			"PATH":         {"bin/{platform}", "python/bin"},
			"LIBRARY_PATH": {"lib/{platform}"},
			"PYTHONPATH":   {"python"},
		},
	},
	ClassMaya: {
		paths.Linux:   mayaTemplates,
		paths.Darwin:  mayaTemplates,
		paths.Windows: mayaTemplates,
	},
}

var mayaTemplates = map[string][]string{
	"PYTHONPATH":        {"FOLDER_NAME/VERSION/python"},
	"MAYA_SCRIPT_PATH":  {"FOLDER_NAME/VERSION/mel"},
	"MAYA_SHELF_PATH":   {"FOLDER_NAME/VERSION/shelves"},
	"MAYA_PLUG_IN_PATH": {"FOLDER_NAME/VERSION/plugin/{platform}"},
	"XBMLANGPATH":       {"FOLDER_NAME/VERSION/xbm"},
}

// Classes returns the names of the known global env classes, sorted.
func Classes() []string {
	names := make([]string, 0, len(globalEnvClasses))
	for name := range globalEnvClasses {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GlobalEnv returns the relative path templates of class on platform, keyed
// by variable name. Paths use the separator of platform.
func GlobalEnv(class string, platform paths.Platform) (map[string][]string, error) {
	if err := platform.Validate(); err != nil {
		return nil, err
	}
	byPlatform, ok := globalEnvClasses[class]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}

	dir := strings.ToLower(platform.String())
	out := make(map[string][]string, len(byPlatform[platform]))
	for name, templates := range byPlatform[platform] {
		converted := make([]string, len(templates))
		for i, t := range templates {
			converted[i] = toPlatformPath(strings.ReplaceAll(t, platformDirPlaceholder, dir), platform)
		}
		out[name] = converted
	}
	return out, nil
}

// AddGlobalEnv appends a Multi entry to c for every template of class, joined
// to packagePath. Variables are added in name order and the folder name and
// version placeholders are substituted.
func AddGlobalEnv(c *Container, class string, platform paths.Platform, packagePath, folderName, version string) error {
	templates, err := GlobalEnv(class, platform)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	slices.Sort(names)

	sep := separator(platform)
	replacer := strings.NewReplacer(FolderNamePlaceholder, folderName, VersionPlaceholder, version)
	for _, name := range names {
		for _, rel := range templates[name] {
			c.AddMulti(name, strings.TrimRight(packagePath, `/\`)+sep+replacer.Replace(rel))
		}
	}
	return nil
}

func separator(platform paths.Platform) string {
	if platform.IsWindows() {
		return `\`
	}
	return "/"
}

func toPlatformPath(p string, platform paths.Platform) string {
	if platform.IsWindows() {
		return strings.ReplaceAll(p, "/", `\`)
	}
	return p
}
