package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

// UseProjectAppsOnlyVar restricts app lookup to the project tiers when it is
// present, whatever its value.
const UseProjectAppsOnlyVar = "MECO_USE_PROJECT_APPS_ONLY"

// Environment holds the Meco variables of the launching process.
type Environment struct {
	DevelopmentPackagesPath string `envconfig:"MECO_DEVELOPMENT_PACKAGES_PATH"`
	DevelopmentEnvName      string `envconfig:"MECO_DEVELOPMENT_ENV_NAME"`
	StageEnvName            string `envconfig:"MECO_STAGE_ENV_NAME"`
	ProjectName             string `envconfig:"MECO_PROJECT_NAME"`
	DeveloperName           string `envconfig:"MECO_DEVELOPER_NAME"`
	// SettingsPath overrides the install path of the settings library.
	SettingsPath string `envconfig:"MECO_SETTINGS_PATH"`
	// ProjectsRoot overrides the root of the projects tree.
	ProjectsRoot string `envconfig:"MECO_PROJECTS_ROOT"`
	LogLevel     string `envconfig:"MECO_LOG_LEVEL"`
	// The interpreter of the previous run, exported by its environment script.
	PythonExecutablePath string `envconfig:"MECO_PYTHON_EXECUTABLE_PATH"`
	PythonVersion        string `envconfig:"MECO_PYTHON_VERSION"`

	UseProjectAppsOnly      bool   `ignored:"true"`
	UseProjectAppsOnlyValue string `ignored:"true"`
}

// LoadEnvironment reads the Meco variables of the current process.
func LoadEnvironment() (*Environment, error) {
	var e Environment
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	e.UseProjectAppsOnlyValue, e.UseProjectAppsOnly = os.LookupEnv(UseProjectAppsOnlyVar)
	return &e, nil
}
