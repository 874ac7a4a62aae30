package environment

// Variables exported into every environment.
const (
	VarESVersion = "MECO_ES_VERSION"
	VarESCommand = "MECO_ES_COMMAND"

	VarPythonExecutablePath = "MECO_PYTHON_EXECUTABLE_PATH"
	VarPythonVersion        = "MECO_PYTHON_VERSION"

	VarDeveloperName = "MECO_DEVELOPER_NAME"

	VarReservedEnvName      = "MECO_RESERVED_ENV_NAME"
	VarReservedPackagesPath = "MECO_RESERVED_PACKAGES_PATH"

	VarDevelopmentEnvName      = "MECO_DEVELOPMENT_ENV_NAME"
	VarDevelopmentPackagesPath = "MECO_DEVELOPMENT_PACKAGES_PATH"

	VarStageEnvName      = "MECO_STAGE_ENV_NAME"
	VarStagePackagesPath = "MECO_STAGE_PACKAGES_PATH"

	VarProjectName                 = "MECO_PROJECT_NAME"
	VarProjectInternalPackagesPath = "MECO_PROJECT_INTERNAL_PACKAGES_PATH"
	VarProjectExternalPackagesPath = "MECO_PROJECT_EXTERNAL_PACKAGES_PATH"
	VarProjectPath                 = "MECO_PROJECT_PATH"
	VarProjectRootPath             = "MECO_PROJECT_ROOT_PATH"

	VarMasterProjectName                 = "MECO_MASTER_PROJECT_NAME"
	VarMasterProjectInternalPackagesPath = "MECO_MASTER_PROJECT_INTERNAL_PACKAGES_PATH"
	VarMasterProjectExternalPackagesPath = "MECO_MASTER_PROJECT_EXTERNAL_PACKAGES_PATH"
	VarMasterProjectPath                 = "MECO_MASTER_PROJECT_PATH"
	VarMasterProjectRootPath             = "MECO_MASTER_PROJECT_ROOT_PATH"

	VarAppName            = "MECO_APP_NAME"
	VarAppPath            = "MECO_APP_PATH"
	VarUseProjectAppsOnly = "MECO_USE_PROJECT_APPS_ONLY"

	VarEnvScriptFilePath = "MECO_ENV_SCRIPT_FILE_PATH"
	VarEnvLogFilePath    = "MECO_ENV_LOG_FILE_PATH"
)
