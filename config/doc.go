// Package config handles the mecosettings configuration.
//
// User preferences are stored in ~/.mecosettings/config.json: the log level,
// the colour mode and custom variables added to every environment. The Meco
// process environment (MECO_* variables) is read once by LoadEnvironment and
// turned into a request context at the command line edge.
package config
