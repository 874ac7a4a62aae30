package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/meco-pipeline/mecosettings/commands"
	"github.com/meco-pipeline/mecosettings/config"
	"github.com/meco-pipeline/mecosettings/display"
	"github.com/meco-pipeline/mecosettings/log"
)

var (
	version   = "2.4.0"
	debugFlag bool
	load      = commands.Once(commands.DefaultLoader(version))
	rootCmd   = &cobra.Command{
		Use:           "mecosettings",
		Short:         "mecosettings - Meco app files and environment scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			rt, err := load()
			if err != nil {
				return err
			}
			level := rt.Config.LogLevel
			if rt.Env.LogLevel != "" {
				level = rt.Env.LogLevel
			}
			if debugFlag {
				level = "debug"
			}
			if err := log.Initialize(log.Config{Level: level, Console: debugFlag}); err != nil {
				return err
			}
			rt.ReportConfigError(cmd.ErrOrStderr())
			return nil
		},
	}

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Print debug information like config paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := load()
			if err != nil {
				return err
			}

			configDir, err := config.GetConfigDir()
			if err != nil {
				return fmt.Errorf("failed to get config directory: %w", err)
			}
			configJson, _ := sonic.ConfigStd.MarshalIndent(rt.Config, "", "  ")
			envJson, _ := sonic.ConfigStd.MarshalIndent(rt.Env, "", "  ")

			fmt.Printf("Config: %s\n%s\n", filepath.Join(configDir, config.ConfigFileName), configJson)
			fmt.Printf("Environment:\n%s\n", envJson)
			fmt.Printf("Settings package: %s\n", rt.Paths.InstallPath())
			fmt.Printf("Log: %s\n", log.DefaultPath())
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of mecosettings",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mecosettings version %s\n", version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log at debug level and echo log entries to stderr")

	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(commands.NewCreateAppCmd(load))
	rootCmd.AddCommand(commands.NewListAppsCmd(load))
	rootCmd.AddCommand(commands.NewSearchAppsCmd(load))
	rootCmd.AddCommand(commands.NewEnvCmd(load))
	rootCmd.AddCommand(commands.NewPathsCmd(load))
	rootCmd.AddCommand(commands.NewColorsCmd(load))
}

func main() {
	err := rootCmd.Execute()
	log.Close()
	if err != nil {
		display.NewPrinter(os.Stderr, display.ColorAuto).Failure("%v", err)
		os.Exit(1)
	}
}
