package commands

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/meco-pipeline/mecosettings/display"
	"github.com/meco-pipeline/mecosettings/paths"
)

type colorTable struct {
	Header   []string                                    `json:"header"`
	Sections map[display.Section]map[display.Role]string `json:"sections"`
}

// NewColorsCmd returns the command printing the colour table the environment
// printers of the shell scripts read.
func NewColorsCmd(load Loader) *cobra.Command {
	var platform string

	cmd := &cobra.Command{
		Use:   "colors",
		Short: "Print the environment colour table as JSON",
		Long: `Print the colour of every role of every environment section as JSON.
Linux and Darwin colours are escape sequence templates with a {} placeholder,
Windows colours are console colour names.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := load()
			if err != nil {
				return err
			}
			p := rt.Platform
			if platform != "" {
				if p, err = paths.ParsePlatform(platform); err != nil {
					return err
				}
			}

			var t colorTable
			if t.Header, err = display.HeaderColors(p); err != nil {
				return err
			}
			if t.Sections, err = display.Table(p); err != nil {
				return err
			}
			data, err := sonic.ConfigStd.MarshalIndent(t, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode colour table: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVar(&platform, "platform", "", "Platform to render for (Linux, Darwin or Windows), defaults to the current one")
	return cmd
}
