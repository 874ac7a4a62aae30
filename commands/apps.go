package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meco-pipeline/mecosettings/appfile"
	"github.com/meco-pipeline/mecosettings/log"
)

// NewCreateAppCmd returns the command creating an app file in the development
// environment.
func NewCreateAppCmd(load Loader) *cobra.Command {
	var (
		fields    appfile.Descriptor
		from      string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "create-app <name>",
		Short: "Create a Meco App",
		Long: `Create a Meco App file in the mMecoSettings package of the active
development environment. The .json extension is added when missing. With
--from the fields of an existing app file are copied and the given flags
replace them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := load()
			if err != nil {
				return err
			}

			if from != "" {
				if fields, err = fromAppFile(from, fields); err != nil {
					return err
				}
			}

			d, err := rt.Store().Create(args[0], fields, overwrite)
			if err != nil {
				return err
			}
			log.L().Info("created app file", zap.String("file", d.File()))

			p := rt.Printer(cmd.OutOrStdout())
			p.Success("Meco App file has been created.")
			p.Success("%s", d.File())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&fields.Developer, "developer", "", "Developer of the app")
	f.StringVar(&fields.Description, "description", "", "Description of the app")
	f.StringVar(&fields.LinuxExecutable, "linux-executable", "", "Executable on Linux")
	f.StringVar(&fields.DarwinExecutable, "darwin-executable", "", "Executable on Darwin")
	f.StringVar(&fields.WindowsExecutable, "windows-executable", "", "Executable on Windows")
	f.StringVar(&fields.GlobalEnvClassName, "global-env-class", "", "Global env class added for every activated package")
	f.StringVar(&fields.Application, "application", "", "Application the app launches (e.g. maya)")
	f.StringVar(&fields.FolderName, "folder-name", "", "Folder of the application inside packages")
	f.StringVar(&fields.Version, "version", "", "Version of the application")
	f.StringSliceVar(&fields.Packages, "packages", nil, "Packages the app needs")
	f.StringVar(&from, "from", "", "App file to copy the fields from")
	f.BoolVar(&overwrite, "overwrite", false, "Overwrite an existing app file")
	return cmd
}

// fromAppFile returns the fields of the app file at path with the non-empty
// fields of overrides applied.
func fromAppFile(path string, overrides appfile.Descriptor) (appfile.Descriptor, error) {
	src, err := appfile.Load(path)
	if err != nil {
		return appfile.Descriptor{}, err
	}

	content := src.Content()
	for key, value := range overrides.Content() {
		switch v := value.(type) {
		case string:
			if v != "" {
				content[key] = v
			}
		case []string:
			if len(v) > 0 {
				content[key] = v
			}
		}
	}

	var d appfile.Descriptor
	if err := d.SetContent(content); err != nil {
		return appfile.Descriptor{}, err
	}
	return d, nil
}

// NewListAppsCmd returns the command listing every app file.
func NewListAppsCmd(load Loader) *cobra.Command {
	var detail bool

	cmd := &cobra.Command{
		Use:   "list-apps",
		Short: "List Meco App files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listApps(cmd, load, "", detail)
		},
	}
	cmd.Flags().BoolVarP(&detail, "detail", "d", false, "Display details about the app files")
	return cmd
}

// NewSearchAppsCmd returns the command listing the app files matching a
// keyword.
func NewSearchAppsCmd(load Loader) *cobra.Command {
	var detail bool

	cmd := &cobra.Command{
		Use:   "search-apps <keyword>",
		Short: "Search Meco App files",
		Long: `Search Meco App files. An app matches when the keyword is a substring of
its developer, description, global env class, application, folder name or
version, or equals one of its packages.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listApps(cmd, load, args[0], detail)
		},
	}
	cmd.Flags().BoolVarP(&detail, "detail", "d", false, "Display details about the app files")
	return cmd
}

func listApps(cmd *cobra.Command, load Loader, keyword string, detail bool) error {
	rt, err := load()
	if err != nil {
		return err
	}

	descriptors, err := rt.Store().List(keyword)
	if err != nil {
		return err
	}

	p := rt.Printer(cmd.OutOrStdout())
	if len(descriptors) == 0 {
		p.Muted("No Meco App found.")
		return nil
	}

	for _, d := range descriptors {
		if detail {
			p.Item(d.Name(), d.Detail())
		} else {
			p.Item(d.Name(), "")
		}
	}
	p.Muted("%d Meco Apps found.", len(descriptors))
	return nil
}
