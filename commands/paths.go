package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/meco-pipeline/mecosettings/appfile"
)

type pathRow struct {
	label   string
	resolve func() (string, error)
}

// NewPathsCmd returns the command printing the resolved Meco locations.
func NewPathsCmd(load Loader) *cobra.Command {
	var (
		project        string
		developer      string
		developmentEnv string
		stageEnv       string
	)

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the resolved Meco paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := load()
			if err != nil {
				return err
			}
			project := orDefault(project, rt.Env.ProjectName)
			developer := orDefault(developer, rt.Env.DeveloperName)
			developmentEnv := orDefault(developmentEnv, rt.Env.DevelopmentEnvName)
			stageEnv := orDefault(stageEnv, rt.Env.StageEnvName)

			r, p := rt.Paths, rt.Platform
			steps := []pathRow{
				{"Projects", func() (string, error) { return r.ProjectsPath(p) }},
				{"Project root", func() (string, error) { return r.ProjectRootPath(p, project) }},
				{"Project internal", func() (string, error) { return r.ProjectInternalPackagesPath(p, project) }},
				{"Project external", func() (string, error) { return r.ProjectExternalPackagesPath(p, project) }},
				{"Master root", func() (string, error) { return r.MasterProjectRootPath(p) }},
				{"Master internal", func() (string, error) { return r.MasterProjectInternalPackagesPath(p) }},
				{"Master external", func() (string, error) { return r.MasterProjectExternalPackagesPath(p) }},
			}
			if developer != "" {
				steps = append(steps, pathRow{"Reserved", func() (string, error) {
					return r.ReservedPackagesPath(p, developer)
				}})
				if developmentEnv != "" {
					steps = append(steps, pathRow{"Development", func() (string, error) {
						return r.DevelopmentPackagesPath(p, project, developer, developmentEnv, false)
					}})
				}
				if stageEnv != "" {
					steps = append(steps, pathRow{"Stage", func() (string, error) {
						return r.StagePackagesPath(p, project, developer, stageEnv)
					}})
				}
			}

			rows := [][2]string{
				{"Install", r.InstallPath()},
				{"Production", strconv.FormatBool(r.IsProduction())},
				{"Apps", appfile.AppsDir(r.InstallPath())},
			}
			for _, step := range steps {
				path, err := step.resolve()
				if err != nil {
					return err
				}
				rows = append(rows, [2]string{step.label, path})
			}

			width := 0
			for _, row := range rows {
				width = max(width, len(row[0]))
			}
			printer := rt.Printer(cmd.OutOrStdout())
			printer.Title("Meco paths (" + p.String() + ")")
			for _, row := range rows {
				printer.KeyValue(row[0], row[1], width)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&project, "project", "p", "", "Project name, defaults to MECO_PROJECT_NAME")
	f.StringVar(&developer, "developer", "", "Developer name, defaults to MECO_DEVELOPER_NAME")
	f.StringVarP(&developmentEnv, "development", "d", "", "Development environment, defaults to MECO_DEVELOPMENT_ENV_NAME")
	f.StringVarP(&stageEnv, "stage", "s", "", "Stage environment, defaults to MECO_STAGE_ENV_NAME")
	return cmd
}
