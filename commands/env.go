package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meco-pipeline/mecosettings/appfile"
	"github.com/meco-pipeline/mecosettings/display"
	"github.com/meco-pipeline/mecosettings/environment"
	"github.com/meco-pipeline/mecosettings/log"
	"github.com/meco-pipeline/mecosettings/paths"
	"github.com/meco-pipeline/mecosettings/request"
)

type envOptions struct {
	platform           string
	app                string
	developer          string
	user               string
	project            string
	developmentEnv     string
	stageEnv           string
	reserved           bool
	interpreter        string
	interpreterVersion string
	noScripts          bool
	print              bool
	summary            bool
}

// NewEnvCmd returns the command assembling the environment script of a run.
func NewEnvCmd(load Loader) *cobra.Command {
	var opts envOptions

	cmd := &cobra.Command{
		Use:   "env [-- args...]",
		Short: "Build the environment script of a Meco run",
		Long: `Build the environment of a Meco run and write it to the script the shell
sources. Values not given as flags are taken from the MECO_* variables of the
current environment. Arguments after -- are kept as the unknown arguments of
the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := load()
			if err != nil {
				return err
			}

			req, err := opts.request(rt, args)
			if err != nil {
				return err
			}

			failures := log.NewFailures(nil)
			scriptsRoot := rt.Paths.InstallPath()
			if opts.noScripts {
				scriptsRoot = ""
			}
			a := environment.NewAssembler(rt.Paths, rt.Version, scriptsRoot, failures)
			a.Custom = rt.Config.CustomEnv
			a.DryRun = opts.print

			res, err := a.Build(req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := rt.Printer(cmd.ErrOrStderr())
			for _, message := range failures.Messages() {
				p.Failure("%s", message)
			}
			if opts.summary {
				if err := printSummary(p, a, req, res); err != nil {
					return err
				}
			}

			if opts.print {
				body, err := res.Env.Render(req.Platform)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(out, body)
				return err
			}

			if err := environment.WriteScript(res.Layout.ScriptFilePath, req.Platform, res.Env); err != nil {
				return err
			}
			log.L().Info("wrote environment script",
				zap.String("path", res.Layout.ScriptFilePath),
				zap.Int("entries", res.Env.Len()),
				zap.Int("packages", len(res.Packages)),
				zap.Int("failures", failures.Len()))

			rt.Printer(out).Success("%s", res.Layout.ScriptFilePath)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.platform, "platform", "", "Platform to build for (Linux, Darwin or Windows), defaults to the current one")
	f.StringVarP(&opts.app, "app", "a", "", "App name or app file to launch")
	f.StringVar(&opts.developer, "developer", "", "Developer name, defaults to MECO_DEVELOPER_NAME")
	f.StringVar(&opts.user, "user", "", "User the environment belongs to, defaults to the developer")
	f.StringVarP(&opts.project, "project", "p", "", "Project name, defaults to MECO_PROJECT_NAME")
	f.StringVarP(&opts.developmentEnv, "development", "d", "", "Development environment, defaults to MECO_DEVELOPMENT_ENV_NAME")
	f.StringVarP(&opts.stageEnv, "stage", "s", "", "Stage environment, defaults to MECO_STAGE_ENV_NAME")
	f.BoolVarP(&opts.reserved, "reserved", "r", false, "Activate the reserved environment")
	f.StringVar(&opts.interpreter, "interpreter", "", "Python interpreter exported to the environment, defaults to MECO_PYTHON_EXECUTABLE_PATH")
	f.StringVar(&opts.interpreterVersion, "interpreter-version", "", "Version of the Python interpreter, defaults to MECO_PYTHON_VERSION")
	f.BoolVar(&opts.noScripts, "no-scripts", false, "Do not source the pre and post environment scripts")
	f.BoolVar(&opts.print, "print", false, "Print the script instead of writing it, no directory is created")
	f.BoolVar(&opts.summary, "summary", false, "Print the activated packages and the app command line to stderr")
	return cmd
}

func (o envOptions) request(rt *Runtime, args []string) (request.Context, error) {
	platform := rt.Platform
	if o.platform != "" {
		p, err := paths.ParsePlatform(o.platform)
		if err != nil {
			return request.Context{}, err
		}
		platform = p
	}

	req := request.Context{
		Platform:             platform,
		App:                  o.app,
		Developer:            orDefault(o.developer, rt.Env.DeveloperName),
		User:                 o.user,
		Project:              orDefault(o.project, rt.Env.ProjectName),
		DevelopmentEnv:       orDefault(o.developmentEnv, rt.Env.DevelopmentEnvName),
		StageEnv:             orDefault(o.stageEnv, rt.Env.StageEnvName),
		Reserved:             o.reserved,
		UnknownArgs:          args,
		InterpreterPath:      orDefault(o.interpreter, rt.Env.PythonExecutablePath),
		InterpreterVersion:   orDefault(o.interpreterVersion, rt.Env.PythonVersion),
		Command:              strings.Join(os.Args, " "),
		ProjectAppsOnly:      rt.Env.UseProjectAppsOnly,
		ProjectAppsOnlyValue: rt.Env.UseProjectAppsOnlyValue,
	}
	return req, req.Validate()
}

// printSummary prints the activated packages grouped by tier, then the
// command line of the selected app and the arguments passed through.
func printSummary(p *display.Printer, a *environment.Assembler, req request.Context, res *environment.Result) error {
	var tier string
	for _, pkg := range res.Packages {
		if pkg.Tier != tier {
			tier = pkg.Tier
			p.Section(display.Section(tier))
		}
		p.Package(display.Section(tier), pkg.Name, pkg.Version)
	}

	if res.Layout.AppFilePath != "" {
		d, err := appfile.Load(res.Layout.AppFilePath)
		if err != nil {
			return err
		}
		flags, err := a.AppExecutableFlags(req, res.Layout)
		if err != nil {
			return err
		}
		launch := strings.TrimSpace(d.Executable(req.Platform) + " " + flags)
		p.KeyValue("App", res.Layout.AppFilePath, len("Arguments"))
		p.KeyValue("Launch", launch, len("Arguments"))
	}
	if args := req.Args(); len(args) > 0 {
		p.KeyValue("Arguments", strings.Join(args, " "), len("Arguments"))
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
