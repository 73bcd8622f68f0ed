// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/argparseutils/argparseutils/internal/config"
	"github.com/argparseutils/argparseutils/internal/issue"
	"github.com/argparseutils/argparseutils/pkg/options"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root of the CLI layer: every command handler receives an App and reads
	// its options through the App's registry.
	App struct {
		Config config.Provider

		configDir string
		lookupEnv func(string) (string, bool)
		stdout    io.Writer
		stderr    io.Writer
		exit      func(int)
		execute   func(context.Context, *cobra.Command) error

		global globalFlags
		cfg    *config.Config
		reg    *options.Registry
		logger *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		// ConfigDir replaces the platform config directory.
		ConfigDir string
		// LookupEnv replaces os.LookupEnv for option resolution.
		LookupEnv func(string) (string, bool)
		Stdout    io.Writer
		Stderr    io.Writer
		// Exit is called by the exit invalid shard policy.
		Exit func(int)
		// Execute runs the built command tree.
		Execute func(context.Context, *cobra.Command) error
	}

	// globalFlags are the flags read before the command tree is built.
	globalFlags struct {
		configPath string
		envFile    string
		verbose    bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.LookupEnv == nil {
		deps.LookupEnv = os.LookupEnv
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Exit == nil {
		deps.Exit = os.Exit
	}
	if deps.Execute == nil {
		deps.Execute = fangExecute
	}

	return &App{
		Config:    deps.Config,
		configDir: deps.ConfigDir,
		lookupEnv: deps.LookupEnv,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		exit:      deps.Exit,
		execute:   deps.Execute,
	}
}

// Run loads the configuration, builds the command tree and executes it with
// args. Errors raised before execution are printed here; execution errors
// are printed by the executor.
func (a *App) Run(ctx context.Context, args []string) error {
	pre := newGlobalFlagSet(&a.global)
	// Parse errors, including unknown flags, are reported by cobra later.
	_ = pre.Parse(args)

	a.logger = log.NewWithOptions(a.stderr, log.Options{Prefix: AppName})
	if a.global.verbose {
		a.logger.SetLevel(log.DebugLevel)
	}

	root, err := a.build(ctx)
	if err != nil {
		a.printError(err)
		return err
	}

	shown, err := a.reg.HandleEnvironment(pre, a.stdout)
	if shown || err != nil {
		return err
	}

	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	err = a.execute(ctx, root)
	if err != nil && a.global.verbose {
		a.printIssue(err)
	}
	return err
}

// build loads configuration and the env file, creates the registry and
// declares every command's options.
func (a *App) build(ctx context.Context) (*cobra.Command, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.global.configPath, ConfigDirPath: a.configDir})
	if err != nil {
		if a.global.configPath != "" {
			return nil, err
		}
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.global.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg
	a.logger.Debug("configuration loaded", "source", cfg.Source, "invalid_shard", cfg.InvalidShard)

	envPath := cfg.EnvFilePath(a.global.envFile)
	env, err := config.LoadEnvFile(envPath)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load env file").
			WithResource(envPath).
			WithSuggestion("Check that the file exists and uses KEY=VALUE lines").
			WithSuggestion("Relative env_file paths are resolved from the config file's directory").
			Wrap(err).
			BuildError()
	}
	if envPath != "" {
		a.logger.Debug("env file loaded", "path", envPath, "vars", len(env))
	}

	regOpts := cfg.RegistryOptions(env, a.stderr, a.exit)
	regOpts = append(regOpts,
		options.WithLookupEnv(a.lookupEnv),
		options.WithLogger(a.logger.WithPrefix("options")),
	)
	a.reg = options.NewRegistry(regOpts...)

	return newRootCommand(a)
}

func (a *App) printError(err error) {
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.global.verbose))
	a.printIssue(err)
}

// printIssue renders the issue page matching err, if any.
func (a *App) printIssue(err error) {
	id, _ := classify(err)
	if id == 0 {
		return
	}
	rendered, renderErr := issue.Get(id).Render("dark")
	if renderErr != nil {
		a.logger.Debug("failed to render issue", "id", id, "error", renderErr)
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

// newGlobalFlagSet returns the flag set used to read global flags before the
// command tree exists. Unknown flags are skipped.
func newGlobalFlagSet(g *globalFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsAllowlist.UnknownFlags = true
	fs.Usage = func() {}
	addGlobalFlags(fs, g)
	return fs
}

// addGlobalFlags declares the global flags on fs.
func addGlobalFlags(fs *pflag.FlagSet, g *globalFlags) {
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose output")
	fs.StringVar(&g.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/argparseutils/config.{cue,toml,yaml,json})")
	fs.StringVar(&g.envFile, "env-file", "", "dotenv file consulted before the process environment")
	options.AddEnvironmentFlag(fs)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
