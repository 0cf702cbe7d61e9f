// Package cli is the command-line surface of ceabridge. It canonicalizes
// flags into validated configuration before any bridge logic runs, and it
// maps failures onto semantic exit codes.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ceabridge/internal/ceacli"
	"ceabridge/internal/config"
)

// Semantic exit codes.
const (
	ExitSuccess          = 0
	ExitExecutionFailure = 1
	ExitInvalidFlags     = 2
	ExitConfigError      = 3
	ExitInternalError    = 4
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	scenario   string
	debug      bool

	log *zap.Logger
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	opts := &rootOptions{}
	cmd := newRootCmd(opts)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ceabridge",
		Short:         "Bridge to the City Energy Analyst: demand runs and thermal-network layouts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			log, err := newLogger(opts.debug)
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			opts.log = log
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a ceabridge config file (yaml)")
	cmd.PersistentFlags().StringVar(&opts.scenario, "scenario", "", "path to the scenario folder")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable verbose logging")

	cmd.AddCommand(
		newDemandCmd(opts),
		newLayoutCmd(opts),
		newWeatherCmd(opts),
	)
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadConfig resolves the effective configuration for a scenario-bound
// command: the config file when given, defaults otherwise, with the
// --scenario flag taking precedence. The scenario is required and is
// resolved to an absolute path so nothing downstream depends on the
// process working directory.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := o.loadConfigNoScenario()
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Scenario == "" {
		return config.Config{}, invalidFlagsf("a scenario is required: pass --scenario or set it in the config file")
	}
	abs, err := filepath.Abs(cfg.Scenario)
	if err != nil {
		return config.Config{}, invalidFlagsf("resolving scenario path %q: %v", cfg.Scenario, err)
	}
	cfg.Scenario = abs
	return cfg, nil
}

// loadConfigNoScenario resolves configuration for commands that do not
// operate on a scenario (only the interpreter settings matter to them).
func (o *rootOptions) loadConfigNoScenario() (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	} else {
		cfg = config.Default(o.scenario)
	}
	if o.scenario != "" {
		cfg.Scenario = o.scenario
	}
	return cfg, nil
}

// newClient discovers the interpreter and builds the CLI bridge client.
func (o *rootOptions) newClient(cfg config.Config) (*ceacli.Client, error) {
	interp, err := ceacli.Discover(cfg.Python)
	if err != nil {
		return nil, err
	}
	return ceacli.NewClient(interp, o.log)
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ceacli.ErrNotConfigured),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrNotFound):
		return ExitConfigError
	}
	var execErr *ceacli.ExecError
	if errors.As(err, &execErr) {
		return ExitExecutionFailure
	}
	var flagErr *flagError
	if errors.As(err, &flagErr) {
		return ExitInvalidFlags
	}
	return ExitInternalError
}

// flagError marks invocation problems detected after cobra parsing.
type flagError struct {
	msg string
}

func (e *flagError) Error() string { return e.msg }

func invalidFlagsf(format string, args ...any) error {
	return &flagError{msg: fmt.Sprintf(format, args...)}
}
