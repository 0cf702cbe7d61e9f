package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ceabridge/internal/msglog"
	"ceabridge/internal/runstore"
	"ceabridge/internal/toolbox"
)

func newDemandCmd(opts *rootOptions) *cobra.Command {
	var weather string
	var logFile string

	cmd := &cobra.Command{
		Use:   "demand",
		Short: "Run the CEA demand simulation for a scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			client, err := opts.newClient(cfg)
			if err != nil {
				return err
			}

			// Copy into a local: the flag variable must survive re-execution
			// of the same command tree untouched.
			weatherName := weather
			if weatherName == "" {
				weatherName = cfg.Weather
			}

			sink := msglog.MultiSink{
				msglog.NewFileSink(logFile),
				msglog.NewLoggerSink(opts.log),
				stdoutSink{w: cmd.OutOrStdout()},
			}
			tool := toolbox.NewDemandTool(client, sink, opts.log)

			values := toolbox.Values{
				toolbox.ParamScenario: cfg.Scenario,
				toolbox.ParamWeather:  weatherName,
			}

			// Validation reports problems but never blocks execution.
			for _, msg := range tool.Validate(cmd.Context(), values) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", msg.Parameter, msg.Text)
			}

			rec := runstore.NewRecord(runstore.KindDemand, cfg.Scenario)
			runErr := tool.Execute(cmd.Context(), values)
			rec.Finish(runErr)
			saveRecord(opts.log, cfg.Scenario, rec)
			return runErr
		},
	}

	cmd.Flags().StringVar(&weather, "weather", "", "weather name from the registered list, or a path to an .epw file")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append streamed output to this file (default <temp-dir>/cea.log)")
	return cmd
}

// stdoutSink echoes streamed lines to the command's stdout.
type stdoutSink struct {
	w io.Writer
}

func (s stdoutSink) Message(msg string) {
	if s.w == nil {
		return
	}
	_, _ = s.w.Write([]byte(msg + "\n"))
}

// saveRecord persists the run record; record-keeping failures are logged,
// never surfaced as run failures.
func saveRecord(log *zap.Logger, scenario string, rec runstore.Record) {
	store, err := runstore.NewStore(scenario)
	if err != nil {
		return
	}
	if err := store.Save(rec); err != nil && log != nil {
		log.Warn("saving run record", zap.Error(err))
	}
}
