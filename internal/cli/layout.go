package cli

import (
	"github.com/spf13/cobra"

	"ceabridge/internal/layout"
	"ceabridge/internal/locator"
	"ceabridge/internal/msglog"
	"ceabridge/internal/runstore"
)

func newLayoutCmd(opts *rootOptions) *cobra.Command {
	var inputName string
	var outputName string
	var optimization bool
	var plantBuildings []string
	var logFile string

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Build a thermal-network layout from streets and zone geometry",
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

			sink := msglog.MultiSink{
				msglog.NewFileSink(logFile),
				msglog.NewLoggerSink(opts.log),
				stdoutSink{w: cmd.OutOrStdout()},
			}
			stages := &layout.CLIStages{
				Client:   client,
				Scenario: cfg.Scenario,
				Sink:     sink,
			}

			pipe := &layout.Pipeline{
				Config:       cfg,
				Locator:      locator.New(cfg.Scenario),
				Substations:  stages,
				Connectivity: stages,
				Tree:         stages,
				Log:          opts.log,
			}

			rec := runstore.NewRecord(runstore.KindLayout, cfg.Scenario)
			res, runErr := pipe.Run(cmd.Context(), layout.Options{
				PlantBuildings:   plantBuildings,
				InputPathName:    inputName,
				OutputName:       outputName,
				OptimizationMode: optimization,
			})
			rec.Finish(runErr)
			if res != nil {
				rec.Stages = stageRecords(res)
			}
			saveRecord(opts.log, cfg.Scenario, rec)
			return runErr
		},
	}

	cmd.Flags().StringVar(&inputName, "input-name", layout.DefaultInputPathName, "candidate-path shapefile name under inputs/networks")
	cmd.Flags().StringVar(&outputName, "output-name", "", "name of the layout output folder (empty for the default layout)")
	cmd.Flags().BoolVar(&optimization, "optimization", false, "run as part of a network optimization")
	cmd.Flags().StringSliceVar(&plantBuildings, "plant-buildings", nil, "plant building names (optimization runs only)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append streamed output to this file (default <temp-dir>/cea.log)")
	return cmd
}

func stageRecords(res *layout.Result) []runstore.StageRecord {
	outputs := map[string]string{
		layout.StageSubstations:  res.SubstationsShapefile,
		layout.StageConnectivity: res.PotentialNetworkShapefile,
		layout.StageTree:         res.EdgesShapefile,
	}
	recs := make([]runstore.StageRecord, 0, len(layout.StageOrder))
	for _, name := range layout.StageOrder {
		rec := runstore.StageRecord{Name: name, State: string(res.State[name])}
		if res.State[name] == layout.StageCompleted {
			rec.Output = outputs[name]
		}
		recs = append(recs, rec)
	}
	return recs
}
