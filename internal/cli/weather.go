package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWeatherCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather [name]",
		Short: "List registered weather files, or resolve one name to its path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfigNoScenario()
			if err != nil {
				return err
			}
			client, err := opts.newClient(cfg)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				path, err := client.WeatherPath(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}

			names, err := client.WeatherNames(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	return cmd
}
