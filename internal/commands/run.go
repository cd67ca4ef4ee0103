package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bankcap-dev/bankcap/internal/rates"
)

func newRunCommand(opts *globalOptions) *cobra.Command {
	var skipDownload bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the whole pipeline: fetch, extract, transform, load and query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, opts, skipDownload)
		},
	}

	cmd.Flags().BoolVar(&skipDownload, "skip-download", false, "reuse the local exchange-rate file")

	return cmd
}

func newFetchRatesCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-rates",
		Short: "Download the exchange-rate file and print its rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(cmd, opts)
			if err != nil {
				return err
			}
			r.Config.Rates.Download = true
			if err := r.FetchRates(cmd.Context()); err != nil {
				return err
			}

			svc, err := rates.Load(r.Config.Rates.File)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved exchange rates to %s\n", r.Config.Rates.File)
			for _, rate := range svc.All() {
				fmt.Fprintf(out, "%s\t%s\n", rate.Currency, rate.Rate)
			}
			return nil
		},
	}
}

func newQueryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query",
		Short: "Run the report queries against an existing database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(cmd, opts)
			if err != nil {
				return err
			}
			if _, err := os.Stat(r.Config.Output.Database); err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			_, err = r.RunQueries(cmd.Context())
			return err
		},
	}
}
