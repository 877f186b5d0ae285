package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lophi/internal/pipeline"
	"lophi/pkg/sas7bdat"
)

func newReduceCommand() *cobra.Command {
	var (
		missingThreshold float64
		corrThreshold    float64
		target           string
	)

	cmd := &cobra.Command{
		Use:   "reduce <file>",
		Short: "Report features droppable by missing-value and correlation analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zerolog.Ctx(cmd.Context())
			out := cmd.OutOrStdout()

			f, err := sas7bdat.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			series, err := f.Read(cmd.Context())
			if err != nil {
				return err
			}

			ratios := pipeline.MissingRatios(series)
			sparse := pipeline.AboveThreshold(ratios, missingThreshold, target)
			log.Info().
				Int("columns", len(series)).
				Int("above_threshold", len(sparse)).
				Float64("threshold", missingThreshold).
				Msg("missing-value analysis done")

			fmt.Fprintf(out, "Features with missing ratio > %.2f:\n", missingThreshold)
			if len(sparse) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			for _, name := range sparse {
				fmt.Fprintf(out, "  %s\n", name)
			}

			pairs := pipeline.CorrelatedPairs(series, corrThreshold, nil)
			drops := pipeline.DropCandidates(pairs, target)
			log.Info().
				Int("pairs", len(pairs)).
				Int("drop_candidates", len(drops)).
				Float64("threshold", corrThreshold).
				Msg("correlation analysis done")

			fmt.Fprintf(out, "\nCorrelated pairs with |r| > %.2f:\n", corrThreshold)
			if len(pairs) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			for _, p := range pairs {
				fmt.Fprintf(out, "  %s ~ %s  r=%.4f\n", p.Feature1, p.Feature2, p.Correlation)
			}

			fmt.Fprintln(out, "\nDrop candidates:")
			if len(drops) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			for _, name := range drops {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&missingThreshold, "missing-threshold", 0.5, "flag features with a higher share of missing values")
	cmd.Flags().Float64Var(&corrThreshold, "corr-threshold", 0.9, "flag feature pairs with a higher absolute correlation")
	cmd.Flags().StringVar(&target, "target", "", "target column, never dropped")
	return cmd
}
