package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lophi/internal/convert"
	"lophi/pkg/sas7bdat"
)

func newConvertCommand() *cobra.Command {
	var out, format string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Decode a SAS7BDAT file and write it as CSV or Parquet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zerolog.Ctx(cmd.Context())

			if format == "" {
				switch strings.ToLower(filepath.Ext(out)) {
				case ".parquet":
					format = "parquet"
				default:
					format = "csv"
				}
			}
			if format != "csv" && format != "parquet" {
				return fmt.Errorf("unknown output format %q", format)
			}

			f, err := sas7bdat.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			series, err := f.Read(cmd.Context())
			if err != nil {
				return err
			}

			dst, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer dst.Close()

			switch format {
			case "parquet":
				err = convert.WriteParquet(dst, series)
			default:
				err = convert.WriteCSV(dst, series)
			}
			if err != nil {
				return err
			}
			if err := dst.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", out, err)
			}

			rows := 0
			if len(series) > 0 {
				rows = series[0].Len()
			}
			log.Info().
				Str("output", out).
				Str("format", format).
				Int("rows", rows).
				Int("columns", len(series)).
				Msg("converted dataset")
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file path")
	cmd.Flags().StringVar(&format, "format", "", "output format: csv or parquet (default from the output extension)")
	cmd.MarkFlagRequired("out")
	return cmd
}
