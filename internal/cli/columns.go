package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lophi/pkg/sas7bdat"
)

func newColumnsCommand() *cobra.Command {
	var showTypes bool

	cmd := &cobra.Command{
		Use:   "columns <file>",
		Short: "List the columns of a SAS7BDAT file without decoding its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zerolog.Ctx(cmd.Context())

			f, err := sas7bdat.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			h := f.Header()
			log.Debug().
				Str("dataset", h.DatasetName).
				Str("encoding", h.Encoding.Name).
				Uint64("pages", h.PageCount).
				Uint64("rows", f.RowCount()).
				Msg("parsed metadata")

			for _, c := range f.Columns() {
				if showTypes {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.Name, c.Type)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTypes, "types", false, "print the decoded type of each column")
	return cmd
}
