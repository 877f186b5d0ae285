// Package cli wires the lophi command tree.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the lophi command with its subcommands.
func NewRootCommand() *cobra.Command {
	var verbose, quiet bool

	root := &cobra.Command{
		Use:           "lophi",
		Short:         "Inspect, convert and reduce SAS7BDAT datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			switch {
			case quiet:
				level = zerolog.ErrorLevel
			case verbose:
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()
			cmd.SetContext(log.Logger.WithContext(cmd.Context()))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log errors only")

	root.AddCommand(newColumnsCommand())
	root.AddCommand(newConvertCommand())
	root.AddCommand(newReduceCommand())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
