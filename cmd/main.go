package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ngld/pvm-contract/pkg"
)

var rootCmd = &cobra.Command{
	Use:   "pvm-contract",
	Short: "Build tool for PolkaVM contracts",
	Long: `This command compiles no_std contract crates to PolkaVM bytecode and
scaffolds new contract projects from bundled templates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug messages")
}

// loggerContext builds the context that carries the console logger for
// the given invocation. Debug messages are only emitted with --verbose.
func loggerContext(cmd *cobra.Command) context.Context {
	logger := zerolog.New(NewConsoleWriter())

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil || !verbose {
		logger = logger.Level(zerolog.InfoLevel)
	}

	return pkg.WithLogger(context.Background(), &logger)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pkg.PrintError(err.Error())
		os.Exit(1)
	}
}
