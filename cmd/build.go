package cmd

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ngld/pvm-contract/pkg"
	"github.com/ngld/pvm-contract/pkg/manifest"
	"github.com/ngld/pvm-contract/pkg/pvm"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the current contract project to PolkaVM bytecode",
	Long: `Compiles the nearest Cargo project (searched upwards from the current
directory) for the PolkaVM RISC-V target and links the resulting ELF
binary into a .polkavm bytecode file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		binName, err := cmd.Flags().GetString("bin-name")
		if err != nil {
			return err
		}

		outputPath, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		ctx := loggerContext(cmd)
		logger := pkg.Log(ctx)

		wd, err := os.Getwd()
		if err != nil {
			return eris.Wrap(err, "Failed to retrieve the current working directory")
		}

		manifestPath, err := manifest.Find(wd)
		if err != nil {
			return err
		}
		if manifestPath == "" {
			return eris.New("Could not find Cargo.toml in the current directory or any parent directory")
		}
		logger.Debug().Msgf("Found Cargo.toml at %s", manifestPath)

		binName, err = manifest.SelectBinary(manifestPath, binName)
		if err != nil {
			return err
		}
		logger.Debug().Msgf("Building binary %s", binName)

		pkg.PrintTask("Compiling RISC-V ELF binary")
		elfPath, err := pvm.BuildELF(ctx, manifestPath, binName)
		if err != nil {
			return err
		}

		if outputPath == "" {
			outputPath = "./" + binName + ".polkavm"
		}

		pkg.PrintTask("Linking PolkaVM bytecode")
		err = pvm.LinkToPolkaVM(ctx, elfPath, outputPath)
		if err != nil {
			return err
		}

		pkg.PrintTask(fmt.Sprintf("Successfully built contract: %s", outputPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("bin-name", "b", "", "Name of the binary to build (defaults to the first [[bin]] entry in Cargo.toml)")
	buildCmd.Flags().StringP("output", "o", "", "Output path for the PolkaVM bytecode (defaults to ./<bin-name>.polkavm)")
}
