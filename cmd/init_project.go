package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ngld/pvm-contract/pkg"
	"github.com/ngld/pvm-contract/pkg/template"
)

var initCmd = &cobra.Command{
	Use:   "init contract_name",
	Short: "Initializes a new contract project from a template",
	Long: `Creates a new directory named after the contract in the current
directory and fills it with the chosen project template. The generated
Cargo.toml uses the contract name as the package name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return eris.New("Expected exactly 1 argument!")
		}
		name := args[0]

		templateName, err := cmd.Flags().GetString("template")
		if err != nil {
			return err
		}

		ctx := loggerContext(cmd)
		pkg.Log(ctx).Debug().Msgf("Initializing contract project %s with template %s", name, templateName)

		wd, err := os.Getwd()
		if err != nil {
			return eris.Wrap(err, "Failed to retrieve the current working directory")
		}

		targetDir := filepath.Join(wd, name)
		err = template.Materialize(ctx, templateName, targetDir, name)
		if err != nil {
			return err
		}

		pkg.PrintTask(fmt.Sprintf("Successfully initialized contract project: %s", targetDir))
		fmt.Println("\nNext steps:")
		pkg.PrintSubtask(fmt.Sprintf("cd %s", name))
		pkg.PrintSubtask("pvm-contract build")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("template", "t", "pico-alloc", "Template to use")
}
