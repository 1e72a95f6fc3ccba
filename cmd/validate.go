package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ryan-gang/kindle-sendto/internal/cmdutil"
	"github.com/ryan-gang/kindle-sendto/internal/util"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate INSTALL_ID",
	Short: "Check an install id against the validation service",
	Long: `Ask the configured validation service whether an install may use send to
device. With validation disabled every install is accepted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := cmdutil.LoadConfigOrExit(cmd)
		if c == nil {
			os.Exit(1)
		}
		svc, err := cmdutil.NewServices(c)
		if err != nil {
			util.LogError(util.ValidationError, "creating logger", err)
			os.Exit(1)
		}
		defer svc.Close()

		if !svc.Config.IsValidationEnabled() {
			util.Magenta.Println("Validation is disabled, every install is accepted")
		}
		if svc.Validator.Validate(context.Background(), args[0]) {
			util.GreenBold.Printf("%s is valid\n", args[0])
			return
		}
		util.RedBold.Printf("%s is not valid\n", args[0])
		os.Exit(1)
	},
}
