package config

import (
	"os"

	"github.com/fan-control/fan-control/cmd/global"
	"github.com/fan-control/fan-control/internal/ui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates the current configuration",
	Long:  ``,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// note: config file path parameter comes from the root command (-c)
		if _, err := global.LoadConfiguration(); err != nil {
			ui.Error("Validation failed: %v", err)
			os.Exit(1)
		}

		ui.Success("Config looks good! :)")
	},
}

func init() {
	Command.AddCommand(validateCmd)
}
