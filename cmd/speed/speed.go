package speed

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "speed",
	Short: "Get or set the speed level of the configured fan",
	Long:  ``,
}
