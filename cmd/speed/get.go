package speed

import (
	"fmt"

	"github.com/fan-control/fan-control/cmd/global"
	"github.com/fan-control/fan-control/internal/fans"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current speed level and duty value of the fan",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		objects, err := global.LoadObjects()
		if err != nil {
			return err
		}

		fan := objects.Fan
		if !fan.Supports(fans.FeaturePwmSensor) {
			return fmt.Errorf("fan %s does not support reading its duty value", fan.GetId())
		}

		duty, err := fan.GetPwm()
		if err != nil {
			return err
		}

		level := slices.Index(objects.Driver.Levels(), duty)
		if level < 0 {
			fmt.Printf("unknown (duty: %d)\n", duty)
		} else {
			fmt.Printf("%d (duty: %d)\n", level, duty)
		}
		return nil
	},
}

func init() {
	Command.AddCommand(getCmd)
}
