package sensor

import (
	"fmt"

	"github.com/fan-control/fan-control/cmd/global"
	"github.com/fan-control/fan-control/internal/sensors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var raw bool

var Command = &cobra.Command{
	Use:   "sensor",
	Short: "Print the current temperature of the configured sensor in °C",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		objects, err := global.LoadObjects()
		if err != nil {
			return err
		}

		value, err := objects.Sensor.GetValue()
		if err != nil {
			return err
		}

		if raw {
			fmt.Printf("%d\n", value)
		} else {
			fmt.Printf("%d\n", sensors.ToCelsius(value))
		}
		return nil
	},
}

func init() {
	Command.Flags().BoolVarP(&raw, "raw", "r", false, "Print the raw value in millidegrees")
}
