package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/fan-control/fan-control/cmd/global"
	"github.com/fan-control/fan-control/internal/hwmon"
	"github.com/fan-control/fan-control/internal/ui"
	"github.com/fan-control/fan-control/internal/util"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long: `Detects all hwmon temperature inputs and pwm outputs and prints them as a list.
Use the platform and index shown here for hwmon sensors and fans in the config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		controllers := hwmon.GetChips()
		if len(controllers) <= 0 {
			ui.Warning("No hwmon devices found")
			return nil
		}

		for _, controller := range controllers {
			ui.Printfln("> %s (platform: %s)", controller.Name, controller.Platform)

			var pwmRows [][]string
			for _, output := range controller.PwmOutputs {
				pwmText := "N/A"
				pwm, err := util.ReadIntFromFile(output.Path)
				if err == nil {
					pwmText = strconv.Itoa(pwm)
				}
				pwmRows = append(pwmRows, []string{
					"", strconv.Itoa(output.Index), filepath.Base(output.Path), pwmText,
				})
			}
			pwmTable := table.Table{
				Headers: []string{"Fans   ", "Index", "Output", "PWM"},
				Rows:    pwmRows,
			}

			var sensorRows [][]string
			for _, input := range controller.TempInputs {
				labelAndFile := fmt.Sprintf("%s (%s)", input.Label, filepath.Base(input.Path))
				sensorRows = append(sensorRows, []string{
					"", strconv.Itoa(input.Index), labelAndFile, fmt.Sprintf("%.1f", input.Value),
				})
			}
			sensorTable := table.Table{
				Headers: []string{"Sensors", "Index", "Label", "Value"},
				Rows:    sensorRows,
			}

			tables := []table.Table{pwmTable, sensorTable}
			for idx, tab := range tables {
				if tab.Rows == nil {
					continue
				}
				var buf bytes.Buffer
				if err := tab.WriteTable(&buf, global.TableConfig()); err != nil {
					return fmt.Errorf("error printing table: %w", err)
				}
				if idx < (len(tables) - 1) {
					ui.Printf("%s", buf.String())
				} else {
					ui.Printfln("%s", buf.String())
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
