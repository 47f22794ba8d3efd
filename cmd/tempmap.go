package cmd

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/fan-control/fan-control/cmd/global"
	"github.com/fan-control/fan-control/internal/policy"
	"github.com/fan-control/fan-control/internal/ui"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

// margin in °C shown below the first and above the last threshold
const tempMapGraphMargin = 5

var tempMapCmd = &cobra.Command{
	Use:   "tempmap",
	Short: "Print the temperature map",
	Long:  `Prints the configured temperature map as a table and the resulting speed level per temperature as a graph.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		objects, err := global.LoadObjects()
		if err != nil {
			return err
		}

		entries := objects.Policy.Entries()
		levels := objects.Driver.Levels()

		var rows [][]string
		for _, entry := range entries {
			rows = append(rows, []string{
				fmt.Sprintf("> %d°C", entry.Threshold),
				strconv.Itoa(entry.Speed),
				strconv.Itoa(levels[entry.Speed]),
				strconv.Itoa(entry.HoldTicks),
			})
		}
		tab := table.Table{
			Headers: []string{"Temperature", "Level", "Duty", "Hold"},
			Rows:    rows,
		}

		var buf bytes.Buffer
		if err = tab.WriteTable(&buf, global.TableConfig()); err != nil {
			return fmt.Errorf("error printing table: %w", err)
		}
		ui.Printfln("%s", buf.String())

		from, values := levelsByTemperature(objects.Policy)
		caption := fmt.Sprintf("speed level from %d°C to %d°C", from, from+len(values)-1)
		graph := asciigraph.Plot(values, asciigraph.Height(len(levels)), asciigraph.Width(2*len(values)), asciigraph.Caption(caption))
		ui.Printfln("%s", graph)
		return nil
	},
}

// levelsByTemperature evaluates the level a fresh policy picks for every
// temperature around the configured thresholds, i.e. without hysteresis
func levelsByTemperature(speedPolicy *policy.SpeedPolicy) (from int, values []float64) {
	entries := speedPolicy.Entries()
	from = entries[0].Threshold - tempMapGraphMargin
	to := entries[len(entries)-1].Threshold + tempMapGraphMargin

	for temperature := from; temperature <= to; temperature++ {
		speedPolicy.Reset()
		values = append(values, float64(speedPolicy.Decide(temperature)))
	}
	speedPolicy.Reset()
	return from, values
}

func init() {
	rootCmd.AddCommand(tempMapCmd)
}
