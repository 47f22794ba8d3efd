package speed

import (
	"strconv"

	"github.com/fan-control/fan-control/cmd/global"
	"github.com/fan-control/fan-control/internal"
	"github.com/fan-control/fan-control/internal/ui"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <level>",
	Short: "Set the fan to a fixed speed level, kicking it if it was stopped",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}

		objects, err := global.LoadObjects()
		if err != nil {
			return err
		}

		if err = internal.ApplySpeed(objects, level); err != nil {
			return err
		}
		ui.Success("Set %s to level %d", objects.Fan.GetId(), level)
		return nil
	},
}

func init() {
	Command.AddCommand(setCmd)
}
