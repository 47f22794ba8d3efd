package sensors

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/fan-control/fan-control/internal/util"
)

type CmdSensor struct {
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor CmdSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor CmdSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor CmdSensor) GetValue() (int, error) {
	exec := sensor.Config.Cmd.Exec
	args := sensor.Config.Cmd.Args
	result, err := util.SafeCmdExecution(context.Background(), exec, args, util.DefaultCmdTimeout)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
	}

	temp, err := strconv.ParseFloat(result, 64)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: unable to parse output of %s: %w", sensor.GetId(), exec, err)
	}

	return int(temp), nil
}
