package sensors

import (
	"fmt"

	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/fan-control/fan-control/internal/util"
)

type HwmonSensor struct {
	Name   string                     `json:"name"`
	Label  string                     `json:"label"`
	Index  int                        `json:"index"`
	Input  string                     `json:"input"`
	Max    int                        `json:"max"`
	Min    int                        `json:"min"`
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor HwmonSensor) GetId() string {
	if len(sensor.Config.ID) > 0 {
		return sensor.Config.ID
	}
	return sensor.Name
}

func (sensor HwmonSensor) GetLabel() string {
	return sensor.Label
}

func (sensor HwmonSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor HwmonSensor) GetValue() (int, error) {
	value, err := util.ReadIntFromFile(sensor.Input)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
	}
	return value, nil
}
