package sensors

import (
	"fmt"

	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/fan-control/fan-control/internal/util"
)

// ThermalSensor reads a kernel thermal zone, e.g. /sys/class/thermal/thermal_zone0/temp
type ThermalSensor struct {
	Path   string                     `json:"path"`
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor ThermalSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor ThermalSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor ThermalSensor) GetValue() (int, error) {
	value, err := util.ReadIntFromFile(sensor.Path)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %w", sensor.GetId(), err)
	}
	return value, nil
}
