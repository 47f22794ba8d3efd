package sensors

import (
	"fmt"

	"github.com/fan-control/fan-control/internal/configuration"
)

// Sensor is a source of temperature readings.
type Sensor interface {
	GetId() string

	GetConfig() configuration.SensorConfig

	// GetValue returns the current temperature in millidegrees Celsius
	GetValue() (int, error)
}

// ToCelsius converts a raw reading in millidegrees to whole degrees Celsius
func ToCelsius(millidegrees int) int {
	return millidegrees / 1000
}

func NewSensor(config configuration.SensorConfig) (Sensor, error) {
	if config.Thermal != nil {
		return &ThermalSensor{
			Path:   config.Thermal.TempPath(),
			Config: config,
		}, nil
	}

	if config.HwMon != nil {
		if len(config.HwMon.TempInput) <= 0 {
			return nil, fmt.Errorf("hwmon sensor %s: temp input path is not resolved", config.ID)
		}
		return &HwmonSensor{
			Index:  config.HwMon.Index,
			Input:  config.HwMon.TempInput,
			Config: config,
		}, nil
	}

	if config.File != nil {
		return &FileSensor{
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdSensor{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching sensor type for sensor: %s", config.ID)
}
