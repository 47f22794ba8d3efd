package internal

import (
	"fmt"

	"github.com/fan-control/fan-control/internal/actuator"
	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/fan-control/fan-control/internal/fans"
	"github.com/fan-control/fan-control/internal/hwmon"
	"github.com/fan-control/fan-control/internal/policy"
	"github.com/fan-control/fan-control/internal/sensors"
	"github.com/fan-control/fan-control/internal/ui"
)

// Objects are the components built from a configuration
type Objects struct {
	Sensor sensors.Sensor
	Fan    fans.Fan
	Policy *policy.SpeedPolicy
	Driver *actuator.Driver
}

// InitializeObjects builds sensor, fan, policy and driver from config.
// hwmon paths given by platform and index are resolved in place.
// No hardware is written to.
func InitializeObjects(config *configuration.Configuration) (*Objects, error) {
	entries, levels, err := configuration.BuildTempMap(config)
	if err != nil {
		return nil, err
	}

	if err = resolveHwMonPaths(config); err != nil {
		return nil, err
	}

	sensor, err := sensors.NewSensor(config.Sensor)
	if err != nil {
		return nil, fmt.Errorf("unable to process sensor configuration: %w", err)
	}

	fan, err := fans.NewFan(config.Fan, levels[len(levels)-1])
	if err != nil {
		return nil, fmt.Errorf("unable to process fan configuration: %w", err)
	}

	speedPolicy, err := policy.NewSpeedPolicy(entries, len(levels))
	if err != nil {
		return nil, fmt.Errorf("tempMap: %w", err)
	}

	driver, err := actuator.NewDriver(fan, levels, config.KickDelay)
	if err != nil {
		return nil, err
	}

	return &Objects{
		Sensor: sensor,
		Fan:    fan,
		Policy: speedPolicy,
		Driver: driver,
	}, nil
}

func resolveHwMonPaths(config *configuration.Configuration) error {
	sensorNeedsResolve := config.Sensor.HwMon != nil && len(config.Sensor.HwMon.TempInput) <= 0
	fanNeedsResolve := config.Fan.HwMon != nil && len(config.Fan.HwMon.PwmOutput) <= 0
	if !sensorNeedsResolve && !fanNeedsResolve {
		return nil
	}

	controllers := hwmon.GetChips()
	if err := hwmon.UpdateSensorConfigFromHwMonControllers(controllers, &config.Sensor); err != nil {
		return fmt.Errorf("%w. Run 'fan-control detect' and correct the platform or index", err)
	}
	if err := hwmon.UpdateFanConfigFromHwMonControllers(controllers, &config.Fan); err != nil {
		return fmt.Errorf("%w. Run 'fan-control detect' and correct the platform or index", err)
	}

	ui.Debug("Resolved hwmon sensor input: %v, fan output: %v", config.Sensor.HwMon, config.Fan.HwMon)
	return nil
}

// ApplySpeed validates speed, prepares the fan and drives it to the given level once.
func ApplySpeed(objects *Objects, speed int) error {
	levelCount := len(objects.Driver.Levels())
	if speed < 0 || speed >= levelCount {
		return fmt.Errorf("%d not in [0, %d]: %w", speed, levelCount-1, actuator.ErrInvalidSpeed)
	}

	if err := objects.Fan.Init(); err != nil {
		return err
	}
	return objects.Driver.Apply(speed)
}
