package configuration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fan-control/fan-control/internal/util"
	"golang.org/x/exp/slices"
)

// Validate checks CurrentConfig. configPath may be empty if no config file is used.
func Validate(configPath string) error {
	return validateConfig(&CurrentConfig, configPath)
}

func validateConfig(config *Configuration, path string) error {
	if config.TickRate <= 0 {
		return fmt.Errorf("tickRate must be positive, was %v", config.TickRate)
	}
	if config.KickDelay < 0 {
		return fmt.Errorf("kickDelay must not be negative, was %v", config.KickDelay)
	}
	if config.TempRollingWindowSize <= 0 {
		return fmt.Errorf("tempRollingWindowSize must be >= 1, was %d", config.TempRollingWindowSize)
	}
	if len(strings.TrimSpace(config.PidFile)) <= 0 {
		return errors.New("pidFile must not be empty")
	}

	if _, _, err := BuildTempMap(config); err != nil {
		return err
	}

	if err := validateSensor(config); err != nil {
		return err
	}
	if err := validateFan(config); err != nil {
		return err
	}
	if err := validatePort("statistics", config.Statistics.Enabled, config.Statistics.Port); err != nil {
		return err
	}
	if err := validatePort("api", config.Api.Enabled, config.Api.Port); err != nil {
		return err
	}

	if usesCommands(config) && len(path) > 0 {
		if _, err := util.CheckFilePermissionsForExecution(path); err != nil {
			return fmt.Errorf("config file '%s' has invalid permissions: %s", path, err)
		}
	}

	return nil
}

func usesCommands(config *Configuration) bool {
	return config.Sensor.Cmd != nil || config.Fan.Cmd != nil
}

func validateSensor(config *Configuration) error {
	sensorConfig := config.Sensor

	subConfigs := sensorConfig.subConfigCount()
	if subConfigs > 1 {
		return fmt.Errorf("sensor %s: only one sensor type can be used", sensorConfig.ID)
	}
	if subConfigs <= 0 {
		return fmt.Errorf("sensor %s: sub-configuration for sensor is missing, use one of: thermal | hwmon | file | cmd", sensorConfig.ID)
	}

	if sensorConfig.Thermal != nil && sensorConfig.Thermal.Zone < 0 {
		return fmt.Errorf("sensor %s: invalid thermal zone, must be >= 0", sensorConfig.ID)
	}

	if sensorConfig.HwMon != nil {
		hwmonConfig := sensorConfig.HwMon
		if len(hwmonConfig.TempInput) <= 0 {
			if len(hwmonConfig.Platform) <= 0 {
				return fmt.Errorf("sensor %s: hwmon requires either a tempInput path or a platform", sensorConfig.ID)
			}
			if hwmonConfig.Index <= 0 {
				return fmt.Errorf("sensor %s: invalid index, must be >= 1", sensorConfig.ID)
			}
		}
	}

	if sensorConfig.File != nil && len(sensorConfig.File.Path) <= 0 {
		return fmt.Errorf("sensor %s: no file path provided", sensorConfig.ID)
	}

	if sensorConfig.Cmd != nil && len(sensorConfig.Cmd.Exec) <= 0 {
		return fmt.Errorf("sensor %s: executable is missing", sensorConfig.ID)
	}

	return nil
}

func validateFan(config *Configuration) error {
	fanConfig := config.Fan

	subConfigs := fanConfig.subConfigCount()
	if subConfigs > 1 {
		return fmt.Errorf("fan %s: only one fan type can be used", fanConfig.ID)
	}
	if subConfigs <= 0 {
		return fmt.Errorf("fan %s: sub-configuration for fan is missing, use one of: pwmchip | hwmon | gpio | switch | file | cmd", fanConfig.ID)
	}

	if fanConfig.PwmChip != nil {
		pwmChipConfig := fanConfig.PwmChip
		if len(pwmChipConfig.Chip) <= 0 {
			return fmt.Errorf("fan %s: pwm chip path is missing", fanConfig.ID)
		}
		if pwmChipConfig.Channel < 0 {
			return fmt.Errorf("fan %s: invalid channel, must be >= 0", fanConfig.ID)
		}
		if pwmChipConfig.Period < 0 {
			return fmt.Errorf("fan %s: period must not be negative", fanConfig.ID)
		}
		supportedPolarities := []string{"", PwmPolarityNormal, PwmPolarityInverse}
		if !slices.Contains(supportedPolarities, pwmChipConfig.Polarity) {
			return fmt.Errorf("fan %s: unsupported polarity '%s', use one of: %s", fanConfig.ID, pwmChipConfig.Polarity, strings.Join(supportedPolarities[1:], " | "))
		}
	}

	if fanConfig.HwMon != nil {
		hwmonConfig := fanConfig.HwMon
		if len(hwmonConfig.PwmOutput) <= 0 {
			if len(hwmonConfig.Platform) <= 0 {
				return fmt.Errorf("fan %s: hwmon requires either a pwmOutput path or a platform", fanConfig.ID)
			}
			if hwmonConfig.Index <= 0 {
				return fmt.Errorf("fan %s: invalid index, must be >= 1", fanConfig.ID)
			}
		}
	}

	if fanConfig.Gpio != nil {
		gpioConfig := fanConfig.Gpio
		if gpioConfig.Pin != 0 && !slices.Contains(gpioPwmPins, gpioConfig.Pin) {
			return fmt.Errorf("fan %s: pin %d does not support hardware pwm, use one of: %v", fanConfig.ID, gpioConfig.Pin, gpioPwmPins)
		}
		if gpioConfig.Clock < 0 {
			return fmt.Errorf("fan %s: clock must not be negative", fanConfig.ID)
		}
	}

	if fanConfig.Switch != nil && fanConfig.Switch.Line < 0 {
		return fmt.Errorf("fan %s: invalid line, must be >= 0", fanConfig.ID)
	}

	if fanConfig.File != nil && len(fanConfig.File.Path) <= 0 {
		return fmt.Errorf("fan %s: no file path provided", fanConfig.ID)
	}

	if fanConfig.Cmd != nil {
		cmdConfig := fanConfig.Cmd
		if cmdConfig.SetPwm == nil {
			return fmt.Errorf("fan %s: missing setPwm configuration", fanConfig.ID)
		}
		if len(cmdConfig.SetPwm.Exec) <= 0 {
			return fmt.Errorf("fan %s: setPwm executable is missing", fanConfig.ID)
		}
		if cmdConfig.GetPwm != nil && len(cmdConfig.GetPwm.Exec) <= 0 {
			return fmt.Errorf("fan %s: getPwm executable is missing", fanConfig.ID)
		}
	}

	return nil
}

var gpioPwmPins = []int{12, 13, 18, 19}

func validatePort(name string, enabled bool, port int) error {
	if !enabled {
		return nil
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s: invalid port %d", name, port)
	}
	return nil
}
