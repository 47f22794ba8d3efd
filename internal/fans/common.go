package fans

import (
	"fmt"

	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/stianeikeland/go-rpio/v4"
)

type FeatureFlag int

const (
	// FeaturePwmSensor indicates that the current duty value can be read back
	FeaturePwmSensor FeatureFlag = 0
	// FeatureControlMode indicates that the output has to be switched to manual control
	FeatureControlMode FeatureFlag = 1
)

type ControlMode int

const (
	// ControlModeDisabled completely disables control, resulting in a 100% voltage/PWM signal output
	ControlModeDisabled ControlMode = 0
	// ControlModePWM enables manual, fixed speed control via setting the pwm value
	ControlModePWM ControlMode = 1
	// ControlModeAutomatic enables automatic control by the integrated control of the mainboard
	ControlModeAutomatic ControlMode = 2
)

// Fan is a pwm output. SetPwm takes the raw duty value of a speed level.
type Fan interface {
	GetId() string

	GetConfig() configuration.FanConfig

	// Init prepares the output to accept SetPwm calls
	Init() error
	// Restore hands the output back to its previous owner, if any
	Restore() error

	// GetPwm returns the current duty value of this fan
	GetPwm() (int, error)
	SetPwm(pwm int) (err error)

	Supports(feature FeatureFlag) bool
}

// NewFan creates the fan described by config. maxDuty is the duty value of the
// highest speed level.
func NewFan(config configuration.FanConfig, maxDuty int) (Fan, error) {
	if config.PwmChip != nil {
		period := config.PwmChip.Period
		if period <= 0 {
			period = maxDuty
		}
		polarity := config.PwmChip.Polarity
		if len(polarity) <= 0 {
			polarity = configuration.PwmPolarityNormal
		}
		return &PwmChipFan{
			Chip:     config.PwmChip.Chip,
			Channel:  config.PwmChip.Channel,
			Period:   period,
			Polarity: polarity,
			Config:   config,
		}, nil
	}

	if config.HwMon != nil {
		if len(config.HwMon.PwmOutput) <= 0 {
			return nil, fmt.Errorf("hwmon fan %s: pwm output path is not resolved", config.ID)
		}
		return &HwMonFan{
			Index:              config.HwMon.Index,
			PwmOutput:          config.HwMon.PwmOutput,
			Config:             config,
			OriginalPwmEnabled: -1,
		}, nil
	}

	if config.Gpio != nil {
		pin := config.Gpio.Pin
		if pin <= 0 {
			pin = configuration.DefaultGpioPwmPin
		}
		clock := config.Gpio.Clock
		if clock <= 0 {
			clock = configuration.DefaultGpioPwmClock
		}
		return &GpioFan{
			Pin:         pin,
			Clock:       clock,
			CycleLength: maxDuty,
			Config:      config,
			pin:         rpio.Pin(pin),
			open:        rpio.Open,
			close:       rpio.Close,
		}, nil
	}

	if config.Switch != nil {
		chip := config.Switch.Chip
		if len(chip) <= 0 {
			chip = configuration.DefaultGpioChip
		}
		return &SwitchFan{
			Chip:        chip,
			Line:        config.Switch.Line,
			ActiveLow:   config.Switch.ActiveLow,
			Config:      config,
			requestLine: requestGpioLine,
		}, nil
	}

	if config.File != nil {
		return &FileFan{
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdFan{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching fan type for fan: %s", config.ID)
}
