package fans

import (
	"fmt"

	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/fan-control/fan-control/internal/ui"
	"github.com/fan-control/fan-control/internal/util"
)

// HwMonFan drives a hwmon pwm output, e.g. /sys/class/hwmon/hwmon0/pwm1
type HwMonFan struct {
	Label              string                  `json:"label"`
	Index              int                     `json:"index"`
	PwmOutput          string                  `json:"pwmOutput"`
	Config             configuration.FanConfig `json:"config"`
	OriginalPwmEnabled int                     `json:"originalPwmEnabled"`
}

func (fan *HwMonFan) GetId() string {
	return fan.Config.ID
}

func (fan *HwMonFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

// Init remembers the current control mode and switches to manual control
func (fan *HwMonFan) Init() error {
	pwmEnabled, err := fan.GetPwmEnabled()
	if err != nil {
		ui.Warning("Cannot read pwm_enable value of %s", fan.GetId())
	} else {
		fan.OriginalPwmEnabled = pwmEnabled
	}

	err = fan.SetPwmEnabled(ControlModePWM)
	if err != nil {
		ui.Warning("Could not enable fan control on %s, trying to continue anyway...", fan.GetId())
	}
	return nil
}

// Restore hands control back to the mode found on Init
func (fan *HwMonFan) Restore() error {
	if fan.OriginalPwmEnabled < 0 || fan.OriginalPwmEnabled == int(ControlModePWM) {
		return nil
	}
	return fan.SetPwmEnabled(ControlMode(fan.OriginalPwmEnabled))
}

func (fan *HwMonFan) GetPwm() (int, error) {
	return util.ReadIntFromFile(fan.PwmOutput)
}

func (fan *HwMonFan) SetPwm(pwm int) (err error) {
	return util.WriteIntToFile(pwm, fan.PwmOutput)
}

func (fan *HwMonFan) GetPwmEnabled() (int, error) {
	pwmEnabledFilePath := fan.PwmOutput + "_enable"
	return util.ReadIntFromFile(pwmEnabledFilePath)
}

// SetPwmEnabled writes the given value to pwmX_enable
// Possible values (unsure if these are true for all scenarios):
// 0 - no control (results in max speed)
// 1 - manual pwm control
// 2 - motherboard pwm control
func (fan *HwMonFan) SetPwmEnabled(value ControlMode) (err error) {
	pwmEnabledFilePath := fan.PwmOutput + "_enable"
	err = util.WriteIntToFile(int(value), pwmEnabledFilePath)
	if err == nil {
		currentValue, err := util.ReadIntFromFile(pwmEnabledFilePath)
		if err != nil || currentValue != int(value) {
			return fmt.Errorf("PWM mode stuck to %d", currentValue)
		}
	}
	return err
}

func (fan *HwMonFan) Supports(feature FeatureFlag) bool {
	switch feature {
	case FeaturePwmSensor:
		return true
	case FeatureControlMode:
		return true
	}
	return false
}
