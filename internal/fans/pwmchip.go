package fans

import (
	"errors"
	"fmt"
	"path/filepath"
	"syscall"

	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/fan-control/fan-control/internal/ui"
	"github.com/fan-control/fan-control/internal/util"
)

// PwmChipFan drives one channel of a sysfs PWM chip.
// Duty values are written to <chip>/pwm<channel>/duty_cycle in nanoseconds.
type PwmChipFan struct {
	Chip     string                  `json:"chip"`
	Channel  int                     `json:"channel"`
	Period   int                     `json:"period"`
	Polarity string                  `json:"polarity"`
	Config   configuration.FanConfig `json:"config"`
}

func (fan *PwmChipFan) GetId() string {
	return fan.Config.ID
}

func (fan *PwmChipFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *PwmChipFan) channelPath() string {
	return filepath.Join(fan.Chip, fmt.Sprintf("pwm%d", fan.Channel))
}

func (fan *PwmChipFan) attributePath(name string) string {
	return filepath.Join(fan.channelPath(), name)
}

// Init exports the channel and configures period, polarity and enable.
func (fan *PwmChipFan) Init() error {
	err := util.WriteIntToFile(fan.Channel, filepath.Join(fan.Chip, "export"))
	if err != nil && !errors.Is(err, syscall.EBUSY) {
		return fmt.Errorf("fan %s: unable to export pwm channel %d: %w", fan.GetId(), fan.Channel, err)
	}

	// a fresh channel has a period of 0, so any duty but 0 would be rejected
	err = util.WriteIntToFile(0, fan.attributePath("duty_cycle"))
	if err != nil && !errors.Is(err, syscall.EINVAL) {
		return fmt.Errorf("fan %s: unable to reset duty cycle: %w", fan.GetId(), err)
	}

	err = util.WriteIntToFile(fan.Period, fan.attributePath("period"))
	if err != nil {
		return fmt.Errorf("fan %s: unable to set period: %w", fan.GetId(), err)
	}

	err = util.WriteStringToFile(fan.Polarity, fan.attributePath("polarity"))
	if err != nil {
		return fmt.Errorf("fan %s: unable to set polarity: %w", fan.GetId(), err)
	}

	err = util.WriteIntToFile(1, fan.attributePath("enable"))
	if err != nil {
		return fmt.Errorf("fan %s: unable to enable pwm channel: %w", fan.GetId(), err)
	}

	ui.Debug("Initialized %s (period: %d, polarity: %s)", fan.channelPath(), fan.Period, fan.Polarity)
	return nil
}

// Restore leaves the channel exported and running at its last duty cycle
func (fan *PwmChipFan) Restore() error {
	return nil
}

func (fan *PwmChipFan) GetPwm() (int, error) {
	return util.ReadIntFromFile(fan.attributePath("duty_cycle"))
}

func (fan *PwmChipFan) SetPwm(pwm int) (err error) {
	if pwm > fan.Period {
		return fmt.Errorf("fan %s: duty cycle %d exceeds period %d", fan.GetId(), pwm, fan.Period)
	}
	return util.WriteIntToFile(pwm, fan.attributePath("duty_cycle"))
}

func (fan *PwmChipFan) Supports(feature FeatureFlag) bool {
	switch feature {
	case FeaturePwmSensor:
		return true
	case FeatureControlMode:
		return false
	}
	return false
}
