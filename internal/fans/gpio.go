package fans

import (
	"errors"
	"fmt"

	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/fan-control/fan-control/internal/ui"
	"github.com/stianeikeland/go-rpio/v4"
)

// pwmPin is implemented by rpio.Pin
type pwmPin interface {
	Mode(mode rpio.Mode)
	Freq(freq int)
	DutyCycle(dutyLen, cycleLen uint32)
}

// GpioFan uses the hardware pwm of a Raspberry Pi gpio pin.
// The pwm registers can not be read back, so GetPwm is not supported.
type GpioFan struct {
	Pin         int                     `json:"pin"`
	Clock       int                     `json:"clock"`
	CycleLength int                     `json:"cycleLength"`
	Config      configuration.FanConfig `json:"config"`

	pin    pwmPin
	open   func() error
	close  func() error
	opened bool
}

func (fan *GpioFan) GetId() string {
	return fan.Config.ID
}

func (fan *GpioFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

// Init maps the gpio registers and switches the pin to pwm mode with a duty cycle of 0
func (fan *GpioFan) Init() error {
	if !fan.opened {
		if err := fan.open(); err != nil {
			return fmt.Errorf("fan %s: unable to access gpio memory: %w", fan.GetId(), err)
		}
		fan.opened = true
	}

	fan.pin.Mode(rpio.Pwm)
	fan.pin.Freq(fan.Clock)
	fan.pin.DutyCycle(0, uint32(fan.CycleLength))

	ui.Debug("Initialized gpio pin %d (clock: %dHz, cycle length: %d)", fan.Pin, fan.Clock, fan.CycleLength)
	return nil
}

// Restore unmaps the gpio registers, the pin keeps its last duty cycle
func (fan *GpioFan) Restore() error {
	if !fan.opened {
		return nil
	}
	fan.opened = false
	return fan.close()
}

func (fan *GpioFan) GetPwm() (int, error) {
	return 0, errors.New("reading the pwm value is not supported")
}

func (fan *GpioFan) SetPwm(pwm int) (err error) {
	if !fan.opened {
		return fmt.Errorf("fan %s: gpio pin %d is not initialized", fan.GetId(), fan.Pin)
	}
	if pwm < 0 || pwm > fan.CycleLength {
		return fmt.Errorf("fan %s: duty cycle %d not in [0, %d]", fan.GetId(), pwm, fan.CycleLength)
	}
	fan.pin.DutyCycle(uint32(pwm), uint32(fan.CycleLength))
	return nil
}

func (fan *GpioFan) Supports(feature FeatureFlag) bool {
	return false
}
