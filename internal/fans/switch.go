package fans

import (
	"errors"
	"fmt"

	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/warthog618/gpiod"
)

const gpioConsumer = "fan-control"

// gpioLine is implemented by *gpiod.Line
type gpioLine interface {
	SetValue(value int) error
	Value() (int, error)
	Close() error
}

// SwitchFan turns a fan on and off with a gpio line. Every duty value
// above 0 switches the fan on.
type SwitchFan struct {
	Chip      string                  `json:"chip"`
	Line      int                     `json:"line"`
	ActiveLow bool                    `json:"activeLow"`
	Config    configuration.FanConfig `json:"config"`

	line        gpioLine
	requestLine func(chip string, offset int, activeLow bool) (gpioLine, error)
}

func requestGpioLine(chip string, offset int, activeLow bool) (gpioLine, error) {
	options := []gpiod.LineReqOption{
		gpiod.WithConsumer(gpioConsumer),
		gpiod.AsOutput(0),
	}
	if activeLow {
		options = append(options, gpiod.AsActiveLow)
	}
	line, err := gpiod.RequestLine(chip, offset, options...)
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (fan *SwitchFan) GetId() string {
	return fan.Config.ID
}

func (fan *SwitchFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

// Init requests the line as an output, initially switched off
func (fan *SwitchFan) Init() error {
	if fan.line != nil {
		return nil
	}
	line, err := fan.requestLine(fan.Chip, fan.Line, fan.ActiveLow)
	if err != nil {
		return fmt.Errorf("fan %s: unable to request line %d of %s: %w", fan.GetId(), fan.Line, fan.Chip, err)
	}
	fan.line = line
	return nil
}

// Restore releases the line
func (fan *SwitchFan) Restore() error {
	if fan.line == nil {
		return nil
	}
	err := fan.line.Close()
	fan.line = nil
	return err
}

// GetPwm returns 1 if the fan is switched on, 0 otherwise.
// The line has to be requested by Init first.
func (fan *SwitchFan) GetPwm() (int, error) {
	if fan.line == nil {
		return 0, errors.New("gpio line is not initialized")
	}
	return fan.line.Value()
}

func (fan *SwitchFan) SetPwm(pwm int) (err error) {
	if fan.line == nil {
		return fmt.Errorf("fan %s: gpio line %d is not initialized", fan.GetId(), fan.Line)
	}
	value := 0
	if pwm > 0 {
		value = 1
	}
	return fan.line.SetValue(value)
}

// Supports reports no features. The line value can only be read back
// while this process holds the line.
func (fan *SwitchFan) Supports(feature FeatureFlag) bool {
	return false
}
