package fans

import (
	"errors"
	"testing"

	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/stianeikeland/go-rpio/v4"
	"github.com/stretchr/testify/assert"
)

type dutyCycle struct {
	duty  uint32
	cycle uint32
}

type MockPwmPin struct {
	mode   rpio.Mode
	freq   int
	duties []dutyCycle
}

func (p *MockPwmPin) Mode(mode rpio.Mode) {
	p.mode = mode
}

func (p *MockPwmPin) Freq(freq int) {
	p.freq = freq
}

func (p *MockPwmPin) DutyCycle(dutyLen, cycleLen uint32) {
	p.duties = append(p.duties, dutyCycle{duty: dutyLen, cycle: cycleLen})
}

func createGpioFan(t *testing.T, config configuration.FanConfig) (*GpioFan, *MockPwmPin, *int) {
	fan, err := NewFan(config, 1024)
	assert.NoError(t, err)
	gpioFan := fan.(*GpioFan)

	pin := &MockPwmPin{}
	closed := 0
	gpioFan.pin = pin
	gpioFan.open = func() error { return nil }
	gpioFan.close = func() error {
		closed++
		return nil
	}
	return gpioFan, pin, &closed
}

func TestNewFan_GpioDefaults(t *testing.T) {
	// WHEN
	fan, err := NewFan(configuration.FanConfig{
		ID:   "fan",
		Gpio: &configuration.GpioFanConfig{},
	}, 1024)

	// THEN
	assert.NoError(t, err)
	gpioFan := fan.(*GpioFan)
	assert.Equal(t, configuration.DefaultGpioPwmPin, gpioFan.Pin)
	assert.Equal(t, configuration.DefaultGpioPwmClock, gpioFan.Clock)
	assert.Equal(t, 1024, gpioFan.CycleLength)
	assert.False(t, gpioFan.Supports(FeaturePwmSensor))
}

func TestGpioFan_Init(t *testing.T) {
	// GIVEN
	fan, pin, _ := createGpioFan(t, configuration.FanConfig{
		ID:   "fan",
		Gpio: &configuration.GpioFanConfig{Pin: 12, Clock: 19200},
	})

	// WHEN
	err := fan.Init()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, rpio.Pwm, pin.mode)
	assert.Equal(t, 19200, pin.freq)
	assert.Equal(t, []dutyCycle{{duty: 0, cycle: 1024}}, pin.duties)
}

func TestGpioFan_InitFailsWithoutGpioMemory(t *testing.T) {
	// GIVEN
	fan, pin, _ := createGpioFan(t, configuration.FanConfig{
		ID:   "fan",
		Gpio: &configuration.GpioFanConfig{},
	})
	openErr := errors.New("permission denied")
	fan.open = func() error { return openErr }

	// WHEN
	err := fan.Init()

	// THEN
	assert.ErrorIs(t, err, openErr)
	assert.Empty(t, pin.duties)
}

func TestGpioFan_SetPwm(t *testing.T) {
	// GIVEN
	fan, pin, _ := createGpioFan(t, configuration.FanConfig{
		ID:   "fan",
		Gpio: &configuration.GpioFanConfig{},
	})
	assert.NoError(t, fan.Init())

	// WHEN
	err := fan.SetPwm(900)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, dutyCycle{duty: 900, cycle: 1024}, pin.duties[len(pin.duties)-1])
}

func TestGpioFan_SetPwmOutOfRange(t *testing.T) {
	// GIVEN
	fan, pin, _ := createGpioFan(t, configuration.FanConfig{
		ID:   "fan",
		Gpio: &configuration.GpioFanConfig{},
	})
	assert.NoError(t, fan.Init())

	// WHEN
	err := fan.SetPwm(2048)

	// THEN
	assert.EqualError(t, err, "fan fan: duty cycle 2048 not in [0, 1024]")
	assert.Len(t, pin.duties, 1)
}

func TestGpioFan_SetPwmWithoutInit(t *testing.T) {
	// GIVEN
	fan, pin, _ := createGpioFan(t, configuration.FanConfig{
		ID:   "fan",
		Gpio: &configuration.GpioFanConfig{},
	})

	// WHEN
	err := fan.SetPwm(900)

	// THEN
	assert.EqualError(t, err, "fan fan: gpio pin 18 is not initialized")
	assert.Empty(t, pin.duties)
}

func TestGpioFan_Restore(t *testing.T) {
	// GIVEN
	fan, _, closed := createGpioFan(t, configuration.FanConfig{
		ID:   "fan",
		Gpio: &configuration.GpioFanConfig{},
	})
	assert.NoError(t, fan.Init())

	// WHEN
	err := fan.Restore()
	err2 := fan.Restore()

	// THEN
	assert.NoError(t, err)
	assert.NoError(t, err2)
	assert.Equal(t, 1, *closed)
	assert.Error(t, fan.SetPwm(0))
}
