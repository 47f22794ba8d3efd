package fans

import (
	"os/exec"
	"testing"

	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/stretchr/testify/assert"
)

func getEchoPath() string {
	// unlikely to fail
	p, _ := exec.LookPath("echo")
	return p
}

func TestCmdFan_SetPwm(t *testing.T) {
	// GIVEN
	fan, err := NewFan(configuration.FanConfig{
		ID: "cmd",
		Cmd: &configuration.CmdFanConfig{
			SetPwm: &configuration.ExecConfig{Exec: getEchoPath(), Args: []string{"%pwm%"}},
		},
	}, 255)
	assert.NoError(t, err)

	// WHEN
	err = fan.SetPwm(100)

	// THEN
	assert.NoError(t, err)
}

func TestCmdFan_GetPwm(t *testing.T) {
	// GIVEN
	fan, _ := NewFan(configuration.FanConfig{
		ID: "cmd",
		Cmd: &configuration.CmdFanConfig{
			SetPwm: &configuration.ExecConfig{Exec: getEchoPath()},
			GetPwm: &configuration.ExecConfig{Exec: getEchoPath(), Args: []string{"128"}},
		},
	}, 255)

	// WHEN
	value, err := fan.GetPwm()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 128, value)
	assert.True(t, fan.Supports(FeaturePwmSensor))
}

func TestCmdFan_GetPwmNotSupported(t *testing.T) {
	// GIVEN
	fan, _ := NewFan(configuration.FanConfig{
		ID: "cmd",
		Cmd: &configuration.CmdFanConfig{
			SetPwm: &configuration.ExecConfig{Exec: getEchoPath()},
		},
	}, 255)

	// WHEN
	_, err := fan.GetPwm()

	// THEN
	assert.Error(t, err)
	assert.False(t, fan.Supports(FeaturePwmSensor))
}
