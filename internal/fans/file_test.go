package fans

import (
	"path/filepath"
	"testing"

	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/stretchr/testify/assert"
)

func TestFileFan_GetId(t *testing.T) {
	// GIVEN
	id := "test"
	config := configuration.FanConfig{
		ID: id,
		File: &configuration.FileFanConfig{
			Path: "/path/to/pwm",
		},
	}
	fan, err := NewFan(config, 255)
	assert.NoError(t, err)

	// WHEN
	result := fan.GetId()

	// THEN
	assert.Equal(t, id, result)
}

func TestFileFan_SetPwmCreatesFile(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "pwm")
	fan, _ := NewFan(configuration.FanConfig{
		ID:   "test",
		File: &configuration.FileFanConfig{Path: path},
	}, 255)

	// WHEN
	err := fan.SetPwm(42)

	// THEN
	assert.NoError(t, err)
	value, err := fan.GetPwm()
	assert.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestFileFan_GetPwmMissingFile(t *testing.T) {
	// GIVEN
	fan, _ := NewFan(configuration.FanConfig{
		ID:   "test",
		File: &configuration.FileFanConfig{Path: filepath.Join(t.TempDir(), "missing")},
	}, 255)

	// WHEN
	_, err := fan.GetPwm()

	// THEN
	assert.Error(t, err)
}

func TestNewFan_MissingSubConfig(t *testing.T) {
	// WHEN
	_, err := NewFan(configuration.FanConfig{ID: "fan"}, 255)

	// THEN
	assert.EqualError(t, err, "no matching fan type for fan: fan")
}
