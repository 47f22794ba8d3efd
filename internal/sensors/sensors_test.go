package sensors

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/stretchr/testify/assert"
)

func writeTempFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "temp")
	err := os.WriteFile(path, []byte(content), 0644)
	assert.NoError(t, err)
	return path
}

func getEchoPath() string {
	// unlikely to fail
	p, _ := exec.LookPath("echo")
	return p
}

func TestNewSensor_Thermal(t *testing.T) {
	// GIVEN
	config := configuration.SensorConfig{
		ID:      "cpu",
		Thermal: &configuration.ThermalSensorConfig{Zone: 2},
	}

	// WHEN
	sensor, err := NewSensor(config)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "cpu", sensor.GetId())
	assert.Equal(t, "/sys/class/thermal/thermal_zone2/temp", sensor.(*ThermalSensor).Path)
}

func TestNewSensor_UnresolvedHwMon(t *testing.T) {
	// GIVEN
	config := configuration.SensorConfig{
		ID:    "cpu",
		HwMon: &configuration.HwMonSensorConfig{Platform: "cpu_thermal", Index: 1},
	}

	// WHEN
	sensor, err := NewSensor(config)

	// THEN
	assert.Nil(t, sensor)
	assert.EqualError(t, err, "hwmon sensor cpu: temp input path is not resolved")
}

func TestNewSensor_MissingSubConfig(t *testing.T) {
	// WHEN
	_, err := NewSensor(configuration.SensorConfig{ID: "cpu"})

	// THEN
	assert.EqualError(t, err, "no matching sensor type for sensor: cpu")
}

func TestThermalSensor_GetValue(t *testing.T) {
	// GIVEN
	path := writeTempFile(t, "52312\n")
	sensor, err := NewSensor(configuration.SensorConfig{
		ID:      "cpu",
		Thermal: &configuration.ThermalSensorConfig{Path: path},
	})
	assert.NoError(t, err)

	// WHEN
	value, err := sensor.GetValue()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 52312, value)
	assert.Equal(t, 52, ToCelsius(value))
}

func TestHwmonSensor_GetValue(t *testing.T) {
	// GIVEN
	path := writeTempFile(t, "61000")
	sensor, err := NewSensor(configuration.SensorConfig{
		ID:    "soc",
		HwMon: &configuration.HwMonSensorConfig{TempInput: path},
	})
	assert.NoError(t, err)

	// WHEN
	value, err := sensor.GetValue()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 61000, value)
}

func TestHwmonSensor_ReadError(t *testing.T) {
	// GIVEN
	sensor := HwmonSensor{
		Input:  filepath.Join(t.TempDir(), "missing"),
		Config: configuration.SensorConfig{ID: "soc"},
	}

	// WHEN
	_, err := sensor.GetValue()

	// THEN
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSensor_GetValue(t *testing.T) {
	// GIVEN
	path := writeTempFile(t, "45000")
	sensor, err := NewSensor(configuration.SensorConfig{
		ID:   "file",
		File: &configuration.FileSensorConfig{Path: path},
	})
	assert.NoError(t, err)

	// WHEN
	value, err := sensor.GetValue()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 45000, value)
}

func TestFileSensor_Garbage(t *testing.T) {
	// GIVEN
	path := writeTempFile(t, "hot")
	sensor, _ := NewSensor(configuration.SensorConfig{
		ID:   "file",
		File: &configuration.FileSensorConfig{Path: path},
	})

	// WHEN
	_, err := sensor.GetValue()

	// THEN
	assert.Error(t, err)
}

func TestCmdSensor_GetValue(t *testing.T) {
	// GIVEN
	sensor, err := NewSensor(configuration.SensorConfig{
		ID: "cmd",
		Cmd: &configuration.CmdSensorConfig{
			Exec: getEchoPath(),
			Args: []string{"47500"},
		},
	})
	assert.NoError(t, err)

	// WHEN
	value, err := sensor.GetValue()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 47500, value)
}

func TestToCelsius(t *testing.T) {
	assert.Equal(t, 0, ToCelsius(999))
	assert.Equal(t, 44, ToCelsius(44999))
	assert.Equal(t, -1, ToCelsius(-1500))
}
