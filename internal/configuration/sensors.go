package configuration

import "fmt"

const DefaultThermalZonePath = "/sys/class/thermal/thermal_zone%d/temp"

// SensorConfig describes the temperature source. Exactly one of the
// sub-configurations must be set. All sources report millidegrees Celsius.
type SensorConfig struct {
	ID      string               `json:"id"`
	Thermal *ThermalSensorConfig `json:"thermal,omitempty"`
	HwMon   *HwMonSensorConfig   `json:"hwmon,omitempty"`
	File    *FileSensorConfig    `json:"file,omitempty"`
	Cmd     *CmdSensorConfig     `json:"cmd,omitempty"`
}

type ThermalSensorConfig struct {
	Zone int `json:"zone"`
	// Path overrides the path derived from Zone
	Path string `json:"path,omitempty"`
}

// TempPath returns the sysfs file of the configured thermal zone
func (c ThermalSensorConfig) TempPath() string {
	if len(c.Path) > 0 {
		return c.Path
	}
	return fmt.Sprintf(DefaultThermalZonePath, c.Zone)
}

type HwMonSensorConfig struct {
	Platform string `json:"platform,omitempty"`
	Index    int    `json:"index,omitempty"`
	// TempInput is either configured directly or resolved from Platform and Index
	TempInput string `json:"tempInput,omitempty"`
}

type FileSensorConfig struct {
	Path string `json:"path"`
}

type CmdSensorConfig struct {
	Exec string   `json:"exec"`
	Args []string `json:"args"`
}

func (c SensorConfig) subConfigCount() int {
	count := 0
	if c.Thermal != nil {
		count++
	}
	if c.HwMon != nil {
		count++
	}
	if c.File != nil {
		count++
	}
	if c.Cmd != nil {
		count++
	}
	return count
}
