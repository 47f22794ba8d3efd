package configuration

import (
	"errors"
	"fmt"
	"time"

	"github.com/fan-control/fan-control/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultPidFile   = "/run/fan-control.pid"
	DefaultTickRate  = 1 * time.Second
	DefaultKickDelay = 100 * time.Millisecond
)

type Configuration struct {
	// PidFile is locked exclusively while running as a daemon
	PidFile string `json:"pidFile"`

	// TickRate is the interval between two control loop iterations
	TickRate time.Duration `json:"tickRate"`
	// KickDelay is the time a fan spins at full power when starting from standstill
	KickDelay time.Duration `json:"kickDelay"`

	TempRollingWindowSize int `json:"tempRollingWindowSize"`

	// Levels maps each speed level to the duty value written to the fan
	Levels  []int                `json:"levels"`
	TempMap []TempMapEntryConfig `json:"tempMap"`

	Sensor SensorConfig `json:"sensor"`
	Fan    FanConfig    `json:"fan"`

	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("fan-control")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Warning("Couldn't detect home directory: %v", err)
		} else {
			viper.AddConfigPath(home)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/fan-control/")
	}

	viper.SetEnvPrefix("fan_control")
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("pidFile", DefaultPidFile)
	viper.SetDefault("tickRate", DefaultTickRate)
	viper.SetDefault("kickDelay", DefaultKickDelay)
	viper.SetDefault("tempRollingWindowSize", 10)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)
}

// DetectAndReadConfigFile reads the configuration file, if one exists, and returns its path.
// Without a config file the builtin defaults are used, unless a file was requested explicitly.
func DetectAndReadConfigFile() (string, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("error reading config file: %w", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed(), nil
}

// LoadConfig decodes the current viper state into CurrentConfig.
// Unknown keys are treated as an error.
func LoadConfig() error {
	var config Configuration
	err := viper.UnmarshalExact(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			tempMapEntryHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return fmt.Errorf("unable to decode configuration: %w", err)
	}

	applyBuiltinDefaults(&config)
	CurrentConfig = config
	return nil
}

// applyBuiltinDefaults fills in the hardware setup of the original Raspberry Pi
// style installation for everything the config file leaves out.
func applyBuiltinDefaults(config *Configuration) {
	if len(config.TempMap) == 0 && len(config.Levels) == 0 {
		config.Levels = append([]int(nil), DefaultLevels...)
		config.TempMap = append([]TempMapEntryConfig(nil), DefaultTempMap...)
	}

	if config.Sensor.subConfigCount() == 0 {
		if len(config.Sensor.ID) <= 0 {
			config.Sensor.ID = "cpu"
		}
		config.Sensor.Thermal = &ThermalSensorConfig{Zone: 0}
	}

	if config.Fan.subConfigCount() == 0 {
		if len(config.Fan.ID) <= 0 {
			config.Fan.ID = "fan"
		}
		config.Fan.PwmChip = &PwmChipFanConfig{
			Chip:    DefaultPwmChip,
			Channel: 0,
		}
	}
}
