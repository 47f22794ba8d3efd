package global

import (
	"github.com/fan-control/fan-control/internal"
	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/fan-control/fan-control/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/tomlazar/table"
)

var (
	CfgFile string
	PidFile string
	Daemon  bool
	Speed   int
	NoColor bool
	NoStyle bool
	Verbose bool
)

// LoadConfiguration reads, decodes and validates the configuration.
// Nothing is written to the hardware before this succeeded.
func LoadConfiguration() (*configuration.Configuration, error) {
	configPath, err := configuration.DetectAndReadConfigFile()
	if err != nil {
		return nil, err
	}
	if len(configPath) > 0 {
		ui.Info("Using configuration file at: %s", configPath)
	} else {
		ui.Info("No configuration file found, using builtin defaults")
	}

	if err = configuration.LoadConfig(); err != nil {
		return nil, err
	}
	if err = configuration.Validate(configPath); err != nil {
		return nil, err
	}

	config := configuration.CurrentConfig
	return &config, nil
}

// LoadObjects loads the configuration and builds the components described by it
func LoadObjects() (*internal.Objects, error) {
	config, err := LoadConfiguration()
	if err != nil {
		return nil, err
	}
	return internal.InitializeObjects(config)
}

func TableConfig() *table.Config {
	return &table.Config{
		ShowIndex:       false,
		Color:           !NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	}
}
