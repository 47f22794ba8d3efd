package fans

import (
	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/fan-control/fan-control/internal/util"
)

// FileFan writes its duty value into a regular file. Useful for testing
// and for handing the value to other programs.
type FileFan struct {
	Config configuration.FanConfig `json:"config"`
}

func (fan *FileFan) GetId() string {
	return fan.Config.ID
}

func (fan *FileFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *FileFan) Init() error {
	return nil
}

func (fan *FileFan) Restore() error {
	return nil
}

func (fan *FileFan) GetPwm() (result int, err error) {
	filePath, err := util.ExpandHomeDir(fan.Config.File.Path)
	if err != nil {
		return 0, err
	}
	return util.ReadIntFromFile(filePath)
}

func (fan *FileFan) SetPwm(pwm int) (err error) {
	filePath, err := util.ExpandHomeDir(fan.Config.File.Path)
	if err != nil {
		return err
	}
	return util.WriteIntToFileAtomic(pwm, filePath)
}

func (fan *FileFan) Supports(feature FeatureFlag) bool {
	switch feature {
	case FeaturePwmSensor:
		return true
	case FeatureControlMode:
		return false
	}
	return false
}
