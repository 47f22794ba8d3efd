package fans

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fan-control/fan-control/internal/configuration"
	"github.com/fan-control/fan-control/internal/util"
)

type CmdFan struct {
	Config configuration.FanConfig `json:"config"`
}

func (fan *CmdFan) GetId() string {
	return fan.Config.ID
}

func (fan *CmdFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *CmdFan) Init() error {
	return nil
}

func (fan *CmdFan) Restore() error {
	return nil
}

func (fan *CmdFan) GetPwm() (result int, err error) {
	if !fan.Supports(FeaturePwmSensor) {
		return 0, errors.New("reading the pwm value is not supported")
	}
	conf := fan.Config.Cmd.GetPwm

	output, err := util.SafeCmdExecution(context.Background(), conf.Exec, conf.Args, util.DefaultCmdTimeout)
	if err != nil {
		return 0, err
	}

	pwm, err := strconv.ParseFloat(output, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to read int from command output of %s: %w", conf.Exec, err)
	}

	return int(pwm), nil
}

func (fan *CmdFan) SetPwm(pwm int) (err error) {
	conf := fan.Config.Cmd.SetPwm

	var args []string
	for _, arg := range conf.Args {
		replaced := strings.ReplaceAll(arg, "%pwm%", strconv.Itoa(pwm))
		args = append(args, replaced)
	}

	_, err = util.SafeCmdExecution(context.Background(), conf.Exec, args, util.DefaultCmdTimeout)
	return err
}

func (fan *CmdFan) Supports(feature FeatureFlag) bool {
	switch feature {
	case FeatureControlMode:
		return false
	case FeaturePwmSensor:
		return fan.Config.Cmd.GetPwm != nil
	}
	return false
}
