package configuration

const (
	DefaultPwmChip     = "/sys/class/pwm/pwmchip0"
	PwmPolarityNormal  = "normal"
	PwmPolarityInverse = "inversed"

	DefaultGpioPwmPin = 18
	// DefaultGpioPwmClock results in a pwm signal of ~586Hz with a cycle length of 1024
	DefaultGpioPwmClock = 600000
	DefaultGpioChip     = "gpiochip0"
)

// FanConfig describes the fan output. Exactly one of the
// sub-configurations must be set.
type FanConfig struct {
	ID      string            `json:"id"`
	PwmChip *PwmChipFanConfig `json:"pwmchip,omitempty"`
	HwMon   *HwMonFanConfig   `json:"hwmon,omitempty"`
	Gpio    *GpioFanConfig    `json:"gpio,omitempty"`
	Switch  *SwitchFanConfig  `json:"switch,omitempty"`
	File    *FileFanConfig    `json:"file,omitempty"`
	Cmd     *CmdFanConfig     `json:"cmd,omitempty"`
}

// PwmChipFanConfig drives a channel of a sysfs PWM chip,
// e.g. /sys/class/pwm/pwmchip0/pwm0
type PwmChipFanConfig struct {
	Chip    string `json:"chip"`
	Channel int    `json:"channel"`
	// Period in ns, defaults to the duty value of the highest level
	Period   int    `json:"period,omitempty"`
	Polarity string `json:"polarity,omitempty"`
}

type HwMonFanConfig struct {
	Platform string `json:"platform,omitempty"`
	Index    int    `json:"index,omitempty"`
	// PwmOutput is either configured directly or resolved from Platform and Index
	PwmOutput string `json:"pwmOutput,omitempty"`
}

// GpioFanConfig drives the hardware pwm of a Raspberry Pi gpio pin
// through /dev/gpiomem. The duty value of the highest level is used
// as the cycle length.
type GpioFanConfig struct {
	// Pin is the BCM number of a pin with pwm support (12, 13, 18 or 19)
	Pin int `json:"pin,omitempty"`
	// Clock is the frequency of the pwm clock in Hz. The frequency of
	// the signal is Clock divided by the cycle length.
	Clock int `json:"clock,omitempty"`
}

// SwitchFanConfig turns a fan on or off using a gpio line.
// Every level with a duty value > 0 switches the fan on.
type SwitchFanConfig struct {
	Chip      string `json:"chip,omitempty"`
	Line      int    `json:"line"`
	ActiveLow bool   `json:"activeLow,omitempty"`
}

type FileFanConfig struct {
	Path string `json:"path"`
}

type CmdFanConfig struct {
	// SetPwm is called with every occurrence of %pwm% in Args replaced by the duty value
	SetPwm *ExecConfig `json:"setPwm"`
	GetPwm *ExecConfig `json:"getPwm,omitempty"`
}

type ExecConfig struct {
	Exec string   `json:"exec"`
	Args []string `json:"args"`
}

func (c FanConfig) subConfigCount() int {
	count := 0
	if c.PwmChip != nil {
		count++
	}
	if c.HwMon != nil {
		count++
	}
	if c.Gpio != nil {
		count++
	}
	if c.Switch != nil {
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
