package actuator

import (
	"errors"
	"fmt"
	"time"

	"github.com/fan-control/fan-control/internal/ui"
)

const (
	// DefaultKickDelay is the time the fan spins at full power before
	// the actual target level is written.
	DefaultKickDelay = 100 * time.Millisecond

	unset = -1
)

var (
	ErrInvalidSpeed = errors.New("invalid speed level")
	ErrNoLevels     = errors.New("at least one speed level is required")
)

// Output is the single capability the driver needs from the hardware:
// writing a raw duty value.
type Output interface {
	GetId() string
	SetPwm(pwm int) error
}

// Statistics about the writes issued by a Driver.
type Statistics struct {
	Writes       int `json:"writes"`
	Kicks        int `json:"kicks"`
	FailedWrites int `json:"failedWrites"`
}

// Driver applies speed levels to an Output. It suppresses redundant writes
// and kicks the fan with full power when starting from standstill.
// It is not safe for concurrent use.
type Driver struct {
	output    Output
	levels    []int
	kickDelay time.Duration
	sleep     func(time.Duration)

	lastAppliedSpeed int
	statistics       Statistics
}

// NewDriver creates a Driver for the given output. levels maps each speed level
// to the duty value written to the output, the last level is used for the kick.
func NewDriver(output Output, levels []int, kickDelay time.Duration) (*Driver, error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	if kickDelay < 0 {
		kickDelay = DefaultKickDelay
	}

	return &Driver{
		output:           output,
		levels:           append([]int(nil), levels...),
		kickDelay:        kickDelay,
		sleep:            time.Sleep,
		lastAppliedSpeed: unset,
	}, nil
}

// Apply drives the output to the given speed level.
// The level is remembered even if the write fails, so a failing output
// is not kicked again on every tick. The error is returned in any case.
func (d *Driver) Apply(speed int) error {
	if speed < 0 || speed >= len(d.levels) {
		return fmt.Errorf("%d not in [0, %d]: %w", speed, len(d.levels)-1, ErrInvalidSpeed)
	}

	if speed == d.lastAppliedSpeed {
		return nil
	}

	var kickErr error
	if d.lastAppliedSpeed <= 0 && speed > 0 {
		ui.Debug("Kicking %s with full power for %v", d.output.GetId(), d.kickDelay)
		d.statistics.Kicks++
		kickErr = d.write(len(d.levels) - 1)
		d.sleep(d.kickDelay)
	}

	err := d.write(speed)
	d.lastAppliedSpeed = speed

	if kickErr != nil || err != nil {
		return errors.Join(kickErr, err)
	}
	return nil
}

func (d *Driver) write(speed int) error {
	duty := d.levels[speed]
	ui.Debug("Setting %s to level %d (duty %d)", d.output.GetId(), speed, duty)

	d.statistics.Writes++
	err := d.output.SetPwm(duty)
	if err != nil {
		d.statistics.FailedWrites++
		return fmt.Errorf("unable to set %s to level %d: %w", d.output.GetId(), speed, err)
	}
	return nil
}

// LastApplied returns the last level written to the output,
// the second return value is false if nothing has been written yet.
func (d *Driver) LastApplied() (int, bool) {
	return d.lastAppliedSpeed, d.lastAppliedSpeed != unset
}

func (d *Driver) OutputId() string {
	return d.output.GetId()
}

func (d *Driver) Levels() []int {
	return append([]int(nil), d.levels...)
}

func (d *Driver) Statistics() Statistics {
	return d.statistics
}
