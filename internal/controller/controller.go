package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/fan-control/fan-control/internal/actuator"
	"github.com/fan-control/fan-control/internal/policy"
	"github.com/fan-control/fan-control/internal/sensors"
	"github.com/fan-control/fan-control/internal/ui"
)

// Snapshot is a consistent view of the controller state between two ticks.
type Snapshot struct {
	SensorId string `json:"sensorId"`
	FanId    string `json:"fanId"`

	Ticks int `json:"ticks"`
	// Temperature of the last sample in °C
	Temperature int `json:"temperature"`
	// TemperatureAvg, TemperatureMin and TemperatureMax cover the recent samples
	TemperatureAvg float64 `json:"temperatureAvg"`
	TemperatureMin float64 `json:"temperatureMin"`
	TemperatureMax float64 `json:"temperatureMax"`

	Policy policy.State `json:"policy"`

	AppliedSpeed int                 `json:"appliedSpeed"`
	AppliedDuty  int                 `json:"appliedDuty"`
	Applied      bool                `json:"applied"`
	Statistics   actuator.Statistics `json:"statistics"`
}

// Controller runs the read, decide and apply cycle.
// A tick holds the lock for its whole duration, so readers never observe
// a decision that has not been applied yet.
type Controller struct {
	mu sync.Mutex

	sensor   sensors.Sensor
	policy   *policy.SpeedPolicy
	driver   *actuator.Driver
	tickRate time.Duration

	window      *rolling.PointPolicy
	ticks       int
	temperature int
}

func NewController(sensor sensors.Sensor, speedPolicy *policy.SpeedPolicy, driver *actuator.Driver, tickRate time.Duration, windowSize int) *Controller {
	if windowSize < 1 {
		windowSize = 1
	}
	return &Controller{
		sensor:   sensor,
		policy:   speedPolicy,
		driver:   driver,
		tickRate: tickRate,
		window:   rolling.NewPointPolicy(rolling.NewWindow(windowSize)),
	}
}

// Run ticks immediately and then once per tick rate until ctx is done.
// A failing sensor ends the loop with an error, failing writes do not.
func (c *Controller) Run(ctx context.Context) error {
	ui.Info("Starting controller loop for fan '%s' (sensor: '%s', tick rate: %v)", c.driver.OutputId(), c.sensor.GetId(), c.tickRate)

	if err := c.Tick(); err != nil {
		return err
	}

	ticker := time.NewTicker(c.tickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			ui.Info("Stopping controller loop for fan '%s'", c.driver.OutputId())
			return nil
		case <-ticker.C:
			if err := c.Tick(); err != nil {
				return err
			}
		}
	}
}

// Tick reads one sample, decides on a speed level and applies it.
func (c *Controller) Tick() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, err := c.sensor.GetValue()
	if err != nil {
		return fmt.Errorf("unable to read temperature from sensor %s: %w", c.sensor.GetId(), err)
	}
	temperature := sensors.ToCelsius(value)

	c.ticks++
	c.temperature = temperature
	c.window.Append(float64(temperature))

	speed := c.policy.Decide(temperature)
	state := c.policy.State()
	ui.Debug("Tick %d: %d°C -> level %d (hold: %d)", c.ticks, temperature, speed, state.HoldCounter)

	err = c.driver.Apply(speed)
	if err != nil {
		ui.Error("Error setting fan %s to level %d: %v", c.driver.OutputId(), speed, err)
	}
	return nil
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	appliedSpeed, applied := c.driver.LastApplied()
	appliedDuty := 0
	if applied {
		appliedDuty = c.driver.Levels()[appliedSpeed]
	}

	snapshot := Snapshot{
		SensorId:     c.sensor.GetId(),
		FanId:        c.driver.OutputId(),
		Ticks:        c.ticks,
		Temperature:  c.temperature,
		Policy:       c.policy.State(),
		AppliedSpeed: appliedSpeed,
		AppliedDuty:  appliedDuty,
		Applied:      applied,
		Statistics:   c.driver.Statistics(),
	}
	if c.ticks > 0 {
		snapshot.TemperatureAvg = c.window.Reduce(filledWindow(c.ticks, rolling.Avg))
		snapshot.TemperatureMin = c.window.Reduce(filledWindow(c.ticks, rolling.Min))
		snapshot.TemperatureMax = c.window.Reduce(filledWindow(c.ticks, rolling.Max))
	}
	return snapshot
}

// TempMap returns the configured map and the duty value of each level
func (c *Controller) TempMap() ([]policy.TempMapEntry, []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.policy.Entries(), c.driver.Levels()
}

// filledWindow restricts a reducer to the buckets that already hold a sample.
// Buckets are filled front to back, unused ones contain a 0.
func filledWindow(filled int, reducer func(rolling.Window) float64) func(rolling.Window) float64 {
	return func(window rolling.Window) float64 {
		if filled < len(window) {
			window = window[:filled]
		}
		return reducer(window)
	}
}
