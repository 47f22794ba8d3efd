package policy

import (
	"errors"
	"fmt"
)

// unset marks lastSpeed and lastTemperature before the first decision.
// It compares lower than every valid level and every sane temperature.
const unset = -1

var (
	ErrEmptyMap          = errors.New("temperature map is empty")
	ErrThresholdOrder    = errors.New("thresholds must be strictly increasing")
	ErrSpeedOrder        = errors.New("speeds must not decrease with rising thresholds")
	ErrSpeedOutOfRange   = errors.New("speed level out of range")
	ErrNegativeHold      = errors.New("hold ticks must not be negative")
	ErrInvalidLevelCount = errors.New("at least one speed level is required")
)

// TempMapEntry maps a temperature threshold (°C) to a speed level.
// HoldTicks is the number of ticks a newly reached level has to persist
// before the policy may drop below it again.
type TempMapEntry struct {
	Speed     int `json:"speed"`
	Threshold int `json:"threshold"`
	HoldTicks int `json:"holdTicks"`
}

// State is a snapshot of the decision history of a SpeedPolicy.
type State struct {
	Initialized     bool `json:"initialized"`
	LastSpeed       int  `json:"lastSpeed"`
	LastTemperature int  `json:"lastTemperature"`
	HoldCounter     int  `json:"holdCounter"`
}

// SpeedPolicy turns temperature samples into speed levels, resisting
// oscillation around thresholds by means of a hold counter.
// It is not safe for concurrent use.
type SpeedPolicy struct {
	entries    []TempMapEntry
	levelCount int

	lastSpeed       int
	lastTemperature int
	holdCounter     int
}

// NewSpeedPolicy validates the given map against levelCount speed levels
// and returns a policy in its initial state.
func NewSpeedPolicy(entries []TempMapEntry, levelCount int) (*SpeedPolicy, error) {
	if err := ValidateTempMap(entries, levelCount); err != nil {
		return nil, err
	}

	p := &SpeedPolicy{
		entries:    append([]TempMapEntry(nil), entries...),
		levelCount: levelCount,
	}
	p.Reset()
	return p, nil
}

// ValidateTempMap checks the ordering and range invariants of a temperature map.
func ValidateTempMap(entries []TempMapEntry, levelCount int) error {
	if levelCount <= 0 {
		return ErrInvalidLevelCount
	}
	if len(entries) == 0 {
		return ErrEmptyMap
	}

	for i, entry := range entries {
		if entry.Speed < 0 || entry.Speed >= levelCount {
			return fmt.Errorf("entry %d: speed %d not in [0, %d]: %w", i, entry.Speed, levelCount-1, ErrSpeedOutOfRange)
		}
		if entry.HoldTicks < 0 {
			return fmt.Errorf("entry %d: %w", i, ErrNegativeHold)
		}
		if i == 0 {
			continue
		}
		previous := entries[i-1]
		if entry.Threshold <= previous.Threshold {
			return fmt.Errorf("entry %d: threshold %d <= %d: %w", i, entry.Threshold, previous.Threshold, ErrThresholdOrder)
		}
		if entry.Speed < previous.Speed {
			return fmt.Errorf("entry %d: speed %d < %d: %w", i, entry.Speed, previous.Speed, ErrSpeedOrder)
		}
	}

	return nil
}

// Decide consumes a temperature sample (°C) and returns the speed level
// to apply.
func (p *SpeedPolicy) Decide(temperature int) int {
	candidate := 0
	for i := len(p.entries) - 1; i >= 0; i-- {
		entry := p.entries[i]
		if temperature > entry.Threshold {
			candidate = entry.Speed
			if p.lastSpeed < candidate {
				p.holdCounter = entry.HoldTicks
			}
			break
		}
	}

	// a falling level burns down the hold counter, while rising
	// heat at the same (or a higher) level extends it
	if candidate < p.lastSpeed {
		p.holdCounter--
	} else if temperature > p.lastTemperature {
		p.holdCounter++
	}

	if p.holdCounter <= 0 || p.lastSpeed == unset || p.lastSpeed < candidate {
		p.lastSpeed = candidate
	}

	p.lastTemperature = temperature
	return p.lastSpeed
}

// Reset forgets the decision history.
func (p *SpeedPolicy) Reset() {
	p.lastSpeed = unset
	p.lastTemperature = unset
	p.holdCounter = 0
}

func (p *SpeedPolicy) State() State {
	return State{
		Initialized:     p.lastSpeed != unset,
		LastSpeed:       p.lastSpeed,
		LastTemperature: p.lastTemperature,
		HoldCounter:     p.holdCounter,
	}
}

func (p *SpeedPolicy) Entries() []TempMapEntry {
	return append([]TempMapEntry(nil), p.entries...)
}

func (p *SpeedPolicy) LevelCount() int {
	return p.levelCount
}
