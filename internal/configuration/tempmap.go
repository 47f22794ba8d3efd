package configuration

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/fan-control/fan-control/internal/policy"
	"github.com/mitchellh/mapstructure"
)

// TempMapEntryConfig is a single line of the temperature map.
// Either Speed (an index into Levels) or Duty (a raw duty value, when
// Levels is omitted) must be set.
type TempMapEntryConfig struct {
	Threshold int  `json:"threshold"`
	Speed     *int `json:"speed,omitempty"`
	Duty      *int `json:"duty,omitempty"`
	Hold      int  `json:"hold"`
}

var (
	DefaultLevels = []int{0, 5500, 6000, 7000, 8000, 9000, 10000}

	DefaultTempMap = []TempMapEntryConfig{
		{Threshold: 40, Speed: intPtr(0), Hold: 20},
		{Threshold: 44, Speed: intPtr(1), Hold: 25},
		{Threshold: 49, Speed: intPtr(2), Hold: 35},
		{Threshold: 54, Speed: intPtr(3), Hold: 45},
		{Threshold: 59, Speed: intPtr(4), Hold: 60},
		{Threshold: 64, Speed: intPtr(5), Hold: 120},
		{Threshold: 67, Speed: intPtr(6), Hold: 180},
	}
)

func intPtr(value int) *int {
	return &value
}

// BuildTempMap converts the configured map into policy entries and returns the
// duty value of each speed level.
func BuildTempMap(config *Configuration) (entries []policy.TempMapEntry, levels []int, err error) {
	if len(config.TempMap) == 0 {
		return nil, nil, errors.New("tempMap: at least one entry is required")
	}

	dutyStyle := len(config.Levels) == 0
	if dutyStyle {
		for i, entry := range config.TempMap {
			if entry.Speed != nil {
				return nil, nil, fmt.Errorf("tempMap entry %d: 'speed' requires a 'levels' list, use 'duty' instead", i)
			}
			if entry.Duty == nil {
				return nil, nil, fmt.Errorf("tempMap entry %d: missing 'duty'", i)
			}
			levels = append(levels, *entry.Duty)
			entries = append(entries, policy.TempMapEntry{
				Speed:     i,
				Threshold: entry.Threshold,
				HoldTicks: entry.Hold,
			})
		}
	} else {
		levels = append(levels, config.Levels...)
		for i, entry := range config.TempMap {
			if entry.Duty != nil {
				return nil, nil, fmt.Errorf("tempMap entry %d: 'duty' cannot be combined with a 'levels' list, use 'speed' instead", i)
			}
			if entry.Speed == nil {
				return nil, nil, fmt.Errorf("tempMap entry %d: missing 'speed'", i)
			}
			entries = append(entries, policy.TempMapEntry{
				Speed:     *entry.Speed,
				Threshold: entry.Threshold,
				HoldTicks: entry.Hold,
			})
		}
	}

	for i, duty := range levels {
		if duty < 0 {
			return nil, nil, fmt.Errorf("levels: duty of level %d must not be negative, was %d", i, duty)
		}
		// the last level is the full power duty used for kicks
		if i > 0 && duty < levels[i-1] {
			return nil, nil, fmt.Errorf("levels: duty of level %d must not be lower than the one of level %d, was %d < %d", i, i-1, duty, levels[i-1])
		}
	}

	if err := policy.ValidateTempMap(entries, len(levels)); err != nil {
		return nil, nil, fmt.Errorf("tempMap: %w", err)
	}

	return entries, levels, nil
}

// tempMapEntryHookFunc returns a mapstructure decode hook that allows tempMap
// entries to be written in the compact list form [threshold, speed, hold].
func tempMapEntryHookFunc() mapstructure.DecodeHookFuncType {
	entryType := reflect.TypeOf(TempMapEntryConfig{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != entryType {
			return data, nil
		}
		if f.Kind() != reflect.Slice {
			return data, nil
		}

		values := reflect.ValueOf(data)
		if values.Len() != 3 {
			return nil, fmt.Errorf("expected [threshold, speed, hold], got %v", data)
		}

		return map[string]interface{}{
			"threshold": values.Index(0).Interface(),
			"speed":     values.Index(1).Interface(),
			"hold":      values.Index(2).Interface(),
		}, nil
	}
}
