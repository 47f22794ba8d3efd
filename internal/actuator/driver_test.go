package actuator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLevels = []int{0, 800, 900, 950, 1000, 1010, 1024}

type event struct {
	pwm   int
	sleep time.Duration
}

type MockOutput struct {
	ID     string
	Err    error
	events *[]event
}

func (o *MockOutput) GetId() string {
	return o.ID
}

func (o *MockOutput) SetPwm(pwm int) error {
	*o.events = append(*o.events, event{pwm: pwm})
	return o.Err
}

func createDriver(t *testing.T) (*Driver, *MockOutput, *[]event) {
	var events []event
	output := &MockOutput{ID: "fan", events: &events}
	driver, err := NewDriver(output, testLevels, DefaultKickDelay)
	require.NoError(t, err)
	driver.sleep = func(d time.Duration) {
		events = append(events, event{sleep: d})
	}
	return driver, output, &events
}

func TestDriver_RejectsOutOfRangeSpeed(t *testing.T) {
	// GIVEN
	driver, _, events := createDriver(t)

	// WHEN
	errLow := driver.Apply(-1)
	errHigh := driver.Apply(len(testLevels))

	// THEN
	assert.ErrorIs(t, errLow, ErrInvalidSpeed)
	assert.ErrorIs(t, errHigh, ErrInvalidSpeed)
	assert.Empty(t, *events)
	_, applied := driver.LastApplied()
	assert.False(t, applied)
}

func TestDriver_KickFromUnset(t *testing.T) {
	// GIVEN
	driver, _, events := createDriver(t)

	// WHEN
	err := driver.Apply(2)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []event{
		{pwm: 1024},
		{sleep: DefaultKickDelay},
		{pwm: 900},
	}, *events)
	assert.Equal(t, 1, driver.Statistics().Kicks)
}

func TestDriver_KickFromIdle(t *testing.T) {
	// GIVEN
	driver, _, events := createDriver(t)
	assert.NoError(t, driver.Apply(0))

	// WHEN
	err := driver.Apply(1)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []event{
		{pwm: 0},
		{pwm: 1024},
		{sleep: DefaultKickDelay},
		{pwm: 800},
	}, *events)
}

func TestDriver_NoKickBetweenRunningLevels(t *testing.T) {
	// GIVEN
	driver, _, events := createDriver(t)
	assert.NoError(t, driver.Apply(1))
	*events = nil

	// WHEN
	err := driver.Apply(4)
	err2 := driver.Apply(2)

	// THEN
	assert.NoError(t, err)
	assert.NoError(t, err2)
	assert.Equal(t, []event{{pwm: 1000}, {pwm: 900}}, *events)
	assert.Equal(t, 1, driver.Statistics().Kicks)
}

func TestDriver_NoKickWhenStopping(t *testing.T) {
	// GIVEN
	driver, _, events := createDriver(t)
	assert.NoError(t, driver.Apply(3))
	*events = nil

	// WHEN
	err := driver.Apply(0)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []event{{pwm: 0}}, *events)
}

func TestDriver_KickToMaxLevel(t *testing.T) {
	// GIVEN
	driver, _, events := createDriver(t)

	// WHEN
	err := driver.Apply(6)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []event{
		{pwm: 1024},
		{sleep: DefaultKickDelay},
		{pwm: 1024},
	}, *events)
}

func TestDriver_SuppressesRedundantWrites(t *testing.T) {
	// GIVEN
	driver, _, events := createDriver(t)
	assert.NoError(t, driver.Apply(0))

	// WHEN
	err := driver.Apply(0)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []event{{pwm: 0}}, *events)
	assert.Equal(t, 1, driver.Statistics().Writes)

	// WHEN
	*events = nil
	assert.NoError(t, driver.Apply(3))
	assert.NoError(t, driver.Apply(3))

	// THEN
	assert.Equal(t, []event{
		{pwm: 1024},
		{sleep: DefaultKickDelay},
		{pwm: 950},
	}, *events)
}

func TestDriver_WriteFailureIsReportedAndRemembered(t *testing.T) {
	// GIVEN
	driver, output, events := createDriver(t)
	writeErr := errors.New("device or resource busy")
	output.Err = writeErr

	// WHEN
	err := driver.Apply(2)

	// THEN
	assert.ErrorIs(t, err, writeErr)
	last, applied := driver.LastApplied()
	assert.True(t, applied)
	assert.Equal(t, 2, last)
	assert.Equal(t, 2, driver.Statistics().FailedWrites)

	// WHEN
	*events = nil
	output.Err = nil
	err = driver.Apply(2)

	// THEN
	assert.NoError(t, err)
	assert.Empty(t, *events)
}

func TestDriver_LastApplied(t *testing.T) {
	// GIVEN
	driver, _, _ := createDriver(t)

	// WHEN
	_, appliedBefore := driver.LastApplied()
	assert.NoError(t, driver.Apply(5))
	last, appliedAfter := driver.LastApplied()

	// THEN
	assert.False(t, appliedBefore)
	assert.True(t, appliedAfter)
	assert.Equal(t, 5, last)
}

func TestNewDriver_RequiresLevels(t *testing.T) {
	// WHEN
	driver, err := NewDriver(&MockOutput{}, nil, DefaultKickDelay)

	// THEN
	assert.Nil(t, driver)
	assert.ErrorIs(t, err, ErrNoLevels)
}
