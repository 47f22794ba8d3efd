package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fan-control/fan-control/internal/controller"
	"github.com/fan-control/fan-control/internal/policy"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	snapshot controller.Snapshot
	entries  []policy.TempMapEntry
	levels   []int
}

func (p *mockProvider) Snapshot() controller.Snapshot {
	return p.snapshot
}

func (p *mockProvider) TempMap() ([]policy.TempMapEntry, []int) {
	return p.entries, p.levels
}

func createService(t *testing.T) (*echo.Echo, *prometheus.Registry) {
	provider := &mockProvider{
		snapshot: controller.Snapshot{
			SensorId:     "cpu",
			FanId:        "fan",
			Ticks:        3,
			Temperature:  51,
			AppliedSpeed: 2,
			AppliedDuty:  6000,
			Applied:      true,
			Policy:       policy.State{Initialized: true, LastSpeed: 2, LastTemperature: 51, HoldCounter: 35},
		},
		entries: []policy.TempMapEntry{
			{Speed: 0, Threshold: 40, HoldTicks: 20},
			{Speed: 1, Threshold: 44, HoldTicks: 25},
			{Speed: 2, Threshold: 49, HoldTicks: 35},
		},
		levels: []int{0, 5500, 6000},
	}
	registry := prometheus.NewRegistry()
	return CreateRestService(provider, registry), registry
}

func serve(e *echo.Echo, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	e.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	return recorder
}

func TestIsAlive(t *testing.T) {
	// GIVEN
	e, _ := createService(t)

	// WHEN
	recorder := serve(e, "/alive")

	// THEN
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGetStatus(t *testing.T) {
	// GIVEN
	e, _ := createService(t)

	// WHEN
	recorder := serve(e, "/status/")

	// THEN
	assert.Equal(t, http.StatusOK, recorder.Code)
	var snapshot controller.Snapshot
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &snapshot))
	assert.Equal(t, 51, snapshot.Temperature)
	assert.Equal(t, 2, snapshot.AppliedSpeed)
	assert.Equal(t, 35, snapshot.Policy.HoldCounter)
}

func TestGetTempMap(t *testing.T) {
	// GIVEN
	e, _ := createService(t)

	// WHEN
	recorder := serve(e, "/tempmap/")

	// THEN
	assert.Equal(t, http.StatusOK, recorder.Code)
	var tempMap TempMap
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &tempMap))
	assert.Equal(t, []int{0, 5500, 6000}, tempMap.Levels)
	assert.Len(t, tempMap.Entries, 3)
	assert.Equal(t, 44, tempMap.Entries[1].Threshold)
}

func TestGetLevel(t *testing.T) {
	// GIVEN
	e, _ := createService(t)

	// WHEN
	recorder := serve(e, "/level/1/")

	// THEN
	assert.Equal(t, http.StatusOK, recorder.Code)
	var level Level
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &level))
	assert.Equal(t, 5500, level.Duty)
	assert.Equal(t, []policy.TempMapEntry{{Speed: 1, Threshold: 44, HoldTicks: 25}}, level.Entries)
}

func TestGetLevel_NotFound(t *testing.T) {
	// GIVEN
	e, _ := createService(t)

	// WHEN
	recorder := serve(e, "/level/7/")

	// THEN
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetLevel_NotANumber(t *testing.T) {
	// GIVEN
	e, _ := createService(t)

	// WHEN
	recorder := serve(e, "/level/max/")

	// THEN
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRequestMetrics(t *testing.T) {
	// GIVEN
	e, registry := createService(t)

	// WHEN
	serve(e, "/alive/")

	// THEN
	families, err := registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "fan_control_api_requests_total")
}
