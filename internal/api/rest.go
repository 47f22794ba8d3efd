package api

import (
	"net/http"
	"strconv"

	"github.com/fan-control/fan-control/internal/controller"
	"github.com/fan-control/fan-control/internal/policy"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/qdm12/reprint"
)

const (
	urlParamId      = "id"
	indentationChar = "  "
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}

	// Level is a speed level together with the map entries selecting it
	Level struct {
		Speed   int                   `json:"speed"`
		Duty    int                   `json:"duty"`
		Entries []policy.TempMapEntry `json:"entries"`
	}

	TempMap struct {
		Levels  []int                 `json:"levels"`
		Entries []policy.TempMapEntry `json:"entries"`
	}
)

// StatusProvider is the read-only view of the control loop served by the api
type StatusProvider interface {
	Snapshot() controller.Snapshot
	TempMap() ([]policy.TempMapEntry, []int)
}

type restHandler struct {
	provider StatusProvider
}

func CreateRestService(provider StatusProvider, registerer prometheus.Registerer) *echo.Echo {
	echoRest := CreateWebserver(registerer)

	handler := &restHandler{provider: provider}

	echoRest.GET("/alive/", isAlive)
	echoRest.GET("/status/", handler.getStatus)
	echoRest.GET("/tempmap/", handler.getTempMap)
	echoRest.GET("/level/:"+urlParamId+"/", handler.getLevel)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *restHandler) getStatus(c echo.Context) error {
	data := reprint.This(h.provider.Snapshot())
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func (h *restHandler) getTempMap(c echo.Context) error {
	entries, levels := h.provider.TempMap()
	data := reprint.This(TempMap{Levels: levels, Entries: entries})
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func (h *restHandler) getLevel(c echo.Context) error {
	id := c.Param(urlParamId)
	speed, err := strconv.Atoi(id)
	if err != nil {
		return returnBadRequest(c, "Level must be a number, was '"+id+"'")
	}

	entries, levels := h.provider.TempMap()
	if speed < 0 || speed >= len(levels) {
		return returnNotFound(c, id)
	}

	level := Level{
		Speed:   speed,
		Duty:    levels[speed],
		Entries: []policy.TempMapEntry{},
	}
	for _, entry := range entries {
		if entry.Speed == speed {
			level.Entries = append(level.Entries, entry)
		}
	}
	return c.JSONPretty(http.StatusOK, level, indentationChar)
}

// return a "not found" message
func returnNotFound(c echo.Context, id string) (err error) {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with id '" + id + "' found",
	}, indentationChar)
}

func returnBadRequest(c echo.Context, message string) (err error) {
	return c.JSONPretty(http.StatusBadRequest, &Result{
		Name:    "Bad request",
		Message: message,
	}, indentationChar)
}
