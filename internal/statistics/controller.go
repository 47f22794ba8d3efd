package statistics

import (
	"github.com/fan-control/fan-control/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

type SnapshotProvider interface {
	Snapshot() controller.Snapshot
}

type ControllerCollector struct {
	provider SnapshotProvider

	ticks          *prometheus.Desc
	temperature    *prometheus.Desc
	temperatureAvg *prometheus.Desc
	decidedSpeed   *prometheus.Desc
	appliedSpeed   *prometheus.Desc
	appliedDuty    *prometheus.Desc
	holdCounter    *prometheus.Desc
	writes         *prometheus.Desc
	kicks          *prometheus.Desc
	failedWrites   *prometheus.Desc
}

func NewControllerCollector(provider SnapshotProvider) *ControllerCollector {
	labels := []string{"sensor", "fan"}
	return &ControllerCollector{
		provider: provider,
		ticks: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "ticks_total"),
			"Number of completed control loop iterations",
			labels, nil,
		),
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "temperature_celsius"),
			"Last temperature sample",
			labels, nil,
		),
		temperatureAvg: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "temperature_avg_celsius"),
			"Average of the recent temperature samples",
			labels, nil,
		),
		decidedSpeed: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "decided_speed_level"),
			"Speed level decided by the policy, -1 before the first decision",
			labels, nil,
		),
		appliedSpeed: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "applied_speed_level"),
			"Speed level last written to the fan, -1 before the first write",
			labels, nil,
		),
		appliedDuty: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "applied_duty"),
			"Duty value of the speed level last written to the fan",
			labels, nil,
		),
		holdCounter: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "hold_counter"),
			"Remaining ticks before the policy may lower the speed level",
			labels, nil,
		),
		writes: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "writes_total"),
			"Number of duty values written to the fan, including kicks",
			labels, nil,
		),
		kicks: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "kicks_total"),
			"Number of full power kicks when starting the fan from standstill",
			labels, nil,
		),
		failedWrites: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "failed_writes_total"),
			"Number of failed writes to the fan",
			labels, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.ticks
	ch <- collector.temperature
	ch <- collector.temperatureAvg
	ch <- collector.decidedSpeed
	ch <- collector.appliedSpeed
	ch <- collector.appliedDuty
	ch <- collector.holdCounter
	ch <- collector.writes
	ch <- collector.kicks
	ch <- collector.failedWrites
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	snapshot := collector.provider.Snapshot()
	sensorId := snapshot.SensorId
	fanId := snapshot.FanId

	ch <- prometheus.MustNewConstMetric(collector.ticks, prometheus.CounterValue, float64(snapshot.Ticks), sensorId, fanId)
	ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, float64(snapshot.Temperature), sensorId, fanId)
	ch <- prometheus.MustNewConstMetric(collector.temperatureAvg, prometheus.GaugeValue, snapshot.TemperatureAvg, sensorId, fanId)
	ch <- prometheus.MustNewConstMetric(collector.decidedSpeed, prometheus.GaugeValue, float64(snapshot.Policy.LastSpeed), sensorId, fanId)
	ch <- prometheus.MustNewConstMetric(collector.appliedSpeed, prometheus.GaugeValue, float64(snapshot.AppliedSpeed), sensorId, fanId)
	ch <- prometheus.MustNewConstMetric(collector.appliedDuty, prometheus.GaugeValue, float64(snapshot.AppliedDuty), sensorId, fanId)
	ch <- prometheus.MustNewConstMetric(collector.holdCounter, prometheus.GaugeValue, float64(snapshot.Policy.HoldCounter), sensorId, fanId)
	ch <- prometheus.MustNewConstMetric(collector.writes, prometheus.CounterValue, float64(snapshot.Statistics.Writes), sensorId, fanId)
	ch <- prometheus.MustNewConstMetric(collector.kicks, prometheus.CounterValue, float64(snapshot.Statistics.Kicks), sensorId, fanId)
	ch <- prometheus.MustNewConstMetric(collector.failedWrites, prometheus.CounterValue, float64(snapshot.Statistics.FailedWrites), sensorId, fanId)
}
