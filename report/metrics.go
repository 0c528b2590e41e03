package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry builds a Prometheus registry describing the run: one duration
// and success gauge per benchmark and one gauge per parsed metric.
// Absent metrics are not exported.
func Registry(rep *Report) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()

	duration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "benchoor",
		Name:      "benchmark_duration_seconds",
		Help:      "Wall-clock duration of the benchmark process, startup included.",
	}, []string{"suite", "benchmark", "status"})

	success := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "benchoor",
		Name:      "benchmark_success",
		Help:      "1 if the benchmark process exited with code 0, else 0.",
	}, []string{"suite", "benchmark"})

	metric := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "benchoor",
		Name:      "benchmark_metric",
		Help:      "Metric parsed from the benchmark's console output.",
	}, []string{"suite", "benchmark", "metric"})

	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "benchoor",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time at which the report was aggregated.",
	})

	for _, c := range []prometheus.Collector{duration, success, metric, lastRun} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	suite := rep.Config.Suite

	for _, e := range rep.RawResults {
		duration.WithLabelValues(suite, e.ID, string(e.Value.Status)).Set(e.Value.Duration)

		ok := 0.0
		if e.Value.Succeeded() {
			ok = 1
		}

		success.WithLabelValues(suite, e.ID).Set(ok)
	}

	for _, e := range rep.ParsedResults {
		for _, f := range e.Value.Fields() {
			if f.Value == nil {
				continue
			}

			metric.WithLabelValues(suite, e.ID, f.Name).Set(*f.Value)
		}
	}

	lastRun.Set(float64(rep.Timestamp.UnixNano()) / 1e9)

	return reg, nil
}

// WriteMetrics writes the run's metrics to path in the Prometheus text
// format read by node_exporter's textfile collector.
func WriteMetrics(path string, rep *Report) error {
	reg, err := Registry(rep)
	if err != nil {
		return err
	}

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}

	return nil
}
