// Package metrics exports simulation step reports as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/simulation"
)

// Label values stay bounded: mode is "grid" or "linear", result is "hit" or "miss".
const (
	labelMode   = "mode"
	labelResult = "result"
)

// Recorder implements simulation.StepObserver.
type Recorder struct {
	stepDuration  *prometheus.HistogramVec
	queryDuration *prometheus.HistogramVec
	queries       *prometheus.CounterVec
	relocations   prometheus.Counter
	transitions   prometheus.Counter
	cellsScanned  prometheus.Counter
	highlighted   prometheus.Gauge
	spatialOn     prometheus.Gauge
	steps         prometheus.Counter
}

var _ simulation.StepObserver = (*Recorder)(nil)

// NewRecorder registers the simulation metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		stepDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spatial_step_duration_seconds",
			Help:    "Time spent in one simulation step (movement, relocation and queries)",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		}, []string{labelMode}),

		queryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spatial_query_duration_seconds",
			Help:    "Time spent answering every friendly's nearest enemy query in one step",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}, []string{labelMode}),

		queries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "spatial_queries_total",
			Help: "Nearest enemy queries answered",
		}, []string{labelMode, labelResult}),

		relocations: f.NewCounter(prometheus.CounterOpts{
			Name: "spatial_relocations_total",
			Help: "Enemy relocations applied to the grid",
		}),

		transitions: f.NewCounter(prometheus.CounterOpts{
			Name: "spatial_cell_transitions_total",
			Help: "Relocations that moved an enemy into another cell",
		}),

		cellsScanned: f.NewCounter(prometheus.CounterOpts{
			Name: "spatial_cells_scanned_total",
			Help: "Grid cells visited by nearest enemy queries",
		}),

		highlighted: f.NewGauge(prometheus.GaugeOpts{
			Name: "spatial_highlighted_enemies",
			Help: "Distinct enemies that are some friendly's nearest enemy in the last step",
		}),

		spatialOn: f.NewGauge(prometheus.GaugeOpts{
			Name: "spatial_partition_enabled",
			Help: "1 when the last step used the grid, 0 for the linear scan",
		}),

		steps: f.NewCounter(prometheus.CounterOpts{
			Name: "spatial_steps_total",
			Help: "Simulation steps completed",
		}),
	}
}

// ObserveStep records one step report.
func (r *Recorder) ObserveStep(rep simulation.StepReport) {
	mode := rep.Mode.String()

	r.steps.Inc()
	r.stepDuration.WithLabelValues(mode).Observe(rep.Elapsed.Seconds())
	r.queryDuration.WithLabelValues(mode).Observe(rep.QueryTime.Seconds())

	r.queries.WithLabelValues(mode, "hit").Add(float64(rep.Found))
	r.queries.WithLabelValues(mode, "miss").Add(float64(rep.Queries - rep.Found))

	r.relocations.Add(float64(rep.Relocations))
	r.transitions.Add(float64(rep.Transitions))
	r.cellsScanned.Add(float64(rep.CellsScanned))
	r.highlighted.Set(float64(rep.Highlighted))

	if rep.Mode.Enabled() {
		r.spatialOn.Set(1)
	} else {
		r.spatialOn.Set(0)
	}
}
