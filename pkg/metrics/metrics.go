// Package metrics exposes per-generation simulation statistics as Prometheus
// metrics, labelled by run.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wildfunctions/ultimatum/pkg/engine"
)

// Recorder collects engine.GenerationStat values into its own registry.
type Recorder struct {
	registry *prometheus.Registry

	generation    *prometheus.GaugeVec
	averageGain   *prometheus.GaugeVec
	meanOffer     *prometheus.GaugeVec
	meanMinAccept *prometheus.GaugeVec
	encounters    *prometheus.CounterVec
	accepted      *prometheus.CounterVec
	degenerate    *prometheus.CounterVec
}

// NewRecorder creates a recorder with a fresh registry.
func NewRecorder() *Recorder {
	labels := []string{"run"}
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		generation: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ultimatum_generation",
			Help: "Last completed generation.",
		}, labels),
		averageGain: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ultimatum_average_gain",
			Help: "Population mean of per-agent average gain in the last generation.",
		}, labels),
		meanOffer: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ultimatum_mean_offer",
			Help: "Mean offer fraction in the last generation.",
		}, labels),
		meanMinAccept: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ultimatum_mean_min_accept",
			Help: "Mean minimum accepted fraction in the last generation.",
		}, labels),
		encounters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ultimatum_encounters_total",
			Help: "Ultimatum games played.",
		}, labels),
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ultimatum_accepted_total",
			Help: "Ultimatum games that ended in a deal.",
		}, labels),
		degenerate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ultimatum_degenerate_selections_total",
			Help: "Parents drawn uniformly because total gain was not positive.",
		}, labels),
	}
	r.registry.MustRegister(
		r.generation, r.averageGain, r.meanOffer, r.meanMinAccept,
		r.encounters, r.accepted, r.degenerate,
	)
	return r
}

// Observe records one generation of run.
func (r *Recorder) Observe(run string, stat engine.GenerationStat) {
	l := prometheus.Labels{"run": run}
	r.generation.With(l).Set(float64(stat.Generation))
	r.averageGain.With(l).Set(stat.AverageGain)
	r.meanOffer.With(l).Set(stat.MeanOffer)
	r.meanMinAccept.With(l).Set(stat.MeanMinAccept)
	r.encounters.With(l).Add(float64(stat.Encounters))
	r.accepted.With(l).Add(float64(stat.Accepted))
	r.degenerate.With(l).Add(float64(stat.DegenerateSelections))
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the recorder's metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
