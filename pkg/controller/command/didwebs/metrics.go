/*
Copyright WebOfTrust. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didwebs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the didwebs controller command.
type Metrics struct {
	// Resolution outcomes by result ("ok" or "error").
	Resolutions *prometheus.CounterVec

	// Resolution latency, including key state retrieval.
	ResolveDuration prometheus.Histogram

	// Scheme conversions by direction ("to_web" or "from_web").
	Conversions *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with all command metrics registered
// against the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Resolutions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "didwebs_resolutions_total",
			Help: "Total DID resolutions by result",
		}, []string{"result"}),

		ResolveDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "didwebs_resolve_duration_seconds",
			Help:    "Duration of DID resolution operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		Conversions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "didwebs_conversions_total",
			Help: "Total DID document scheme conversions by direction",
		}, []string{"direction"}),
	}
}

// IncrementResolution records a resolution outcome.
func (m *Metrics) IncrementResolution(result string) {
	if m != nil {
		m.Resolutions.WithLabelValues(result).Inc()
	}
}

// ObserveResolveDuration records the duration of a resolution.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveResolveDuration(start time.Time) {
	if m != nil {
		m.ResolveDuration.Observe(time.Since(start).Seconds())
	}
}

// IncrementConversion records a document scheme conversion.
func (m *Metrics) IncrementConversion(direction string) {
	if m != nil {
		m.Conversions.WithLabelValues(direction).Inc()
	}
}
