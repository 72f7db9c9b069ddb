/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
)

type metrics struct {
	registry    *prometheus.Registry
	generations *prometheus.CounterVec
	solveTime   *prometheus.HistogramVec
	sessions    prometheus.Gauge
	expired     prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roundrobin",
			Name:      "generations_total",
			Help:      "Schedule generations by mode and outcome.",
		}, []string{"mode", "outcome"}),
		solveTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roundrobin",
			Name:      "generation_seconds",
			Help:      "Time spent building a schedule.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"mode"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "roundrobin",
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roundrobin",
			Name:      "expired_sessions_total",
			Help:      "Sessions dropped by the idle sweeper.",
		}),
	}
	m.registry.MustRegister(m.generations, m.solveTime, m.sessions, m.expired)

	return m
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, roundrobin.ErrNoSchedule):
		return "infeasible"
	case errors.Is(err, roundrobin.ErrSearchBudgetExceeded):
		return "budget"
	default:
		return "invalid"
	}
}

func (m *metrics) observeGeneration(mode roundrobin.Mode, start time.Time,
	err error) {

	m.generations.WithLabelValues(string(mode), outcome(err)).Inc()
	m.solveTime.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
