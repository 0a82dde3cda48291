// Package metrics exports stream activity as Prometheus collectors.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ardnew/cdcstream/pkg"
	"github.com/ardnew/cdcstream/stream"
)

const namespace = "cdcstream"

// Metrics records stream events. It satisfies stream.Observer.
type Metrics struct {
	RxBytes          prometheus.Counter
	RxLevel          prometheus.Gauge
	TxBytes          prometheus.Counter
	RealtimeCommands *prometheus.CounterVec
	Suspends         *prometheus.CounterVec
	Resumes          *prometheus.CounterVec
	Faults           *prometheus.CounterVec
}

var _ stream.Observer = (*Metrics)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{
		RxBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rx_bytes_total",
			Help:      "Bytes pulled from the transport.",
		}),
		RxLevel: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rx_buffered_bytes",
			Help:      "Bytes waiting in the receive buffer after the last pump.",
		}),
		TxBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_bytes_total",
			Help:      "Bytes accepted by the transport.",
		}),
		RealtimeCommands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "realtime_commands_total",
			Help:      "Bytes claimed by the real-time handler.",
		}, []string{"command"}),
		Suspends: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suspends_total",
			Help:      "Transitions into suspended input.",
		}, []string{"snapshot"}),
		Resumes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resumes_total",
			Help:      "Transitions back to normal input.",
		}, []string{"restored"}),
		Faults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faults_total",
			Help:      "Receive overflows and abandoned flushes.",
		}, []string{"fault"}),
	}
	pkg.LogDebug(pkg.ComponentMetrics, "collectors registered")
	return m
}

// Received implements stream.Observer.
func (m *Metrics) Received(n, level int) {
	m.RxBytes.Add(float64(n))
	m.RxLevel.Set(float64(level))
}

// Realtime implements stream.Observer.
func (m *Metrics) Realtime(c byte) {
	m.RealtimeCommands.WithLabelValues(CommandLabel(c)).Inc()
}

// Transmitted implements stream.Observer.
func (m *Metrics) Transmitted(n int) {
	m.TxBytes.Add(float64(n))
}

// Suspended implements stream.Observer.
func (m *Metrics) Suspended(snapshot bool) {
	m.Suspends.WithLabelValues(strconv.FormatBool(snapshot)).Inc()
}

// Resumed implements stream.Observer.
func (m *Metrics) Resumed(restored bool) {
	m.Resumes.WithLabelValues(strconv.FormatBool(restored)).Inc()
}

// Fault implements stream.Observer.
func (m *Metrics) Fault(f pkg.Fault) {
	m.Faults.WithLabelValues(f.String()).Inc()
}

// CommandLabel formats a real-time byte as a label value. Printable bytes
// are used as-is, others in hex.
func CommandLabel(c byte) string {
	if c > ' ' && c < 0x7F {
		return string(rune(c))
	}
	return fmt.Sprintf("0x%02X", c)
}

// Handler serves the collectors gathered from g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
