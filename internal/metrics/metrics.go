package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nstatus"

// Metrics groups the collectors updated by the publisher.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// PlayersOnline - players currently on the server.
	PlayersOnline prometheus.Gauge
	// MaxPlayers - server slot count.
	MaxPlayers prometheus.Gauge
	// Peak24h - highest player count over the trailing 24 hours.
	Peak24h prometheus.Gauge
	// ServerUp - 1 when the last query succeeded.
	ServerUp prometheus.Gauge
	// PingMilliseconds - round trip of the last info query.
	PingMilliseconds prometheus.Gauge
	// Ticks - ticks by outcome (created, edited, reset, degraded, failed, skipped).
	Ticks *prometheus.CounterVec
	// Publishes - chat API calls by action and result.
	Publishes *prometheus.CounterVec
	// TickDuration - wall time of one tick.
	TickDuration prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PlayersOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players_online",
			Help:      "Players currently connected to the server",
		}),
		MaxPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_players",
			Help:      "Server player slots",
		}),
		Peak24h: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "peak_players_24h",
			Help:      "Highest player count seen over the trailing 24 hours",
		}),
		ServerUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "server_up",
			Help:      "Whether the last server query succeeded (1) or failed (0)",
		}),
		PingMilliseconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ping_milliseconds",
			Help:      "Round trip of the last server info query",
		}),
		Ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Status ticks by outcome",
		}, []string{"outcome"}),
		Publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_total",
			Help:      "Chat API calls by action and result",
		}, []string{"action", "result"}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time of one status tick",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.PlayersOnline,
			m.MaxPlayers,
			m.Peak24h,
			m.ServerUp,
			m.PingMilliseconds,
			m.Ticks,
			m.Publishes,
			m.TickDuration,
		)
	}
	return m
}

// ObserveOnline records a successful query.
func (m *Metrics) ObserveOnline(players, maxPlayers, pingMs int) {
	if m == nil {
		return
	}
	m.ServerUp.Set(1)
	m.PlayersOnline.Set(float64(players))
	m.MaxPlayers.Set(float64(maxPlayers))
	m.PingMilliseconds.Set(float64(pingMs))
}

// ObserveOffline records a failed query. Player gauges are zeroed.
func (m *Metrics) ObserveOffline() {
	if m == nil {
		return
	}
	m.ServerUp.Set(0)
	m.PlayersOnline.Set(0)
}

func (m *Metrics) ObservePeak(peak int) {
	if m == nil {
		return
	}
	m.Peak24h.Set(float64(peak))
}

// ObserveTick counts one tick and its duration.
func (m *Metrics) ObserveTick(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Ticks.WithLabelValues(outcome).Inc()
	m.TickDuration.Observe(seconds)
}

// ObservePublish counts one chat call. err == nil counts as "ok".
func (m *Metrics) ObservePublish(action string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Publishes.WithLabelValues(action, result).Inc()
}
