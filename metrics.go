package main

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics with bounded cardinality (no per-client labels)
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rampage_tick_duration_seconds",
		Help:    "Time spent in one simulation tick including broadcast",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025},
	})

	clientCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rampage_clients",
		Help: "Currently connected clients",
	})

	playerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rampage_players",
		Help: "Players in the running match",
	})

	matchesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rampage_matches_started_total",
		Help: "Matches that entered countdown",
	})

	killsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rampage_kills_total",
		Help: "Players killed by explosions",
	})

	commandsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rampage_commands_rejected_total",
		Help: "Commands dropped by the simulation",
	}, []string{"reason"}) // Bounded: "unknown_client", "malformed", "wrong_context", "other"

	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rampage_connection_rejected_total",
		Help: "Connections or messages rejected by the transport",
	}, []string{"reason"}) // Bounded: "ip_limit", "capacity", "rate_limit", "upgrade"

	wsMessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rampage_ws_messages_sent_total",
		Help: "WebSocket messages queued to clients",
	})

	wsMessagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rampage_ws_messages_dropped_total",
		Help: "WebSocket messages dropped because a client was too slow",
	})

	recorderDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rampage_recorder_dropped_total",
		Help: "Match events dropped because the recorder buffer was full",
	})
)

// RecordTick records tick timing
func RecordTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

// RecordRejected counts a command the simulation refused
func RecordRejected(err error) {
	commandsRejected.WithLabelValues(rejectReason(err)).Inc()
}

// RecordConnectionRejected increments the transport rejection counter
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownClient):
		return "unknown_client"
	case errors.Is(err, ErrMalformedInput):
		return "malformed"
	case errors.Is(err, ErrWrongContext):
		return "wrong_context"
	}
	return "other"
}
