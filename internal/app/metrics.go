package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tandem_connections",
		Help: "Live client connections.",
	})
	roomsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tandem_active_rooms",
		Help: "Rooms with at least one member.",
	})
	messagesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tandem_messages_relayed_total",
		Help: "Chat messages fanned out to a room.",
	})
	typingForwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tandem_typing_forwarded_total",
		Help: "Typing-state changes forwarded to room members.",
	})
	signalsForwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tandem_signals_forwarded_total",
		Help: "Negotiation payloads forwarded point-to-point.",
	}, []string{"event"})
	sendsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tandem_sends_dropped_total",
		Help: "Outbound frames lost to full buffers or closed sinks.",
	})
)
