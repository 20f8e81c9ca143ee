package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "devicerelay"

// Metrics are the relay's Prometheus collectors.
type Metrics struct {
	ActiveSockets       prometheus.Gauge
	Coordinators        prometheus.Gauge
	Frames              *prometheus.CounterVec
	MalformedFrames     prometheus.Counter
	DroppedSends        prometheus.Counter
	HandshakeRejections *prometheus.CounterVec
	HeartbeatEvictions  prometheus.Counter
	TransferRecords     *prometheus.CounterVec
}

// NewMetrics registers the relay collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ActiveSockets: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_sockets",
			Help:      "Registered device sockets across all coordinators.",
		}),
		Coordinators: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "coordinators",
			Help:      "Coordinators currently awake.",
		}),
		Frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "frames_total",
			Help:      "Inbound frames by message kind.",
		}, []string{"kind"}),
		MalformedFrames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "malformed_frames_total",
			Help:      "Inbound frames discarded as malformed.",
		}),
		DroppedSends: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dropped_sends_total",
			Help:      "Outbound frames dropped because the socket was closed or congested.",
		}),
		HandshakeRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "handshake_rejections_total",
			Help:      "Rejected socket upgrades by reason.",
		}, []string{"reason"}),
		HeartbeatEvictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "heartbeat_evictions_total",
			Help:      "Sockets closed by the heartbeat sweep.",
		}),
		TransferRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "transfer_records_total",
			Help:      "Transfer record writes by result.",
		}, []string{"result"}),
	}
}

// frameKind keeps the kind label bounded for arbitrary client types.
func frameKind(kind MessageType) string {
	switch kind {
	case TypePing, TypeDeviceList, TypeDeviceUpdate, TypeSendText, TypeSendFile,
		TypeRTCOffer, TypeRTCAnswer, TypeRTCIceCandidate:
		return string(kind)
	default:
		return "other"
	}
}
