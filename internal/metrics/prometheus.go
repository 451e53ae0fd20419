package metrics

import (
	"time"

	"github.com/USA-RedDragon/zcash-rcli/internal/zcash"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	rpcCalls             *prometheus.CounterVec
	rpcDuration          *prometheus.HistogramVec
	blocks               prometheus.Gauge
	headers              prometheus.Gauge
	verificationProgress prometheus.Gauge
	connections          prometheus.Gauge
	difficulty           prometheus.Gauge
	lastPoll             prometheus.Gauge
}

// NewMetrics registers the collectors with reg. Passing
// prometheus.DefaultRegisterer exposes them on promhttp.Handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		rpcCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zcash_rpc_calls_total",
			Help: "The total number of zcashd RPC calls, by method and outcome",
		}, []string{"method", "outcome"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zcash_rpc_call_duration_seconds",
			Help:    "Round trip time of zcashd RPC calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		blocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zcash_chain_blocks",
			Help: "Height of the most-work fully validated chain",
		}),
		headers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zcash_chain_headers",
			Help: "Number of validated headers",
		}),
		verificationProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zcash_chain_verification_progress",
			Help: "Estimate of chain verification progress, from 0 to 1",
		}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zcash_peer_connections",
			Help: "Number of peer connections",
		}),
		difficulty: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zcash_chain_difficulty",
			Help: "Proof-of-work difficulty of the chain tip",
		}),
		lastPoll: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zcash_last_poll_timestamp_seconds",
			Help: "Unix time of the last successful poll",
		}),
	}
	metrics.register(reg)
	return metrics
}

func (m *Metrics) register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.rpcCalls,
		m.rpcDuration,
		m.blocks,
		m.headers,
		m.verificationProgress,
		m.connections,
		m.difficulty,
		m.lastPoll,
	)
}

// ObserveCall implements jsonrpc.Observer.
func (m *Metrics) ObserveCall(method, outcome string, elapsed time.Duration) {
	m.rpcCalls.WithLabelValues(method, outcome).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveChainInfo(info zcash.GetBlockChainInfoResponse) {
	m.blocks.Set(float64(info.Blocks))
	m.headers.Set(float64(info.Headers))
	m.verificationProgress.Set(info.VerificationProgress)
	m.difficulty.Set(info.Difficulty)
	m.lastPoll.SetToCurrentTime()
}

func (m *Metrics) ObserveInfo(info zcash.GetInfoResponse) {
	m.connections.Set(float64(info.Connections))
	m.lastPoll.SetToCurrentTime()
}
