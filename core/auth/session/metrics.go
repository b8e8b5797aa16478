package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "passport"

// 撤销范围
const (
	scopeSingle = "single"
	scopeAll    = "all"
)

// Metrics 会话指标，零值与 nil 均可安全调用
type Metrics struct {
	enabled bool

	created    prometheus.Counter
	refreshed  prometheus.Counter
	revoked    *prometheus.CounterVec // 按范围：single/all
	rejections *prometheus.CounterVec // 按操作：validate/refresh/revoke
}

// NewMetrics 在 reg 上注册会话指标，reg 为 nil 时返回禁用的指标
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}

	factory := promauto.With(reg)
	return &Metrics{
		enabled: true,

		created: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Total number of sessions recorded in the ledger",
		}),
		refreshed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_refreshed_total",
			Help:      "Total number of sessions rotated by a refresh token",
		}),
		revoked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_revoked_total",
			Help:      "Total number of revocations",
		}, []string{"scope"}),
		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_rejections_total",
			Help:      "Total number of rejected tokens",
		}, []string{"op"}),
	}
}

func (m *Metrics) recordCreated() {
	if m == nil || !m.enabled {
		return
	}
	m.created.Inc()
}

func (m *Metrics) recordRefreshed() {
	if m == nil || !m.enabled {
		return
	}
	m.refreshed.Inc()
}

func (m *Metrics) recordRevoked(scope string) {
	if m == nil || !m.enabled {
		return
	}
	m.revoked.WithLabelValues(scope).Inc()
}

func (m *Metrics) recordRejection(op string) {
	if m == nil || !m.enabled {
		return
	}
	m.rejections.WithLabelValues(op).Inc()
}
