package metrics

import (
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Prometheus 独立的指标注册表，业务指标与运行时指标注册在同一处
type Prometheus struct {
	registry *prometheus.Registry
}

func New() *Prometheus {
	return &Prometheus{registry: prometheus.NewRegistry()}
}

// WithGoCollectorRuntimeMetrics 注册 Go 运行时指标
func (p *Prometheus) WithGoCollectorRuntimeMetrics() *Prometheus {
	p.registry.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorRuntimeMetrics(collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/.*")}),
	))
	return p
}

// WithBuildInfoCollector 注册构建信息指标
func (p *Prometheus) WithBuildInfoCollector() *Prometheus {
	p.registry.MustRegister(collectors.NewBuildInfoCollector())
	return p
}

// WithProcessCollector 注册进程指标
func (p *Prometheus) WithProcessCollector() *Prometheus {
	p.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return p
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
