package pubgraph

import (
	"strconv"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus collectors of one App on a private registry.
type Metrics struct {
	Registry *prom.Registry

	pagesRendered *prom.CounterVec
	injected      prom.Counter
	suppressed    prom.Counter
}

// NewMetrics creates and registers the App's collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prom.NewRegistry(),
		pagesRendered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pubgraph",
			Name:      "pages_rendered_total",
			Help:      "Pages rendered, by HTTP status",
		}, []string{"status"}),
		injected: prom.NewCounter(prom.CounterOpts{
			Namespace: "pubgraph",
			Name:      "opengraph_injected_total",
			Help:      "Pages that received OpenGraph tags",
		}),
		suppressed: prom.NewCounter(prom.CounterOpts{
			Namespace: "pubgraph",
			Name:      "opengraph_suppressed_total",
			Help:      "Not-found pages passed through without OpenGraph tags",
		}),
	}
	m.Registry.MustRegister(m.pagesRendered, m.injected, m.suppressed)
	m.Registry.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	return m
}

func (m *Metrics) observe(res RenderResult, chain pluginChain) {
	m.pagesRendered.WithLabelValues(strconv.Itoa(res.Status)).Inc()
	for _, p := range chain {
		r, ok := p.(injectionReporter)
		if !ok {
			continue
		}
		if r.Injected() {
			m.injected.Inc()
		}
		if r.Suppressed() {
			m.suppressed.Inc()
		}
	}
}
