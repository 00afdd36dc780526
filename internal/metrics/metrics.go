// Package metrics собирает prometheus-счётчики шлюза.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace   = "chunkgate"
	abortedCode = "aborted"
)

// Metrics реализует objectsvc.Recorder и blobclient.Observer.
type Metrics struct {
	requests      *prometheus.CounterVec
	streamed      prometheus.Counter
	upstream      *prometheus.CounterVec
	upstreamBytes prometheus.Counter
	sizeCache     *prometheus.CounterVec
}

// New регистрирует коллекторы в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Object requests by response status code; \"aborted\" for bodies cut short after the headers.",
		}, []string{"code"}),
		streamed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streamed_bytes_total",
			Help:      "Bytes written to clients.",
		}),
		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests to blob gateways by method and outcome.",
		}, []string{"method", "outcome"}),
		upstreamBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_bytes_total",
			Help:      "Bytes read from blob gateways.",
		}),
		sizeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "size_cache_total",
			Help:      "Chunk size lookups by cache result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.requests, m.streamed, m.upstream, m.upstreamBytes, m.sizeCache)
	return m
}

// Response учитывает ответ клиенту.
func (m *Metrics) Response(code int) {
	m.requests.WithLabelValues(strconv.Itoa(code)).Inc()
}

// Aborted учитывает ответ, оборванный после отправки заголовков.
func (m *Metrics) Aborted() {
	m.requests.WithLabelValues(abortedCode).Inc()
}

func (m *Metrics) Streamed(n int64) {
	if n > 0 {
		m.streamed.Add(float64(n))
	}
}

func (m *Metrics) SizeCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.sizeCache.WithLabelValues(result).Inc()
}

func (m *Metrics) Request(method, outcome string) {
	m.upstream.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) Transferred(_ string, n int64, _ error) {
	if n > 0 {
		m.upstreamBytes.Add(float64(n))
	}
}
