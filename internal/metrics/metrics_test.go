package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Response(200)
	m.Response(206)
	m.Response(206)
	m.Aborted()
	m.Streamed(100)
	m.Streamed(0)
	m.SizeCache(true)
	m.SizeCache(false)
	m.SizeCache(false)
	m.Request("HEAD", "200")
	m.Transferred("cid", 40, nil)
	m.Transferred("cid", 2, errors.New("reset"))

	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("200")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("206")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("aborted")))
	require.Equal(t, 100.0, testutil.ToFloat64(m.streamed))
	require.Equal(t, 1.0, testutil.ToFloat64(m.sizeCache.WithLabelValues("hit")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.sizeCache.WithLabelValues("miss")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.upstream.WithLabelValues("HEAD", "200")))
	require.Equal(t, 42.0, testutil.ToFloat64(m.upstreamBytes))
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	require.Panics(t, func() { New(reg) })
}
