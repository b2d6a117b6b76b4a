package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObservePosting(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObservePosting("post", ResultSuccess, 10*time.Millisecond)
	m.ObservePosting("post", ResultSuccess, 20*time.Millisecond)
	m.ObservePosting("post", ResultError, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.postingsTotal.WithLabelValues("post", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.postingsTotal.WithLabelValues("post", ResultError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.postingDuration))
}

func TestObserveHTTP_GroupsStatus(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveHTTP("GET", "/api/v1/journals", 200, time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/journals", 404, time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/journals", 409, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/journals", "2xx")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/journals", "4xx")))
}
