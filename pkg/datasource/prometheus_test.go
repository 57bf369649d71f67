package datasource

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI answers queries by metric name; other v1.API methods are unused
type fakeAPI struct {
	v1.API
	values  map[string]float64
	queries []string
}

func (f *fakeAPI) Query(_ context.Context, query string, _ time.Time, _ ...v1.Option) (model.Value, v1.Warnings, error) {
	f.queries = append(f.queries, query)
	for metric, v := range f.values {
		if strings.Contains(query, metric) {
			return model.Vector{&model.Sample{Value: model.SampleValue(v)}}, nil, nil
		}
	}
	if strings.Contains(query, "up") && len(f.values) > 0 {
		return model.Vector{}, nil, nil
	}
	return nil, nil, errors.New("connection refused")
}

func TestPrometheusSource_HostResources(t *testing.T) {
	api := &fakeAPI{values: map[string]float64{
		"node_memory_MemTotal_bytes": 16 * 1024 * 1024 * 1024,
		"node_cpu_seconds_total":     8,
	}}
	src := newPrometheusSource(api, Config{}, logr.Discard())

	res, err := src.HostResources(context.Background(), "h1.example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(16*1024*1024), res.TotalMemKB)
	assert.Equal(t, 8, res.CPUCount)
	assert.Equal(t, "h1.example.com", res.Host)

	require.Len(t, api.queries, 2)
	assert.Contains(t, api.queries[0], `instance=~"h1\\.example\\.com(:[0-9]+)?"`)

	// second lookup is served from the cache
	_, err = src.HostResources(context.Background(), "h1.example.com")
	require.NoError(t, err)
	assert.Len(t, api.queries, 2)
}

func TestPrometheusSource_NoData(t *testing.T) {
	api := &fakeAPI{values: map[string]float64{"node_memory_MemTotal_bytes": 1024}}
	src := newPrometheusSource(api, Config{}, logr.Discard())

	_, err := src.HostResources(context.Background(), "h1")
	assert.Error(t, err)
	assert.Equal(t, 0, src.cache.Len())
}

func TestPrometheusSource_IsAvailable(t *testing.T) {
	down := newPrometheusSource(&fakeAPI{}, Config{}, logr.Discard())
	assert.False(t, down.IsAvailable(context.Background()))

	up := newPrometheusSource(&fakeAPI{values: map[string]float64{"x": 1}}, Config{}, logr.Discard())
	assert.True(t, up.IsAvailable(context.Background()))
	assert.Equal(t, "Prometheus", up.Name())
}

func TestResourceCache_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewResourceCache(time.Minute)
	c.now = func() time.Time { return now }

	c.Set("h1", nil)
	assert.Nil(t, c.Get("h1"))

	c.Set("h1", &hostResources)
	assert.Same(t, &hostResources, c.Get("h1"))

	now = now.Add(2 * time.Minute)
	assert.Nil(t, c.Get("h1"))

	c.Set("h2", &hostResources)
	assert.Equal(t, 1, c.Len(), "expired entries are dropped on write")

	c.Clear()
	assert.Equal(t, 0, c.Len())
}
