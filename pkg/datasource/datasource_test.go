package datasource

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscart/stack-advisor/pkg/models"
)

var hostResources = models.HostResources{Host: "h1", TotalMemKB: 1024, CPUCount: 2}

type fakeSource struct {
	mu      sync.Mutex
	hosts   map[string]models.HostResources
	fetched []string
}

func (f *fakeSource) HostResources(_ context.Context, host string) (*models.HostResources, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, host)
	res, ok := f.hosts[host]
	if !ok {
		return nil, errors.New("no data")
	}
	return &res, nil
}

func (f *fakeSource) IsAvailable(context.Context) bool { return true }
func (f *fakeSource) Name() string                     { return "fake" }

func TestEnrich(t *testing.T) {
	src := &fakeSource{hosts: map[string]models.HostResources{
		"h1": {Host: "h1", TotalMemKB: 8 * 1024 * 1024, CPUCount: 8},
		"h2": {Host: "h2", TotalMemKB: 4 * 1024 * 1024, CPUCount: 4},
		"h3": {Host: "h3", TotalMemKB: 2 * 1024 * 1024, CPUCount: 2},
	}}
	req := &models.Request{Hosts: []models.Host{
		{Name: "h1"},
		{Name: "h2", TotalMemKB: 1024, CPUCount: 1},
		{Name: "h3", TotalMemKB: 512},
		{Name: "unknown"},
	}}

	updated, err := Enrich(context.Background(), src, req, 2, testr.New(t))
	require.NoError(t, err)

	assert.Equal(t, 2, updated)
	assert.ElementsMatch(t, []string{"h1", "h3", "unknown"}, src.fetched)

	assert.Equal(t, models.Host{Name: "h1", TotalMemKB: 8 * 1024 * 1024, CPUCount: 8}, req.Hosts[0])
	assert.Equal(t, models.Host{Name: "h2", TotalMemKB: 1024, CPUCount: 1}, req.Hosts[1])
	// reported memory is kept, only the missing cpu count is filled
	assert.Equal(t, models.Host{Name: "h3", TotalMemKB: 512, CPUCount: 2}, req.Hosts[2])
	assert.Equal(t, models.Host{Name: "unknown"}, req.Hosts[3])
}

func TestEnrich_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{}
	req := &models.Request{Hosts: []models.Host{{Name: "h1"}}}
	_, err := Enrich(ctx, src, req, 0, testr.New(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, src.fetched)
}
