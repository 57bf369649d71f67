package datasource

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/opscart/stack-advisor/pkg/models"
)

// HostSource reports the resource totals of cluster hosts
type HostSource interface {
	HostResources(ctx context.Context, host string) (*models.HostResources, error)
	IsAvailable(ctx context.Context) bool
	Name() string
}

type Config struct {
	PrometheusURL string
	Timeout       time.Duration
	CacheTTL      time.Duration

	// Concurrency bounds the number of hosts fetched at once
	Concurrency int
}

// Enrich fills in the totals of request hosts that have none, fetching them
// from source. Hosts the source cannot answer for keep their values. It
// returns the number of hosts updated.
func Enrich(ctx context.Context, source HostSource, req *models.Request, concurrency int, log logr.Logger) (int, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	log = log.WithValues("source", source.Name())

	results := make([]*models.HostResources, len(req.Hosts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range req.Hosts {
		i := i
		h := req.Hosts[i]
		if h.TotalMemKB > 0 && h.CPUCount > 0 {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := source.HostResources(gctx, h.Name)
			if err != nil {
				log.Error(err, "Failed to fetch host resources", "host", h.Name)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	updated := 0
	for i, res := range results {
		if res == nil {
			continue
		}
		h := &req.Hosts[i]
		if h.TotalMemKB <= 0 && res.TotalMemKB > 0 {
			h.TotalMemKB = res.TotalMemKB
		}
		if h.CPUCount <= 0 && res.CPUCount > 0 {
			h.CPUCount = res.CPUCount
		}
		updated++
		log.V(1).Info("Enriched host", "host", h.Name, "memKB", h.TotalMemKB, "cpu", h.CPUCount)
	}
	return updated, nil
}
