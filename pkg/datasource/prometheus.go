package datasource

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	"github.com/opscart/stack-advisor/pkg/models"
)

// PrometheusSource reads host totals exported by node_exporter
type PrometheusSource struct {
	client  v1.API
	url     string
	timeout time.Duration
	cache   *ResourceCache
	log     logr.Logger
}

func NewPrometheusSource(cfg Config, log logr.Logger) (*PrometheusSource, error) {
	client, err := api.NewClient(api.Config{
		Address: cfg.PrometheusURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus client: %w", err)
	}

	return newPrometheusSource(v1.NewAPI(client), cfg, log), nil
}

func newPrometheusSource(client v1.API, cfg Config, log logr.Logger) *PrometheusSource {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PrometheusSource{
		client:  client,
		url:     cfg.PrometheusURL,
		timeout: cfg.Timeout,
		cache:   NewResourceCache(ttl),
		log:     log.WithName("prometheus"),
	}
}

func (p *PrometheusSource) queryOptions() []v1.Option {
	if p.timeout <= 0 {
		return nil
	}
	return []v1.Option{v1.WithTimeout(p.timeout)}
}

// instanceMatcher matches node_exporter instances of host with or without a port
func instanceMatcher(host string) string {
	re := regexp.QuoteMeta(host) + "(:[0-9]+)?"
	// PromQL string literals take Go escapes
	return fmt.Sprintf(`instance=~"%s"`, strings.ReplaceAll(re, `\`, `\\`))
}

// HostResources returns the memory (KB) and cpu totals of host
func (p *PrometheusSource) HostResources(ctx context.Context, host string) (*models.HostResources, error) {
	if cached := p.cache.Get(host); cached != nil {
		p.log.V(1).Info("Using cached host resources", "host", host)
		return cached, nil
	}

	matcher := instanceMatcher(host)

	memQuery := fmt.Sprintf(`max(node_memory_MemTotal_bytes{%s})`, matcher)
	memBytes, err := p.querySingle(ctx, memQuery)
	if err != nil {
		return nil, fmt.Errorf("memory query failed: %w", err)
	}

	cpuQuery := fmt.Sprintf(`count(count by (cpu) (node_cpu_seconds_total{%s,mode="idle"}))`, matcher)
	cpus, err := p.querySingle(ctx, cpuQuery)
	if err != nil {
		return nil, fmt.Errorf("CPU query failed: %w", err)
	}

	res := &models.HostResources{
		Host:       host,
		TotalMemKB: int64(memBytes) / 1024,
		CPUCount:   int(cpus),
	}
	p.cache.Set(host, res)
	return res, nil
}

func (p *PrometheusSource) querySingle(ctx context.Context, query string) (float64, error) {
	result, warnings, err := p.client.Query(ctx, query, time.Now(), p.queryOptions()...)
	if err != nil {
		return 0, fmt.Errorf("query failed: %w", err)
	}

	if len(warnings) > 0 {
		p.log.Info("Prometheus returned warnings", "warnings", warnings)
	}

	vector, ok := result.(model.Vector)
	if !ok || len(vector) == 0 {
		return 0, fmt.Errorf("no data for query: %s", query)
	}

	sum := 0.0
	for _, sample := range vector {
		sum += float64(sample.Value)
	}

	return sum, nil
}

func (p *PrometheusSource) IsAvailable(ctx context.Context) bool {
	_, _, err := p.client.Query(ctx, "up", time.Now(), p.queryOptions()...)
	return err == nil
}

func (p *PrometheusSource) Name() string {
	return "Prometheus"
}
