package service

import (
	"context"

	"trends-search/pkg/storage"
	"trends-search/pkg/trends"
)

// UpstreamStats is implemented by provider clients that expose counters
type UpstreamStats interface {
	Stats() trends.ClientStats
}

// CacheStats is implemented by caches that expose counters
type CacheStats interface {
	Stats() storage.CacheStats
}

// HealthService reports liveness details for GET /health
type HealthService interface {
	Health(ctx context.Context) HealthStatus
}

type HealthStatus struct {
	Status   string              `json:"status"`
	Upstream *trends.ClientStats `json:"upstream,omitempty"`
	Cache    *storage.CacheStats `json:"cache,omitempty"`
}

// Health implements HealthService
func (s *SearchService) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: "ok"}
	if u, ok := s.upstream.(UpstreamStats); ok {
		stats := u.Stats()
		status.Upstream = &stats
		if stats.BreakerState == "open" {
			status.Status = "degraded"
		}
	}
	if c, ok := s.cache.(CacheStats); ok {
		stats := c.Stats()
		status.Cache = &stats
	}
	return status
}
