package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"trends-search/pkg/logger"
	"trends-search/pkg/metrics"
	"trends-search/pkg/storage"
	"trends-search/pkg/volume"
)

// SearchService is the provider behind POST /api/search_volumes.
// It validates the query, consults the response cache and falls through to the upstream client.
type SearchService struct {
	upstream volume.Searcher
	cache    storage.Cache
	tracer   trace.Tracer
	log      *logger.Logger
}

func NewSearchService(upstream volume.Searcher, cache storage.Cache) *SearchService {
	return &SearchService{
		upstream: upstream,
		cache:    cache,
		tracer:   otel.Tracer("trends-search/internal/service"),
		log:      logger.GetLogger().WithField("component", "search_service"),
	}
}

// SearchVolumes implements volume.Searcher
func (s *SearchService) SearchVolumes(ctx context.Context, q volume.Query) ([]volume.Record, error) {
	ctx, span := s.tracer.Start(ctx, "SearchService.SearchVolumes", trace.WithAttributes(
		attribute.Int("terms.count", len(q.Terms)),
		attribute.String("frequency", string(q.Frequency)),
		attribute.String("geo_restriction", string(q.GeoRestriction)),
	))
	defer span.End()

	if err := q.Validate(); err != nil {
		metrics.SearchRequests.WithLabelValues(metrics.OutcomeInvalid).Inc()
		span.SetStatus(codes.Error, "invalid query")
		return nil, err
	}

	key := q.Key()
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			records := cached.([]volume.Record)
			metrics.SearchRequests.WithLabelValues(metrics.OutcomeCacheHit).Inc()
			span.SetAttributes(attribute.Bool("cache.hit", true), attribute.Int("records", len(records)))
			return records, nil
		}
	}

	start := time.Now()
	records, err := s.upstream.SearchVolumes(ctx, q)
	if err != nil {
		metrics.SearchRequests.WithLabelValues(metrics.OutcomeError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream failure")
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(key, records); err != nil {
			s.log.WithError(err).Warn("Failed to cache search volumes")
		}
	}

	metrics.SearchRequests.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.SearchRecords.Observe(float64(len(records)))
	span.SetAttributes(attribute.Bool("cache.hit", false), attribute.Int("records", len(records)))
	s.log.WithFields(map[string]interface{}{
		"terms_count": len(q.Terms),
		"records":     len(records),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Search volumes fetched")

	return records, nil
}

// IsInvalidQuery reports whether err was caused by the caller's input
func IsInvalidQuery(err error) bool {
	return errors.Is(err, volume.ErrInvalidQuery)
}
