package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trends-search/pkg/storage"
	"trends-search/pkg/trends"
	"trends-search/pkg/volume"
)

type fakeUpstream struct {
	calls   int
	records []volume.Record
	err     error
	stats   trends.ClientStats
}

func (f *fakeUpstream) SearchVolumes(ctx context.Context, q volume.Query) ([]volume.Record, error) {
	f.calls++
	return f.records, f.err
}

func (f *fakeUpstream) Stats() trends.ClientStats {
	return f.stats
}

func query() volume.Query {
	return volume.Query{
		Terms:                []string{"flu"},
		Frequency:            volume.FrequencyDay,
		GeoRestriction:       volume.GeoCountry,
		GeoRestrictionOption: "US",
	}
}

func TestSearchService_CachesResults(t *testing.T) {
	upstream := &fakeUpstream{records: []volume.Record{{Term: "flu", Date: "2024-01-01", Value: 7}}}
	cache := storage.NewMemoryCache(8)
	svc := NewSearchService(upstream, cache)

	first, err := svc.SearchVolumes(context.Background(), query())
	require.NoError(t, err)
	second, err := svc.SearchVolumes(context.Background(), query())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, upstream.calls)
	assert.Equal(t, uint64(1), cache.Stats().Hits)
}

func TestSearchService_WithoutCache(t *testing.T) {
	upstream := &fakeUpstream{records: []volume.Record{}}
	svc := NewSearchService(upstream, nil)

	for i := 0; i < 2; i++ {
		_, err := svc.SearchVolumes(context.Background(), query())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, upstream.calls)
}

func TestSearchService_RejectsInvalidQuery(t *testing.T) {
	upstream := &fakeUpstream{}
	svc := NewSearchService(upstream, nil)

	q := query()
	q.Frequency = "hourly"
	_, err := svc.SearchVolumes(context.Background(), q)

	assert.True(t, IsInvalidQuery(err))
	assert.Equal(t, 0, upstream.calls)
}

func TestSearchService_UpstreamErrorNotCached(t *testing.T) {
	upstream := &fakeUpstream{err: errors.New("provider down")}
	cache := storage.NewMemoryCache(8)
	svc := NewSearchService(upstream, cache)

	_, err := svc.SearchVolumes(context.Background(), query())
	require.Error(t, err)
	assert.False(t, IsInvalidQuery(err))
	assert.Equal(t, 0, cache.Size())
}

func TestSearchService_Health(t *testing.T) {
	upstream := &fakeUpstream{stats: trends.ClientStats{BreakerState: "closed", Keys: 1}}
	svc := NewSearchService(upstream, storage.NewMemoryCache(4))

	h := svc.Health(context.Background())
	assert.Equal(t, "ok", h.Status)
	require.NotNil(t, h.Upstream)
	require.NotNil(t, h.Cache)
	assert.Equal(t, 4, h.Cache.MaxSize)

	upstream.stats.BreakerState = "open"
	assert.Equal(t, "degraded", svc.Health(context.Background()).Status)
}
