package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"confgate/internal/hosting"
	"confgate/internal/hosting/catalog"
)

// countingCatalog records how often the backing catalog is consulted.
type countingCatalog struct {
	calls int
	types []string
	err   error
}

func (c *countingCatalog) ListTypes(ctx context.Context, d hosting.Domain) ([]string, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.types, nil
}

func newCachedCatalog(t *testing.T, inner catalog.Catalog, opts ...catalog.CachedOption) (*catalog.CachedCatalog, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cached, err := catalog.NewCached(inner, client, opts...)
	require.NoError(t, err)
	return cached, mr
}

func TestNewCachedValidatesArguments(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	_, err := catalog.NewCached(nil, client)
	require.Error(t, err)

	_, err = catalog.NewCached(&countingCatalog{}, nil)
	require.Error(t, err)
}

func TestCachedCatalogServesRepeatsFromCache(t *testing.T) {
	inner := &countingCatalog{types: []string{"certificate", "claim"}}
	cached, _ := newCachedCatalog(t, inner)
	d := hosting.Domain{Folder: "/var/resources"}

	first, err := cached.ListTypes(context.Background(), d)
	require.NoError(t, err)
	require.Equal(t, []string{"certificate", "claim"}, first)
	require.Equal(t, 1, inner.calls)

	second, err := cached.ListTypes(context.Background(), d)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, inner.calls, "a repeat lookup must not reach the backing catalog")
}

func TestCachedCatalogKeyIsCaseInsensitive(t *testing.T) {
	inner := &countingCatalog{types: []string{"claim"}}
	cached, _ := newCachedCatalog(t, inner)

	_, err := cached.ListTypes(context.Background(), hosting.Domain{Folder: "/VAR/Resources"})
	require.NoError(t, err)
	_, err = cached.ListTypes(context.Background(), hosting.Domain{Folder: "/var/resources"})
	require.NoError(t, err)

	require.Equal(t, 1, inner.calls)
}

func TestCachedCatalogEntriesExpire(t *testing.T) {
	inner := &countingCatalog{types: []string{"claim"}}
	cached, mr := newCachedCatalog(t, inner, catalog.WithTTL(time.Second))
	d := hosting.Domain{Folder: "/var/resources"}

	_, err := cached.ListTypes(context.Background(), d)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = cached.ListTypes(context.Background(), d)
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls, "an expired entry must be resolved fresh")
}

func TestCachedCatalogDegradesWhenRedisIsDown(t *testing.T) {
	inner := &countingCatalog{types: []string{"claim"}}
	cached, mr := newCachedCatalog(t, inner)

	mr.SetError("LOADING Redis is loading the dataset in memory")

	types, err := cached.ListTypes(context.Background(), hosting.Domain{Folder: "/var/resources"})
	require.NoError(t, err, "a broken cache must not fail the lookup")
	require.Equal(t, []string{"claim"}, types)
	require.Equal(t, 1, inner.calls)
}

func TestCachedCatalogDropsCorruptEntries(t *testing.T) {
	inner := &countingCatalog{types: []string{"claim"}}
	cached, mr := newCachedCatalog(t, inner)

	require.NoError(t, mr.Set("catalog:types:/var/resources", "{not json"))

	types, err := cached.ListTypes(context.Background(), hosting.Domain{Folder: "/var/resources"})
	require.NoError(t, err)
	require.Equal(t, []string{"claim"}, types)
	require.Equal(t, 1, inner.calls)

	// The corrupt entry was replaced with a readable one.
	payload, err := mr.Get("catalog:types:/var/resources")
	require.NoError(t, err)
	require.JSONEq(t, `["claim"]`, payload)
}

func TestCachedCatalogPropagatesBackingFailure(t *testing.T) {
	inner := &countingCatalog{err: errors.New("catalog database offline")}
	cached, _ := newCachedCatalog(t, inner)

	_, err := cached.ListTypes(context.Background(), hosting.Domain{Folder: "/var/resources"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "catalog database offline")
}
