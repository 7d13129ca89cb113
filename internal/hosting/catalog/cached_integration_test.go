//go:build integration

package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"confgate/internal/hosting"
	"confgate/internal/hosting/catalog"
	"confgate/pkg/testutil/containers"
)

type CachedCatalogSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	inner *catalog.InMemoryCatalog
	cache *catalog.CachedCatalog
}

func TestCachedCatalogSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedCatalogSuite))
}

func (s *CachedCatalogSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
}

func (s *CachedCatalogSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))

	s.inner = catalog.NewInMemory()
	c, err := catalog.NewCached(s.inner, s.redis.Client, catalog.WithTTL(time.Minute))
	s.Require().NoError(err)
	s.cache = c
}

func (s *CachedCatalogSuite) TestMissPopulatesCache() {
	ctx := context.Background()
	s.inner.SetTypes("/var/resources", "claim", "invoice")

	types, err := s.cache.ListTypes(ctx, hosting.Domain{Folder: "/var/resources"})
	s.Require().NoError(err)
	s.Equal([]string{"claim", "invoice"}, types)

	// The next read is served from the cache: mutating the inner catalog
	// must not show until the entry expires.
	s.inner.SetTypes("/var/resources", "certificate")

	types, err = s.cache.ListTypes(ctx, hosting.Domain{Folder: "/var/resources"})
	s.Require().NoError(err)
	s.Equal([]string{"claim", "invoice"}, types)
}

func (s *CachedCatalogSuite) TestFolderKeyIsCaseInsensitive() {
	ctx := context.Background()
	s.inner.SetTypes("/VAR/Resources", "claim")

	first, err := s.cache.ListTypes(ctx, hosting.Domain{Folder: "/VAR/Resources"})
	s.Require().NoError(err)
	s.Equal([]string{"claim"}, first)

	second, err := s.cache.ListTypes(ctx, hosting.Domain{Folder: "/var/resources"})
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *CachedCatalogSuite) TestDifferentFoldersUseDifferentEntries() {
	ctx := context.Background()
	s.inner.SetTypes("/r1", "claim")
	s.inner.SetTypes("/r2", "invoice")

	r1, err := s.cache.ListTypes(ctx, hosting.Domain{Folder: "/r1"})
	s.Require().NoError(err)
	s.Equal([]string{"claim"}, r1)

	r2, err := s.cache.ListTypes(ctx, hosting.Domain{Folder: "/r2"})
	s.Require().NoError(err)
	s.Equal([]string{"invoice"}, r2)
}

func (s *CachedCatalogSuite) TestCorruptEntryResolvesFresh() {
	ctx := context.Background()
	s.inner.SetTypes("/var/resources", "claim")

	s.Require().NoError(s.redis.Client.Set(ctx, "catalog:types:/var/resources", "not json", time.Minute).Err())

	types, err := s.cache.ListTypes(ctx, hosting.Domain{Folder: "/var/resources"})
	s.Require().NoError(err)
	s.Equal([]string{"claim"}, types)
}
