//go:build integration

package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"confgate/internal/hosting"
	"confgate/internal/hosting/catalog"
	"confgate/pkg/testutil/containers"
)

type PostgresCatalogSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	catalog  *catalog.PostgresCatalog
}

func TestPostgresCatalogSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCatalogSuite))
}

func (s *PostgresCatalogSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())

	c, err := catalog.NewPostgres(s.postgres.DB)
	s.Require().NoError(err)
	s.catalog = c
}

func (s *PostgresCatalogSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "resource_types"))
}

func (s *PostgresCatalogSuite) TestListTypesSorted() {
	ctx := context.Background()
	s.Require().NoError(s.catalog.SetTypes(ctx, "/var/resources", "invoice", "claim", "certificate"))

	types, err := s.catalog.ListTypes(ctx, hosting.Domain{Folder: "/var/resources"})
	s.Require().NoError(err)
	s.Equal([]string{"certificate", "claim", "invoice"}, types)
}

func (s *PostgresCatalogSuite) TestListTypesUnknownFolderIsEmpty() {
	types, err := s.catalog.ListTypes(context.Background(), hosting.Domain{Folder: "/nowhere"})
	s.Require().NoError(err)
	s.Empty(types)
}

func (s *PostgresCatalogSuite) TestFolderLookupIsCaseInsensitive() {
	ctx := context.Background()
	s.Require().NoError(s.catalog.SetTypes(ctx, "/VAR/Resources", "claim"))

	types, err := s.catalog.ListTypes(ctx, hosting.Domain{Folder: "/var/RESOURCES"})
	s.Require().NoError(err)
	s.Equal([]string{"claim"}, types)
}

func (s *PostgresCatalogSuite) TestSetTypesReplacesListing() {
	ctx := context.Background()
	s.Require().NoError(s.catalog.SetTypes(ctx, "/var/resources", "claim", "invoice"))
	s.Require().NoError(s.catalog.SetTypes(ctx, "/var/resources", "certificate"))

	types, err := s.catalog.ListTypes(ctx, hosting.Domain{Folder: "/var/resources"})
	s.Require().NoError(err)
	s.Equal([]string{"certificate"}, types)
}

func (s *PostgresCatalogSuite) TestSetTypesEmptyClearsListing() {
	ctx := context.Background()
	s.Require().NoError(s.catalog.SetTypes(ctx, "/var/resources", "claim"))
	s.Require().NoError(s.catalog.SetTypes(ctx, "/var/resources"))

	types, err := s.catalog.ListTypes(ctx, hosting.Domain{Folder: "/var/resources"})
	s.Require().NoError(err)
	s.Empty(types)
}
