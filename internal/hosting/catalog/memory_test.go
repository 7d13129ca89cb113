package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"confgate/internal/hosting"
	"confgate/internal/hosting/catalog"
)

func TestInMemoryCatalogListsSortedTypes(t *testing.T) {
	c := catalog.NewInMemory()
	c.SetTypes("/var/resources", "invoice", "claim", "certificate")

	types, err := c.ListTypes(context.Background(), hosting.Domain{Folder: "/var/resources"})
	require.NoError(t, err)
	require.Equal(t, []string{"certificate", "claim", "invoice"}, types)
}

func TestInMemoryCatalogUnknownFolderIsEmpty(t *testing.T) {
	c := catalog.NewInMemory()

	types, err := c.ListTypes(context.Background(), hosting.Domain{Folder: "/nowhere"})
	require.NoError(t, err)
	require.Empty(t, types)
}

func TestInMemoryCatalogFolderLookupIsCaseInsensitive(t *testing.T) {
	c := catalog.NewInMemory()
	c.SetTypes("/var/resources", "claim")

	types, err := c.ListTypes(context.Background(), hosting.Domain{Folder: "/VAR/Resources"})
	require.NoError(t, err)
	require.Equal(t, []string{"claim"}, types)
}

func TestInMemoryCatalogSetTypesReplaces(t *testing.T) {
	c := catalog.NewInMemory()
	c.SetTypes("/var/resources", "claim", "invoice")
	c.SetTypes("/var/resources", "certificate")

	types, err := c.ListTypes(context.Background(), hosting.Domain{Folder: "/var/resources"})
	require.NoError(t, err)
	require.Equal(t, []string{"certificate"}, types)
}

func TestInMemoryCatalogReturnsACopy(t *testing.T) {
	c := catalog.NewInMemory()
	c.SetTypes("/var/resources", "claim", "invoice")

	first, err := c.ListTypes(context.Background(), hosting.Domain{Folder: "/var/resources"})
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := c.ListTypes(context.Background(), hosting.Domain{Folder: "/var/resources"})
	require.NoError(t, err)
	require.Equal(t, []string{"claim", "invoice"}, second)
}
