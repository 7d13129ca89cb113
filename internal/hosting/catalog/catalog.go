// Package catalog resolves the resource type names available to a resource
// domain. Backends share one contract: given a bound domain, return the
// sorted list of type names its folder offers.
package catalog

import (
	"context"
	"strings"

	"confgate/internal/hosting"
)

// Catalog lists the resource type names visible to a domain.
type Catalog interface {
	ListTypes(ctx context.Context, d hosting.Domain) ([]string, error)
}

// folderKey normalizes a folder path for lookups, matching the
// case-insensitive equality used for folder change detection.
func folderKey(folder string) string {
	return strings.ToLower(folder)
}
