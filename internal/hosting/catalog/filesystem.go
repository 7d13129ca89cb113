package catalog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"confgate/internal/hosting"
	dErrors "confgate/pkg/domain-errors"
)

// resourceSuffix marks the files in a resource folder that declare a type.
// "invoice.resource.json" declares the type "invoice".
const resourceSuffix = ".resource.json"

// FilesystemCatalog derives the type listing by scanning the domain's folder
// for resource declaration files.
type FilesystemCatalog struct{}

// NewFilesystem creates a catalog that reads listings from disk.
func NewFilesystem() *FilesystemCatalog {
	return &FilesystemCatalog{}
}

// ListTypes scans the domain's folder. An unreadable folder is an
// availability failure: the caller treats it the same as a failed domain
// bind and keeps the previous configuration.
func (c *FilesystemCatalog) ListTypes(ctx context.Context, d hosting.Domain) ([]string, error) {
	entries, err := os.ReadDir(d.Folder)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("failed to scan resource folder %q", d.Folder))
	}

	var types []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, resourceSuffix) {
			continue
		}
		typeName := strings.TrimSuffix(name, resourceSuffix)
		if typeName == "" {
			continue
		}
		types = append(types, typeName)
	}

	sort.Strings(types)
	return types, nil
}
