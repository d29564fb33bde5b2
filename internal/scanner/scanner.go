package scanner

import (
	"context"

	"github.com/lumipallolabs/dirmap/internal/model"
)

// Progress reports scanning progress
type Progress struct {
	FilesScanned int64
	DirsScanned  int64
	BytesFound   int64
	Errors       int64
}

// Scanner defines the interface for filesystem scanning
type Scanner interface {
	// Scan walks the given root path and returns the built tree
	Scan(ctx context.Context, root string) (*model.Node, error)

	// Progress returns a channel of progress snapshots. It is closed
	// when the scan ends, so consumers can range over it.
	Progress() <-chan Progress
}
