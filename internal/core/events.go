package core

import (
	"time"

	"github.com/lumipallolabs/dirmap/internal/model"
)

// Event reports a state change from the controller.
type Event interface {
	isEvent()
}

// ScanStartedEvent is emitted when a scan begins.
type ScanStartedEvent struct {
	Path string
}

func (ScanStartedEvent) isEvent() {}

// ScanProgressEvent is emitted periodically while scanning.
type ScanProgressEvent struct {
	FilesScanned int64
	DirsScanned  int64
	BytesFound   int64
	Errors       int64
}

func (ScanProgressEvent) isEvent() {}

// PhaseChangedEvent is emitted when the scan moves to a new phase.
type PhaseChangedEvent struct {
	Phase Phase
}

func (PhaseChangedEvent) isEvent() {}

// ScanFinishedEvent is emitted once the tree is ready. Changes counts
// differences against the previous snapshot of the same root.
type ScanFinishedEvent struct {
	Root    *model.Node
	Elapsed time.Duration
	Changes int
}

func (ScanFinishedEvent) isEvent() {}

// ScanFailedEvent is emitted when a scan aborts.
type ScanFailedEvent struct {
	Err error
}

func (ScanFailedEvent) isEvent() {}
