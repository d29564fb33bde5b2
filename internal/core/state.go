package core

import "time"

// Phase is the lifecycle stage of the current scan.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScanning
	PhaseBuilding
	PhaseReady
	PhaseFailed
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseScanning:
		return "Scanning files"
	case PhaseBuilding:
		return "Building tree"
	case PhaseReady:
		return "Ready"
	case PhaseFailed:
		return "Failed"
	default:
		return ""
	}
}

// ScanState is a snapshot of the controller's scan progress.
type ScanState struct {
	Phase        Phase
	Path         string
	StartTime    time.Time
	FilesScanned int64
	DirsScanned  int64
	BytesFound   int64
	Errors       int64
	Err          error
}

// Running reports whether a scan is still in flight.
func (s ScanState) Running() bool {
	return s.Phase == PhaseScanning || s.Phase == PhaseBuilding
}

// Elapsed returns time since the scan started.
func (s ScanState) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return time.Since(s.StartTime).Truncate(time.Second)
}
