// Package core coordinates scanning, category annotation and snapshot
// bookkeeping behind a UI-agnostic controller.
package core

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lumipallolabs/dirmap/internal/cache"
	"github.com/lumipallolabs/dirmap/internal/category"
	"github.com/lumipallolabs/dirmap/internal/config"
	"github.com/lumipallolabs/dirmap/internal/logging"
	"github.com/lumipallolabs/dirmap/internal/model"
	"github.com/lumipallolabs/dirmap/internal/scanner"
)

// ErrScanRunning is returned by Start while a scan is in flight.
var ErrScanRunning = errors.New("a scan is already running")

// snapshotKeep bounds how many snapshots accumulate per root.
const snapshotKeep = 10

// Controller drives scans and owns the resulting tree. All methods are
// safe for concurrent use.
type Controller struct {
	mu sync.RWMutex

	cfg      config.Config
	scan     ScanState
	tree     *model.Node
	changes  []cache.Change
	prevScan time.Time
	cancel   context.CancelFunc

	store  *cache.Cache
	logger *log.Logger
}

// New creates a controller. Snapshots are written only when the
// configuration enables caching.
func New(cfg config.Config) *Controller {
	c := &Controller{
		cfg:    cfg,
		logger: logging.For("core"),
	}
	if cfg.Cache {
		dir := cfg.CacheDir
		if dir == "" {
			dir = cache.DefaultDir()
		}
		c.store = cache.New(dir)
	}
	return c
}

// Config returns the configuration the controller was built with.
func (c *Controller) Config() config.Config {
	return c.cfg
}

// State returns a snapshot of the current scan state.
func (c *Controller) State() ScanState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scan
}

// Tree returns the most recently completed tree, or nil.
func (c *Controller) Tree() *model.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree
}

// Changes lists differences against the previous snapshot of the same
// root, largest first. Empty until a scan completes over an earlier
// snapshot.
func (c *Controller) Changes() []cache.Change {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.changes
}

// LastSnapshot returns when the snapshot the changes were diffed
// against was taken, or the zero time when there was none.
func (c *Controller) LastSnapshot() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prevScan
}

// Start launches a scan of path. The returned channel carries the
// scan's events and closes when the scan ends; the caller must drain
// it. Only one scan may run at a time.
func (c *Controller) Start(ctx context.Context, path string) (<-chan Event, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.scan.Running() {
		c.mu.Unlock()
		return nil, ErrScanRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.scan = ScanState{Phase: PhaseScanning, Path: abs, StartTime: time.Now()}
	c.tree = nil
	c.changes = nil
	c.prevScan = time.Time{}
	c.mu.Unlock()

	events := make(chan Event, 100)
	go c.runScan(ctx, abs, events)
	return events, nil
}

// Rescan starts a fresh scan of the last scanned path.
func (c *Controller) Rescan(ctx context.Context) (<-chan Event, error) {
	c.mu.RLock()
	path := c.scan.Path
	c.mu.RUnlock()
	if path == "" {
		return nil, errors.New("no previous scan")
	}
	return c.Start(ctx, path)
}

// Stop cancels any in-flight scan. The scan reports the cancellation
// through its event channel.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) runScan(ctx context.Context, path string, events chan<- Event) {
	defer close(events)

	c.logger.Info("scan started", "path", path)
	events <- ScanStartedEvent{Path: path}

	opts := []scanner.WalkerOption{scanner.WithIgnore(c.cfg.Ignore)}
	if c.cfg.FollowSymlinks {
		opts = append(opts, scanner.WithFollowLinks(true))
	}
	w := scanner.NewWalker(c.cfg.Workers, opts...)

	// The forwarder is the only reader of the walker's progress
	// channel; it must drain fully before the event channel closes.
	var fwd sync.WaitGroup
	fwd.Add(1)
	go func() {
		defer fwd.Done()
		for p := range w.Progress() {
			c.mu.Lock()
			c.scan.FilesScanned = p.FilesScanned
			c.scan.DirsScanned = p.DirsScanned
			c.scan.BytesFound = p.BytesFound
			c.scan.Errors = p.Errors
			c.mu.Unlock()

			events <- ScanProgressEvent{
				FilesScanned: p.FilesScanned,
				DirsScanned:  p.DirsScanned,
				BytesFound:   p.BytesFound,
				Errors:       p.Errors,
			}
		}
	}()

	root, err := w.Scan(ctx, path)
	fwd.Wait()

	if err != nil {
		c.mu.Lock()
		c.scan.Phase = PhaseFailed
		c.scan.Err = err
		c.mu.Unlock()

		c.logger.Error("scan failed", "path", path, "err", err)
		events <- ScanFailedEvent{Err: err}
		return
	}

	c.mu.Lock()
	c.scan.Phase = PhaseBuilding
	c.mu.Unlock()
	events <- PhaseChangedEvent{Phase: PhaseBuilding}

	category.Annotate(root)
	changes, prevAt := c.snapshot(path, root)

	c.mu.Lock()
	c.scan.Phase = PhaseReady
	c.tree = root
	c.changes = changes
	c.prevScan = prevAt
	elapsed := time.Since(c.scan.StartTime)
	c.mu.Unlock()

	c.logger.Info("scan finished", "path", path, "total", root.Total, "elapsed", elapsed)
	events <- ScanFinishedEvent{Root: root, Elapsed: elapsed, Changes: len(changes)}
}

// snapshot diffs the fresh tree against the newest stored snapshot,
// then stores the fresh tree. Snapshot failures are logged, never
// fatal.
func (c *Controller) snapshot(path string, root *model.Node) ([]cache.Change, time.Time) {
	if c.store == nil {
		return nil, time.Time{}
	}

	var (
		changes []cache.Change
		prevAt  time.Time
	)
	prev, err := c.store.LoadLatest(path)
	switch {
	case err == nil:
		changes = cache.Diff(prev.Tree, root)
		prevAt = prev.TakenAt
	case !errors.Is(err, cache.ErrNoSnapshot):
		c.logger.Warn("previous snapshot unreadable", "err", err)
	}

	if err := c.store.Save(path, root); err != nil {
		c.logger.Warn("snapshot not saved", "err", err)
	}
	if err := c.store.Prune(path, snapshotKeep); err != nil {
		c.logger.Warn("snapshot history not pruned", "err", err)
	}
	return changes, prevAt
}
