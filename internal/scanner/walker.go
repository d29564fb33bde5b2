package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/lumipallolabs/dirmap/internal/model"
)

// progressInterval paces snapshots onto the progress channel
const progressInterval = 80 * time.Millisecond

// Walker implements parallel filesystem scanning. A Walker scans once;
// create a new one per scan.
type Walker struct {
	workers    int
	follow     bool
	ignore     []string
	progressCh chan Progress
	progress   Progress
}

// WalkerOption adjusts how a Walker scans
type WalkerOption func(*Walker)

// WithFollowLinks makes the walker traverse symlinks
func WithFollowLinks(follow bool) WalkerOption {
	return func(w *Walker) { w.follow = follow }
}

// WithIgnore skips entries whose base name matches any of the glob
// patterns; matched directories are not descended into
func WithIgnore(patterns []string) WalkerOption {
	return func(w *Walker) { w.ignore = patterns }
}

// NewWalker creates a new parallel filesystem walker
func NewWalker(workers int, opts ...WalkerOption) *Walker {
	if workers < 1 {
		workers = 8
	}
	w := &Walker{
		workers:    workers,
		progressCh: make(chan Progress, 100),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Progress returns the progress channel
func (w *Walker) Progress() <-chan Progress {
	return w.progressCh
}

// Scan walks the filesystem under root with fastwalk, streaming one
// record per entry to a single collecting goroutine that feeds the tree
// builder. Unreadable entries are counted and skipped, never fatal;
// cancellation aborts with the context's error and no tree.
func (w *Walker) Scan(ctx context.Context, root string) (*model.Node, error) {
	stop := w.startSampling()
	defer stop()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Lstat(absRoot)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", absRoot)
	}

	// Records flow over a channel so fastwalk's workers never touch the
	// builder; the collector is the single writer the builder requires.
	recordCh := make(chan model.Record, 50000)
	builder := model.New(absRoot)
	var collectWg sync.WaitGroup
	collectWg.Add(1)
	go func() {
		defer collectWg.Done()
		for rec := range recordCh {
			// The first failure sticks inside the builder; keep
			// draining so the walkers never block on a full channel.
			builder.Add(rec)
		}
	}()

	conf := &fastwalk.Config{
		Follow:     w.follow,
		NumWorkers: w.workers,
	}

	walkErr := fastwalk.Walk(conf, absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			atomic.AddInt64(&w.progress.Errors, 1)
			return nil
		}
		if path == absRoot {
			return nil
		}
		if w.ignored(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			atomic.AddInt64(&w.progress.Errors, 1)
			return nil
		}

		// Directory records carry size 0: a directory's total is the
		// sum of what lives under it, not its entry metadata.
		var size int64
		if d.IsDir() {
			atomic.AddInt64(&w.progress.DirsScanned, 1)
		} else {
			info, err := d.Info()
			if err != nil {
				atomic.AddInt64(&w.progress.Errors, 1)
				return nil
			}
			size = info.Size()
			atomic.AddInt64(&w.progress.FilesScanned, 1)
			atomic.AddInt64(&w.progress.BytesFound, size)
		}

		recordCh <- model.Record{
			Path:  filepath.ToSlash(rel),
			Size:  size,
			IsDir: d.IsDir(),
		}
		return nil
	})

	close(recordCh)
	collectWg.Wait()

	if walkErr != nil {
		return nil, walkErr
	}
	return builder.Build()
}

func (w *Walker) ignored(name string) bool {
	for _, pattern := range w.ignore {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// startSampling publishes progress snapshots until the returned stop
// function runs, then emits a final snapshot and closes the channel.
// Sends never block; a slow consumer just misses a beat.
func (w *Walker) startSampling() func() {
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer close(w.progressCh)
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				select {
				case w.progressCh <- w.snapshot():
				default:
				}
				return
			case <-ticker.C:
				select {
				case w.progressCh <- w.snapshot():
				default:
				}
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }
}

func (w *Walker) snapshot() Progress {
	return Progress{
		FilesScanned: atomic.LoadInt64(&w.progress.FilesScanned),
		DirsScanned:  atomic.LoadInt64(&w.progress.DirsScanned),
		BytesFound:   atomic.LoadInt64(&w.progress.BytesFound),
		Errors:       atomic.LoadInt64(&w.progress.Errors),
	}
}

// Ensure Walker implements Scanner
var _ Scanner = (*Walker)(nil)
