// Package cache persists completed scans as compressed snapshots, so a
// later session can show a tree immediately or compare against history.
package cache

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/lumipallolabs/dirmap/internal/model"
)

// ErrNoSnapshot reports that no stored snapshot exists for a root
var ErrNoSnapshot = errors.New("no snapshot")

// stampFormat keeps filenames sortable; nanoseconds separate snapshots
// taken within the same second
const stampFormat = "2006-01-02_150405.000000000"

// Cache handles saving and loading scan snapshots
type Cache struct {
	dir string
}

// New creates a cache rooted at the given directory
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// DefaultDir returns the user-level cache directory
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ".dirmap"
	}
	return filepath.Join(base, "dirmap")
}

// Snapshot is one persisted scan, rebuilt into a live tree
type Snapshot struct {
	Root    string
	TakenAt time.Time
	Tree    *model.Node
}

// Entry names one stored snapshot file
type Entry struct {
	File    string
	TakenAt time.Time
}

// snapshotNode mirrors model.Node without the parent link, which gob
// cannot follow (the cycle never terminates)
type snapshotNode struct {
	Path     string
	Name     string
	Size     int64
	Total    int64
	IsDir    bool
	Category string
	Children []*snapshotNode
}

// envelope is the on-disk shape
type envelope struct {
	Root    string
	TakenAt time.Time
	Tree    *snapshotNode
}

// Save stores the tree as a new snapshot for root
func (c *Cache) Save(root string, tree *model.Node) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	now := time.Now()
	filename := fmt.Sprintf("dirmap_%s_%s.gob.gz", rootKey(root), now.Format(stampFormat))
	path := filepath.Join(c.dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	defer gz.Close()

	enc := gob.NewEncoder(gz)
	if err := enc.Encode(&envelope{Root: root, TakenAt: now, Tree: flatten(tree)}); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// History lists stored snapshots for root, oldest first
func (c *Cache) History(root string) ([]Entry, error) {
	pattern := filepath.Join(c.dir, fmt.Sprintf("dirmap_%s_*.gob.gz", rootKey(root)))
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob: %w", err)
	}
	// Timestamps are fixed width, so the filename sort is the time sort.
	sort.Strings(files)

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, Entry{File: f, TakenAt: stampOf(f)})
	}
	return entries, nil
}

// LoadLatest loads the most recent snapshot for root
func (c *Cache) LoadLatest(root string) (*Snapshot, error) {
	entries, err := c.History(root)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoSnapshot, root)
	}
	return c.LoadFile(entries[len(entries)-1].File)
}

// LoadFile loads one snapshot file and rebuilds the tree, parent links
// included
func (c *Cache) LoadFile(file string) (*Snapshot, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer gz.Close()

	var env envelope
	if err := gob.NewDecoder(gz).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return &Snapshot{
		Root:    env.Root,
		TakenAt: env.TakenAt,
		Tree:    env.Tree.toModel(nil),
	}, nil
}

// Prune removes all but the keep most recent snapshots for root
func (c *Cache) Prune(root string, keep int) error {
	entries, err := c.History(root)
	if err != nil {
		return err
	}
	if keep < 0 {
		keep = 0
	}
	for i := 0; i+keep < len(entries); i++ {
		if err := os.Remove(entries[i].File); err != nil {
			return fmt.Errorf("prune: %w", err)
		}
	}
	return nil
}

// rootKey hashes the scanned path into a short stable filename token
func rootKey(root string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(root))
}

func stampOf(file string) time.Time {
	base := filepath.Base(file)
	// dirmap_<16 hex>_<stamp>.gob.gz
	const prefixLen = len("dirmap_") + 16 + 1
	if len(base) <= prefixLen+len(".gob.gz") {
		return time.Time{}
	}
	stamp := base[prefixLen : len(base)-len(".gob.gz")]
	t, err := time.ParseInLocation(stampFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func flatten(n *model.Node) *snapshotNode {
	if n == nil {
		return nil
	}
	sn := &snapshotNode{
		Path:     n.Path,
		Name:     n.Name,
		Size:     n.Size,
		Total:    n.Total,
		IsDir:    n.IsDir,
		Category: n.Category,
	}
	for _, child := range n.Children {
		sn.Children = append(sn.Children, flatten(child))
	}
	return sn
}

func (sn *snapshotNode) toModel(parent *model.Node) *model.Node {
	if sn == nil {
		return nil
	}
	n := &model.Node{
		Path:     sn.Path,
		Name:     sn.Name,
		Size:     sn.Size,
		Total:    sn.Total,
		IsDir:    sn.IsDir,
		Category: sn.Category,
		Parent:   parent,
	}
	for _, child := range sn.Children {
		n.Children = append(n.Children, child.toModel(n))
	}
	return n
}
