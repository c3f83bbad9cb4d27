package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Notifier receives one call per entry emitted by a walk.
type Notifier interface {
	FoundDirectory(path string)
	FoundFile(path string)
}

type NopNotifier struct{}

func (NopNotifier) FoundDirectory(string) {}
func (NopNotifier) FoundFile(string)      {}

// Filter restricts which paths below the root are visited. pathRel is slash
// separated and relative to the walk root.
type Filter interface {
	ShouldVisit(pathRel string, isDir bool) bool
}

// Options configures a Walker. Zero values select SHA-256 hashing, no hash
// reuse, no notifications, no filtering and a single hashing worker.
type Options struct {
	Hasher   Hasher
	Detector *ChangeDetector
	Notifier Notifier
	Filter   Filter
	Workers  int
}

// Stats describes the most recent walk.
type Stats struct {
	Directories int
	Files       int
	Hashed      int64
	Reused      int64
	Unreadable  int64
	Skipped     int
}

// Walker traverses a directory tree breadth-first.
type Walker struct {
	opts Options

	stats      Stats
	hashed     atomic.Int64
	unreadable atomic.Int64
}

func NewWalker(opts Options) *Walker {
	if opts.Hasher == nil {
		opts.Hasher = SHA256Hasher{}
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Walker{opts: opts}
}

type queued struct {
	path   string
	parent *Directory
}

// pendingFile is a file whose node is completed once its hash is resolved.
type pendingFile struct {
	slot int
	path string
	name string
	dir  *Directory
	st   fileStat
}

// Walk visits root and everything below it, returning one entry per directory
// and regular file. Every directory precedes its descendants in the result.
func (w *Walker) Walk(ctx context.Context, root string) ([]Entry, error) {
	w.stats = Stats{}
	w.hashed.Store(0)
	w.unreadable.Store(0)
	reusedBefore := w.opts.Detector.Reused()

	root = filepath.Clean(root)
	st, err := statPath(root)
	if err != nil {
		return nil, fmt.Errorf("walk root: %w", err)
	}
	if st.kind != kindDir {
		return nil, fmt.Errorf("walk root %s: not a directory", root)
	}

	var (
		out     []Entry
		pending []pendingFile
		queue   = []queued{{path: root}}
	)
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur := queue[0]
		queue = queue[1:]

		if cur.parent != nil {
			st, err = statPath(cur.path)
			if err != nil {
				slog.Debug("skipping entry", "path", cur.path, "error", err)
				w.stats.Skipped++
				continue
			}
			if st.kind == kindOther || !w.visit(root, cur.path, st.kind == kindDir) {
				w.stats.Skipped++
				continue
			}
		}

		switch st.kind {
		case kindDir:
			name := filepath.Base(cur.path)
			if cur.parent == nil {
				name = rootName(cur.path)
			}
			dir := &Directory{ID: st.id, Name: name, Parent: cur.parent}
			out = append(out, DirectoryEntry(dir))
			w.stats.Directories++
			w.opts.Notifier.FoundDirectory(cur.path)

			children, err := listChildren(cur.path)
			if err != nil {
				return nil, err
			}
			for _, name := range children {
				queue = append(queue, queued{path: filepath.Join(cur.path, name), parent: dir})
			}
		case kindRegular:
			pending = append(pending, pendingFile{
				slot: len(out),
				path: cur.path,
				name: filepath.Base(cur.path),
				dir:  cur.parent,
				st:   st,
			})
			out = append(out, Entry{})
			w.stats.Files++
			w.opts.Notifier.FoundFile(cur.path)
		}
	}

	if err := w.resolve(ctx, out, pending); err != nil {
		return nil, err
	}
	w.stats.Hashed = w.hashed.Load()
	w.stats.Unreadable = w.unreadable.Load()
	w.stats.Reused = w.opts.Detector.Reused() - reusedBefore
	return out, nil
}

// Stats returns the counters of the last call to Walk.
func (w *Walker) Stats() Stats { return w.stats }

func (w *Walker) visit(root, path string, isDir bool) bool {
	if w.opts.Filter == nil {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return true
	}
	return w.opts.Filter.ShouldVisit(filepath.ToSlash(rel), isDir)
}

// listChildren returns the names inside dir. A directory that cannot be
// listed, or that disappeared since it was classified, has no children.
func listChildren(dir string) ([]string, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
			slog.Debug("directory not listable", "path", dir, "error", err)
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	names := make([]string, 0, len(des))
	for _, de := range des {
		names = append(names, de.Name())
	}
	return names, nil
}

// resolve builds the file nodes of pending, hashing on up to opts.Workers
// goroutines. Results land in their reserved slots so ordering is unchanged.
func (w *Walker) resolve(ctx context.Context, out []Entry, pending []pendingFile) error {
	workers := min(w.opts.Workers, len(pending))
	if workers <= 1 {
		for _, p := range pending {
			f, err := w.buildFile(ctx, p)
			if err != nil {
				return err
			}
			out[p.slot] = FileEntry(f)
		}
		return nil
	}

	jobs := make(chan pendingFile, workers*2)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
		failed   atomic.Bool
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				if failed.Load() {
					continue
				}
				f, err := w.buildFile(ctx, p)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					failed.Store(true)
					continue
				}
				out[p.slot] = FileEntry(f)
			}
		}()
	}
	for _, p := range pending {
		jobs <- p
	}
	close(jobs)
	wg.Wait()
	return firstErr
}

func (w *Walker) buildFile(ctx context.Context, p pendingFile) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := &File{
		ID:           p.st.id,
		Name:         p.name,
		LastModified: p.st.modTime,
		AccessRights: AccessRights(p.st.mode),
		Directory:    p.dir,
	}
	if d, ok := w.opts.Detector.Reuse(ctx, f.ID, f.LastModified); ok {
		f.ContentHash = d
		return f, nil
	}
	d, err := w.opts.Hasher.Hash(p.path)
	switch {
	case errors.Is(err, ErrUnreadable):
		slog.Debug("file not readable", "path", p.path, "error", err)
		w.unreadable.Add(1)
		return f, nil
	case err != nil:
		return nil, err
	}
	w.hashed.Add(1)
	f.ContentHash = &d
	return f, nil
}

// rootName resolves relative roots such as "." to the real directory name.
func rootName(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.Base(path)
}
