package profiler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xiaochun-z/dirprofile/internal/config"
	"github.com/xiaochun-z/dirprofile/internal/scan"
	"github.com/xiaochun-z/dirprofile/internal/selective"
	"github.com/xiaochun-z/dirprofile/internal/store"
)

type Profiler struct {
	cfg      *config.Config
	db       *sql.DB
	notifier scan.Notifier
	hasher   scan.Hasher
	now      func() time.Time
}

type Option func(*Profiler)

// WithHasher replaces the hasher selected by the configuration.
func WithHasher(h scan.Hasher) Option {
	return func(p *Profiler) { p.hasher = h }
}

func New(cfg *config.Config, db *sql.DB, notifier scan.Notifier, opts ...Option) *Profiler {
	p := &Profiler{cfg: cfg, db: db, notifier: notifier, now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Summary describes one profile run.
type Summary struct {
	Root         string
	Directories  int
	Files        int
	Hashed       int64
	Reused       int64
	Unreadable   int64
	FilesWritten int
	Duration     time.Duration
}

// RunOnce walks the configured directory and persists the snapshot in one
// transaction. A walk that fails leaves the database untouched.
func (p *Profiler) RunOnce(ctx context.Context) (Summary, error) {
	start := p.now()
	root, err := filepath.Abs(p.cfg.Directory)
	if err != nil {
		return Summary{}, fmt.Errorf("resolve %s: %w", p.cfg.Directory, err)
	}

	hasher := p.hasher
	if hasher == nil {
		if hasher, err = scan.NewHasher(p.cfg.Hash); err != nil {
			return Summary{}, err
		}
	}

	filter, err := loadFilter(p.cfg)
	if err != nil {
		return Summary{}, err
	}

	gw := store.NewGateway(p.db)
	var lookup scan.RecordLookup = gw
	if prev, ok := gw.Meta(ctx, store.MetaHashAlgorithm); ok && prev != p.cfg.Hash {
		slog.Warn("hash algorithm changed, rehashing every file", "previous", prev, "current", p.cfg.Hash)
		lookup = nil
	}

	w := scan.NewWalker(scan.Options{
		Hasher:   hasher,
		Detector: scan.NewChangeDetector(lookup, p.cfg.MtimeTolerance),
		Notifier: p.notifier,
		Filter:   filter,
		Workers:  p.cfg.Workers,
	})
	slog.Info("walking", "root", root, "hash", p.cfg.Hash, "workers", p.cfg.Workers)
	entries, err := w.Walk(ctx, root)
	if err != nil {
		return Summary{}, fmt.Errorf("walk %s: %w", root, err)
	}
	ws := w.Stats()
	if ws.Unreadable > 0 {
		slog.Warn("some files could not be read and are not stored", "count", ws.Unreadable)
	}

	ps, err := gw.Persist(ctx, entries, map[string]string{
		store.MetaLastRoot:      root,
		store.MetaLastRunAt:     start.UTC().Format(time.RFC3339),
		store.MetaHashAlgorithm: p.cfg.Hash,
		store.MetaEntryCount:    strconv.Itoa(len(entries)),
	})
	if err != nil {
		return Summary{}, fmt.Errorf("persist: %w", err)
	}

	return Summary{
		Root:         root,
		Directories:  ws.Directories,
		Files:        ws.Files,
		Hashed:       ws.Hashed,
		Reused:       ws.Reused,
		Unreadable:   ws.Unreadable,
		FilesWritten: ps.Files,
		Duration:     p.now().Sub(start),
	}, nil
}

func loadFilter(cfg *config.Config) (scan.Filter, error) {
	if cfg.Filter != nil {
		return selective.FromYAML(cfg.Filter.Include, cfg.Filter.Exclude), nil
	}
	l, err := selective.Load(cfg.FilterListPath)
	if err != nil {
		return nil, fmt.Errorf("load filter list %s: %w", cfg.FilterListPath, err)
	}
	return l, nil
}
