package scan

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// makeTree creates dirs and files (with content equal to their own path)
// below root.
func makeTree(t *testing.T, root string, dirs, files []string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, f), []byte(f), 0o644))
	}
}

func skipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
}

// chmodRestore changes the mode of path and restores 0o755 when the test ends
// so t.TempDir can clean up.
func chmodRestore(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.Chmod(path, mode))
	t.Cleanup(func() { _ = os.Chmod(path, 0o755) })
}

type countingHasher struct {
	inner Hasher
	calls atomic.Int64
}

func (h *countingHasher) Hash(path string) (Digest, error) {
	h.calls.Add(1)
	return h.inner.Hash(path)
}

// failingHasher returns the error registered for a file's base name and
// hashes every other file with SHA-256.
type failingHasher struct {
	fail map[string]error
}

func (h failingHasher) Hash(path string) (Digest, error) {
	if err, ok := h.fail[filepath.Base(path)]; ok {
		return Digest{}, err
	}
	return SHA256Hasher{}.Hash(path)
}

type fakeLookup struct {
	mu      sync.Mutex
	records map[ID]Record
	calls   int
}

func (f *fakeLookup) FileRecord(_ context.Context, id ID) (Record, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	r, ok := f.records[id]
	return r, ok
}

// lookupFrom records every hashed file of entries the way a store would.
func lookupFrom(entries []Entry) *fakeLookup {
	l := &fakeLookup{records: map[ID]Record{}}
	for _, e := range entries {
		if e.Kind != KindFile || e.File.ContentHash == nil {
			continue
		}
		l.records[e.File.ID] = Record{
			LastModified: e.File.LastModified,
			ContentHash:  append([]byte(nil), e.File.ContentHash[:]...),
		}
	}
	return l
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

func findFile(t *testing.T, entries []Entry, name string) *File {
	t.Helper()
	for _, e := range entries {
		if e.Kind == KindFile && e.File.Name == name {
			return e.File
		}
	}
	t.Fatalf("file %s not found", name)
	return nil
}

// requireParentsFirst checks that every entry's directory precedes it.
func requireParentsFirst(t *testing.T, entries []Entry) {
	t.Helper()
	seen := map[*Directory]int{}
	for i, e := range entries {
		switch e.Kind {
		case KindDirectory:
			if e.Dir.Parent != nil {
				j, ok := seen[e.Dir.Parent]
				require.True(t, ok && j < i, "parent of %s must come first", e.Dir.Name)
			}
			seen[e.Dir] = i
		case KindFile:
			require.NotNil(t, e.File.Directory)
			j, ok := seen[e.File.Directory]
			require.True(t, ok && j < i, "directory of %s must come first", e.File.Name)
		default:
			t.Fatalf("entry %d has no kind", i)
		}
	}
}
