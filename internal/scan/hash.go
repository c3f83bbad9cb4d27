package scan

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"

	"github.com/zeebo/blake3"
)

// BlockSize is the read size used when streaming file content into a digest.
const BlockSize = 4096

// ErrUnreadable reports that a file's content could not be read. The walk
// records such files without a hash instead of failing.
var ErrUnreadable = errors.New("file content unreadable")

type Hasher interface {
	Hash(path string) (Digest, error)
}

const (
	AlgorithmSHA256 = "sha256"
	AlgorithmBLAKE3 = "blake3"
)

// NewHasher returns the hasher for the named algorithm. An empty name selects
// SHA-256.
func NewHasher(algorithm string) (Hasher, error) {
	switch algorithm {
	case "", AlgorithmSHA256:
		return SHA256Hasher{}, nil
	case AlgorithmBLAKE3:
		return Blake3Hasher{}, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", algorithm)
	}
}

type SHA256Hasher struct{}

func (SHA256Hasher) Hash(path string) (Digest, error) {
	return hashFile(path, sha256.New())
}

type Blake3Hasher struct{}

func (Blake3Hasher) Hash(path string) (Digest, error) {
	return hashFile(path, blake3.New())
}

func hashFile(path string, h hash.Hash) (Digest, error) {
	var d Digest
	if h.Size() != len(d) {
		return d, fmt.Errorf("digest size %d, want %d", h.Size(), len(d))
	}
	f, err := os.Open(path)
	if err != nil {
		return d, classify(path, err)
	}
	defer f.Close()

	buf := make([]byte, BlockSize)
	for {
		n, err := f.Read(buf)
		h.Write(buf[:n])
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return d, classify(path, err)
		}
	}
	copy(d[:], h.Sum(nil))
	return d, nil
}

func classify(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	return fmt.Errorf("hash %s: %w", path, err)
}
