package medium

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/natefinch/atomic"

	"github.com/joshuapare/prefkit/internal/format"
)

// NVS namespace file layout (little-endian):
//
//	0x00  magic "PNVS"
//	0x04  version
//	0x08  block size in bytes
//	0x0C  block count
//	0x10  blocks: index u32, data[block size] (sorted by index)
//	....  CRC-32C of everything above
const (
	nvsMagic      = "PNVS"
	nvsVersion    = 1
	nvsHeaderSize = 16

	// DefaultNVSBlockSize is the blob size used when none is given.
	DefaultNVSBlockSize = 32
)

// NVS is a key-value blob store. The byte range is split into fixed-size
// blocks, each stored as a blob keyed by its index; blocks never written read
// as zeros. Writes stay in memory until Sync rewrites the namespace file
// atomically (temp file + rename), so a power cut leaves either the old or
// the new namespace, never a mix.
//
// NOT thread-safe.
type NVS struct {
	path      string
	namespace string
	size      int
	blockSize int

	blobs   map[uint32][]byte
	opened  bool
	pending bool
}

// NewNVS creates an NVS namespace of size bytes persisted at path.
// blockSize must be a positive multiple of 4; zero selects DefaultNVSBlockSize.
func NewNVS(path, namespace string, size, blockSize int) *NVS {
	if blockSize == 0 {
		blockSize = DefaultNVSBlockSize
	}
	return &NVS{
		path:      path,
		namespace: namespace,
		size:      format.AlignWord(size),
		blockSize: blockSize,
	}
}

func (n *NVS) Name() string { return "nvs:" + n.namespace }

func (n *NVS) Open() (Handle, error) {
	if n.size <= 0 {
		return nil, fmt.Errorf("nvs: invalid size %d", n.size)
	}
	if n.blockSize <= 0 || n.blockSize%format.WordSize != 0 {
		return nil, fmt.Errorf("nvs: invalid block size %d", n.blockSize)
	}
	if n.opened {
		return n, nil
	}

	n.blobs = make(map[uint32][]byte)
	data, err := os.ReadFile(n.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// fresh namespace
	case err != nil:
		return nil, fmt.Errorf("nvs: read %s: %w", n.path, err)
	default:
		if err := n.decode(data); err != nil {
			return nil, fmt.Errorf("nvs: %s: %w", n.path, err)
		}
	}

	n.opened = true
	return n, nil
}

func (n *NVS) Size() int { return n.size }

func (n *NVS) Read(off, length int) ([]byte, error) {
	if !n.opened {
		return nil, ErrClosed
	}
	if err := checkAccess(n.size, off, length); err != nil {
		return nil, fmt.Errorf("nvs read: %w", err)
	}
	out := make([]byte, length)
	n.walk(off, length, func(idx uint32, blockOff, bufOff, cnt int) {
		if blob, ok := n.blobs[idx]; ok {
			copy(out[bufOff:bufOff+cnt], blob[blockOff:blockOff+cnt])
		}
	})
	return out, nil
}

func (n *NVS) Write(off int, p []byte) error {
	if !n.opened {
		return ErrClosed
	}
	if err := checkAccess(n.size, off, len(p)); err != nil {
		return fmt.Errorf("nvs write: %w", err)
	}
	n.walk(off, len(p), func(idx uint32, blockOff, bufOff, cnt int) {
		blob, ok := n.blobs[idx]
		if !ok {
			blob = make([]byte, n.blockSize)
			n.blobs[idx] = blob
		}
		copy(blob[blockOff:blockOff+cnt], p[bufOff:bufOff+cnt])
	})
	if len(p) > 0 {
		n.pending = true
	}
	return nil
}

// walk calls fn for each block piece covering [off, off+length).
func (n *NVS) walk(off, length int, fn func(idx uint32, blockOff, bufOff, cnt int)) {
	for done := 0; done < length; {
		abs := off + done
		idx := abs / n.blockSize
		blockOff := abs % n.blockSize
		cnt := min(n.blockSize-blockOff, length-done)
		fn(uint32(idx), blockOff, done, cnt)
		done += cnt
	}
}

// Sync persists the namespace if anything changed since the last Sync.
func (n *NVS) Sync() error {
	if !n.opened {
		return ErrClosed
	}
	if !n.pending {
		return nil
	}
	if err := atomic.WriteFile(n.path, bytes.NewReader(n.encode())); err != nil {
		return fmt.Errorf("nvs: commit %s: %w", n.path, err)
	}
	n.pending = false
	return nil
}

// Keys returns the stored block indexes in ascending order.
func (n *NVS) Keys() []uint32 {
	keys := make([]uint32, 0, len(n.blobs))
	for k := range n.blobs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Close drops the in-memory namespace. Unsynced writes are lost.
func (n *NVS) Close() error {
	n.blobs = nil
	n.opened = false
	n.pending = false
	return nil
}

func (n *NVS) encode() []byte {
	keys := n.Keys()
	entry := format.WordSize + n.blockSize
	out := make([]byte, nvsHeaderSize+len(keys)*entry+format.WordSize)

	copy(out[0:4], nvsMagic)
	format.PutU32(out, 4, nvsVersion)
	format.PutU32(out, 8, uint32(n.blockSize))
	format.PutU32(out, 12, uint32(len(keys)))

	pos := nvsHeaderSize
	for _, k := range keys {
		format.PutU32(out, pos, k)
		copy(out[pos+format.WordSize:], n.blobs[k])
		pos += entry
	}
	format.PutU32(out, pos, format.CRC32C(out[:pos]))
	return out
}

func (n *NVS) decode(data []byte) error {
	if len(data) < nvsHeaderSize+format.WordSize {
		return fmt.Errorf("%w: %w", ErrCorrupt, format.ErrTruncated)
	}
	if string(data[0:4]) != nvsMagic {
		return fmt.Errorf("%w: bad magic %q", ErrCorrupt, data[0:4])
	}
	if v := format.ReadU32(data, 4); v != nvsVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	if bs := int(format.ReadU32(data, 8)); bs != n.blockSize {
		return fmt.Errorf("%w: block size %d, want %d", ErrCorrupt, bs, n.blockSize)
	}

	count := int(format.ReadU32(data, 12))
	entry := format.WordSize + n.blockSize
	body := nvsHeaderSize + count*entry
	if count < 0 || body+format.WordSize != len(data) {
		return fmt.Errorf("%w: %w", ErrCorrupt, format.ErrTruncated)
	}
	if got, want := format.CRC32C(data[:body]), format.ReadU32(data, body); got != want {
		return fmt.Errorf("%w: crc 0x%08x, want 0x%08x", ErrCorrupt, got, want)
	}

	maxIdx := uint32((n.size + n.blockSize - 1) / n.blockSize)
	for pos := nvsHeaderSize; pos < body; pos += entry {
		idx := format.ReadU32(data, pos)
		if idx >= maxIdx {
			// namespace shrank; blocks past the end are dropped
			continue
		}
		blob := make([]byte, n.blockSize)
		copy(blob, data[pos+format.WordSize:pos+entry])
		n.blobs[idx] = blob
	}
	return nil
}

var (
	_ Medium = (*NVS)(nil)
	_ Handle = (*NVS)(nil)
	_ Syncer = (*NVS)(nil)
)
