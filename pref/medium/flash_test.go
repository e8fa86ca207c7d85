package medium_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/prefkit/pref/medium"
)

func openFlash(t *testing.T, size int) (*medium.Flash, medium.Handle, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flash.bin")
	f := medium.NewFlash(path, size)
	h, err := f.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f, h, path
}

func TestFlash_NewImageIsErased(t *testing.T) {
	_, h, _ := openFlash(t, 100)

	// Rounded up to one sector.
	require.Equal(t, 4096, h.Size())
	got, err := h.Read(0, 16)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 16), got)
}

func TestFlash_SyncPersists(t *testing.T) {
	f, h, path := openFlash(t, 4096)

	require.NoError(t, h.Write(64, []byte{1, 2, 3, 4}))
	require.NoError(t, h.(medium.Syncer).Sync())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, data[64:68])

	again := medium.NewFlash(path, 4096)
	h2, err := again.Open()
	require.NoError(t, err)
	defer again.Close()
	got, err := h2.Read(64, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
}

func TestFlash_EraseAccounting(t *testing.T) {
	f, h, _ := openFlash(t, 2*4096)

	// Clearing bits on an erased sector needs no erase.
	require.NoError(t, h.Write(0, []byte{0x0F, 0x00, 0x00, 0x00}))
	assert.Equal(t, []uint32{0, 0}, f.Erases())

	// Setting a bit back to 1 does.
	require.NoError(t, h.Write(0, []byte{0xFF, 0x00, 0x00, 0x00}))
	assert.Equal(t, []uint32{1, 0}, f.Erases())

	// Rewriting identical data costs nothing.
	require.NoError(t, h.Write(0, []byte{0xFF, 0x00, 0x00, 0x00}))
	assert.Equal(t, []uint32{1, 0}, f.Erases())

	// One write spanning both sectors charges each once.
	span := bytes.Repeat([]byte{0x00}, 8)
	require.NoError(t, h.Write(4092, span))
	require.NoError(t, h.Write(4092, bytes.Repeat([]byte{0x11}, 8)))
	assert.Equal(t, []uint32{2, 1}, f.Erases())
}

func TestFlash_ClosedHandle(t *testing.T) {
	f, h, _ := openFlash(t, 4096)
	require.NoError(t, f.Close())

	_, err := h.Read(0, 4)
	require.ErrorIs(t, err, medium.ErrClosed)
	require.ErrorIs(t, h.Write(0, []byte{0, 0, 0, 0}), medium.ErrClosed)
}
