package mmfile

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenRW_CreatesFilledFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sector.bin")

	m, err := OpenRW(path, 64, 0xFF)
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, 64, m.Size())
	if runtime.GOOS == "linux" {
		require.True(t, m.Mapped())
	}
	for i, b := range m.Bytes() {
		require.Equalf(t, byte(0xFF), b, "byte %d not erased", i)
	}

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(64), st.Size())
}

func TestOpenRW_FlushPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sector.bin")

	m, err := OpenRW(path, 32, 0x00)
	require.NoError(t, err)

	copy(m.Bytes()[8:], []byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, m.Flush(8, 4))
	require.NoError(t, m.Sync())
	require.NoError(t, m.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, data[8:12])
}

func TestOpenRW_KeepsExistingContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sector.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4}, 0o644))

	m, err := OpenRW(path, 8, 0xFF)
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, []byte{1, 2, 3, 4, 0xFF, 0xFF, 0xFF, 0xFF}, m.Bytes())
}

func TestMapping_FlushBounds(t *testing.T) {
	m, err := OpenRW(filepath.Join(t.TempDir(), "s.bin"), 16, 0)
	require.NoError(t, err)
	defer m.Close()

	require.Error(t, m.Flush(12, 8))
	require.NoError(t, m.Flush(16, 0))
}

func TestMapping_CloseTwice(t *testing.T) {
	m, err := OpenRW(filepath.Join(t.TempDir(), "s.bin"), 16, 0)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	require.ErrorIs(t, m.Flush(0, 4), ErrClosed)
	require.ErrorIs(t, m.Sync(), ErrClosed)
}

func TestOpenRW_InvalidSize(t *testing.T) {
	_, err := OpenRW(filepath.Join(t.TempDir(), "s.bin"), 0, 0)
	require.Error(t, err)
}
