package pref

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/prefkit/internal/format"
	"github.com/joshuapare/prefkit/pref/medium"
)

func TestRegion_SaveLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		class medium.Class
		m     func(t *testing.T) medium.Medium
	}{
		{"rtc", medium.ClassRTC, func(*testing.T) medium.Medium { return medium.NewRTC(64) }},
		{"flash", medium.ClassFlash, func(t *testing.T) medium.Medium { return newFlash(t) }},
		{"nvs", medium.ClassNVS, func(t *testing.T) medium.Medium {
			return medium.NewNVS(t.TempDir()+"/nvs.bin", "prefs", 1024, medium.DefaultNVSBlockSize)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newStore(t, tt.class, tt.m(t), time.Minute, Options{})
			r := s.MakePreference(3, 0xABCD)
			require.True(t, r.IsInitialized())

			want := le32(1, 0xDEADBEEF, 3)
			require.NoError(t, r.Save(want, false))

			got := make([]byte, len(want))
			require.NoError(t, r.Load(got))
			assert.Equal(t, want, got)

			// Short values are zero-padded and short reads take a prefix.
			require.NoError(t, r.Save([]byte{7}, false))
			got = make([]byte, 5)
			require.NoError(t, r.Load(got))
			assert.Equal(t, []byte{7, 0, 0, 0, 0}, got)
		})
	}
}

func TestRegion_ValueSize(t *testing.T) {
	s, _ := newStore(t, medium.ClassRTC, medium.NewRTC(16), time.Minute, Options{})
	r := s.MakePreference(1, 1)

	require.ErrorIs(t, r.Save(make([]byte, 5), false), ErrValueSize)
	require.ErrorIs(t, r.Load(make([]byte, 5)), ErrValueSize)
}

func TestRegion_NeverWritten(t *testing.T) {
	// A blank medium holds zeros (RTC) or erased 0xFF bytes (flash). The
	// checksum never takes either value, so a blank region never verifies,
	// even when its payload would decode to a plausible value.
	t.Run("zeroed", func(t *testing.T) {
		s, _ := newStore(t, medium.ClassRTC, medium.NewRTC(16), time.Minute, Options{})
		r := s.MakePreference(2, 0x1234)
		require.ErrorIs(t, r.Load(make([]byte, 8)), ErrIntegrity)
	})

	t.Run("erased", func(t *testing.T) {
		s, _ := newStore(t, medium.ClassFlash, newFlash(t), time.Minute, Options{})
		r := s.MakePreference(2, 0x1234)
		require.ErrorIs(t, r.Load(make([]byte, 8)), ErrIntegrity)
	})

	t.Run("zero payload is still saveable", func(t *testing.T) {
		zero := make([]byte, 8)
		assert.NotEqual(t, uint32(0), format.Checksum(0x1234, 0, 2, zero))

		s, _ := newStore(t, medium.ClassRTC, medium.NewRTC(16), time.Minute, Options{})
		r := s.MakePreference(2, 0x1234)
		require.NoError(t, r.Save(zero, false))

		got := []byte{1, 1, 1, 1, 1, 1, 1, 1}
		require.NoError(t, r.Load(got))
		assert.Equal(t, zero, got)
	})
}

func TestRegion_CorruptionDetected(t *testing.T) {
	fl := newFlash(t)
	s, _ := newStore(t, medium.ClassFlash, fl, time.Minute, Options{})

	s.MakePreference(1, 0x01) // shift the region off offset 0
	r := s.MakePreference(3, 0x02)
	require.NoError(t, r.Save(le32(1, 2, 3), true))

	base := format.WordsToBytes(r.Offset())
	img := fl.Bytes()
	dst := le32(7, 7, 7)

	for i := 0; i < format.WordsToBytes(r.LengthWords()+format.ChecksumWords); i++ {
		img[base+i] ^= 0x01
		require.ErrorIs(t, r.Load(dst), ErrIntegrity, "byte %d", i)
		assert.Equal(t, le32(7, 7, 7), dst, "destination modified at byte %d", i)
		img[base+i] ^= 0x01
	}

	require.NoError(t, r.Load(dst))
	assert.Equal(t, le32(1, 2, 3), dst)
}

func TestRegion_IntegrityFailuresAreIndistinguishable(t *testing.T) {
	fl := newFlash(t)
	s, _ := newStore(t, medium.ClassFlash, fl, time.Minute, Options{})

	blank := s.MakePreference(1, 1)
	corrupt := s.MakePreference(1, 2)
	require.NoError(t, corrupt.Save(le32(5), true))
	fl.Bytes()[format.WordsToBytes(corrupt.Offset())] ^= 0xFF

	errBlank := blank.Load(make([]byte, 4))
	errCorrupt := corrupt.Load(make([]byte, 4))
	assert.Equal(t, ErrIntegrity, errBlank)
	assert.Equal(t, ErrIntegrity, errCorrupt)
	assert.Equal(t, 2, s.Stats().IntegrityFailures)
}

func TestRegion_LoadMediumFailure(t *testing.T) {
	f := medium.NewFaulty(newFlash(t))
	s, _ := newStore(t, medium.ClassFlash, f, time.Minute, Options{})

	r := s.MakePreference(1, 1)
	require.NoError(t, r.Save(le32(3), true))

	f.FailReads(1)
	dst := le32(8)
	err := r.Load(dst)
	require.ErrorIs(t, err, ErrMedium)
	require.ErrorIs(t, err, medium.ErrInjected)
	assert.Equal(t, le32(8), dst)

	require.NoError(t, r.Load(dst))
	assert.Equal(t, le32(3), dst)
}

func TestRegion_LoadUsesMirrorWhileDirty(t *testing.T) {
	f := medium.NewFaulty(newFlash(t))
	s, _ := newStore(t, medium.ClassFlash, f, time.Minute, Options{})
	r := s.MakePreference(1, 1)
	require.NoError(t, r.Save(le32(4), false))

	f.ResetCounters()
	got := make([]byte, 4)
	require.NoError(t, r.Load(got))
	assert.Equal(t, le32(4), got)
	assert.Equal(t, 0, f.Reads)
}

func TestRegion_String(t *testing.T) {
	s, _ := newStore(t, medium.ClassRTC, medium.NewRTC(4), time.Minute, Options{})
	assert.Equal(t, "rtc type=0x00001234 words=2 offset=0", s.MakePreference(2, 0x1234).String())
	assert.Equal(t, "rtc type=0x00000001 words=9 unbound", s.MakePreference(9, 1).String())
}
