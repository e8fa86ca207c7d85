package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/prefkit/pref/medium"
)

func TestHexUint32(t *testing.T) {
	var h hexUint32
	require.NoError(t, h.Set("0xB0075"))
	assert.Equal(t, "0x000b0075", h.String())
	require.NoError(t, h.Set("10"))
	assert.Equal(t, hexUint32(10), h)
	require.Error(t, h.Set("0x100000000"))
	assert.Equal(t, "uint32", h.Type())
}

func TestClassValue(t *testing.T) {
	var c classValue
	assert.Empty(t, c.String())
	assert.Nil(t, c.classes())

	require.NoError(t, c.Set("nvs"))
	assert.Equal(t, "nvs", c.String())
	assert.Equal(t, []medium.Class{medium.ClassNVS}, c.classes())

	require.ErrorIs(t, c.Set("tape"), medium.ErrUnknownClass)
}

func TestParsePayload(t *testing.T) {
	b, err := parsePayload([]string{"1", "0x100"}, "")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 1, 0, 0}, b)

	b, err = parsePayload(nil, "beef")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xbe, 0xef}, b)

	_, err = parsePayload([]string{"1"}, "beef")
	require.Error(t, err)
	_, err = parsePayload([]string{"x"}, "")
	require.Error(t, err)
	_, err = parsePayload(nil, "zz")
	require.Error(t, err)
	_, err = parsePayload(nil, "")
	require.ErrorIs(t, err, errNoValue)
}
