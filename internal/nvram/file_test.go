package nvram_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilyJ80/nanoforth/internal/nvram"
)

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "n4.rom")

	f, err := nvram.OpenFile(path, 32)
	require.NoError(t, err)
	assert.Equal(t, 32, f.Length())
	f.Update(0, 0x4e)
	f.Update(1, 0x34)
	f.Update(31, 0xaa)
	require.NoError(t, f.Close())

	f2, err := nvram.OpenFile(path, 32)
	require.NoError(t, err)
	defer f2.Close()
	assert.Equal(t, byte(0x4e), f2.Read(0))
	assert.Equal(t, byte(0x34), f2.Read(1))
	assert.Equal(t, byte(0xaa), f2.Read(31))
	assert.Equal(t, byte(0), f2.Read(15), "untouched byte reads as zero")
}
