package nvram_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wilyJ80/nanoforth/internal/nvram"
)

func TestMemory(t *testing.T) {
	m := nvram.NewMemory(64)
	assert.Equal(t, 64, m.Length())
	assert.Equal(t, byte(0), m.Read(10), "unwritten byte reads as zero")

	m.Update(10, 0x42)
	m.Update(63, 0xff)
	assert.Equal(t, byte(0x42), m.Read(10))
	assert.Equal(t, byte(0xff), m.Read(63))
	assert.Equal(t, byte(0), m.Read(11), "neighboring byte unaffected")
}
