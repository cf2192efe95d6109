// Package nvram provides Store (§6, C5) implementations standing in for the
// microcontroller's flash/EEPROM part: an in-memory simulation good enough
// to round-trip SAV/LD within a single process, and a file-backed one that
// survives across process restarts.
package nvram

import "github.com/wilyJ80/nanoforth/internal/mem"

// Memory is an in-memory nonvolatile Store backed by the teacher's paged
// integer memory (internal/mem.Ints): capacity is fixed at construction, the
// way a real part's size is fixed in silicon, but the backing pages are
// allocated lazily the first time a byte in them is written, simulating a
// sectored flash part that need not be all resident at once.
type Memory struct {
	ints mem.Ints
	size int
}

// NewMemory allocates a simulated nonvolatile store of the given byte
// capacity.
func NewMemory(size int) *Memory {
	m := &Memory{size: size}
	m.ints.PageSize = mem.DefaultIntsPageSize
	m.ints.Limit = uint(size)
	return m
}

// Length reports the store's total capacity in bytes.
func (m *Memory) Length() int { return m.size }

// Read returns the byte at offset i, or 0 if its page was never written.
func (m *Memory) Read(i int) byte {
	v, err := m.ints.Load(uint(i))
	if err != nil {
		return 0
	}
	return byte(v)
}

// Update writes byte b at offset i, allocating a backing page if needed.
func (m *Memory) Update(i int, b byte) {
	_ = m.ints.Stor(uint(i), int(b))
}
