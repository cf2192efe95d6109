package n4

// Default heap sizing, ported from the nanoForth core constants: a 1 KiB
// dictionary, a 128-byte combined stack region, and a 128-byte terminal
// input buffer.
const (
	DefaultDicSz uint16 = 0x400
	DefaultStkSz uint16 = 0x80
	DefaultTibSz uint16 = 0x80
)

// LFAEnd is the sentinel link-field value terminating the dictionary's
// singly linked list, and the sentinel pushed onto the return stack to mark
// the bottom of a nest() call.
const LFAEnd uint16 = 0xffff

// Arena is the single contiguous byte array backing the dictionary, the two
// stacks, and the terminal input buffer (§3). Every address the core deals
// in -- here, last, rp, sp, xt, branch targets -- is a 16-bit offset into
// this one buffer, which is what keeps the whole program image
// position-independent and round-trippable to a Store.
//
// Partition layout, in order of increasing offset:
//
//	[0, DicSz)                 dictionary, grows upward, top = here
//	[DicSz, DicSz+StkSz)       stacks: return stack grows up from DicSz,
//	                           data stack grows down from DicSz+StkSz
//	[DicSz+StkSz, total)       terminal input buffer
type Arena struct {
	buf   []byte
	DicSz uint16
	StkSz uint16
	TibSz uint16
}

// NewArena allocates an arena with the given partition sizes.
func NewArena(dicSz, stkSz, tibSz uint16) *Arena {
	total := int(dicSz) + int(stkSz) + int(tibSz)
	return &Arena{buf: make([]byte, total), DicSz: dicSz, StkSz: stkSz, TibSz: tibSz}
}

// RetBase is the low boundary of the stacks region, the return stack's
// empty-state pointer value.
func (a *Arena) RetBase() uint16 { return a.DicSz }

// DataBase is the high boundary of the stacks region (and the start of the
// terminal input buffer), the data stack's empty-state pointer value.
func (a *Arena) DataBase() uint16 { return a.DicSz + a.StkSz }

// TIBBase is the offset of the terminal input buffer.
func (a *Arena) TIBBase() uint16 { return a.DicSz + a.StkSz }

// Size is the total arena length in bytes.
func (a *Arena) Size() uint16 { return uint16(len(a.buf)) }

func (a *Arena) check(op string, addr uint16, width int) {
	if int(addr)+width > len(a.buf) {
		panic(haltError{arenaError{op, addr}})
	}
}

// Load8 reads one byte at addr.
func (a *Arena) Load8(addr uint16) byte {
	a.check("load8", addr, 1)
	return a.buf[addr]
}

// Store8 writes one byte at addr.
func (a *Arena) Store8(addr uint16, v byte) {
	a.check("store8", addr, 1)
	a.buf[addr] = v
}

// Load16 reads a big-endian 16-bit cell at addr (used for both IU link/call
// targets and DU data values -- both are stored big-endian per the ENCA and
// STORE conventions).
func (a *Arena) Load16(addr uint16) uint16 {
	a.check("load16", addr, 2)
	return uint16(a.buf[addr])<<8 | uint16(a.buf[addr+1])
}

// Store16 writes a big-endian 16-bit cell at addr.
func (a *Arena) Store16(addr uint16, v uint16) {
	a.check("store16", addr, 2)
	a.buf[addr] = byte(v >> 8)
	a.buf[addr+1] = byte(v)
}

// LoadD reads a signed 16-bit data cell.
func (a *Arena) LoadD(addr uint16) int16 { return int16(a.Load16(addr)) }

// StoreD writes a signed 16-bit data cell.
func (a *Arena) StoreD(addr uint16, v int16) { a.Store16(addr, uint16(v)) }

// Bytes exposes the raw backing array, e.g. for persistence (C5) and the
// dumper (C8). Callers must not retain it across any call that might regrow
// the arena -- in practice the arena never regrows after NewArena, unlike
// the teacher's growable internal/mem.Core, because the spec's ABI fixes
// DIC_SZ/STK_SZ/TIB_SZ at boot.
func (a *Arena) Bytes() []byte { return a.buf }
