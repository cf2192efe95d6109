package n4

import (
	"math/rand"
	"time"

	"github.com/wilyJ80/nanoforth/internal/runeio"
)

// Character I/O helpers (§6): EMT/CR/./."/TYP write through vm.out, KEY
// reads a raw byte bypassing the tokenizer's line buffering.

func (vm *VM) writeByte(b byte) {
	if vm.out == nil {
		return
	}
	vm.out.Write([]byte{b})
}

func (vm *VM) writeString(s string) {
	if vm.out == nil {
		return
	}
	vm.out.Write([]byte(s))
}

func (vm *VM) readKey() byte {
	if vm.tib.r == nil {
		return 0
	}
	b, err := vm.tib.r.ReadByte()
	if err != nil {
		return 0
	}
	if vm.echo {
		vm.echoByte(b)
	}
	return b
}

// echoByte writes b back to the output stream (§6's "echoes are the core's
// responsibility"), rendering control characters in caret form the way a
// serial terminal's local echo would show them.
func (vm *VM) echoByte(b byte) {
	if b < 0x20 || b == 0x7f {
		vm.writeString(runeio.CaretForm(rune(b)))
		return
	}
	vm.writeByte(b)
}

// rand is a private, lazily-seeded source for RND; it is not part of any
// collaborator interface because the spec treats RND as a pure convenience
// primitive, not a hardware capability a host need supply.
func (vm *VM) rand() int32 {
	if vm.rng == nil {
		vm.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return vm.rng.Int31()
}
