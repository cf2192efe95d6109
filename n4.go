// Package n4 implements the core of a minimal Forth-family programming
// environment for constrained targets: a bytecode assembler, a threaded-code
// inner interpreter, and a single contiguous byte arena holding the
// dictionary, the two stacks, and a terminal input buffer. See SPEC_FULL.md
// for the full component breakdown.
package n4

import (
	"context"
	"errors"
	"io"
	"math/rand"

	"github.com/wilyJ80/nanoforth/internal/flushio"
	"github.com/wilyJ80/nanoforth/internal/panicerr"
)

// VM is a nanoForth virtual machine: the arena plus every piece of
// process-wide state the core touches (§9 calls this out explicitly as a
// deliberate global-mutable-state design to preserve, re-housed here as a
// single owned struct rather than package-level singletons).
type VM struct {
	arena *Arena

	here uint16 // top of dictionary, mirrors arena offset 0's role in the original
	last uint16 // most recently defined word's lfa, or LFAEnd
	rp   uint16 // return stack pointer (grows up from arena.RetBase())
	sp   uint16 // data stack pointer (grows down from arena.DataBase())

	radixHex bool
	caseFold bool // true = case-insensitive name comparison

	trace  bool
	tab    int // trace indentation counter, mirrors N4Asm::tab
	apiTbl []func(vm *VM)
	rng    *rand.Rand

	echo          bool // KEY echoes the byte it read back to out (§6)
	autorunOnExit bool // BYE saves with the autorun signature first

	store      Store
	clock      Clock
	interrupts Interrupts
	gpio       GPIO

	in      io.Reader
	tib     tokenizer
	out     flushio.WriteFlusher
	closers []io.Closer

	logfn func(mess string, args ...interface{})
}

// New constructs a VM with the given options applied over sensible
// defaults: default arena sizes, a discarding output, no-op collaborators,
// and case-sensitive decimal parsing (matching the original's defaults).
func New(opts ...Option) *VM {
	vm := &VM{
		arena:      NewArena(DefaultDicSz, DefaultStkSz, DefaultTibSz),
		store:      nil,
		clock:      zeroClock{},
		interrupts: noopInterrupts{},
		gpio:       noopGPIO{},
		out:        flushio.NewWriteFlusher(io.Discard),
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
	if vm.in == nil {
		vm.in = new(noReader)
	}
	vm.tib.init(vm.in)
	return vm
}

type noReader struct{}

func (*noReader) Read([]byte) (int, error) { return 0, io.EOF }

// Run resets the VM (replaying any autorun dictionary found in the Store),
// then drives the outer interpreter until the input is exhausted, BYE is
// executed, or ctx is done. Fatal conditions raised internally via panic are
// recovered here and returned as a plain error, matching the teacher's
// panicerr.Recover + Run() split between fatal halts and graceful EOF.
func (vm *VM) Run(ctx context.Context) error {
	err := panicerr.Recover("n4", func() error {
		vm.reset()
		return vm.loop(ctx)
	})
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var he haltError
	if errors.As(err, &he) {
		return he.error
	}
	return err
}

func (vm *VM) loop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := vm.outer(); err != nil {
			return err
		}
	}
}

// reset rewinds the dictionary, stack pointers and assembler state, then
// attempts an autorun load from the Store (N4Asm::reset/N4VM::_init).
func (vm *VM) reset() {
	vm.here = 0
	vm.last = LFAEnd
	vm.tab = 0
	vm.rp = vm.arena.RetBase()
	vm.sp = vm.arena.DataBase()
	vm.interrupts.Reset()

	if vm.store != nil {
		if lfa := vm.load(true); lfa != LFAEnd {
			vm.logf("reset\n")
			vm.nest(XT(lfa))
		}
	}
}

func (vm *VM) logf(mess string, args ...interface{}) {
	if vm.logfn != nil {
		vm.logfn(mess, args...)
	}
}

// SetRadix toggles decimal/hex number parsing and printing, the runtime
// effect of the DEC/HEX immediate words.
func (vm *VM) SetRadix(hex bool) { vm.radixHex = hex }

// Close flushes output and closes any collaborators opened by options
// (e.g. a file-backed WithOutput).
func (vm *VM) Close() error {
	var err error
	if vm.out != nil {
		err = vm.out.Flush()
	}
	for _, c := range vm.closers {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
