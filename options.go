package n4

import (
	"io"

	"github.com/wilyJ80/nanoforth/internal/flushio"
)

// Option configures a VM at construction time (functional-options pattern,
// mirroring the teacher's api.go/options.go generation).
type Option interface {
	apply(vm *VM)
}

type optionFunc func(vm *VM)

func (f optionFunc) apply(vm *VM) { f(vm) }

// WithInput sets the character source the outer interpreter tokenizes from
// (§6's "character I/O" collaborator, read side).
func WithInput(r io.Reader) Option {
	return optionFunc(func(vm *VM) { vm.in = r })
}

// WithOutput sets the character sink EMT/TYPE/."/CR/DMP/SEE/WRD write to.
func WithOutput(w io.Writer) Option {
	return optionFunc(func(vm *VM) {
		if vm.out != nil {
			vm.out.Flush()
		}
		vm.out = flushio.NewWriteFlusher(w)
		if cl, ok := w.(io.Closer); ok {
			vm.closers = append(vm.closers, cl)
		}
	})
}

// WithTee additionally mirrors all output to w, e.g. for a --dump log
// alongside the interactive session.
func WithTee(w io.Writer) Option {
	return optionFunc(func(vm *VM) {
		vm.out = flushio.WriteFlushers(vm.out, flushio.NewWriteFlusher(w))
		if cl, ok := w.(io.Closer); ok {
			vm.closers = append(vm.closers, cl)
		}
	})
}

// WithArenaSizes overrides the default dictionary/stack/TIB partition sizes
// (§3). Must be applied before any option that depends on arena contents.
func WithArenaSizes(dicSz, stkSz, tibSz uint16) Option {
	return optionFunc(func(vm *VM) { vm.arena = NewArena(dicSz, stkSz, tibSz) })
}

// WithStore attaches the nonvolatile store backing SAV/SEX/LD (C5).
func WithStore(s Store) Option {
	return optionFunc(func(vm *VM) { vm.store = s })
}

// WithClock attaches the millisecond source behind CLK.
func WithClock(c Clock) Option {
	return optionFunc(func(vm *VM) { vm.clock = c })
}

// WithInterrupts attaches the pin-change/timer interrupt subsystem behind
// PCI/TMI/PCE/TME.
func WithInterrupts(i Interrupts) Option {
	return optionFunc(func(vm *VM) { vm.interrupts = i })
}

// WithGPIO attaches the hardware pin interface behind PIN/IN/OUT/AIN/PWM.
func WithGPIO(g GPIO) Option {
	return optionFunc(func(vm *VM) { vm.gpio = g })
}

// WithLogf attaches a leveled logging sink (internal/logio.Logger.Leveledf is
// the expected shape) for the single-step tracer and diagnostic messages.
func WithLogf(logf func(mess string, args ...interface{})) Option {
	return optionFunc(func(vm *VM) { vm.logfn = logf })
}

// WithTrace turns on the inner interpreter's single-step trace (C8).
func WithTrace(on bool) Option {
	return optionFunc(func(vm *VM) { vm.trace = on })
}

// WithCaseSensitive controls dictionary name comparison. The original only
// ever sets this once at boot via NanoForth::setup(code, io, ucase); there is
// no runtime word for it. Default is case-sensitive (insensitive=false).
func WithCaseSensitive(insensitive bool) Option {
	return optionFunc(func(vm *VM) { vm.caseFold = insensitive })
}

// WithAPI installs the user-extension table the API primitive dispatches
// into by index.
func WithAPI(table []func(vm *VM)) Option {
	return optionFunc(func(vm *VM) { vm.apiTbl = table })
}

// WithCloser registers c to be closed by VM.Close, e.g. a file opened by a
// higher-level option such as a file-backed store.
func WithCloser(c io.Closer) Option {
	return optionFunc(func(vm *VM) { vm.closers = append(vm.closers, c) })
}

// WithEcho turns on KEY's byte echo (§6: "echoes are the core's
// responsibility"). A real serial link has no local echo, so a host talking
// to the VM over one needs this; a terminal session normally already echoes
// typed input itself, so the default is off.
func WithEcho(on bool) Option {
	return optionFunc(func(vm *VM) { vm.echo = on })
}

// WithAutorunOnExit saves the dictionary with the autorun signature when BYE
// runs, the CLI's --autorun convenience over typing SEX by hand.
func WithAutorunOnExit(on bool) Option {
	return optionFunc(func(vm *VM) { vm.autorunOnExit = on })
}
