package n4

import "fmt"

// haltError wraps a fatal condition that stops the VM: arena exhaustion, a
// collaborator (Store/Clock/GPIO/Interrupts) that failed, or an internal
// invariant the core does not try to recover from. It is raised by panic
// deep inside nest or the arena accessors and recovered at Run's boundary, mirroring the
// teacher's vmHaltError/panicerr.Recover split between "halt" (fatal) and
// the §7 token errors (recoverable, printed, and continued).
type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("n4: halted: %v", err.error)
	}
	return "n4: halted"
}

func (err haltError) Unwrap() error { return err.error }

func (vm *VM) halt(err error) {
	if vm.out != nil {
		if ferr := vm.out.Flush(); err == nil {
			err = ferr
		}
	}
	panic(haltError{err})
}

func (vm *VM) haltif(err error) {
	if err != nil {
		vm.halt(err)
	}
}

// arenaError reports an out-of-range arena access: the caller asked for an
// offset past the end of the whole arena. Crossing from the dictionary into
// the stacks region is not checked. This is always a haltError -- the spec calls stack
// under/overflow "undefined behavior at the core level", but a raw
// out-of-bounds slice index is not something any implementation may do.
type arenaError struct {
	op   string
	addr uint16
}

func (e arenaError) Error() string { return fmt.Sprintf("arena %s out of range @%d", e.op, e.addr) }

// The §7 error kinds are surfaced as short printed tokens, not as Go errors:
// they are recoverable by design and the outer/compile loop continues right
// after printing one. See outer.go and assembler.go for the print sites.
const (
	tokUnknown     = "?"  // outer interpreter: unknown token
	tokCompileErr  = "??" // compile mode: unknown token, definition rolled back
	tokNameNotFound = "?!" // SEE/FORGET: name not found
	tokRedef       = "reDef?"
)
