package n4

import (
	"fmt"
	"io"
)

// Outer interpreter (C7): the top-level read-eval loop, and the 15-case
// immediate-word dispatch (§4.3) reachable only from it (never while
// compiling, where the same token class instead means a control-flow word,
// see assembler.go's addBranch).

// outer reads one line's worth of tokens (or prompts and reads a fresh
// line), dispatching each per §4.2's token classification.
func (vm *VM) outer() error {
	if vm.tib.empty() {
		vm.writeString(vm.ok())
		if vm.out != nil {
			vm.out.Flush()
		}
	}
	tkn, err := vm.tib.next()
	if err != nil {
		return err
	}

	kind, idx, num := vm.parseToken(tkn, true)
	switch kind {
	case tknImm:
		return vm.immediate(idx)
	case tknWrd:
		vm.nest(uint16(idx))
	case tknPrm:
		vm.runPrimitive(byte(idx))
	case tknNum:
		vm.push(num)
	default:
		if i, ok := scanTable(tkn, jmpNames[:], vm.caseFold); ok && (i == jmpIf || i == jmpBegin || i == jmpFor) {
			return vm.interpretControl(i)
		}
		vm.writeString(fmt.Sprintf("%s %s\n", tokUnknown, tkn))
	}
	return nil
}

// interpretControl lets IF/BEGIN/FOR be typed directly at the prompt rather
// than only inside a colon definition (§8's FOR..NEXT worked example).
// It compiles the construct into scratch space past the dictionary's
// current end exactly as compile() would, runs it once the control-flow
// fixup stack returns to its starting depth, then reclaims the scratch
// bytes since nothing in the dictionary ever points to them.
func (vm *VM) interpretControl(opener int) error {
	startHere, startRp := vm.here, vm.rp
	vm.rp = vm.arena.RetBase()
	vm.addBranch(opener)

	for {
		tkn, err := vm.tib.next()
		if err != nil {
			vm.here, vm.rp = startHere, startRp
			return err
		}
		kind, idx, num := vm.parseToken(tkn, false)
		switch kind {
		case tknImm:
			vm.addBranch(idx)
			if vm.rp == vm.arena.RetBase() {
				vm.emitPrim(iNOP)
				vm.nest(startHere)
				vm.here, vm.rp = startHere, startRp
				return nil
			}
		case tknWrd:
			vm.emitBranch(opCall, uint16(idx))
		case tknPrm:
			vm.emitPrim(byte(idx))
			if idx == iDQ || idx == iSQ {
				if err := vm.addStr(); err != nil {
					vm.here, vm.rp = startHere, startRp
					return err
				}
			}
		case tknNum:
			vm.emitNumber(num)
		default:
			vm.writeString(fmt.Sprintf("%s %s\n", tokCompileErr, tkn))
			vm.here, vm.rp = startHere, startRp
			return nil
		}
	}
}

// runPrimitive executes a primitive word typed directly at the prompt
// (rather than reached via a compiled call). ." and S" have no compiled
// counted-string to read from in this path, so their text is read straight
// off the input line instead of out of the arena. Both print that text; an
// S" typed at the prompt pushes no address or length.
func (vm *VM) runPrimitive(idx byte) {
	switch idx {
	case iDQ:
		text, err := vm.tib.readUntil('"')
		if err == nil {
			vm.writeString(text)
		}
	case iSQ:
		text, err := vm.tib.readUntil('"')
		if err == nil {
			vm.writeString(text)
		}
	default:
		vm.invoke(idx, 0)
	}
}

// ok renders the outer loop's prompt: the data stack depth followed by the
// conventional "ok" marker, printed whenever the input line is exhausted.
func (vm *VM) ok() string {
	depth := (vm.arena.DataBase() - vm.sp) / 2
	return fmt.Sprintf("%d ok> ", depth)
}

// immediate dispatches the 15 outer-loop-only words (§4.3): definitions,
// persistence, introspection, and radix control. Indices match immColon..
// immBYE in opcode.go.
func (vm *VM) immediate(idx int) error {
	switch idx {
	case immColon: // :
		name, err := vm.tib.next()
		if err != nil {
			return err
		}
		return vm.compile(name)

	case immVal: // VAL (constant)
		name, err := vm.tib.next()
		if err != nil {
			return err
		}
		vm.constant(name)

	case immVar: // VAR (variable)
		name, err := vm.tib.next()
		if err != nil {
			return err
		}
		vm.variable(name)

	case immPCI: // PCI -- pin ' xt -- register pin-change ISR
		xt := vm.pop()
		pin := vm.pop()
		vm.interrupts.AddPCISR(int(pin), uint16(xt))

	case immTMI: // TMI -- slot period10ms ' xt -- register timer ISR
		xt := vm.pop()
		period := vm.pop()
		slot := vm.pop()
		vm.interrupts.AddTMISR(int(slot), int(period), uint16(xt))

	case immSEX: // SEX -- save with autorun flag set
		if err := vm.save(true); err != nil {
			vm.writeString(err.Error() + "\n")
		}

	case immSAV: // SAV -- plain save
		if err := vm.save(false); err != nil {
			vm.writeString(err.Error() + "\n")
		}

	case immLD: // LD -- load (no autorun)
		vm.load(false)

	case immFGT: // FGT (FORGET)
		name, err := vm.tib.next()
		if err != nil {
			return err
		}
		vm.forget(name)

	case immDMP: // DMP (memory dump)
		vm.dumpMem()

	case immSEE: // SEE
		name, err := vm.tib.next()
		if err != nil {
			return err
		}
		vm.see(name)

	case immWRD: // WRD (words)
		vm.words()

	case immDEC:
		vm.SetRadix(false)

	case immHEX:
		vm.SetRadix(true)

	case immBYE:
		if vm.autorunOnExit && vm.store != nil {
			vm.haltif(vm.save(true))
		}
		return io.EOF
	}
	return nil
}

// XT converts a stored link-field address (as returned by load) to the
// executable xt just past its name field, matching the original's XT(a)
// macro (a + sizeof(IU) + 3).
func XT(lfa uint16) uint16 { return lfa + 5 }
