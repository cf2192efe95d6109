package n4

import "fmt"

// Dumper (C8): WRD (word listing), SEE (decompile), DMP (memory dump), and
// the inner interpreter's single-step trace. Grounded on the original's
// words()/see()/trace()/_dump(), reshaped into the teacher's vmDumper
// row/section rendering style.

const wordsPerRow = 16

// words lists every dictionary entry name, newest first, followed by the
// three static vocabulary tables (§4.2's WRD).
func (vm *VM) words() {
	n := 0
	for p := vm.last; p != LFAEnd; p = vm.arena.Load16(p) {
		vm.writeString(trimName(vm.arena.Load8(p+2), vm.arena.Load8(p+3), vm.arena.Load8(p+4)) + " ")
		n++
		if n%wordsPerRow == 0 {
			vm.writeString("\n")
		}
	}
	vm.writeString("\n-- immediate --\n")
	for _, name := range immNames {
		vm.writeString(name + " ")
	}
	vm.writeString("\n-- branch --\n")
	for _, name := range jmpNames {
		vm.writeString(name + " ")
	}
	vm.writeString("\n-- primitive --\n")
	for _, name := range primNames[:nameScanLimit] {
		if name != "" {
			vm.writeString(name + " ")
		}
	}
	vm.writeString("\n")
}

func trimName(a, b, c byte) string {
	n := [3]byte{a, b, c}
	s := string(n[:])
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}

// see decompiles the named word, printing one opcode per line until it
// reaches the word's trailing NOP.
func (vm *VM) see(name string) {
	xt, ok := vm.find(name)
	if !ok {
		vm.writeString(fmt.Sprintf("%s %s\n", tokNameNotFound, name))
		return
	}
	vm.writeString(fmt.Sprintf(": %s\n", name))
	p := xt
	for {
		op := vm.arena.Load8(p)
		switch {
		case op&ctlBits == jmpOps:
			class := op & jmpMask
			target := vm.arena.Load16(p) & adrMask
			if class == opCall {
				if callee, ok := vm.findByXT(target); ok {
					vm.writeString(fmt.Sprintf("  %04x: %s %04x (%s)\n", p, branchName(class), target, callee))
				} else {
					vm.writeString(fmt.Sprintf("  %04x: %s %04x\n", p, branchName(class), target))
				}
			} else {
				vm.writeString(fmt.Sprintf("  %04x: %s %04x\n", p, branchName(class), target))
			}
			p += 2
		case op&ctlBits == prmOps:
			idx := op & prmMask
			vm.writeString(fmt.Sprintf("  %04x: %s\n", p, primNames[idx]))
			p++
			switch idx {
			case iLIT:
				v := vm.arena.Load16(p)
				vm.writeString(fmt.Sprintf("  %04x: #%d\n", p, int16(v)))
				p += 2
			case iDQ, iSQ:
				n := vm.arena.Load8(p)
				p += 1 + uint16(n)
			}
			if idx == iNOP {
				return
			}
		default:
			vm.writeString(fmt.Sprintf("  %04x: #%d\n", p, int8(op)))
			p++
		}
	}
}

func branchName(class byte) string {
	switch class {
	case opCall:
		return "CALL"
	case opCDJ:
		return "CDJ"
	case opUDJ:
		return "UDJ"
	case opNXT:
		return "NXT"
	default:
		return "???"
	}
}

// Dump renders the arena dump (DMP's body) to the VM's configured output,
// for host-level use such as a CLI --dump flag.
func (vm *VM) Dump() { vm.dumpMem() }

// dumpMem renders a hex/ASCII view of the live arena (§3's partition
// layout), annotated with the dictionary/stacks/TIB boundaries.
func (vm *VM) dumpMem() {
	buf := vm.arena.Bytes()
	vm.writeString(fmt.Sprintf("# arena: dic=%d stk=%d tib=%d here=%d last=%04x\n",
		vm.arena.DicSz, vm.arena.StkSz, vm.arena.TibSz, vm.here, vm.last))
	for addr := 0; addr < len(buf); addr += wordsPerRow {
		end := addr + wordsPerRow
		if end > len(buf) {
			end = len(buf)
		}
		row := buf[addr:end]
		switch uint16(addr) {
		case 0:
			vm.writeString("# Dictionary\n")
		case vm.arena.RetBase():
			vm.writeString("# Stacks\n")
		case vm.arena.TIBBase():
			vm.writeString("# TIB\n")
		}
		vm.writeString(fmt.Sprintf("  %04x: ", addr))
		for _, b := range row {
			vm.writeString(fmt.Sprintf("%02x ", b))
		}
		vm.writeString(" ")
		for _, b := range row {
			if b >= 0x20 && b < 0x7f {
				vm.writeByte(b)
			} else {
				vm.writeByte('.')
			}
		}
		vm.writeString("\n")
	}
}

// traceStep prints one inner-interpreter step when tracing is enabled,
// indented by the CALL-depth counter vm.tab, mirroring N4Asm::trace().
func (vm *VM) traceStep(xt uint16) {
	op := vm.arena.Load8(xt)
	indent := ""
	for i := 0; i < vm.tab; i++ {
		indent += "  "
	}
	logf := vm.logfn
	if logf == nil {
		logf = func(mess string, args ...interface{}) { vm.writeString(fmt.Sprintf(mess, args...)) }
	}
	switch {
	case op&ctlBits == jmpOps:
		class := op & jmpMask
		target := vm.arena.Load16(xt) & adrMask
		logf("%s%04x: %s %04x\n", indent, xt, branchName(class), target)
		if class == opCall {
			vm.tab++
		}
	case op&ctlBits == prmOps:
		idx := op & prmMask
		logf("%s%04x: %s\n", indent, xt, primNames[idx])
		if idx == iNOP && vm.tab > 0 {
			vm.tab--
		}
	default:
		logf("%s%04x: #%d\n", indent, xt, int8(op))
	}
}
