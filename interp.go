package n4

// Inner interpreter (C6): threaded-code dispatch over the opcode encoding
// from opcode.go. nest() is the entry point for running a word from the
// outer interpreter, EXE, or an interrupt service routine; a CALL inside a
// running word is followed within the same nest loop.

func (vm *VM) push(v int16) {
	vm.sp -= 2
	vm.arena.StoreD(vm.sp, v)
}

func (vm *VM) pop() int16 {
	v := vm.arena.LoadD(vm.sp)
	vm.sp += 2
	return v
}

// nest executes the threaded code starting at xt until it returns (walks
// back up through CALL frames to the LFAEnd sentinel pushed here).
func (vm *VM) nest(xt uint16) {
	vm.rpush(LFAEnd)
	for xt != LFAEnd {
		if vm.trace {
			vm.traceStep(xt)
		}
		op := vm.arena.Load8(xt)
		switch {
		case op&ctlBits == jmpOps:
			class := op & jmpMask
			target := vm.arena.Load16(xt) & adrMask
			switch class {
			case opCall:
				vm.servISR()
				vm.rpush(xt + 2)
				xt = target
			case opCDJ:
				if vm.pop() != 0 {
					xt += 2
				} else {
					xt = target
				}
			case opUDJ:
				xt = target
			case opNXT:
				cnt := vm.arena.LoadD(vm.rp - 2)
				cnt--
				vm.arena.StoreD(vm.rp-2, cnt)
				if cnt == 0 {
					xt += 2
					vm.rpop()
				} else {
					xt = target
				}
				vm.servISR()
			}
		case op&ctlBits == prmOps:
			idx := op & prmMask
			xt = vm.invoke(idx, xt+1)
		default:
			xt++
			vm.push(int16(op))
		}
	}
}

// servISR polls the interrupt subsystem for a pending execution token and,
// if one is pending, nests into it. The core never touches the arena from
// an actual interrupt context (§5) -- this is a cooperative poll point, run
// at every CALL and NXT boundary exactly as the original's serv_isr().
func (vm *VM) servISR() {
	if xt := vm.interrupts.ISR(); xt != 0 {
		vm.nest(xt)
	}
}
