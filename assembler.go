package n4

import "fmt"

// This file is the compiler (C4): dictionary lookup and word creation,
// opcode emission, the 11-case control-flow dispatch (add_branch), inline
// string literals for ." / S", and the CREATE...DOES> splice.

// find walks the dictionary linked list starting at vm.last, returning the
// xt of the first entry whose name matches tkn. Mirrors the original's
// three-byte name comparison including its short-circuit for one-letter
// names (see nameEq).
func (vm *VM) find(tkn string) (uint16, bool) {
	want := normalizeName(tkn)
	for p := vm.last; p != LFAEnd; p = vm.arena.Load16(p) {
		name := [3]byte{vm.arena.Load8(p + 2), vm.arena.Load8(p + 3), vm.arena.Load8(p + 4)}
		if nameEq(want, name, vm.caseFold) {
			return p + 5, true
		}
	}
	return 0, false
}

// findByXT back-searches the dictionary for the word whose xt equals target,
// used by SEE (§4.2) to render CALL targets as names rather than bare
// addresses.
func (vm *VM) findByXT(target uint16) (string, bool) {
	for p := vm.last; p != LFAEnd; p = vm.arena.Load16(p) {
		if p+5 == target {
			return trimName(vm.arena.Load8(p+2), vm.arena.Load8(p+3), vm.arena.Load8(p+4)), true
		}
	}
	return "", false
}

// addWord links a new dictionary entry for name at `here`, advances here
// past the 2-byte link field and 3-byte name field, and returns its xt
// (link field address + 5, matching the original's XT(a) macro). A name
// already present in the dictionary is not an error (§7): the old entry is
// simply shadowed by the new, later one via find's newest-first walk, after
// a warning is printed.
func (vm *VM) addWord(name string) uint16 {
	if _, found := vm.find(name); found {
		vm.writeString(fmt.Sprintf("%s %s\n", tokRedef, name))
	}
	lfa := vm.here
	vm.arena.Store16(lfa, vm.last)
	vm.last = lfa
	vm.here = lfa + 2
	nm := normalizeName(name)
	for i := 0; i < 3; i++ {
		b := nm[i]
		if vm.caseFold && b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		vm.arena.Store8(vm.here+uint16(i), b)
	}
	vm.here += 3
	return lfa + 5
}

func (vm *VM) emitByte(b byte) {
	vm.arena.Store8(vm.here, b)
	vm.here++
}

func (vm *VM) emit16(v uint16) {
	vm.arena.Store16(vm.here, v)
	vm.here += 2
}

// emitBranch emits a 2-byte branch opcode (class is one of opCall/opCDJ/
// opUDJ/opNXT) with a 12-bit target address.
func (vm *VM) emitBranch(class byte, target uint16) {
	vm.emit16(uint16(class)<<8 | (target & adrMask))
}

func (vm *VM) emitPrim(idx byte) { vm.emitByte(prmOps | idx) }

// emitNumber compiles a literal: a bare byte for 0..127, otherwise the
// 3-byte LIT sequence (tag byte + signed 16-bit value).
func (vm *VM) emitNumber(v int16) {
	if v >= 0 && v < 128 {
		vm.emitByte(byte(v))
		return
	}
	vm.emitPrim(iLIT)
	vm.emit16(uint16(v))
}

// patchTarget rewrites the 12-bit address field of the branch opcode at
// slot, preserving its class nibble.
func (vm *VM) patchTarget(slot, target uint16) {
	v := vm.arena.Load16(slot)
	v = (v &^ uint16(adrMask)) | (target & adrMask)
	vm.arena.Store16(slot, v)
}

// The assembler's control-flow fixup stack reuses the same storage and
// pointer as the runtime return stack (compile() resets vm.rp to the base
// before compiling a definition, exactly as the original's compile(rp0)
// does) -- rpush/rpop here are the same primitive as the inner
// interpreter's, just used for a different purpose during compilation.
func (vm *VM) rpush(v uint16) {
	vm.arena.Store16(vm.rp, v)
	vm.rp += 2
}

func (vm *VM) rpop() uint16 {
	vm.rp -= 2
	return vm.arena.Load16(vm.rp)
}

// addBranch implements the 11-case control-flow word dispatch (§4.2),
// compiling THEN/ELSE/IF/REPEAT/UNTIL/WHILE/BEGIN/NEXT/I/FOR/; against the
// fixup stack built by rpush/rpop.
func (vm *VM) addBranch(tmp int) {
	switch tmp {
	case jmpThen:
		slot := vm.rpop()
		vm.patchTarget(slot, vm.here)
	case jmpElse:
		slot := vm.rpop()
		vm.patchTarget(slot, vm.here+2)
		vm.rpush(vm.here)
		vm.emitBranch(opUDJ, 0)
	case jmpIf:
		vm.rpush(vm.here)
		vm.emitBranch(opCDJ, 0)
	case jmpRepeat:
		whileSlot := vm.rpop()
		vm.patchTarget(whileSlot, vm.here+2)
		beginAddr := vm.rpop()
		vm.emitBranch(opUDJ, beginAddr)
	case jmpUntil:
		beginAddr := vm.rpop()
		vm.emitBranch(opCDJ, beginAddr)
	case jmpWhile:
		vm.rpush(vm.here)
		vm.emitBranch(opCDJ, 0)
	case jmpBegin:
		vm.rpush(vm.here)
	case jmpNext:
		forSlot := vm.rpop()
		vm.emitBranch(opNXT, forSlot)
	case jmpI:
		vm.emitPrim(iI)
	case jmpFor:
		vm.rpush(vm.here + 1)
		vm.emitPrim(iFOR)
	case jmpSemi:
		vm.emitPrim(iNOP)
	}
}

// addStr reads the raw text of a ." or S" inline string directly from the
// tokenizer's current line (bypassing whitespace tokenization) and compiles
// it as a counted string: a length byte followed by its bytes.
func (vm *VM) addStr() error {
	text, err := vm.tib.readUntil('"')
	if err != nil {
		return err
	}
	if len(text) > 255 {
		text = text[:255]
	}
	vm.emitByte(byte(len(text)))
	for i := 0; i < len(text); i++ {
		vm.emitByte(text[i])
	}
	return nil
}

// tokenKind classifies a token during parse (§4.2/§7).
type tokenKind int

const (
	tknErr tokenKind = iota
	tknImm
	tknWrd
	tknPrm
	tknNum
)

// parseToken classifies tkn. In run mode (the outer interpreter) the
// "immediate" class is matched against the 15-entry immNames table; in
// compile mode it is matched against the 11-entry jmpNames control-flow
// table, per the original's two distinct uses of TKN_IMM. The dictionary is
// searched before either vocabulary table, matching the original's parse()
// order, so a user word shadows a reserved name of the same spelling.
func (vm *VM) parseToken(tkn string, run bool) (kind tokenKind, idx int, num int16) {
	if xt, ok := vm.find(tkn); ok {
		return tknWrd, int(xt), 0
	}
	table := immNames[:]
	if !run {
		table = jmpNames[:]
	}
	if i, ok := scanTable(tkn, table, vm.caseFold); ok {
		return tknImm, i, 0
	}
	if i, ok := scanTable(tkn, primNames[:nameScanLimit], vm.caseFold); ok {
		return tknPrm, i, 0
	}
	if n, ok := parseNumber(tkn, vm.radixHex); ok {
		return tknNum, 0, n
	}
	return tknErr, 0, 0
}

// compile drives colon-definition compilation: it resets the fixup stack to
// the return-stack base, creates the new word's header, then repeatedly
// tokenizes and emits until ';' closes the definition or an unknown token
// forces a rollback (§4.2, §7's "??" error).
func (vm *VM) compile(name string) error {
	vm.rp = vm.arena.RetBase()
	entryLast, entryHere := vm.last, vm.here
	vm.addWord(name)

	for {
		tkn, err := vm.tib.next()
		if err != nil {
			return err
		}
		kind, idx, num := vm.parseToken(tkn, false)
		switch kind {
		case tknImm:
			vm.addBranch(idx)
			if idx == jmpSemi {
				return nil
			}
		case tknWrd:
			vm.emitBranch(opCall, uint16(idx))
		case tknPrm:
			vm.emitPrim(byte(idx))
			if idx == iDQ || idx == iSQ {
				if err := vm.addStr(); err != nil {
					return err
				}
			}
		case tknNum:
			vm.emitNumber(num)
		default:
			vm.writeString(fmt.Sprintf("%s %s\n", tokCompileErr, tkn))
			vm.last, vm.here = entryLast, entryHere
			return nil
		}
	}
}

// variable compiles a single-cell variable: CREATE semantics with one data
// cell reserved and initialized to 0.
func (vm *VM) variable(name string) {
	vm.create(name)
	vm.arena.StoreD(vm.here, 0)
	vm.here += 2
}

// constant compiles a word that pushes a fixed value, reading it from the
// data stack at definition time (§4.2's VAL).
func (vm *VM) constant(name string) {
	v := vm.pop()
	vm.addWord(name)
	vm.emitNumber(v)
	vm.emitPrim(iNOP)
}

// create implements CREATE (both the CRE primitive and the VAR immediate's
// underlying mechanism): it links a new word whose body is a literal
// pushing the address just past itself, so that plain use behaves like a
// VARIABLE and a later DOES> can splice in custom runtime behavior.
func (vm *VM) create(name string) {
	vm.addWord(name)
	tmp := vm.here + 2
	if tmp < 128 {
		vm.emitByte(byte(tmp))
	} else {
		tmp += 2
		vm.emitPrim(iLIT)
		vm.emit16(tmp)
	}
	vm.emitPrim(iNOP)
}

// does implements the DOES> splice: it finds the just-created word's
// trailing NOP, shifts the bytes at and after it forward by two to make
// room for an unconditional jump, bumps the preceding literal-encoding byte
// to account for the shift, and installs a jump to xt (the does-code
// address, i.e. the position right after DO> in the defining word).
func (vm *VM) does(xt uint16) {
	p := vm.here - 1
	for vm.arena.Load8(p) != prmOps|iNOP {
		p--
	}
	for q := vm.here - 1; q >= p; q-- {
		vm.arena.Store8(q+2, vm.arena.Load8(q))
		if q == 0 {
			break
		}
	}
	vm.arena.Store8(p-1, vm.arena.Load8(p-1)+2)
	vm.emitBranchAt(p, opUDJ, xt)
	vm.arena.Store8(p+2, prmOps|iNOP)
	vm.here += 2
}

func (vm *VM) emitBranchAt(addr uint16, class byte, target uint16) {
	vm.arena.Store16(addr, uint16(class)<<8|(target&adrMask))
}

// comma and ccomma append a data cell / byte to the dictionary at here.
func (vm *VM) comma(v int16) {
	vm.arena.StoreD(vm.here, v)
	vm.here += 2
}

func (vm *VM) ccomma(b byte) {
	vm.arena.Store8(vm.here, b)
	vm.here++
}

// forget rolls the dictionary back to (and including) the named word,
// reclaiming its storage; unknown names print the §7 "?!" error.
func (vm *VM) forget(name string) {
	want := normalizeName(name)
	for p := vm.last; p != LFAEnd; {
		nxt := vm.arena.Load16(p)
		nm := [3]byte{vm.arena.Load8(p + 2), vm.arena.Load8(p + 3), vm.arena.Load8(p + 4)}
		if nameEq(want, nm, vm.caseFold) {
			vm.here = p
			vm.last = nxt
			return
		}
		p = nxt
	}
	vm.writeString(fmt.Sprintf("%s %s\n", tokNameNotFound, name))
}
