package n4

import (
	"fmt"
	"time"
)

// Primitive-word table (§6), 64 entries addressed by primNames' index.
// invoke runs primitive idx and returns the xt the inner interpreter should
// resume at -- unchanged for nearly all of them, except the handful that
// carry inline data (LIT, ." , S") or alter control flow (NOP/return,
// DO>, EXE).

func boolCell(b bool) int16 {
	if b {
		return -1
	}
	return 0
}

func (vm *VM) invoke(idx byte, xt uint16) uint16 {
	switch idx {
	case iNOP:
		return vm.rpop()

	case 1: // TRC ( flag -- )
		vm.trace = vm.pop() != 0

	case 2: // ROT ( a b c -- b c a )
		c, b, a := vm.pop(), vm.pop(), vm.pop()
		vm.push(b)
		vm.push(c)
		vm.push(a)

	case 3: // OVR ( a b -- a b a )
		b, a := vm.pop(), vm.pop()
		vm.push(a)
		vm.push(b)
		vm.push(a)

	case 4: // SWP ( a b -- b a )
		b, a := vm.pop(), vm.pop()
		vm.push(b)
		vm.push(a)

	case 5: // DUP
		a := vm.pop()
		vm.push(a)
		vm.push(a)

	case 6: // DRP
		vm.pop()

	case 7: // LSH
		b, a := vm.pop(), vm.pop()
		vm.push(int16(uint16(a) << uint(b&0xf)))

	case 8: // RSH
		b, a := vm.pop(), vm.pop()
		vm.push(int16(uint16(a) >> uint(b&0xf)))

	case 9: // NOT
		vm.push(^vm.pop())

	case 10: // XOR
		b, a := vm.pop(), vm.pop()
		vm.push(a ^ b)

	case 11: // OR
		b, a := vm.pop(), vm.pop()
		vm.push(a | b)

	case 12: // AND
		b, a := vm.pop(), vm.pop()
		vm.push(a & b)

	case 13: // RND ( n -- r ) r in [0,n)
		n := vm.pop()
		if n == 0 {
			vm.push(0)
		} else {
			vm.push(int16(vm.rand() % int32(n)))
		}

	case 14: // MIN
		b, a := vm.pop(), vm.pop()
		if a < b {
			vm.push(a)
		} else {
			vm.push(b)
		}

	case 15: // MAX
		b, a := vm.pop(), vm.pop()
		if a > b {
			vm.push(a)
		} else {
			vm.push(b)
		}

	case 16: // ABS
		a := vm.pop()
		if a < 0 {
			a = -a
		}
		vm.push(a)

	case 17: // MOD
		b, a := vm.pop(), vm.pop()
		vm.push(a % b)

	case 18: // NEG
		vm.push(-vm.pop())

	case 19: // /
		b, a := vm.pop(), vm.pop()
		vm.push(a / b)

	case 20: // *
		b, a := vm.pop(), vm.pop()
		vm.push(a * b)

	case 21: // -
		b, a := vm.pop(), vm.pop()
		vm.push(a - b)

	case 22: // +
		b, a := vm.pop(), vm.pop()
		vm.push(a + b)

	case 23: // =
		b, a := vm.pop(), vm.pop()
		vm.push(boolCell(a == b))

	case 24: // <
		b, a := vm.pop(), vm.pop()
		vm.push(boolCell(a < b))

	case 25: // >
		b, a := vm.pop(), vm.pop()
		vm.push(boolCell(a > b))

	case 26: // <>
		b, a := vm.pop(), vm.pop()
		vm.push(boolCell(a != b))

	case 27: // KEY
		vm.push(int16(vm.readKey()))

	case 28: // EMT
		vm.writeByte(byte(vm.pop()))

	case 29: // CR
		vm.writeString("\n")

	case 30: // .
		vm.writeString(vm.formatNumber(vm.pop()) + " ")

	case iDQ: // ." -- counted string compiled just after this opcode
		n := vm.arena.Load8(xt)
		for i := uint16(0); i < uint16(n); i++ {
			vm.writeByte(vm.arena.Load8(xt + 1 + i))
		}
		return xt + 1 + uint16(n)

	case iSQ: // S" -- pushes (addr len) of the counted string
		n := vm.arena.Load8(xt)
		vm.push(int16(xt + 1))
		vm.push(int16(n))
		return xt + 1 + uint16(n)

	case 33: // TYP ( addr len -- )
		n := vm.pop()
		addr := uint16(vm.pop())
		for i := int16(0); i < n; i++ {
			vm.writeByte(vm.arena.Load8(addr + uint16(i)))
		}

	case 34: // HRE
		vm.push(int16(vm.here))

	case 35: // >R
		vm.rpush(uint16(vm.pop()))

	case 36: // R>
		vm.push(int16(vm.rpop()))

	case 37: // ! ( v addr -- )
		addr := uint16(vm.pop())
		v := vm.pop()
		vm.arena.StoreD(addr, v)

	case 38: // @ ( addr -- v )
		addr := uint16(vm.pop())
		vm.push(vm.arena.LoadD(addr))

	case 39: // C! ( v addr -- )
		addr := uint16(vm.pop())
		v := vm.pop()
		vm.arena.Store8(addr, byte(v))

	case 40: // C@ ( addr -- v )
		addr := uint16(vm.pop())
		vm.push(int16(vm.arena.Load8(addr)))

	case 41: // ALO ( n -- )
		n := vm.pop()
		vm.here += uint16(n)

	case 42: // DNG (DNEGATE), double cell ( lo hi -- lo hi )
		hi, lo := vm.pop(), vm.pop()
		v := -(int32(hi)<<16 | int32(uint16(lo)))
		vm.push(int16(uint16(v)))
		vm.push(int16(uint16(v >> 16)))

	case 43: // D- ( lo1 hi1 lo2 hi2 -- lo hi ), double cell subtract
		hi2, lo2, hi1, lo1 := vm.pop(), vm.pop(), vm.pop(), vm.pop()
		a := int32(hi1)<<16 | int32(uint16(lo1))
		b := int32(hi2)<<16 | int32(uint16(lo2))
		v := a - b
		vm.push(int16(uint16(v)))
		vm.push(int16(uint16(v >> 16)))

	case 44: // D+ ( lo1 hi1 lo2 hi2 -- lo hi ), double cell add
		hi2, lo2, hi1, lo1 := vm.pop(), vm.pop(), vm.pop(), vm.pop()
		a := int32(hi1)<<16 | int32(uint16(lo1))
		b := int32(hi2)<<16 | int32(uint16(lo2))
		v := a + b
		vm.push(int16(uint16(v)))
		vm.push(int16(uint16(v >> 16)))

	case 45: // CLK ( -- lo hi )
		ms := vm.clock.Millis()
		vm.push(int16(uint16(ms)))
		vm.push(int16(uint16(ms >> 16)))

	case 46: // DLY ( ms -- )
		ms := vm.pop()
		if ms > 0 {
			time.Sleep(time.Duration(ms) * time.Millisecond)
		}

	case 47: // PWM ( pin v -- )
		v := vm.pop()
		pin := vm.pop()
		vm.gpio.PWMWrite(int(pin), int(v))

	case 48: // OUT ( pin v -- )
		v := vm.pop()
		pin := vm.pop()
		vm.gpio.DigitalWrite(int(pin), int(v))

	case 49: // AIN ( pin -- v )
		pin := vm.pop()
		vm.push(int16(vm.gpio.AnalogRead(int(pin))))

	case 50: // IN ( pin -- v )
		pin := vm.pop()
		vm.push(int16(vm.gpio.DigitalRead(int(pin))))

	case 51: // PIN ( pin mode -- )
		mode := vm.pop()
		pin := vm.pop()
		vm.gpio.PinMode(int(pin), int(mode))

	case 52: // PCE ( mask -- )
		mask := vm.pop()
		vm.interrupts.EnablePCI(int(mask))

	case 53: // TME ( on -- )
		on := vm.pop()
		vm.interrupts.EnableTimer(on != 0)

	case 54: // API ( ... idx -- ... )
		idx := vm.pop()
		if int(idx) >= 0 && int(idx) < len(vm.apiTbl) && vm.apiTbl[idx] != nil {
			vm.apiTbl[idx](vm)
		}

	case iDO: // DO>
		vm.does(xt)
		return LFAEnd

	case 56: // CRE
		name, err := vm.tib.next()
		if err == nil {
			vm.create(name)
		}

	case 57: // EXE ( xt -- )
		x := uint16(vm.pop())
		vm.nest(x)

	case 58: // ' (tick)
		name, err := vm.tib.next()
		if err != nil {
			vm.push(0)
			break
		}
		if found, ok := vm.find(name); ok {
			vm.push(int16(found))
		} else {
			vm.push(0)
		}

	case 59: // , (comma)
		vm.comma(vm.pop())

	case 60: // C, (ccomma)
		vm.ccomma(byte(vm.pop()))

	case iI: // I -- innermost FOR loop index, counting down from N-1
		vm.push(vm.arena.LoadD(vm.rp-2) - 1)

	case iFOR: // FOR ( n -- ) seed the loop counter with the iteration count
		vm.rpush(uint16(vm.pop()))

	case iLIT: // LIT -- 2-byte signed literal follows inline
		v := vm.arena.Load16(xt)
		vm.push(int16(v))
		return xt + 2
	}
	return xt
}

// formatNumber renders a cell per the current radix (§4.3's HEX/DEC).
func (vm *VM) formatNumber(v int16) string {
	if vm.radixHex {
		return fmt.Sprintf("%x", uint16(v))
	}
	return fmt.Sprintf("%d", v)
}
