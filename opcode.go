package n4

import "strings"

// Opcode classification masks and branch-tag prefixes (§4.1), ported
// byte-for-byte from the nanoForth opcode encoding.
const (
	ctlBits = 0xc0 // top two bits classify every opcode byte
	jmpOps  = 0xc0 // 11nn xxxx
	prmOps  = 0x80 // 10cc cccc
	jmpMask = 0xf0
	prmMask = 0x3f
	adrMask = 0x0fff
)

const (
	opCall = 0xc0
	opCDJ  = 0xd0
	opUDJ  = 0xe0
	opNXT  = 0xf0
)

// Primitive opcode indices that get special in-stream handling beyond a
// bare 1-byte dispatch (§4.1, §6). Indices 0..60 are also reachable by name
// from compile mode (see primNames); 61..63 are reached only through the
// compiler's control-flow (I, FOR) and number-literal (LIT) paths.
const (
	iNOP = 0x00 // end-of-word / NOP
	iDQ  = 31   // ."
	iSQ  = 32   // S"
	iDO  = 55   // DO>
	iI   = 61   // I
	iFOR = 62   // FOR
	iLIT = 63   // LIT, 3-byte opcode: tag + 2-byte signed literal
)

// primNames is the primitive-word table (§6): index = low 6 bits of the
// opcode. Only the first 61 entries (0..60) are matched by name when
// parsing a token in compile mode -- I/FOR/LIT (61..63) are never typed
// directly; I and FOR are emitted by add_branch, LIT by the number-literal
// compile path. The order is part of the on-disk ABI and must never change
// without a format-version bump.
var primNames = [64]string{
	"", "TRC", "ROT", "OVR", "SWP", "DUP", "DRP", "LSH", "RSH", "NOT",
	"XOR", "OR", "AND", "RND", "MIN", "MAX", "ABS", "MOD", "NEG", "/",
	"*", "-", "+", "=", "<", ">", "<>", "KEY", "EMT", "CR",
	".", ".\"", "S\"", "TYP", "HRE", ">R", "R>", "!", "@", "C!",
	"C@", "ALO", "DNG", "D-", "D+", "CLK", "DLY", "PWM", "OUT", "AIN",
	"IN", "PIN", "PCE", "TME", "API", "DO>", "CRE", "EXE", "'", ",",
	"C,", "I", "FOR", "LIT",
}

// nameScanLimit is how many of primNames are searched when a token is
// parsed as a directly-typed primitive word (TKN_PRM); I/FOR/LIT are
// deliberately excluded.
const nameScanLimit = 61

// immNames is the immediate-word table (§6), indices matching the outer
// interpreter's dispatch in outer.go.
var immNames = [15]string{
	":", "VAL", "VAR", "PCI", "TMI", "SEX", "SAV", "LD", "FGT", "DMP",
	"SEE", "WRD", "DEC", "HEX", "BYE",
}

// jmpNames is the compile-mode branching-word table (§6), indices matching
// add_branch's dispatch in assembler.go. The numeric indices are part of
// the opcode-compiling protocol, not just documentation.
var jmpNames = [11]string{
	"THEN", "ELSE", "IF", "REPEAT", "UNTIL", "WHILE", "BEGIN", "NEXT", "I", "FOR", ";",
}

// pmxNames names the two loop-control opcodes (I, FOR). Nothing references
// it; the tracer and SEE print these opcodes from primNames.
var pmxNames = [2]string{"I", "FOR"}

const (
	jmpThen = iota
	jmpElse
	jmpIf
	jmpRepeat
	jmpUntil
	jmpWhile
	jmpBegin
	jmpNext
	jmpI
	jmpFor
	jmpSemi
)

const (
	immColon = iota
	immVal
	immVar
	immPCI
	immTMI
	immSEX
	immSAV
	immLD
	immFGT
	immDMP
	immSEE
	immWRD
	immDEC
	immHEX
	immBYE
)

// normalizeName right-pads (or truncates) a token to the 3-byte name field
// width used by dictionary entries and by the vocabulary scan tables (§3,
// §4.2). Case folding is applied by the caller when case-insensitivity is
// enabled.
func normalizeName(tkn string) [3]byte {
	var n [3]byte
	n[0], n[1], n[2] = ' ', ' ', ' '
	for i := 0; i < 3 && i < len(tkn); i++ {
		n[i] = tkn[i]
	}
	return n
}

func foldCase(b byte, upper bool) byte {
	if !upper {
		return b
	}
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// nameEq compares two 3-byte padded names per the name-field convention: the
// third byte is skipped when b's second byte is a space (a one-letter name
// like "I" or "+"), and compared otherwise, so "IF" does not match "IFX",
// mirroring the original's _find byte comparison.
func nameEq(a, b [3]byte, caseInsensitive bool) bool {
	a0, b0 := foldCase(a[0], caseInsensitive), foldCase(b[0], caseInsensitive)
	a1, b1 := foldCase(a[1], caseInsensitive), foldCase(b[1], caseInsensitive)
	if a0 != b0 || a1 != b1 {
		return false
	}
	if b[1] == ' ' {
		return true
	}
	return foldCase(a[2], caseInsensitive) == foldCase(b[2], caseInsensitive)
}

// scanTable searches a vocabulary table (primNames[:limit], immNames[:] or
// jmpNames[:]) for tkn, returning its index and true on a match.
func scanTable(tkn string, table []string, caseInsensitive bool) (int, bool) {
	want := normalizeName(tkn)
	for i, name := range table {
		if name == "" {
			continue
		}
		if nameEq(want, normalizeName(name), caseInsensitive) {
			return i, true
		}
	}
	return 0, false
}

// parseNumber parses a token as a signed literal in the given radix (10 or
// 16), honoring an optional leading '-'. Returns ok=false if tkn is not a
// valid number in that radix.
func parseNumber(tkn string, hex bool) (int16, bool) {
	if tkn == "" {
		return 0, false
	}
	neg := false
	s := tkn
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}
	var v int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d int64
		switch {
		case c >= '0' && c <= '9':
			d = int64(c - '0')
		case hex && c >= 'a' && c <= 'f':
			d = int64(c-'a') + 10
		case hex && c >= 'A' && c <= 'F':
			d = int64(c-'A') + 10
		default:
			return 0, false
		}
		base := int64(10)
		if hex {
			base = 16
		}
		if d >= base {
			return 0, false
		}
		v = v*base + d
	}
	if neg {
		v = -v
	}
	if v < -0x8000 || v > 0xffff {
		return 0, false
	}
	return int16(v), true
}

// upperToken returns s in upper case. It has no callers: addWord folds a
// stored name byte by byte itself under case-insensitive mode.
func upperToken(s string) string { return strings.ToUpper(s) }
