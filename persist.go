package n4

import "fmt"

// Persistence (C5): the dictionary image is saved to / loaded from the
// Store collaborator as a small header (signature, last, here) followed by
// the raw dictionary bytes [0, here). The signature distinguishes a plain
// save from an autorun one; SEX and SAV differ only in which signature they
// write (§4.3).
const (
	n4Sig  uint16 = 0x4E34 // "N4"
	n4Auto uint16 = n4Sig | 0x8080
	romHdr        = 6
)

// save writes the dictionary image to the Store. If the image (header plus
// dictionary bytes) does not fit, it writes nothing and returns an error --
// the original checks capacity before writing any byte at all.
func (vm *VM) save(autorun bool) error {
	if vm.store == nil {
		return fmt.Errorf("n4: no store configured")
	}
	need := romHdr + int(vm.here)
	if need > vm.store.Length() {
		return fmt.Errorf("n4: store too small: need %d, have %d", need, vm.store.Length())
	}
	sig := n4Sig
	if autorun {
		sig = n4Auto
	}
	vm.store.Update(0, byte(sig>>8))
	vm.store.Update(1, byte(sig))
	vm.store.Update(2, byte(vm.last>>8))
	vm.store.Update(3, byte(vm.last))
	vm.store.Update(4, byte(vm.here>>8))
	vm.store.Update(5, byte(vm.here))
	dic := vm.arena.Bytes()
	for i := 0; i < int(vm.here); i++ {
		vm.store.Update(romHdr+i, dic[i])
	}
	return nil
}

// load restores the dictionary image from the Store. For an autorun load it
// returns the restored last-word address; a plain load returns LFAEnd even
// on success, and either returns LFAEnd if no matching image was found. When autorun
// is requested only an autorun-signed image is accepted; a plain-signed
// image present in the store is left untouched, exactly as the original --
// there is no partial/best-effort restore.
func (vm *VM) load(autorun bool) uint16 {
	if vm.store == nil || vm.store.Length() < romHdr {
		return LFAEnd
	}
	sig := uint16(vm.store.Read(0))<<8 | uint16(vm.store.Read(1))
	want := n4Sig
	if autorun {
		want = n4Auto
	}
	if sig != want {
		return LFAEnd
	}
	last := uint16(vm.store.Read(2))<<8 | uint16(vm.store.Read(3))
	here := uint16(vm.store.Read(4))<<8 | uint16(vm.store.Read(5))
	dic := vm.arena.Bytes()
	for i := 0; i < int(here) && i < len(dic); i++ {
		dic[i] = vm.store.Read(romHdr + i)
	}
	vm.last = last
	vm.here = here
	if autorun {
		return last
	}
	return LFAEnd
}
