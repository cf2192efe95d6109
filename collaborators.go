package n4

// This file specifies the external collaborators the core consumes (§6):
// character I/O is just io.Reader/io.Writer (see n4.go's Option set), and
// the remaining four -- the nonvolatile store, the clock, the interrupt
// subsystem, and GPIO -- are the narrow interfaces below. Default
// implementations live under internal/nvram and internal/hostio so the CLI
// is runnable on a workstation standing in for the microcontroller target;
// a real embedded port supplies its own.

// Store is the nonvolatile byte store persistence (C5) reads and writes.
// Read/Update operate on raw byte offsets starting at 0; Length reports the
// store's total capacity in bytes.
type Store interface {
	Length() int
	Read(i int) byte
	Update(i int, b byte)
}

// Clock is the monotonic millisecond source behind the CLK primitive.
type Clock interface {
	Millis() uint32
}

// Interrupts is the pin-change / periodic-timer subsystem. The core only
// ever registers handlers and polls for a pending execution token; it must
// never touch the arena from an interrupt context itself (§5).
type Interrupts interface {
	Reset()
	AddPCISR(pin int, xt uint16)
	AddTMISR(slot int, period10ms int, xt uint16)
	EnablePCI(mask int)
	EnableTimer(on bool)
	// ISR returns a pending execution token and consumes it, or 0 if none
	// is pending. Called by the inner interpreter at CALL and NXT
	// boundaries (§4.4, §5).
	ISR() uint16
}

// GPIO is the hardware pin interface behind PIN/IN/OUT/AIN/PWM.
type GPIO interface {
	PinMode(pin int, mode int)
	DigitalRead(pin int) int
	DigitalWrite(pin int, v int)
	AnalogRead(pin int) int
	PWMWrite(pin int, v int)
}

// noopInterrupts is the zero-value Interrupts used until WithInterrupts
// supplies a real one; it never has a pending ISR.
type noopInterrupts struct{}

func (noopInterrupts) Reset()                                {}
func (noopInterrupts) AddPCISR(pin int, xt uint16)            {}
func (noopInterrupts) AddTMISR(slot, period10ms int, xt uint16) {}
func (noopInterrupts) EnablePCI(mask int)                     {}
func (noopInterrupts) EnableTimer(on bool)                    {}
func (noopInterrupts) ISR() uint16                            { return 0 }

// noopGPIO is the zero-value GPIO used until WithGPIO supplies a real one.
type noopGPIO struct{}

func (noopGPIO) PinMode(pin, mode int)   {}
func (noopGPIO) DigitalRead(pin int) int { return 0 }
func (noopGPIO) DigitalWrite(pin, v int) {}
func (noopGPIO) AnalogRead(pin int) int  { return 0 }
func (noopGPIO) PWMWrite(pin, v int)     {}

// zeroClock is the zero-value Clock: millis never advances.
type zeroClock struct{}

func (zeroClock) Millis() uint32 { return 0 }
