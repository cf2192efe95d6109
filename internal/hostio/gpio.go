package hostio

import "sync"

// GPIO simulates the digital/analog/PWM pin interface (§6) on a
// workstation: pin state lives in memory, and every mutation is optionally
// narrated through Logf so a session transcript shows what a running
// program would have done to real hardware.
type GPIO struct {
	mu      sync.Mutex
	modes   map[int]int
	digital map[int]int
	analog  map[int]int
	pwm     map[int]int

	// Logf, if set, is called for every pin write (e.g. a leveled
	// logio.Logger sink named "GPIO").
	Logf func(mess string, args ...interface{})
}

// NewGPIO constructs a GPIO with every pin reading 0 until written.
func NewGPIO() *GPIO {
	return &GPIO{
		modes:   make(map[int]int),
		digital: make(map[int]int),
		analog:  make(map[int]int),
		pwm:     make(map[int]int),
	}
}

func (g *GPIO) logf(mess string, args ...interface{}) {
	if g.Logf != nil {
		g.Logf(mess, args...)
	}
}

// PinMode records pin's mode (input/output/analog, the index meaning is
// host-defined, the same as the original's pinMode(pin, mode)).
func (g *GPIO) PinMode(pin, mode int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.modes[pin] = mode
	g.logf("pin %d mode %d", pin, mode)
}

// DigitalRead returns pin's last digital value (or 0 if never set).
func (g *GPIO) DigitalRead(pin int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.digital[pin]
}

// DigitalWrite sets pin's digital output value.
func (g *GPIO) DigitalWrite(pin, v int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.digital[pin] = v
	g.logf("pin %d <- %d", pin, v)
}

// AnalogRead returns pin's last simulated analog reading.
func (g *GPIO) AnalogRead(pin int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.analog[pin]
}

// PWMWrite sets pin's PWM duty value.
func (g *GPIO) PWMWrite(pin, v int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pwm[pin] = v
	g.logf("pin %d pwm <- %d", pin, v)
}

// SetAnalog feeds a simulated sensor reading for a later AIN to observe;
// there is no real ADC on a workstation, so tests and the CLI drive this
// directly.
func (g *GPIO) SetAnalog(pin, v int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.analog[pin] = v
}

// SetDigital feeds a simulated external digital signal for a later IN to
// observe.
func (g *GPIO) SetDigital(pin, v int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.digital[pin] = v
}
