package hostio_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wilyJ80/nanoforth/internal/hostio"
)

func TestClockAdvances(t *testing.T) {
	c := hostio.NewClock()
	m0 := c.Millis()
	time.Sleep(5 * time.Millisecond)
	assert.Greater(t, c.Millis(), m0)
}

func TestGPIODigital(t *testing.T) {
	g := hostio.NewGPIO()
	assert.Equal(t, 0, g.DigitalRead(4), "unwritten pin reads zero")

	var narrated []string
	g.Logf = func(mess string, args ...interface{}) { narrated = append(narrated, mess) }

	g.PinMode(4, 1)
	g.DigitalWrite(4, 1)
	assert.Equal(t, 1, g.DigitalRead(4))
	assert.NotEmpty(t, narrated, "pin writes narrated through Logf")
}

func TestGPIOAnalogAndPWM(t *testing.T) {
	g := hostio.NewGPIO()
	g.SetAnalog(0, 512)
	assert.Equal(t, 512, g.AnalogRead(0))

	g.PWMWrite(9, 200)
	assert.Equal(t, 0, g.DigitalRead(9), "PWM write does not affect digital state")
}

func TestGPIOSetDigital(t *testing.T) {
	g := hostio.NewGPIO()
	g.SetDigital(2, 1)
	assert.Equal(t, 1, g.DigitalRead(2))
}
