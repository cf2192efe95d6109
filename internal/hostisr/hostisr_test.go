package hostisr_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wilyJ80/nanoforth/internal/hostisr"
)

func TestPinChange(t *testing.T) {
	s := hostisr.New(context.Background())
	defer s.Close()

	assert.Equal(t, uint16(0), s.ISR(), "nothing pending yet")

	s.AddPCISR(3, 0x100)
	s.EnablePCI(1 << 3)
	s.TriggerPin(3)

	assert.Eventually(t, func() bool { return s.ISR() != 0 }, time.Second, time.Millisecond)
}

func TestPinChangeMasked(t *testing.T) {
	s := hostisr.New(context.Background())
	defer s.Close()

	s.AddPCISR(3, 0x100)
	s.EnablePCI(0) // pin 3 not enabled
	s.TriggerPin(3)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, uint16(0), s.ISR(), "masked pin must not fire")
}

func TestTimer(t *testing.T) {
	s := hostisr.New(context.Background())
	defer s.Close()

	s.AddTMISR(0, 1, 0x200) // 10ms period
	s.EnableTimer(true)

	assert.Eventually(t, func() bool { return s.ISR() != 0 }, time.Second, time.Millisecond)
}

func TestReset(t *testing.T) {
	s := hostisr.New(context.Background())
	defer s.Close()

	s.AddPCISR(1, 0x42)
	s.EnablePCI(1 << 1)
	s.Reset()
	s.TriggerPin(1)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, uint16(0), s.ISR(), "Reset must clear registrations")
}
