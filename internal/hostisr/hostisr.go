// Package hostisr simulates the pin-change / periodic-timer interrupt
// subsystem (§6, §5) well enough to run the core on a workstation: a
// background pin-watcher goroutine relays simulated GPIO edges and a
// timer-ticker goroutine fires registered slots, both converging on a
// single pending-xt queue the inner interpreter polls via ISR(). An
// errgroup.Group supervises both goroutines so either's unexpected exit
// surfaces through Close instead of hanging silently, the way
// scripts/gen_vm_expects.go supervises its formatter/copier pair.
package hostisr

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type tmiSlot struct {
	xt     uint16
	period time.Duration
	next   time.Time
}

// Sim is an Interrupts simulation (§6's Interrupts collaborator).
type Sim struct {
	mu      sync.Mutex
	pending []uint16

	pciXT   map[int]uint16
	pciMask int

	tmi     []tmiSlot
	timerOn bool

	pins   chan int
	eg     *errgroup.Group
	cancel context.CancelFunc
}

// New starts the pin-watcher and timer-ticker goroutines under ctx; call
// Close to stop them.
func New(ctx context.Context) *Sim {
	ctx, cancel := context.WithCancel(ctx)
	eg, ctx := errgroup.WithContext(ctx)
	s := &Sim{
		pciXT:  make(map[int]uint16),
		pins:   make(chan int, 16),
		eg:     eg,
		cancel: cancel,
	}
	eg.Go(func() error { return s.watchPins(ctx) })
	eg.Go(func() error { return s.tickTimers(ctx) })
	return s
}

func (s *Sim) watchPins(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case pin := <-s.pins:
			s.mu.Lock()
			if s.pciMask&(1<<uint(pin)) != 0 {
				if xt, ok := s.pciXT[pin]; ok {
					s.pending = append(s.pending, xt)
				}
			}
			s.mu.Unlock()
		}
	}
}

// tmiResolution is the original's timer granularity: TMI periods are
// specified in units of 10ms.
const tmiResolution = 10 * time.Millisecond

func (s *Sim) tickTimers(ctx context.Context) error {
	t := time.NewTicker(tmiResolution)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			s.mu.Lock()
			if s.timerOn {
				for i := range s.tmi {
					slot := &s.tmi[i]
					if slot.period > 0 && !now.Before(slot.next) {
						s.pending = append(s.pending, slot.xt)
						slot.next = now.Add(slot.period)
					}
				}
			}
			s.mu.Unlock()
		}
	}
}

// TriggerPin simulates a pin-change edge, e.g. from a test or from a GPIO
// backend wired to real hardware. Dropped silently if the queue is full.
func (s *Sim) TriggerPin(pin int) {
	select {
	case s.pins <- pin:
	default:
	}
}

// Reset clears all registered handlers and pending interrupts (N4VM's boot
// behavior).
func (s *Sim) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = s.pending[:0]
	s.pciXT = make(map[int]uint16)
	s.pciMask = 0
	s.tmi = nil
	s.timerOn = false
}

// AddPCISR registers xt to run when pin edges while enabled by EnablePCI.
func (s *Sim) AddPCISR(pin int, xt uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pciXT[pin] = xt
}

// AddTMISR registers xt to run every period10ms*10 milliseconds in the
// given slot, once timers are enabled by EnableTimer.
func (s *Sim) AddTMISR(slot int, period10ms int, xt uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	period := time.Duration(period10ms) * tmiResolution
	for len(s.tmi) <= slot {
		s.tmi = append(s.tmi, tmiSlot{})
	}
	s.tmi[slot] = tmiSlot{xt: xt, period: period, next: time.Now().Add(period)}
}

// EnablePCI sets the pin-change enable mask (one bit per pin).
func (s *Sim) EnablePCI(mask int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pciMask = mask
}

// EnableTimer turns periodic timer dispatch on or off.
func (s *Sim) EnableTimer(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timerOn = on
}

// ISR returns and consumes the oldest pending execution token, or 0 if none
// is pending. Polled by the inner interpreter at CALL/NXT boundaries (§5).
func (s *Sim) ISR() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return 0
	}
	xt := s.pending[0]
	s.pending = s.pending[1:]
	return xt
}

// Close stops the background goroutines and returns the first unexpected
// error either exited with, if any.
func (s *Sim) Close() error {
	s.cancel()
	err := s.eg.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
