package slotclock

import (
	"fmt"
	"time"

	"github.com/fastfill-network/matching-engine/internal/core/ports"
	"github.com/raulk/clock"
)

type slotClock struct {
	clock        clock.Clock
	genesis      time.Time
	slotDuration time.Duration
}

// NewSlotClock returns a clock whose slots last slotDuration and start
// counting at genesis.
func NewSlotClock(
	clk clock.Clock, genesis time.Time, slotDuration time.Duration,
) (ports.SlotClock, error) {
	if clk == nil {
		return nil, fmt.Errorf("missing clock")
	}
	if slotDuration <= 0 {
		return nil, fmt.Errorf("slot duration must be positive")
	}
	return &slotClock{clk, genesis, slotDuration}, nil
}

func (c *slotClock) CurrentSlot() uint64 {
	elapsed := c.clock.Now().Sub(c.genesis)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / c.slotDuration)
}

func (c *slotClock) Now() time.Time {
	return c.clock.Now()
}
