package ports

import "time"

// SlotClock is the source of time of the engine.
type SlotClock interface {
	// CurrentSlot returns the slot of the engine chain.
	CurrentSlot() uint64
	// Now returns the wall time, used to check order deadlines.
	Now() time.Time
}
