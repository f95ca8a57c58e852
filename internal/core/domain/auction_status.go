package domain

const (
	// AuctionStatusNotStarted ...
	AuctionStatusNotStarted AuctionStatusCode = iota
	// AuctionStatusActive means the auction accepts offers, or waits to be
	// executed once the bidding window closed.
	AuctionStatusActive
	// AuctionStatusCompleted means the fast fill was delivered and the engine
	// waits for the slow transfer to settle the auction.
	AuctionStatusCompleted
	// AuctionStatusSettled is terminal.
	AuctionStatusSettled
)

// AuctionStatusCode ...
type AuctionStatusCode uint8

// String ...
func (c AuctionStatusCode) String() string {
	switch c {
	case AuctionStatusNotStarted:
		return "NotStarted"
	case AuctionStatusActive:
		return "Active"
	case AuctionStatusCompleted:
		return "Completed"
	case AuctionStatusSettled:
		return "Settled"
	default:
		return "Unknown"
	}
}

// CompletedStatus records the execution of an auction.
type CompletedStatus struct {
	Slot uint64
	// Set only if the execution happened after the grace period.
	ExecutePenalty *uint64
	ExecutorToken  Address
}

// SettledStatus records the settlement of an auction.
type SettledStatus struct {
	Fee          uint64
	TotalPenalty *uint64
}

// AuctionStatus is the state of an auction. Completed and Settled carry the
// data of the respective states and are nil otherwise.
type AuctionStatus struct {
	Code      AuctionStatusCode
	Completed *CompletedStatus
	Settled   *SettledStatus
}
