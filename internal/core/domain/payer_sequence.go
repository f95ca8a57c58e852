package domain

// PayerSequence numbers the outbound messages paid by an account. The
// sequence makes every message key unique.
type PayerSequence struct {
	Payer Address
	Value uint64
}

// TakeAndUprank returns the current value and increments the counter.
func (s *PayerSequence) TakeAndUprank() uint64 {
	seq := s.Value
	s.Value++
	return seq
}
