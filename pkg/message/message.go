// Package message implements the payloads exchanged by token routers and the
// matching engine on top of the messaging layer.
package message

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/fastfill-network/matching-engine/pkg/vaa"
)

// Payload ids.
const (
	DepositID           = uint8(1)
	FillID              = uint8(1)
	SlowOrderResponseID = uint8(2)
	FastMarketOrderID   = uint8(11)
	FastFillID          = uint8(12)
)

// fillOverhead is the size of a serialized Fill without redeemer message.
const fillOverhead = 1 + 2 + 32 + 32 + 4

const (
	// MaxDepositPayloadLen is the largest payload a Deposit can carry.
	MaxDepositPayloadLen = math.MaxUint16
	// MaxRedeemerMessageLen is the largest redeemer message whose Fill still
	// fits a Deposit.
	MaxRedeemerMessageLen = MaxDepositPayloadLen - fillOverhead
)

// FastMarketOrder is emitted by a source token router next to a slow CCTP
// transfer and asks the engine to auction the fast delivery of the funds.
type FastMarketOrder struct {
	AmountIn        uint64
	MinAmountOut    uint64
	TargetChain     vaa.ChainID
	Redeemer        vaa.Address
	Sender          vaa.Address
	RefundAddress   vaa.Address
	MaxFee          uint64
	InitAuctionFee  uint64
	Deadline        uint32
	RedeemerMessage []byte
}

// Serialize ...
func (o *FastMarketOrder) Serialize() []byte {
	w := newWriter(FastMarketOrderID)
	w.u64(o.AmountIn)
	w.u64(o.MinAmountOut)
	w.u16(uint16(o.TargetChain))
	w.bytes(o.Redeemer[:])
	w.bytes(o.Sender[:])
	w.bytes(o.RefundAddress[:])
	w.u64(o.MaxFee)
	w.u64(o.InitAuctionFee)
	w.u32(o.Deadline)
	w.u32(uint32(len(o.RedeemerMessage)))
	w.bytes(o.RedeemerMessage)
	return w.Bytes()
}

// ParseFastMarketOrder ...
func ParseFastMarketOrder(payload []byte) (*FastMarketOrder, error) {
	r, err := newReader(payload, FastMarketOrderID)
	if err != nil {
		return nil, err
	}
	o := &FastMarketOrder{}
	o.AmountIn = r.u64()
	o.MinAmountOut = r.u64()
	o.TargetChain = vaa.ChainID(r.u16())
	r.address(&o.Redeemer)
	r.address(&o.Sender)
	r.address(&o.RefundAddress)
	o.MaxFee = r.u64()
	o.InitAuctionFee = r.u64()
	o.Deadline = r.u32()
	msgLen := r.u32()
	if r.err == nil && msgLen > MaxRedeemerMessageLen {
		return nil, fmt.Errorf(
			"%w: redeemer message of %d bytes", ErrPayloadTooLarge, msgLen,
		)
	}
	o.RedeemerMessage = r.slice(int(msgLen))
	if err := r.done(); err != nil {
		return nil, err
	}
	return o, nil
}

// SlowOrderResponse travels inside the finalized Deposit of an order and
// carries the base fee owed to whoever settles it.
type SlowOrderResponse struct {
	BaseFee uint64
}

// Serialize ...
func (s *SlowOrderResponse) Serialize() []byte {
	w := newWriter(SlowOrderResponseID)
	w.u64(s.BaseFee)
	return w.Bytes()
}

// ParseSlowOrderResponse ...
func ParseSlowOrderResponse(payload []byte) (*SlowOrderResponse, error) {
	r, err := newReader(payload, SlowOrderResponseID)
	if err != nil {
		return nil, err
	}
	s := &SlowOrderResponse{BaseFee: r.u64()}
	if err := r.done(); err != nil {
		return nil, err
	}
	return s, nil
}

// Fill instructs the destination token router to release funds to the
// redeemer.
type Fill struct {
	SourceChain     vaa.ChainID
	OrderSender     vaa.Address
	Redeemer        vaa.Address
	RedeemerMessage []byte
}

// Serialize ...
func (f *Fill) Serialize() []byte {
	w := newWriter(FillID)
	f.write(w)
	return w.Bytes()
}

func (f *Fill) write(w *writer) {
	w.u16(uint16(f.SourceChain))
	w.bytes(f.OrderSender[:])
	w.bytes(f.Redeemer[:])
	w.u32(uint32(len(f.RedeemerMessage)))
	w.bytes(f.RedeemerMessage)
}

func (f *Fill) read(r *reader) {
	f.SourceChain = vaa.ChainID(r.u16())
	r.address(&f.OrderSender)
	r.address(&f.Redeemer)
	f.RedeemerMessage = r.slice(int(r.u32()))
}

// ParseFill ...
func ParseFill(payload []byte) (*Fill, error) {
	r, err := newReader(payload, FillID)
	if err != nil {
		return nil, err
	}
	f := &Fill{}
	f.read(r)
	if err := r.done(); err != nil {
		return nil, err
	}
	return f, nil
}

// FastFill is published by the engine when the destination router lives on
// the engine's own chain: funds are handed over without a CCTP hop.
type FastFill struct {
	Fill   Fill
	Amount uint64
}

// Serialize ...
func (f *FastFill) Serialize() []byte {
	w := newWriter(FastFillID)
	f.Fill.write(w)
	w.u64(f.Amount)
	return w.Bytes()
}

// ParseFastFill ...
func ParseFastFill(payload []byte) (*FastFill, error) {
	r, err := newReader(payload, FastFillID)
	if err != nil {
		return nil, err
	}
	f := &FastFill{}
	f.Fill.read(r)
	f.Amount = r.u64()
	if err := r.done(); err != nil {
		return nil, err
	}
	return f, nil
}

// Deposit wraps a CCTP burn with the message that the receiving router must
// process once the funds are minted.
type Deposit struct {
	TokenAddress          vaa.Address
	Amount                uint64
	SourceCctpDomain      uint32
	DestinationCctpDomain uint32
	CctpNonce             uint64
	BurnSource            vaa.Address
	MintRecipient         vaa.Address
	Payload               []byte
}

// Serialize fails if the payload does not fit its 16-bit length prefix.
func (d *Deposit) Serialize() ([]byte, error) {
	if len(d.Payload) > MaxDepositPayloadLen {
		return nil, fmt.Errorf(
			"%w: deposit payload of %d bytes", ErrPayloadTooLarge, len(d.Payload),
		)
	}
	w := newWriter(DepositID)
	w.bytes(d.TokenAddress[:])
	// amounts are 256-bit on the wire
	w.bytes(make([]byte, 24))
	w.u64(d.Amount)
	w.u32(d.SourceCctpDomain)
	w.u32(d.DestinationCctpDomain)
	w.u64(d.CctpNonce)
	w.bytes(d.BurnSource[:])
	w.bytes(d.MintRecipient[:])
	w.u16(uint16(len(d.Payload)))
	w.bytes(d.Payload)
	return w.Bytes(), nil
}

// ParseDeposit ...
func ParseDeposit(payload []byte) (*Deposit, error) {
	r, err := newReader(payload, DepositID)
	if err != nil {
		return nil, err
	}
	d := &Deposit{}
	r.address(&d.TokenAddress)
	if hi := r.slice(24); !bytes.Equal(hi, make([]byte, 24)) && r.err == nil {
		return nil, ErrAmountOverflow
	}
	d.Amount = r.u64()
	d.SourceCctpDomain = r.u32()
	d.DestinationCctpDomain = r.u32()
	d.CctpNonce = r.u64()
	r.address(&d.BurnSource)
	r.address(&d.MintRecipient)
	d.Payload = r.slice(int(r.u16()))
	if err := r.done(); err != nil {
		return nil, err
	}
	return d, nil
}

type writer struct {
	bytes.Buffer
}

func newWriter(id uint8) *writer {
	w := &writer{}
	w.WriteByte(id)
	return w
}

func (w *writer) u16(v uint16)   { _ = binary.Write(w, binary.BigEndian, v) }
func (w *writer) u32(v uint32)   { _ = binary.Write(w, binary.BigEndian, v) }
func (w *writer) u64(v uint64)   { _ = binary.Write(w, binary.BigEndian, v) }
func (w *writer) bytes(b []byte) { w.Write(b) }

// reader records the first decoding error and turns every later read into a
// no-op, so callers check the error once at the end.
type reader struct {
	buf *bytes.Reader
	err error
}

func newReader(payload []byte, id uint8) (*reader, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	if payload[0] != id {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidPayloadID, payload[0], id)
	}
	return &reader{buf: bytes.NewReader(payload[1:])}, nil
}

func (r *reader) read(v interface{}) {
	if r.err != nil {
		return
	}
	if err := binary.Read(r.buf, binary.BigEndian, v); err != nil {
		r.err = ErrMalformedPayload
	}
}

func (r *reader) u16() (v uint16) { r.read(&v); return }
func (r *reader) u32() (v uint32) { r.read(&v); return }
func (r *reader) u64() (v uint64) { r.read(&v); return }

func (r *reader) address(a *vaa.Address) {
	if r.err != nil {
		return
	}
	if _, err := io.ReadFull(r.buf, a[:]); err != nil {
		r.err = ErrMalformedPayload
	}
}

func (r *reader) slice(n int) []byte {
	if r.err != nil || n == 0 {
		return nil
	}
	if n > r.buf.Len() {
		r.err = ErrMalformedPayload
		return nil
	}
	b := make([]byte, n)
	_, _ = io.ReadFull(r.buf, b)
	return b
}

func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	if r.buf.Len() > 0 {
		return ErrTrailingBytes
	}
	return nil
}
