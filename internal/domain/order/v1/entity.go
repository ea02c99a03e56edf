package v1

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Predicate and input type tags as announced on the wire.
const (
	PredicateTypePrefixMatch = "PrefixMatch"
	InputTypeInline          = "Inline"
)

// BigInt is a big.Int that accepts JSON numbers, decimal strings and
// 0x-prefixed hex strings, and serializes as a decimal string to preserve
// full-width integer precision.
type BigInt struct {
	big.Int
}

// NewBigInt creates a BigInt from an int64.
func NewBigInt(v int64) *BigInt {
	b := &BigInt{}
	b.SetInt64(v)
	return b
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}

	if _, ok := b.SetString(s, base); !ok {
		return fmt.Errorf("invalid integer value: %q", data)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b *BigInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// StreamEnvelope is a single frame received from the order stream.
// Frames without an order payload (heartbeats) carry a nil Order.
type StreamEnvelope struct {
	Order     *OrderEnvelope `json:"order"`
	CreatedAt string         `json:"created_at"`
}

// OrderEnvelope wraps a proof request announcement together with the
// broadcaster's signature. The signature is not verified on ingestion.
type OrderEnvelope struct {
	Request   *ProofRequest   `json:"request"`
	Signature json.RawMessage `json:"signature,omitempty"`
}

// ProofRequest is the announced proof-market request.
type ProofRequest struct {
	ID           *BigInt       `json:"id"`
	Requirements *Requirements `json:"requirements"`
	ImageURL     string        `json:"imageUrl"`
	Input        *Input        `json:"input"`
	Offer        *Offer        `json:"offer"`
}

// Requirements describe the image and predicate a proof must satisfy.
type Requirements struct {
	ImageID   string    `json:"imageId"`
	Predicate Predicate `json:"predicate"`
}

// Predicate is a typed constraint over the proof journal.
type Predicate struct {
	PredicateType string `json:"predicateType"`
	Data          string `json:"data"`
}

// Input is the typed program input of a proof request.
type Input struct {
	InputType string `json:"inputType"`
	Data      string `json:"data"`
}

// Offer holds the pricing and timing terms of a proof request.
type Offer struct {
	MinPrice     *BigInt `json:"minPrice"`
	MaxPrice     *BigInt `json:"maxPrice"`
	BiddingStart *BigInt `json:"biddingStart"`
	RampUpPeriod *BigInt `json:"rampUpPeriod"`
	Timeout      *BigInt `json:"timeout"`
	LockStake    *BigInt `json:"lockStake"`
}

// CustomerAddr derives the customer address embedded in the order id.
// The low 32 bits of the id are the per-customer sequence index; the
// remainder is the 160-bit customer address.
func (r *ProofRequest) CustomerAddr() string {
	addr := new(big.Int).Rsh(&r.ID.Int, 32)
	return fmt.Sprintf("0x%040x", addr)
}

// TypeValue normalizes the predicate type tag to its on-chain enumerant.
func (p Predicate) TypeValue() uint8 {
	if p.PredicateType == PredicateTypePrefixMatch {
		return 0
	}
	return 1
}

// TypeValue normalizes the input type tag to its on-chain enumerant.
func (i Input) TypeValue() uint8 {
	if i.InputType == InputTypeInline {
		return 0
	}
	return 1
}
