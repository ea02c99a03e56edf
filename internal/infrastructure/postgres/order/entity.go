package order

import (
	"strconv"

	v1 "github.com/nahoc/boundless-ws/internal/domain/order/v1"
)

// Order states as persisted.
const (
	StateSubmitted = "SUBMITTED"

	// SourceOffchain labels rows ingested from the order stream.
	SourceOffchain = "OFFCHAIN"
)

// Order is the persisted order row. Numeric columns are carried as decimal
// strings to preserve full-width integer precision across the persistence
// boundary.
type Order struct {
	OrderID       string
	Chain         string
	CustomerAddr  string
	State         string
	MinPrice      string
	MaxPrice      string
	BiddingStart  string
	Timeout       string
	LockStake     string
	RampUpPeriod  string
	ImgID         string
	ImgURL        string
	InputType     string
	InputData     string
	PredicateType string
	PredicateData string
	Timestamp     string
	CreatedAt     string
	RequestDigest string
	Source        string
}

// FromAnnouncement fills the row from a stream announcement. The request
// digest and chain label are supplied by the caller.
func (o *Order) FromAnnouncement(envelope *v1.StreamEnvelope, chain, requestDigest string) {
	request := envelope.Order.Request

	o.OrderID = request.ID.String()
	o.Chain = chain
	o.CustomerAddr = request.CustomerAddr()
	o.State = StateSubmitted
	o.MinPrice = request.Offer.MinPrice.String()
	o.MaxPrice = request.Offer.MaxPrice.String()
	o.BiddingStart = request.Offer.BiddingStart.String()
	o.Timeout = request.Offer.Timeout.String()
	o.LockStake = request.Offer.LockStake.String()
	o.RampUpPeriod = request.Offer.RampUpPeriod.String()
	o.ImgID = request.Requirements.ImageID
	o.ImgURL = request.ImageURL
	o.InputType = strconv.Itoa(int(request.Input.TypeValue()))
	o.InputData = request.Input.Data
	o.PredicateType = strconv.Itoa(int(request.Requirements.Predicate.TypeValue()))
	o.PredicateData = request.Requirements.Predicate.Data
	o.Timestamp = envelope.CreatedAt
	o.CreatedAt = envelope.CreatedAt
	o.RequestDigest = requestDigest
	o.Source = SourceOffchain
}
