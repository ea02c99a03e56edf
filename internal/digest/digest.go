package digest

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	v1 "github.com/nahoc/boundless-ws/internal/domain/order/v1"
)

// Typed-data schema of a proof request, mirroring BoundlessMarketLib.sol.
// Field order here is what gets hashed, not the wire payload order.
var proofRequestTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"ProofRequest": {
		{Name: "id", Type: "uint256"},
		{Name: "requirements", Type: "Requirements"},
		{Name: "imageUrl", Type: "string"},
		{Name: "input", Type: "Input"},
		{Name: "offer", Type: "Offer"},
	},
	"Requirements": {
		{Name: "imageId", Type: "bytes32"},
		{Name: "predicate", Type: "Predicate"},
	},
	"Predicate": {
		{Name: "predicateType", Type: "uint8"},
		{Name: "data", Type: "bytes"},
	},
	"Input": {
		{Name: "inputType", Type: "uint8"},
		{Name: "data", Type: "bytes"},
	},
	"Offer": {
		{Name: "minPrice", Type: "uint256"},
		{Name: "maxPrice", Type: "uint256"},
		{Name: "biddingStart", Type: "uint64"},
		{Name: "rampUpPeriod", Type: "uint32"},
		{Name: "timeout", Type: "uint32"},
		{Name: "lockStake", Type: "uint256"},
	},
}

const (
	domainName    = "IBoundlessMarket"
	domainVersion = "1"
)

// Domain identifies the market deployment a digest is bound to.
type Domain struct {
	ChainID         int64
	ContractAddress string
}

// Compute canonicalizes a proof request per the fixed typed-data schema and
// returns its digest as lowercase hex without the 0x prefix. The digest is a
// pure function of the request fields and the domain parameters.
func Compute(request *v1.ProofRequest, domain Domain) (string, error) {
	if request == nil || request.ID == nil || request.Requirements == nil ||
		request.Input == nil || request.Offer == nil {
		return "", fmt.Errorf("proof request is missing required sections")
	}

	offer := request.Offer
	if offer.MinPrice == nil || offer.MaxPrice == nil || offer.BiddingStart == nil ||
		offer.RampUpPeriod == nil || offer.Timeout == nil || offer.LockStake == nil {
		return "", fmt.Errorf("proof request offer is missing price or timing terms")
	}

	typedData := apitypes.TypedData{
		Types:       proofRequestTypes,
		PrimaryType: "ProofRequest",
		Domain: apitypes.TypedDataDomain{
			Name:              domainName,
			Version:           domainVersion,
			ChainId:           math.NewHexOrDecimal256(domain.ChainID),
			VerifyingContract: domain.ContractAddress,
		},
		Message: apitypes.TypedDataMessage{
			"id": request.ID.String(),
			"requirements": map[string]any{
				"imageId": request.Requirements.ImageID,
				"predicate": map[string]any{
					"predicateType": strconv.Itoa(int(request.Requirements.Predicate.TypeValue())),
					"data":          request.Requirements.Predicate.Data,
				},
			},
			"imageUrl": request.ImageURL,
			"input": map[string]any{
				"inputType": strconv.Itoa(int(request.Input.TypeValue())),
				"data":      request.Input.Data,
			},
			"offer": map[string]any{
				"minPrice":     request.Offer.MinPrice.String(),
				"maxPrice":     request.Offer.MaxPrice.String(),
				"biddingStart": request.Offer.BiddingStart.String(),
				"rampUpPeriod": request.Offer.RampUpPeriod.String(),
				"timeout":      request.Offer.Timeout.String(),
				"lockStake":    request.Offer.LockStake.String(),
			},
		},
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return "", fmt.Errorf("failed to hash proof request: %w", err)
	}

	return hex.EncodeToString(hash), nil
}
