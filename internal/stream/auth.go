package stream

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var privateKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// Signer holds the wallet identity used to authenticate against the stream.
type Signer struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewSigner parses a private key in hex form. A 0x prefix is stripped.
func NewSigner(privateKeyHex string) (*Signer, error) {
	cleaned := strings.TrimPrefix(privateKeyHex, "0x")
	if !privateKeyPattern.MatchString(cleaned) {
		return nil, fmt.Errorf("invalid private key format, expected 64-character hex string")
	}

	privateKey, err := crypto.HexToECDSA(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Signer{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// Address returns the wallet address.
func (s *Signer) Address() common.Address {
	return s.address
}

// SignMessage signs a message with the Ethereum personal-message prefix.
func (s *Signer) SignMessage(message string) (*Signature, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}

	// crypto.Sign returns the recovery id as 0/1; the legacy v is offset by 27
	return &Signature{
		R:       hexutil.Encode(sig[:32]),
		S:       hexutil.Encode(sig[32:64]),
		V:       hexutil.EncodeUint64(uint64(sig[64]) + 27),
		YParity: hexutil.EncodeUint64(uint64(sig[64])),
	}, nil
}

// Signature is the transport form of a wallet signature.
type Signature struct {
	R       string `json:"r"`
	S       string `json:"s"`
	V       string `json:"v"`
	YParity string `json:"yParity"`
}

// AuthMessage is the signed credential attached to the stream handshake as a
// header value.
type AuthMessage struct {
	Message   string    `json:"message"`
	Signature Signature `json:"signature"`
}

// HeaderValue serializes the credential for the X-Auth-Data header.
func (a *AuthMessage) HeaderValue() (string, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("failed to serialize auth message: %w", err)
	}
	return string(payload), nil
}

// Handshake fetches a one-time server nonce and signs the sign-in challenge
// that proves control of the wallet identity.
type Handshake struct {
	baseURL string
	signer  *Signer
	client  *http.Client
	now     func() time.Time
}

// NewHandshake creates a new Handshake.
func NewHandshake(baseURL string, signer *Signer) *Handshake {
	return &Handshake{
		baseURL: strings.TrimRight(baseURL, "/"),
		signer:  signer,
		client:  &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
}

// BuildCredential performs the nonce fetch, builds the challenge message and
// signs it. Failures propagate; there is no retry at this layer.
func (h *Handshake) BuildCredential(ctx context.Context) (*AuthMessage, error) {
	nonce, err := h.fetchNonce(ctx)
	if err != nil {
		return nil, err
	}

	message, err := h.challenge(nonce)
	if err != nil {
		return nil, err
	}

	signature, err := h.signer.SignMessage(message)
	if err != nil {
		return nil, err
	}

	return &AuthMessage{
		Message:   message,
		Signature: *signature,
	}, nil
}

func (h *Handshake) fetchNonce(ctx context.Context) (string, error) {
	nonceURL := fmt.Sprintf("%s/api/nonce/%s", h.baseURL, h.signer.Address().Hex())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nonceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build nonce request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch nonce: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("nonce endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		Nonce string `json:"nonce"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode nonce response: %w", err)
	}

	return payload.Nonce, nil
}

// challenge builds the sign-in-with-Ethereum message embedding the nonce.
func (h *Handshake) challenge(nonce string) (string, error) {
	parsed, err := url.Parse(h.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base url: %w", err)
	}

	lines := []string{
		fmt.Sprintf("%s wants you to sign in with your Ethereum account:", parsed.Host),
		h.signer.Address().Hex(),
		"",
		"Boundless Order Stream",
		"",
		"URI: " + h.baseURL,
		"Version: 1",
		"Chain ID: 1",
		"Nonce: " + nonce,
		"Issued At: " + h.now().UTC().Format(time.RFC3339),
	}

	return strings.Join(lines, "\n"), nil
}
