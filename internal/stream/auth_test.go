package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the address of private key 0x...01, a well-known test vector
const (
	testPrivateKey = "0000000000000000000000000000000000000000000000000000000000000001"
	testWalletAddr = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"
)

func TestNewSigner(t *testing.T) {
	type testCase struct {
		name       string
		privateKey string
		wantErr    string
		wantAddr   string
	}

	tests := []testCase{
		{
			name:       "accepts a bare hex key",
			privateKey: testPrivateKey,
			wantAddr:   testWalletAddr,
		},
		{
			name:       "strips the 0x prefix",
			privateKey: "0x" + testPrivateKey,
			wantAddr:   testWalletAddr,
		},
		{
			name:       "rejects short keys",
			privateKey: "abcdef",
			wantErr:    "invalid private key format",
		},
		{
			name:       "rejects non-hex keys",
			privateKey: strings.Repeat("zz", 32),
			wantErr:    "invalid private key format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			signer, err := NewSigner(tc.privateKey)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantAddr, signer.Address().Hex())
		})
	}
}

func TestSigner_SignMessage(t *testing.T) {
	signer, err := NewSigner(testPrivateKey)
	require.NoError(t, err)

	message := "hello order stream"
	signature, err := signer.SignMessage(message)
	require.NoError(t, err)

	r := hexutil.MustDecode(signature.R)
	s := hexutil.MustDecode(signature.S)
	yParity := hexutil.MustDecodeUint64(signature.YParity)
	v := hexutil.MustDecodeUint64(signature.V)

	assert.Len(t, r, 32)
	assert.Len(t, s, 32)
	assert.Equal(t, yParity+27, v)

	// the personal-message signature must recover to the signer's address
	sig := append(append(r, s...), byte(yParity))
	pubKey, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	require.NoError(t, err)
	assert.Equal(t, testWalletAddr, crypto.PubkeyToAddress(*pubKey).Hex())
}

func TestAuthMessage_HeaderValue(t *testing.T) {
	auth := &AuthMessage{
		Message: "challenge",
		Signature: Signature{
			R:       "0x01",
			S:       "0x02",
			V:       "0x1c",
			YParity: "0x1",
		},
	}

	value, err := auth.HeaderValue()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(value), &decoded))
	assert.Equal(t, "challenge", decoded["message"])

	signature, ok := decoded["signature"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "0x01", signature["r"])
	assert.Equal(t, "0x02", signature["s"])
	assert.Equal(t, "0x1c", signature["v"])
	assert.Equal(t, "0x1", signature["yParity"])
}

func TestHandshake_BuildCredential(t *testing.T) {
	signer, err := NewSigner(testPrivateKey)
	require.NoError(t, err)

	var noncePath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		noncePath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"nonce":"abc123"}`)
	}))
	defer server.Close()

	handshake := NewHandshake(server.URL, signer)
	handshake.now = func() time.Time {
		return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	}

	credential, err := handshake.BuildCredential(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/nonce/"+testWalletAddr, noncePath)

	host := strings.TrimPrefix(server.URL, "http://")
	lines := strings.Split(credential.Message, "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, host+" wants you to sign in with your Ethereum account:", lines[0])
	assert.Equal(t, testWalletAddr, lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "Boundless Order Stream", lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, "URI: "+server.URL, lines[5])
	assert.Equal(t, "Version: 1", lines[6])
	assert.Equal(t, "Chain ID: 1", lines[7])
	assert.Equal(t, "Nonce: abc123", lines[8])
	assert.Equal(t, "Issued At: 2025-05-01T12:00:00Z", lines[9])

	// the credential signs the exact challenge text
	r := hexutil.MustDecode(credential.Signature.R)
	s := hexutil.MustDecode(credential.Signature.S)
	yParity := hexutil.MustDecodeUint64(credential.Signature.YParity)
	sig := append(append(r, s...), byte(yParity))
	pubKey, err := crypto.SigToPub(accounts.TextHash([]byte(credential.Message)), sig)
	require.NoError(t, err)
	assert.Equal(t, testWalletAddr, crypto.PubkeyToAddress(*pubKey).Hex())
}

func TestHandshake_FetchNonceFailure(t *testing.T) {
	signer, err := NewSigner(testPrivateKey)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	handshake := NewHandshake(server.URL, signer)

	_, err = handshake.BuildCredential(context.Background())
	assert.ErrorContains(t, err, "nonce endpoint returned status 500")
}
