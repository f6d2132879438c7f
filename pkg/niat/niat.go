/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package niat implements non-interactive anonymous tokens with a private metadata bit.
//
// An Issuer answers a client public key with a Presignature: an equivalence class signature on
// (pkC, H(r), T) together with a proof that T hides one of two admissible bits. The Client checks it and blinds it
// into a Token with its secret key, so the issuer cannot link the Token back to the issuance. On redemption the
// Issuer verifies the Token and reads the hidden bit with its private key.
//
// Both roles verify in bulk with ClientVerifier and IssuerVerifier. They own the pairing constants of their key
// and drop them when the key changes.
package niat

import (
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/pkg/errors"

	"github.com/aayux/niat/pkg/crypto/primitive/hiddenbit"
)

var logger = log.New("niat/protocol")

// Role names used in log lines.
const (
	roleIssuer   = "issuer"
	roleClient   = "client"
	roleVerifier = "verifier"
)

var (
	// ErrVerificationFailed is returned when a signature, a hidden bit proof or a batch does not verify.
	ErrVerificationFailed = errors.New("verification failed")
	// ErrMalformedInput is returned for nil, incomplete or undecodable inputs.
	ErrMalformedInput = errors.New("malformed input")
)

// verificationFailed reports a failed check of op. Both ErrVerificationFailed and cause stay in the chain.
func verificationFailed(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrVerificationFailed, cause)
}

// Bit is the private metadata bit embedded by the issuer.
type Bit = hiddenbit.Bit

// Admissible bits.
const (
	BitZero = hiddenbit.Zero
	BitOne  = hiddenbit.One
)

// ReadResult is the outcome of redeeming a token.
type ReadResult int

// Redemption outcomes.
const (
	ResultInvalid ReadResult = iota - 1
	ResultZero
	ResultOne
)

// Bit returns the bit a valid result carries.
func (r ReadResult) Bit() (Bit, bool) {
	switch r {
	case ResultZero:
		return BitZero, true
	case ResultOne:
		return BitOne, true
	default:
		return 0, false
	}
}

func (r ReadResult) String() string {
	switch r {
	case ResultZero:
		return "0"
	case ResultOne:
		return "1"
	default:
		return "invalid"
	}
}
