/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package eqs implements a structure-preserving signature on equivalence classes of three-element G1 message
// vectors. A signature on m can be turned, without the signing key, into a fresh-looking signature on mu*m for any
// non-zero scalar mu (see https://eprint.iacr.org/2014/944.pdf).
package eqs

import (
	"errors"
	"fmt"
	"io"

	ml "github.com/IBM/mathlib"

	"github.com/aayux/niat/pkg/internal/cryptoutil"
)

// ErrInvalidSignature is returned when a signature does not verify.
var ErrInvalidSignature = errors.New("invalid equivalence class signature")

// Signature is a signature on an equivalence class of messages.
type Signature struct {
	Z  *ml.G1
	Y1 *ml.G1
	Y2 *ml.G2
}

// Sign signs the class of m.
func Sign(m *Message, privKey *PrivateKey, rng io.Reader) (*Signature, error) {
	if !m.complete() {
		return nil, errors.New("sign: incomplete message")
	}

	nu, err := cryptoutil.RandomNonZeroZr(rng)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}

	nuInv, err := cryptoutil.Inverse(nu)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}

	z := m.Identity.Mul2(privKey.Identity, m.Nonce, privKey.Nonce)
	z.Add(m.Payload.Mul(privKey.Payload))

	return &Signature{
		Z:  z.Mul(nu),
		Y1: cryptoutil.Curve.GenG1.Mul(nuInv),
		Y2: cryptoutil.Curve.GenG2.Mul(nuInv),
	}, nil
}

// Verify checks the signature against m and the signer's public key.
func (sig *Signature) Verify(m *Message, pubKey *PublicKey) error {
	if !m.complete() {
		return ErrInvalidSignature
	}

	return sig.VerifyWithIdentityPairing(m, pubKey, pubKey.IdentityPairing(m.Identity))
}

// VerifyWithIdentityPairing is Verify with e(m.Identity, pubKey.Identity) supplied by the caller. Verifiers that see
// the same identity coordinate over and over compute it once.
func (sig *Signature) VerifyWithIdentityPairing(m *Message, pubKey *PublicKey, identityPairing *ml.Gt) error {
	if !sig.complete() || !m.complete() || identityPairing == nil {
		return ErrInvalidSignature
	}

	if sig.Y1.IsInfinity() {
		return ErrInvalidSignature
	}

	// e(P, Y2) = e(Y1, Q)
	if !compareTwoPairings(cryptoutil.Curve.GenG1, sig.Y2, cryptoutil.NegG1(sig.Y1), cryptoutil.Curve.GenG2) {
		return ErrInvalidSignature
	}

	// e(m0, pk0) * e(m1, pk1) * e(m2, pk2) = e(Z, Y2)
	rhs := cryptoutil.Curve.FExp(cryptoutil.Curve.Pairing2(pubKey.Nonce, m.Nonce, pubKey.Payload, m.Payload))
	rhs.Mul(identityPairing)

	lhs := cryptoutil.Curve.FExp(cryptoutil.Curve.Pairing(sig.Y2, sig.Z))

	if !lhs.Equals(rhs) {
		return ErrInvalidSignature
	}

	return nil
}

// ChangeRepresentation re-randomizes the signature and moves it to the representative mu*m of the signed class.
// The result is distributed independently of sig.
func (sig *Signature) ChangeRepresentation(mu *ml.Zr, rng io.Reader) (*Signature, error) {
	if cryptoutil.IsZero(mu) {
		return nil, fmt.Errorf("change representation: %w", cryptoutil.ErrZeroScalar)
	}

	psi, err := cryptoutil.RandomNonZeroZr(rng)
	if err != nil {
		return nil, fmt.Errorf("change representation: %w", err)
	}

	psiInv, err := cryptoutil.Inverse(psi)
	if err != nil {
		return nil, fmt.Errorf("change representation: %w", err)
	}

	return &Signature{
		Z:  sig.Z.Mul(cryptoutil.Mul(mu, psi)),
		Y1: sig.Y1.Mul(psiInv),
		Y2: sig.Y2.Mul(psiInv),
	}, nil
}

// Copy returns a deep copy of the signature.
func (sig *Signature) Copy() *Signature {
	return &Signature{Z: sig.Z.Copy(), Y1: sig.Y1.Copy(), Y2: sig.Y2.Copy()}
}

func (sig *Signature) complete() bool {
	return sig != nil && sig.Z != nil && sig.Y1 != nil && sig.Y2 != nil
}

// compareTwoPairings tells whether e(p1, q1) * e(p2, q2) = 1.
func compareTwoPairings(p1 *ml.G1, q1 *ml.G2, p2 *ml.G1, q2 *ml.G2) bool {
	p := cryptoutil.Curve.Pairing2(q1, p1, q2, p2)
	p = cryptoutil.Curve.FExp(p)

	return p.IsUnity()
}
