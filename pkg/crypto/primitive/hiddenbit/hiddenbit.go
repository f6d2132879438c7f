/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package hiddenbit contains a non-interactive OR-proof that the payload T of a token was built from one of the two
// admissible relations, without revealing which one:
//
//	bit 0: T = x1*S                and W0 = x1*Q
//	bit 1: T = x0*pkC + x1*S        and W1 = (x0+x1)*Q
//
// where (x0, x1) are the identity and nonce scalars of the issuer key, W0 = pk.Nonce and W1 = pk.Identity+pk.Nonce.
// The proof also shows knowledge of s with S = s*P. The branch that does not hold is simulated, the challenge is
// derived with Fiat-Shamir and split between both branches, and both cases produce the same proof shape.
package hiddenbit

import (
	"errors"
	"fmt"
	"io"

	ml "github.com/IBM/mathlib"

	"github.com/aayux/niat/pkg/crypto/primitive/eqs"
	"github.com/aayux/niat/pkg/internal/cryptoutil"
)

const transcriptDomain = "NIAT_HIDDEN_BIT_OR_PROOF_V1"

// Bit is the hidden metadata bit.
type Bit uint8

// Admissible bits.
const (
	Zero Bit = 0
	One  Bit = 1
)

// Valid tells whether b is 0 or 1.
func (b Bit) Valid() bool {
	return b == Zero || b == One
}

var (
	// ErrInvalidProof is returned when a proof does not verify.
	ErrInvalidProof = errors.New("invalid hidden bit proof")
	// ErrInvalidBit is returned for a bit other than 0 or 1.
	ErrInvalidBit = errors.New("bit must be 0 or 1")
	// ErrIncompleteStatement is returned when a statement misses a public value.
	ErrIncompleteStatement = errors.New("incomplete statement")
)

// Statement holds the public values the proof is about.
type Statement struct {
	ClientKey *ml.G1
	IssuerKey *eqs.PublicKey
	S         *ml.G1
	T         *ml.G1
}

// Witness holds the prover's secrets.
type Witness struct {
	// S is the discrete logarithm of Statement.S.
	S   *ml.Zr
	Key *eqs.PrivateKey
	Bit Bit
}

// Proof is the proof transcript. C0+C1 equals the Fiat-Shamir challenge.
type Proof struct {
	C0 *ml.Zr
	C1 *ml.Zr
	As *ml.Zr
	A0 *ml.Zr
	A1 *ml.Zr
	A2 *ml.Zr
}

// commitments are the prover's first-move values. r1, r2 belong to branch 0 and r3, r4 to branch 1.
type commitments struct {
	rs *ml.G1
	r1 *ml.G1
	r2 *ml.G2
	r3 *ml.G1
	r4 *ml.G2
}

// Prove proves that st.T was formed for w.Bit.
func Prove(st *Statement, w *Witness, rng io.Reader) (*Proof, error) {
	if !st.complete() {
		return nil, ErrIncompleteStatement
	}

	switch w.Bit {
	case Zero:
		return proveZero(st, w, rng)
	case One:
		return proveOne(st, w, rng)
	default:
		return nil, ErrInvalidBit
	}
}

// proveZero answers branch 0 and simulates branch 1.
func proveZero(st *Statement, w *Witness, rng io.Reader) (*Proof, error) {
	r, err := randomScalars(rng, 5) //nolint:gomnd
	if err != nil {
		return nil, err
	}

	rs, r0, c1, a1, a2 := r[0], r[1], r[2], r[3], r[4]

	cm := &commitments{
		rs: cryptoutil.Curve.GenG1.Mul(rs),
		r1: st.S.Mul(r0),
		r2: cryptoutil.Curve.GenG2.Mul(r0),
	}
	cm.r3, cm.r4 = st.branchOne(c1, a1, a2)

	c := st.challenge(cm)
	c0 := cryptoutil.Sub(c, c1)

	return &Proof{
		C0: c0,
		C1: c1,
		As: cryptoutil.Add(rs, cryptoutil.Mul(c, w.S)),
		A0: cryptoutil.Add(r0, cryptoutil.Mul(c0, w.Key.Nonce)),
		A1: a1,
		A2: a2,
	}, nil
}

// proveOne answers branch 1 and simulates branch 0.
func proveOne(st *Statement, w *Witness, rng io.Reader) (*Proof, error) {
	r, err := randomScalars(rng, 5) //nolint:gomnd
	if err != nil {
		return nil, err
	}

	rs, r1, r2, c0, a0 := r[0], r[1], r[2], r[3], r[4]

	r3 := st.ClientKey.Mul2(r1, st.S, r2)

	cm := &commitments{
		rs: cryptoutil.Curve.GenG1.Mul(rs),
		r3: r3,
		r4: cryptoutil.Curve.GenG2.Mul(cryptoutil.Add(r1, r2)),
	}
	cm.r1, cm.r2 = st.branchZero(c0, a0)

	c := st.challenge(cm)
	c1 := cryptoutil.Sub(c, c0)

	return &Proof{
		C0: c0,
		C1: c1,
		As: cryptoutil.Add(rs, cryptoutil.Mul(c, w.S)),
		A0: a0,
		A1: cryptoutil.Add(r1, cryptoutil.Mul(c1, w.Key.Identity)),
		A2: cryptoutil.Add(r2, cryptoutil.Mul(c1, w.Key.Nonce)),
	}, nil
}

// Verify checks the proof against the statement.
func Verify(st *Statement, proof *Proof) error {
	if !st.complete() {
		return ErrIncompleteStatement
	}

	if !proof.complete() {
		return ErrInvalidProof
	}

	c := cryptoutil.Add(proof.C0, proof.C1)

	rs := cryptoutil.Curve.GenG1.Mul(proof.As)
	rs.Sub(st.S.Mul(c))

	cm := &commitments{rs: rs}
	cm.r1, cm.r2 = st.branchZero(proof.C0, proof.A0)
	cm.r3, cm.r4 = st.branchOne(proof.C1, proof.A1, proof.A2)

	if !st.challenge(cm).Equals(c) {
		return ErrInvalidProof
	}

	return nil
}

// branchZero derives the branch 0 commitments from a challenge share and a response:
// R1 = a0*S - c0*T, R2 = a0*Q - c0*W0.
func (st *Statement) branchZero(c0, a0 *ml.Zr) (*ml.G1, *ml.G2) {
	r1 := st.S.Mul(a0)
	r1.Sub(st.T.Mul(c0))

	r2 := cryptoutil.Curve.GenG2.Mul(a0)
	r2.Sub(st.w0().Mul(c0))

	return r1, r2
}

// branchOne derives the branch 1 commitments from a challenge share and two responses:
// R3 = a1*pkC + a2*S - c1*T, R4 = (a1+a2)*Q - c1*W1.
func (st *Statement) branchOne(c1, a1, a2 *ml.Zr) (*ml.G1, *ml.G2) {
	r3 := st.ClientKey.Mul2(a1, st.S, a2)
	r3.Sub(st.T.Mul(c1))

	r4 := cryptoutil.Curve.GenG2.Mul(cryptoutil.Add(a1, a2))
	r4.Sub(st.w1().Mul(c1))

	return r3, r4
}

// challenge hashes the full public transcript. The field set and order are shared by Prove and Verify.
func (st *Statement) challenge(cm *commitments) *ml.Zr {
	t := cryptoutil.NewTranscript(transcriptDomain)

	t.AppendG1("P", cryptoutil.Curve.GenG1)
	t.AppendG2("Q", cryptoutil.Curve.GenG2)
	t.AppendG1("pkC", st.ClientKey)
	t.AppendG1("S", st.S)
	t.AppendG1("T", st.T)
	t.AppendG2("W0", st.w0())
	t.AppendG2("W1", st.w1())
	t.AppendG1("Rs", cm.rs)
	t.AppendG1("R1", cm.r1)
	t.AppendG2("R2", cm.r2)
	t.AppendG1("R3", cm.r3)
	t.AppendG2("R4", cm.r4)

	return t.Challenge()
}

func (st *Statement) w0() *ml.G2 {
	return st.IssuerKey.Nonce
}

func (st *Statement) w1() *ml.G2 {
	w := st.IssuerKey.Identity.Copy()
	w.Add(st.IssuerKey.Nonce)

	return w
}

func (st *Statement) complete() bool {
	return st != nil && st.ClientKey != nil && st.S != nil && st.T != nil &&
		st.IssuerKey != nil && st.IssuerKey.Identity != nil && st.IssuerKey.Nonce != nil
}

func (p *Proof) complete() bool {
	return p != nil && p.C0 != nil && p.C1 != nil && p.As != nil && p.A0 != nil && p.A1 != nil && p.A2 != nil
}

func randomScalars(rng io.Reader, n int) ([]*ml.Zr, error) {
	out := make([]*ml.Zr, n)

	for i := range out {
		z, err := cryptoutil.RandomNonZeroZr(rng)
		if err != nil {
			return nil, fmt.Errorf("prove: %w", err)
		}

		out[i] = z
	}

	return out, nil
}
