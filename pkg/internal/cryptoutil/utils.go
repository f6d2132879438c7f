/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package cryptoutil holds the pairing curve handle and the scalar, hashing and fingerprint helpers shared by the
// token primitives.
package cryptoutil

import (
	"errors"
	"fmt"
	"io"

	ml "github.com/IBM/mathlib"
	"github.com/btcsuite/btcutil/base58"
	"github.com/tchajed/marshal"
	"golang.org/x/crypto/blake2b"
)

// Curve is the BLS12-381 pairing group every primitive of this module works in.
// nolint:gochecknoglobals
var Curve = ml.Curves[ml.BLS12_381_BBS]

// maxSampleAttempts bounds resampling of a zero scalar. Hitting it means the randomness source is broken.
const maxSampleAttempts = 16

// ErrZeroScalar is returned when a scalar that must be invertible is zero.
var ErrZeroScalar = errors.New("zero scalar")

// ErrRandomness is returned when no non-zero scalar could be drawn from the randomness source.
var ErrRandomness = errors.New("randomness source produced only zero scalars")

// RandomNonZeroZr draws a uniformly random scalar, resampling on zero.
func RandomNonZeroZr(rng io.Reader) (*ml.Zr, error) {
	for i := 0; i < maxSampleAttempts; i++ {
		z := Curve.NewRandomZr(rng)
		if !IsZero(z) {
			return z, nil
		}
	}

	return nil, ErrRandomness
}

// IsZero tells whether z is the additive identity of the scalar field.
func IsZero(z *ml.Zr) bool {
	return z.Equals(Curve.NewZrFromInt(0))
}

// Inverse returns 1/z mod the group order without modifying z.
func Inverse(z *ml.Zr) (*ml.Zr, error) {
	if IsZero(z) {
		return nil, ErrZeroScalar
	}

	inv := z.Copy()
	inv.InvModP(Curve.GroupOrder)

	return inv, nil
}

// Neg returns -z mod the group order.
func Neg(z *ml.Zr) *ml.Zr {
	return Curve.ModNeg(z, Curve.GroupOrder)
}

// NegG1 returns -p.
func NegG1(p *ml.G1) *ml.G1 {
	return p.Mul(Neg(Curve.NewZrFromInt(1)))
}

// Add returns a+b mod the group order.
func Add(a, b *ml.Zr) *ml.Zr {
	return Curve.ModAdd(a, b, Curve.GroupOrder)
}

// Sub returns a-b mod the group order.
func Sub(a, b *ml.Zr) *ml.Zr {
	return Curve.ModSub(a, b, Curve.GroupOrder)
}

// Mul returns a*b mod the group order.
func Mul(a, b *ml.Zr) *ml.Zr {
	return Curve.ModMul(a, b, Curve.GroupOrder)
}

// HashToG1 maps msg to a G1 element under the domain separation tag dst.
func HashToG1(dst string, msg []byte) *ml.G1 {
	return Curve.HashToG1WithDomain(msg, []byte(dst))
}

// Fingerprint derives a stable, printable identifier from the canonical encodings of public values.
func Fingerprint(parts ...[]byte) string {
	digest := blake2b.Sum256(frame(nil, parts...))

	return base58.Encode(digest[:])
}

// ParseG1 decodes a compressed G1 element.
func ParseG1(b []byte) (*ml.G1, error) {
	if len(b) != Curve.CompressedG1ByteSize {
		return nil, fmt.Errorf("invalid size of G1 element: %d", len(b))
	}

	p, err := Curve.NewG1FromCompressed(b)
	if err != nil {
		return nil, fmt.Errorf("deserialize G1 compressed element: %w", err)
	}

	return p, nil
}

// ParseG2 decodes a compressed G2 element.
func ParseG2(b []byte) (*ml.G2, error) {
	if len(b) != Curve.CompressedG2ByteSize {
		return nil, fmt.Errorf("invalid size of G2 element: %d", len(b))
	}

	p, err := Curve.NewG2FromCompressed(b)
	if err != nil {
		return nil, fmt.Errorf("deserialize G2 compressed element: %w", err)
	}

	return p, nil
}

// ParseZr decodes a fixed-size scalar.
func ParseZr(b []byte) (*ml.Zr, error) {
	if len(b) != Curve.ScalarByteSize {
		return nil, fmt.Errorf("invalid size of scalar: %d", len(b))
	}

	z := Curve.NewZrFromBytes(b)
	z.Mod(Curve.GroupOrder)

	return z, nil
}

// frame appends each part to b as a length-prefixed record.
func frame(b []byte, parts ...[]byte) []byte {
	for _, p := range parts {
		b = marshal.WriteInt(b, uint64(len(p)))
		b = marshal.WriteBytes(b, p)
	}

	return b
}
