/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package eqs

import (
	"errors"
	"fmt"
	"io"

	ml "github.com/IBM/mathlib"

	"github.com/aayux/niat/pkg/internal/cryptoutil"
)

// PrivateKey holds one secret scalar per message coordinate.
type PrivateKey struct {
	Identity *ml.Zr
	Nonce    *ml.Zr
	Payload  *ml.Zr
}

// PublicKey holds the G2 images of the private scalars.
type PublicKey struct {
	Identity *ml.G2
	Nonce    *ml.G2
	Payload  *ml.G2
}

// GenerateKeyPair draws three independent scalars and derives the matching public key.
func GenerateKeyPair(rng io.Reader) (*PublicKey, *PrivateKey, error) {
	scalars := make([]*ml.Zr, messageSize)

	for i := range scalars {
		x, err := cryptoutil.RandomNonZeroZr(rng)
		if err != nil {
			return nil, nil, fmt.Errorf("generate key pair: %w", err)
		}

		scalars[i] = x
	}

	privKey := &PrivateKey{
		Identity: scalars[0],
		Nonce:    scalars[1],
		Payload:  scalars[2],
	}

	return privKey.PublicKey(), privKey, nil
}

// PublicKey derives the public key.
func (k *PrivateKey) PublicKey() *PublicKey {
	q := cryptoutil.Curve.GenG2

	return &PublicKey{
		Identity: q.Mul(k.Identity),
		Nonce:    q.Mul(k.Nonce),
		Payload:  q.Mul(k.Payload),
	}
}

// Marshal encodes the private key as three fixed-size scalars.
func (k *PrivateKey) Marshal() ([]byte, error) {
	if k.Identity == nil || k.Nonce == nil || k.Payload == nil {
		return nil, errors.New("incomplete private key")
	}

	size := cryptoutil.Curve.ScalarByteSize
	b := make([]byte, 0, messageSize*size)

	b = append(b, k.Identity.Bytes()...)
	b = append(b, k.Nonce.Bytes()...)
	b = append(b, k.Payload.Bytes()...)

	return b, nil
}

// UnmarshalPrivateKey parses a PrivateKey produced by Marshal.
func UnmarshalPrivateKey(privKeyBytes []byte) (*PrivateKey, error) {
	size := cryptoutil.Curve.ScalarByteSize

	if len(privKeyBytes) != messageSize*size {
		return nil, errors.New("invalid size of private key")
	}

	scalars := make([]*ml.Zr, messageSize)

	for i := range scalars {
		x, err := cryptoutil.ParseZr(privKeyBytes[i*size : (i+1)*size])
		if err != nil {
			return nil, fmt.Errorf("deserialize private key: %w", err)
		}

		if cryptoutil.IsZero(x) {
			return nil, fmt.Errorf("deserialize private key: %w", cryptoutil.ErrZeroScalar)
		}

		scalars[i] = x
	}

	return &PrivateKey{Identity: scalars[0], Nonce: scalars[1], Payload: scalars[2]}, nil
}

// Marshal encodes the public key as three compressed G2 elements.
func (pk *PublicKey) Marshal() ([]byte, error) {
	if pk.Identity == nil || pk.Nonce == nil || pk.Payload == nil {
		return nil, errors.New("incomplete public key")
	}

	b := make([]byte, 0, messageSize*cryptoutil.Curve.CompressedG2ByteSize)

	b = append(b, pk.Identity.Compressed()...)
	b = append(b, pk.Nonce.Compressed()...)
	b = append(b, pk.Payload.Compressed()...)

	return b, nil
}

// UnmarshalPublicKey parses a PublicKey produced by Marshal.
func UnmarshalPublicKey(pubKeyBytes []byte) (*PublicKey, error) {
	size := cryptoutil.Curve.CompressedG2ByteSize

	if len(pubKeyBytes) != messageSize*size {
		return nil, errors.New("invalid size of public key")
	}

	points := make([]*ml.G2, messageSize)

	for i := range points {
		p, err := cryptoutil.ParseG2(pubKeyBytes[i*size : (i+1)*size])
		if err != nil {
			return nil, fmt.Errorf("deserialize public key: %w", err)
		}

		points[i] = p
	}

	return &PublicKey{Identity: points[0], Nonce: points[1], Payload: points[2]}, nil
}

// Equals tells whether both keys hold the same points.
func (pk *PublicKey) Equals(other *PublicKey) bool {
	return pk.Identity.Equals(other.Identity) && pk.Nonce.Equals(other.Nonce) && pk.Payload.Equals(other.Payload)
}

// Fingerprint identifies the public key; it changes whenever the key does.
func (pk *PublicKey) Fingerprint() string {
	return cryptoutil.Fingerprint(pk.Identity.Bytes(), pk.Nonce.Bytes(), pk.Payload.Bytes())
}

// IdentityPairing computes e(identity, pk.Identity), the factor of the verification equation that stays constant
// while the identity coordinate of the signed messages is fixed.
func (pk *PublicKey) IdentityPairing(identity *ml.G1) *ml.Gt {
	return cryptoutil.Curve.FExp(cryptoutil.Curve.Pairing(pk.Identity, identity))
}
