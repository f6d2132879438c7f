/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package niat

import (
	ml "github.com/IBM/mathlib"
	"github.com/pkg/errors"
	"github.com/tchajed/marshal"

	"github.com/aayux/niat/pkg/crypto/primitive/eqs"
	"github.com/aayux/niat/pkg/crypto/primitive/hiddenbit"
	"github.com/aayux/niat/pkg/internal/cryptoutil"
)

// randomizerDST separates the hash of the issuance randomizer from any other use of hash-to-G1.
const randomizerDST = "NIAT_RANDOMIZER_BLS12381G1_V1"

// randomizerSize is the length of the per-issuance randomizer.
const randomizerSize = 32

// Presignature is the issuer's answer to a client key. The signature covers (pkC, H(Randomizer), T) and the proof
// shows T hides an admissible bit.
type Presignature struct {
	Signature  *eqs.Signature
	S          *ml.G1
	T          *ml.G1
	Proof      *hiddenbit.Proof
	Randomizer []byte
}

// Token is a blinded presignature: NonceTag = H(r)/skC, PayloadTag = T/skC, BlindTag = S/skC, with the signature
// moved to the class representative (P, NonceTag, PayloadTag).
type Token struct {
	NonceTag   *ml.G1
	PayloadTag *ml.G1
	BlindTag   *ml.G1
	Signature  *eqs.Signature
}

// TokenLen is the size of an encoded Token.
// nolint:gochecknoglobals
var TokenLen = 3*cryptoutil.Curve.CompressedG1ByteSize + eqs.SignatureLen

// hashRandomizer maps the randomizer to the nonce coordinate of the signed message.
func hashRandomizer(r []byte) *ml.G1 {
	return cryptoutil.HashToG1(randomizerDST, r)
}

// message returns the message the issuer signed for the client key pkC.
func (p *Presignature) message(pkC *ml.G1) *eqs.Message {
	return &eqs.Message{Identity: pkC, Nonce: hashRandomizer(p.Randomizer), Payload: p.T}
}

func (p *Presignature) complete() bool {
	return p != nil && p.Signature != nil && p.S != nil && p.T != nil && p.Proof != nil && len(p.Randomizer) > 0 &&
		p.Signature.Z != nil && p.Signature.Y1 != nil && p.Signature.Y2 != nil
}

// ToBytes encodes the presignature as Signature || S || T || Proof || len(Randomizer) || Randomizer.
func (p *Presignature) ToBytes() ([]byte, error) {
	if !p.complete() {
		return nil, errors.Wrap(ErrMalformedInput, "incomplete presignature")
	}

	sigBytes, err := p.Signature.ToBytes()
	if err != nil {
		return nil, errors.Wrap(err, "encode presignature")
	}

	proofBytes, err := p.Proof.ToBytes()
	if err != nil {
		return nil, errors.Wrap(err, "encode presignature")
	}

	b := make([]byte, 0, presignatureFixedLen()+8+len(p.Randomizer))

	b = append(b, sigBytes...)
	b = append(b, p.S.Compressed()...)
	b = append(b, p.T.Compressed()...)
	b = append(b, proofBytes...)
	b = marshal.WriteInt(b, uint64(len(p.Randomizer)))
	b = marshal.WriteBytes(b, p.Randomizer)

	return b, nil
}

// ParsePresignature parses a Presignature produced by ToBytes.
func ParsePresignature(b []byte) (*Presignature, error) {
	fixedLen := presignatureFixedLen()

	// nolint:gomnd
	if len(b) < fixedLen+8 {
		return nil, errors.Wrap(ErrMalformedInput, "invalid size of presignature")
	}

	g1Size := cryptoutil.Curve.CompressedG1ByteSize

	sig, err := eqs.ParseSignature(b[:eqs.SignatureLen])
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "parse presignature: %v", err)
	}

	b = b[eqs.SignatureLen:]

	s, err := cryptoutil.ParseG1(b[:g1Size])
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "parse presignature S: %v", err)
	}

	t, err := cryptoutil.ParseG1(b[g1Size : 2*g1Size])
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "parse presignature T: %v", err)
	}

	b = b[2*g1Size:]

	proof, err := hiddenbit.ParseProof(b[:hiddenbit.ProofLen])
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "parse presignature: %v", err)
	}

	n, b := marshal.ReadInt(b[hiddenbit.ProofLen:])
	if n == 0 || uint64(len(b)) != n {
		return nil, errors.Wrap(ErrMalformedInput, "invalid size of presignature randomizer")
	}

	r, _ := marshal.ReadBytes(b, n)

	return &Presignature{Signature: sig, S: s, T: t, Proof: proof, Randomizer: append([]byte(nil), r...)}, nil
}

func presignatureFixedLen() int {
	return eqs.SignatureLen + 2*cryptoutil.Curve.CompressedG1ByteSize + hiddenbit.ProofLen
}

// message returns the class representative (P, NonceTag, PayloadTag) the token signature verifies against.
func (t *Token) message() *eqs.Message {
	return &eqs.Message{Identity: cryptoutil.Curve.GenG1, Nonce: t.NonceTag, Payload: t.PayloadTag}
}

func (t *Token) complete() bool {
	return t != nil && t.NonceTag != nil && t.PayloadTag != nil && t.BlindTag != nil && t.Signature != nil &&
		t.Signature.Z != nil && t.Signature.Y1 != nil && t.Signature.Y2 != nil
}

// ToBytes encodes the token as NonceTag || PayloadTag || BlindTag || Signature.
func (t *Token) ToBytes() ([]byte, error) {
	if !t.complete() {
		return nil, errors.Wrap(ErrMalformedInput, "incomplete token")
	}

	sigBytes, err := t.Signature.ToBytes()
	if err != nil {
		return nil, errors.Wrap(err, "encode token")
	}

	b := make([]byte, 0, TokenLen)

	b = append(b, t.NonceTag.Compressed()...)
	b = append(b, t.PayloadTag.Compressed()...)
	b = append(b, t.BlindTag.Compressed()...)
	b = append(b, sigBytes...)

	return b, nil
}

// ParseToken parses a Token produced by ToBytes.
func ParseToken(b []byte) (*Token, error) {
	if len(b) != TokenLen {
		return nil, errors.Wrap(ErrMalformedInput, "invalid size of token")
	}

	g1Size := cryptoutil.Curve.CompressedG1ByteSize
	tags := make([]*ml.G1, 3) // nolint:gomnd

	for i := range tags {
		tag, err := cryptoutil.ParseG1(b[i*g1Size : (i+1)*g1Size])
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedInput, "parse token tag %d: %v", i, err)
		}

		tags[i] = tag
	}

	sig, err := eqs.ParseSignature(b[len(tags)*g1Size:])
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "parse token: %v", err)
	}

	return &Token{NonceTag: tags[0], PayloadTag: tags[1], BlindTag: tags[2], Signature: sig}, nil
}
