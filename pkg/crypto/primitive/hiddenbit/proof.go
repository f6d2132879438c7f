/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package hiddenbit

import (
	"errors"
	"fmt"

	ml "github.com/IBM/mathlib"

	"github.com/aayux/niat/pkg/internal/cryptoutil"
)

const proofScalars = 6

// ProofLen is the size of an encoded Proof.
// nolint:gochecknoglobals
var ProofLen = proofScalars * cryptoutil.Curve.ScalarByteSize

// ToBytes encodes the proof as C0 || C1 || As || A0 || A1 || A2.
func (p *Proof) ToBytes() ([]byte, error) {
	if !p.complete() {
		return nil, errors.New("incomplete proof")
	}

	bytes := make([]byte, 0, ProofLen)

	for _, z := range p.scalars() {
		bytes = append(bytes, z.Bytes()...)
	}

	return bytes, nil
}

// ParseProof parses a Proof produced by ToBytes.
func ParseProof(proofBytes []byte) (*Proof, error) {
	if len(proofBytes) != ProofLen {
		return nil, errors.New("invalid size of proof")
	}

	size := cryptoutil.Curve.ScalarByteSize
	scalars := make([]*ml.Zr, proofScalars)

	for i := range scalars {
		z, err := cryptoutil.ParseZr(proofBytes[i*size : (i+1)*size])
		if err != nil {
			return nil, fmt.Errorf("parse proof: %w", err)
		}

		scalars[i] = z
	}

	return &Proof{
		C0: scalars[0],
		C1: scalars[1],
		As: scalars[2],
		A0: scalars[3],
		A1: scalars[4],
		A2: scalars[5],
	}, nil
}

func (p *Proof) scalars() []*ml.Zr {
	return []*ml.Zr{p.C0, p.C1, p.As, p.A0, p.A1, p.A2}
}
