/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package eqs

import (
	ml "github.com/IBM/mathlib"
)

const messageSize = 3

// Message is a vector of three G1 elements. A signature covers the whole class of its scalar multiples.
type Message struct {
	// Identity binds the holder: the client public key at issuance, the generator at redemption.
	Identity *ml.G1
	// Nonce is the hash of the per-issuance randomizer.
	Nonce *ml.G1
	// Payload carries the hidden bit.
	Payload *ml.G1
}

// Scale returns mu times every coordinate of m, a different representative of the same class.
func (m *Message) Scale(mu *ml.Zr) *Message {
	return &Message{
		Identity: m.Identity.Mul(mu),
		Nonce:    m.Nonce.Mul(mu),
		Payload:  m.Payload.Mul(mu),
	}
}

func (m *Message) complete() bool {
	return m != nil && m.Identity != nil && m.Nonce != nil && m.Payload != nil
}
