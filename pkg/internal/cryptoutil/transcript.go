/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cryptoutil

import (
	ml "github.com/IBM/mathlib"
)

// Transcript accumulates the public values of a Fiat-Shamir proof. Every entry is a labelled, length-prefixed
// record so two transcripts hash alike only if they carry the same values in the same order.
type Transcript struct {
	buf []byte
}

// NewTranscript starts a transcript bound to the given domain tag.
func NewTranscript(domain string) *Transcript {
	return &Transcript{buf: frame(nil, []byte(domain))}
}

// AppendG1 records a G1 element under label.
func (t *Transcript) AppendG1(label string, p *ml.G1) {
	t.buf = frame(t.buf, []byte(label), p.Bytes())
}

// AppendG2 records a G2 element under label.
func (t *Transcript) AppendG2(label string, p *ml.G2) {
	t.buf = frame(t.buf, []byte(label), p.Bytes())
}

// Challenge hashes the transcript to a scalar.
func (t *Transcript) Challenge() *ml.Zr {
	return Curve.HashToZr(t.buf)
}

// Bytes returns the encoded transcript.
func (t *Transcript) Bytes() []byte {
	return t.buf
}
