/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package eqs

import (
	"errors"
	"fmt"

	"github.com/aayux/niat/pkg/internal/cryptoutil"
)

// SignatureLen is the size of an encoded Signature.
// nolint:gochecknoglobals
var SignatureLen = 2*cryptoutil.Curve.CompressedG1ByteSize + cryptoutil.Curve.CompressedG2ByteSize

// ParseSignature parses a Signature from bytes.
func ParseSignature(sigBytes []byte) (*Signature, error) {
	if len(sigBytes) != SignatureLen {
		return nil, errors.New("invalid size of signature")
	}

	g1Size := cryptoutil.Curve.CompressedG1ByteSize

	z, err := cryptoutil.ParseG1(sigBytes[:g1Size])
	if err != nil {
		return nil, fmt.Errorf("parse signature Z: %w", err)
	}

	y1, err := cryptoutil.ParseG1(sigBytes[g1Size : 2*g1Size])
	if err != nil {
		return nil, fmt.Errorf("parse signature Y1: %w", err)
	}

	y2, err := cryptoutil.ParseG2(sigBytes[2*g1Size:])
	if err != nil {
		return nil, fmt.Errorf("parse signature Y2: %w", err)
	}

	return &Signature{Z: z, Y1: y1, Y2: y2}, nil
}

// ToBytes converts signature to bytes using compression of the group elements.
func (sig *Signature) ToBytes() ([]byte, error) {
	if !sig.complete() {
		return nil, errors.New("incomplete signature")
	}

	bytes := make([]byte, 0, SignatureLen)

	bytes = append(bytes, sig.Z.Compressed()...)
	bytes = append(bytes, sig.Y1.Compressed()...)
	bytes = append(bytes, sig.Y2.Compressed()...)

	return bytes, nil
}
