/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package niat

import (
	"io"

	ml "github.com/IBM/mathlib"
	"github.com/pkg/errors"

	"github.com/aayux/niat/pkg/internal/cryptoutil"
)

// ClientKeyPair is the client's blinding key. Public = Secret*P.
type ClientKeyPair struct {
	Secret *ml.Zr
	Public *ml.G1
}

// GenerateClientKeyPair draws a non-zero secret scalar and derives its public key.
func GenerateClientKeyPair(rng io.Reader) (*ClientKeyPair, error) {
	sk, err := cryptoutil.RandomNonZeroZr(rng)
	if err != nil {
		return nil, errors.Wrap(err, "generate client key pair")
	}

	return &ClientKeyPair{Secret: sk, Public: cryptoutil.Curve.GenG1.Mul(sk)}, nil
}

func (kp *ClientKeyPair) valid() bool {
	return kp != nil && kp.Secret != nil && kp.Public != nil && !cryptoutil.IsZero(kp.Secret)
}
