/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package hiddenbit_test

import (
	"crypto/rand"
	"testing"

	ml "github.com/IBM/mathlib"
	"github.com/stretchr/testify/require"

	"github.com/aayux/niat/pkg/crypto/primitive/eqs"
	"github.com/aayux/niat/pkg/crypto/primitive/hiddenbit"
	"github.com/aayux/niat/pkg/internal/cryptoutil"
)

type fixture struct {
	pubKey  *eqs.PublicKey
	privKey *eqs.PrivateKey
	pkC     *ml.G1
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	pubKey, privKey, err := eqs.GenerateKeyPair(rand.Reader)
	require.NoError(t, err)

	skC, err := cryptoutil.RandomNonZeroZr(rand.Reader)
	require.NoError(t, err)

	return &fixture{pubKey: pubKey, privKey: privKey, pkC: cryptoutil.Curve.GenG1.Mul(skC)}
}

// statement builds S and T for bit the way an issuer does.
func (f *fixture) statement(t *testing.T, bit hiddenbit.Bit) (*hiddenbit.Statement, *hiddenbit.Witness) {
	t.Helper()

	s, err := cryptoutil.RandomNonZeroZr(rand.Reader)
	require.NoError(t, err)

	bigS := cryptoutil.Curve.GenG1.Mul(s)

	bigT := bigS.Mul(f.privKey.Nonce)
	if bit == hiddenbit.One {
		bigT.Add(f.pkC.Mul(f.privKey.Identity))
	}

	return &hiddenbit.Statement{ClientKey: f.pkC, IssuerKey: f.pubKey, S: bigS, T: bigT},
		&hiddenbit.Witness{S: s, Key: f.privKey, Bit: bit}
}

func TestProveVerify(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		bit  hiddenbit.Bit
	}{
		{name: "bit 0", bit: hiddenbit.Zero},
		{name: "bit 1", bit: hiddenbit.One},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				st, w := f.statement(t, tc.bit)

				proof, err := hiddenbit.Prove(st, w, rand.Reader)
				require.NoError(t, err)
				require.NoError(t, hiddenbit.Verify(st, proof))
			}
		})
	}
}

func TestVerifyRejects(t *testing.T) {
	f := newFixture(t)

	for _, bit := range []hiddenbit.Bit{hiddenbit.Zero, hiddenbit.One} {
		st, w := f.statement(t, bit)

		proof, err := hiddenbit.Prove(st, w, rand.Reader)
		require.NoError(t, err)

		t.Run("different T", func(t *testing.T) {
			shiftedT := st.T.Copy()
			shiftedT.Add(cryptoutil.Curve.GenG1)

			tampered := *st
			tampered.T = shiftedT

			require.ErrorIs(t, hiddenbit.Verify(&tampered, proof), hiddenbit.ErrInvalidProof)
		})

		t.Run("different S", func(t *testing.T) {
			tampered := *st
			tampered.S = st.S.Mul(cryptoutil.Curve.NewZrFromInt(2))

			require.ErrorIs(t, hiddenbit.Verify(&tampered, proof), hiddenbit.ErrInvalidProof)
		})

		t.Run("different client key", func(t *testing.T) {
			tampered := *st
			tampered.ClientKey = newFixture(t).pkC

			require.ErrorIs(t, hiddenbit.Verify(&tampered, proof), hiddenbit.ErrInvalidProof)
		})

		t.Run("different issuer key", func(t *testing.T) {
			tampered := *st
			tampered.IssuerKey = newFixture(t).pubKey

			require.ErrorIs(t, hiddenbit.Verify(&tampered, proof), hiddenbit.ErrInvalidProof)
		})

		t.Run("shifted challenge split", func(t *testing.T) {
			one := cryptoutil.Curve.NewZrFromInt(1)

			shifted := *proof
			shifted.C0 = cryptoutil.Add(proof.C0, one)
			shifted.C1 = cryptoutil.Sub(proof.C1, one)

			require.ErrorIs(t, hiddenbit.Verify(st, &shifted), hiddenbit.ErrInvalidProof)
		})
	}

	t.Run("witness for the other bit", func(t *testing.T) {
		st, w := f.statement(t, hiddenbit.Zero)
		w.Bit = hiddenbit.One

		proof, err := hiddenbit.Prove(st, w, rand.Reader)
		require.NoError(t, err)
		require.ErrorIs(t, hiddenbit.Verify(st, proof), hiddenbit.ErrInvalidProof)
	})

	t.Run("incomplete proof", func(t *testing.T) {
		st, _ := f.statement(t, hiddenbit.Zero)

		require.ErrorIs(t, hiddenbit.Verify(st, &hiddenbit.Proof{}), hiddenbit.ErrInvalidProof)
		require.ErrorIs(t, hiddenbit.Verify(st, nil), hiddenbit.ErrInvalidProof)
	})
}

func TestMalformedInput(t *testing.T) {
	f := newFixture(t)
	st, w := f.statement(t, hiddenbit.Zero)

	w.Bit = 2

	_, err := hiddenbit.Prove(st, w, rand.Reader)
	require.ErrorIs(t, err, hiddenbit.ErrInvalidBit)
	require.False(t, hiddenbit.Bit(2).Valid())

	w.Bit = hiddenbit.Zero

	_, err = hiddenbit.Prove(&hiddenbit.Statement{ClientKey: f.pkC}, w, rand.Reader)
	require.ErrorIs(t, err, hiddenbit.ErrIncompleteStatement)
	require.ErrorIs(t, hiddenbit.Verify(&hiddenbit.Statement{}, &hiddenbit.Proof{}), hiddenbit.ErrIncompleteStatement)
}

func TestProofBytes(t *testing.T) {
	f := newFixture(t)

	for _, bit := range []hiddenbit.Bit{hiddenbit.Zero, hiddenbit.One} {
		st, w := f.statement(t, bit)

		proof, err := hiddenbit.Prove(st, w, rand.Reader)
		require.NoError(t, err)

		proofBytes, err := proof.ToBytes()
		require.NoError(t, err)
		require.Len(t, proofBytes, hiddenbit.ProofLen)

		parsed, err := hiddenbit.ParseProof(proofBytes)
		require.NoError(t, err)
		require.NoError(t, hiddenbit.Verify(st, parsed))
	}

	_, err := hiddenbit.ParseProof([]byte("invalid"))
	require.EqualError(t, err, "invalid size of proof")

	_, err = (&hiddenbit.Proof{}).ToBytes()
	require.EqualError(t, err, "incomplete proof")
}
