/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package eqs_test

import (
	"crypto/rand"
	"testing"

	ml "github.com/IBM/mathlib"
	"github.com/stretchr/testify/require"

	"github.com/aayux/niat/pkg/crypto/primitive/eqs"
	"github.com/aayux/niat/pkg/internal/cryptoutil"
)

func randomG1(t *testing.T) *ml.G1 {
	t.Helper()

	z, err := cryptoutil.RandomNonZeroZr(rand.Reader)
	require.NoError(t, err)

	return cryptoutil.Curve.GenG1.Mul(z)
}

func randomMessage(t *testing.T) *eqs.Message {
	t.Helper()

	return &eqs.Message{Identity: randomG1(t), Nonce: randomG1(t), Payload: randomG1(t)}
}

func randomScalar(t *testing.T) *ml.Zr {
	t.Helper()

	z, err := cryptoutil.RandomNonZeroZr(rand.Reader)
	require.NoError(t, err)

	return z
}

func TestSignVerify(t *testing.T) {
	pubKey, privKey, err := eqs.GenerateKeyPair(rand.Reader)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		m := randomMessage(t)

		sig, err := eqs.Sign(m, privKey, rand.Reader)
		require.NoError(t, err)
		require.NoError(t, sig.Verify(m, pubKey))
	}

	t.Run("wrong message", func(t *testing.T) {
		m := randomMessage(t)

		sig, err := eqs.Sign(m, privKey, rand.Reader)
		require.NoError(t, err)

		swapped := &eqs.Message{Identity: m.Nonce, Nonce: m.Identity, Payload: m.Payload}
		require.ErrorIs(t, sig.Verify(swapped, pubKey), eqs.ErrInvalidSignature)

		other := &eqs.Message{Identity: m.Identity, Nonce: m.Nonce, Payload: randomG1(t)}
		require.ErrorIs(t, sig.Verify(other, pubKey), eqs.ErrInvalidSignature)
	})

	t.Run("wrong key", func(t *testing.T) {
		otherPub, _, err := eqs.GenerateKeyPair(rand.Reader)
		require.NoError(t, err)

		m := randomMessage(t)

		sig, err := eqs.Sign(m, privKey, rand.Reader)
		require.NoError(t, err)
		require.ErrorIs(t, sig.Verify(m, otherPub), eqs.ErrInvalidSignature)
	})

	t.Run("inconsistent Y1 and Y2", func(t *testing.T) {
		m := randomMessage(t)

		sig, err := eqs.Sign(m, privKey, rand.Reader)
		require.NoError(t, err)

		sig.Y1 = randomG1(t)
		require.ErrorIs(t, sig.Verify(m, pubKey), eqs.ErrInvalidSignature)
	})

	t.Run("incomplete input", func(t *testing.T) {
		m := randomMessage(t)

		sig, err := eqs.Sign(m, privKey, rand.Reader)
		require.NoError(t, err)

		require.ErrorIs(t, sig.Verify(&eqs.Message{Identity: m.Identity}, pubKey), eqs.ErrInvalidSignature)
		require.ErrorIs(t, (&eqs.Signature{Z: sig.Z}).Verify(m, pubKey), eqs.ErrInvalidSignature)

		_, err = eqs.Sign(&eqs.Message{}, privKey, rand.Reader)
		require.EqualError(t, err, "sign: incomplete message")
	})
}

func TestVerifyWithIdentityPairing(t *testing.T) {
	pubKey, privKey, err := eqs.GenerateKeyPair(rand.Reader)
	require.NoError(t, err)

	identity := randomG1(t)
	eID := pubKey.IdentityPairing(identity)

	for i := 0; i < 3; i++ {
		m := &eqs.Message{Identity: identity, Nonce: randomG1(t), Payload: randomG1(t)}

		sig, err := eqs.Sign(m, privKey, rand.Reader)
		require.NoError(t, err)
		require.NoError(t, sig.VerifyWithIdentityPairing(m, pubKey, eID))

		// A constant for another identity must not validate the signature.
		require.ErrorIs(t, sig.VerifyWithIdentityPairing(m, pubKey, pubKey.IdentityPairing(randomG1(t))),
			eqs.ErrInvalidSignature)
	}
}

func TestChangeRepresentation(t *testing.T) {
	pubKey, privKey, err := eqs.GenerateKeyPair(rand.Reader)
	require.NoError(t, err)

	m := randomMessage(t)

	sig, err := eqs.Sign(m, privKey, rand.Reader)
	require.NoError(t, err)

	mu := randomScalar(t)

	sig2, err := sig.ChangeRepresentation(mu, rand.Reader)
	require.NoError(t, err)

	require.NoError(t, sig2.Verify(m.Scale(mu), pubKey))
	require.ErrorIs(t, sig2.Verify(m, pubKey), eqs.ErrInvalidSignature)

	// Every component is re-randomized.
	require.False(t, sig.Z.Equals(sig2.Z))
	require.False(t, sig.Y1.Equals(sig2.Y1))
	require.False(t, sig.Y2.Equals(sig2.Y2))

	t.Run("identity scaling keeps the class representative", func(t *testing.T) {
		sig3, err := sig.ChangeRepresentation(cryptoutil.Curve.NewZrFromInt(1), rand.Reader)
		require.NoError(t, err)
		require.NoError(t, sig3.Verify(m, pubKey))
	})

	t.Run("zero mu", func(t *testing.T) {
		_, err := sig.ChangeRepresentation(cryptoutil.Curve.NewZrFromInt(0), rand.Reader)
		require.ErrorIs(t, err, cryptoutil.ErrZeroScalar)
	})
}

func TestSignatureBytes(t *testing.T) {
	_, privKey, err := eqs.GenerateKeyPair(rand.Reader)
	require.NoError(t, err)

	sig, err := eqs.Sign(randomMessage(t), privKey, rand.Reader)
	require.NoError(t, err)

	sigBytes, err := sig.ToBytes()
	require.NoError(t, err)
	require.Len(t, sigBytes, eqs.SignatureLen)

	parsed, err := eqs.ParseSignature(sigBytes)
	require.NoError(t, err)
	require.True(t, sig.Z.Equals(parsed.Z))
	require.True(t, sig.Y1.Equals(parsed.Y1))
	require.True(t, sig.Y2.Equals(parsed.Y2))

	_, err = eqs.ParseSignature([]byte("invalid"))
	require.EqualError(t, err, "invalid size of signature")

	_, err = (&eqs.Signature{}).ToBytes()
	require.EqualError(t, err, "incomplete signature")
}

func TestKeysMarshal(t *testing.T) {
	pubKey, privKey, err := eqs.GenerateKeyPair(rand.Reader)
	require.NoError(t, err)
	require.True(t, pubKey.Equals(privKey.PublicKey()))

	pubKeyBytes, err := pubKey.Marshal()
	require.NoError(t, err)

	pubKey2, err := eqs.UnmarshalPublicKey(pubKeyBytes)
	require.NoError(t, err)
	require.True(t, pubKey.Equals(pubKey2))
	require.Equal(t, pubKey.Fingerprint(), pubKey2.Fingerprint())

	privKeyBytes, err := privKey.Marshal()
	require.NoError(t, err)

	privKey2, err := eqs.UnmarshalPrivateKey(privKeyBytes)
	require.NoError(t, err)
	require.True(t, pubKey.Equals(privKey2.PublicKey()))

	t.Run("invalid sizes", func(t *testing.T) {
		_, err := eqs.UnmarshalPublicKey([]byte("invalid"))
		require.EqualError(t, err, "invalid size of public key")

		_, err = eqs.UnmarshalPrivateKey([]byte("invalid"))
		require.EqualError(t, err, "invalid size of private key")
	})

	t.Run("zero scalar", func(t *testing.T) {
		_, err := eqs.UnmarshalPrivateKey(make([]byte, len(privKeyBytes)))
		require.ErrorIs(t, err, cryptoutil.ErrZeroScalar)
	})

	t.Run("fingerprint tracks the key", func(t *testing.T) {
		otherPub, _, err := eqs.GenerateKeyPair(rand.Reader)
		require.NoError(t, err)
		require.NotEqual(t, pubKey.Fingerprint(), otherPub.Fingerprint())
	})
}
