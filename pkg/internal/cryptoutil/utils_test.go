/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cryptoutil

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}

	return len(p), nil
}

func TestRandomNonZeroZr(t *testing.T) {
	z, err := RandomNonZeroZr(rand.Reader)
	require.NoError(t, err)
	require.False(t, IsZero(z))

	t.Run("zero source", func(t *testing.T) {
		z, err = RandomNonZeroZr(zeroReader{})
		require.ErrorIs(t, err, ErrRandomness)
		require.Nil(t, z)
	})
}

func TestScalarArithmetic(t *testing.T) {
	a, err := RandomNonZeroZr(rand.Reader)
	require.NoError(t, err)

	b, err := RandomNonZeroZr(rand.Reader)
	require.NoError(t, err)

	one := Curve.NewZrFromInt(1)

	inv, err := Inverse(a)
	require.NoError(t, err)
	require.True(t, Mul(a, inv).Equals(one))

	require.True(t, IsZero(Add(a, Neg(a))))
	require.True(t, Sub(Add(a, b), b).Equals(a))

	// Inverse leaves its argument untouched.
	aCopy := a.Copy()
	_, err = Inverse(a)
	require.NoError(t, err)
	require.True(t, a.Equals(aCopy))

	_, err = Inverse(Curve.NewZrFromInt(0))
	require.ErrorIs(t, err, ErrZeroScalar)

	p := Curve.GenG1.Mul(a)
	sum := p.Copy()
	sum.Add(NegG1(p))
	require.True(t, sum.IsInfinity())
}

func TestHashToG1(t *testing.T) {
	p1 := HashToG1("dst-a", []byte("message"))
	p2 := HashToG1("dst-a", []byte("message"))
	p3 := HashToG1("dst-b", []byte("message"))
	p4 := HashToG1("dst-a", []byte("other"))

	require.True(t, p1.Equals(p2))
	require.False(t, p1.Equals(p3))
	require.False(t, p1.Equals(p4))

	// Moving bytes between the tag and the message changes the point.
	require.False(t, HashToG1("ab", []byte("c")).Equals(HashToG1("a", []byte("bc"))))

	// The tag is passed to the curve as its hash-to-curve DST.
	require.True(t, p1.Equals(Curve.HashToG1WithDomain([]byte("message"), []byte("dst-a"))))
	require.False(t, p1.Equals(Curve.HashToG1([]byte("message"))))
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint(Curve.GenG1.Bytes(), Curve.GenG2.Bytes())
	require.NotEmpty(t, fp)
	require.Equal(t, fp, Fingerprint(Curve.GenG1.Bytes(), Curve.GenG2.Bytes()))
	require.NotEqual(t, fp, Fingerprint(Curve.GenG2.Bytes(), Curve.GenG1.Bytes()))
}

func TestParse(t *testing.T) {
	z, err := RandomNonZeroZr(rand.Reader)
	require.NoError(t, err)

	p := Curve.GenG1.Mul(z)
	q := Curve.GenG2.Mul(z)

	p2, err := ParseG1(p.Compressed())
	require.NoError(t, err)
	require.True(t, p.Equals(p2))

	q2, err := ParseG2(q.Compressed())
	require.NoError(t, err)
	require.True(t, q.Equals(q2))

	z2, err := ParseZr(z.Bytes())
	require.NoError(t, err)
	require.True(t, z.Equals(z2))

	_, err = ParseG1([]byte("short"))
	require.EqualError(t, err, "invalid size of G1 element: 5")

	_, err = ParseG2(p.Compressed())
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid size of G2 element")

	_, err = ParseZr(nil)
	require.EqualError(t, err, "invalid size of scalar: 0")
}

func TestTranscript(t *testing.T) {
	tr1 := NewTranscript("domain")
	tr1.AppendG1("P", Curve.GenG1)
	tr1.AppendG2("Q", Curve.GenG2)

	tr2 := NewTranscript("domain")
	tr2.AppendG1("P", Curve.GenG1)
	tr2.AppendG2("Q", Curve.GenG2)

	require.True(t, bytes.Equal(tr1.Bytes(), tr2.Bytes()))
	require.True(t, tr1.Challenge().Equals(tr2.Challenge()))

	tr3 := NewTranscript("other-domain")
	tr3.AppendG1("P", Curve.GenG1)
	tr3.AppendG2("Q", Curve.GenG2)
	require.False(t, tr1.Challenge().Equals(tr3.Challenge()))

	tr4 := NewTranscript("domain")
	tr4.AppendG1("R", Curve.GenG1)
	tr4.AppendG2("Q", Curve.GenG2)
	require.False(t, tr1.Challenge().Equals(tr4.Challenge()))
}
