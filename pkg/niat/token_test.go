/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package niat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aayux/niat/pkg/niat"
)

func TestPresignatureBytes(t *testing.T) {
	issuer, client := newRoles(t)

	p, err := issuer.Issue(client.PublicKey(), niat.BitOne)
	require.NoError(t, err)

	pBytes, err := p.ToBytes()
	require.NoError(t, err)

	parsed, err := niat.ParsePresignature(pBytes)
	require.NoError(t, err)
	require.Equal(t, p.Randomizer, parsed.Randomizer)
	require.True(t, p.S.Equals(parsed.S))
	require.True(t, p.T.Equals(parsed.T))

	tok, err := client.Obtain(parsed, false)
	require.NoError(t, err)

	res, err := issuer.ReadBit(tok, false)
	require.NoError(t, err)
	require.Equal(t, niat.ResultOne, res)

	t.Run("truncated", func(t *testing.T) {
		_, err := niat.ParsePresignature(pBytes[:len(pBytes)-1])
		require.ErrorIs(t, err, niat.ErrMalformedInput)

		_, err = niat.ParsePresignature(pBytes[:10])
		require.ErrorIs(t, err, niat.ErrMalformedInput)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := niat.ParsePresignature(append(append([]byte(nil), pBytes...), 0))
		require.ErrorIs(t, err, niat.ErrMalformedInput)
	})

	t.Run("incomplete", func(t *testing.T) {
		_, err := (&niat.Presignature{}).ToBytes()
		require.ErrorIs(t, err, niat.ErrMalformedInput)
	})
}

func TestTokenBytes(t *testing.T) {
	issuer, client := newRoles(t)

	for _, b := range []niat.Bit{niat.BitZero, niat.BitOne} {
		tok := obtainToken(t, issuer, client, b)

		tokBytes, err := tok.ToBytes()
		require.NoError(t, err)
		require.Len(t, tokBytes, niat.TokenLen)

		parsed, err := niat.ParseToken(tokBytes)
		require.NoError(t, err)
		require.True(t, tok.NonceTag.Equals(parsed.NonceTag))
		require.True(t, tok.PayloadTag.Equals(parsed.PayloadTag))
		require.True(t, tok.BlindTag.Equals(parsed.BlindTag))

		res, err := issuer.ReadBit(parsed, false)
		require.NoError(t, err)
		require.Equal(t, expectedResult(b), res)
	}

	_, err := niat.ParseToken([]byte("invalid"))
	require.ErrorIs(t, err, niat.ErrMalformedInput)

	_, err = (&niat.Token{}).ToBytes()
	require.ErrorIs(t, err, niat.ErrMalformedInput)
}
