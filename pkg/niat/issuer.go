/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package niat

import (
	"sync"

	ml "github.com/IBM/mathlib"
	"github.com/google/tink/go/subtle/random"
	"github.com/pkg/errors"

	"github.com/aayux/niat/internal/logutil"
	"github.com/aayux/niat/pkg/crypto/primitive/eqs"
	"github.com/aayux/niat/pkg/crypto/primitive/hiddenbit"
	"github.com/aayux/niat/pkg/internal/cryptoutil"
)

// Issuer issues presignatures and redeems tokens. It is safe for concurrent use.
type Issuer struct {
	mu       sync.RWMutex
	pubKey   *eqs.PublicKey
	privKey  *eqs.PrivateKey
	verifier *IssuerVerifier
	opts     *options
}

// NewIssuer creates an issuer with a fresh key pair.
func NewIssuer(opts ...Opt) (*Issuer, error) {
	o := newOptions(opts)

	pubKey, privKey, err := eqs.GenerateKeyPair(o.rng)
	if err != nil {
		return nil, errors.Wrap(err, "new issuer")
	}

	return newIssuer(pubKey, privKey, o)
}

// NewIssuerWithKeys creates an issuer from an existing key pair.
func NewIssuerWithKeys(pubKey *eqs.PublicKey, privKey *eqs.PrivateKey, opts ...Opt) (*Issuer, error) {
	if !validPublicKey(pubKey) || privKey == nil || privKey.Identity == nil || privKey.Nonce == nil ||
		privKey.Payload == nil {
		return nil, errors.Wrap(ErrMalformedInput, "incomplete issuer keys")
	}

	if !privKey.PublicKey().Equals(pubKey) {
		return nil, errors.Wrap(ErrMalformedInput, "issuer public key does not match the private key")
	}

	return newIssuer(pubKey, privKey, newOptions(opts))
}

func newIssuer(pubKey *eqs.PublicKey, privKey *eqs.PrivateKey, o *options) (*Issuer, error) {
	v, err := newIssuerVerifier(pubKey, o)
	if err != nil {
		return nil, err
	}

	logutil.LogInfo(logger, roleIssuer, "init", "issuer ready", logutil.KV("key", pubKey.Fingerprint()))

	return &Issuer{pubKey: pubKey, privKey: privKey, verifier: v, opts: o}, nil
}

// PublicKey returns the current issuer public key.
func (is *Issuer) PublicKey() *eqs.PublicKey {
	is.mu.RLock()
	defer is.mu.RUnlock()

	return is.pubKey
}

// Issue embeds bit b into a presignature for the client key pkC.
func (is *Issuer) Issue(pkC *ml.G1, b Bit) (*Presignature, error) {
	if pkC == nil || pkC.IsInfinity() {
		return nil, errors.Wrap(ErrMalformedInput, "invalid client public key")
	}

	if !b.Valid() {
		return nil, errors.Wrapf(ErrMalformedInput, "%v: %d", hiddenbit.ErrInvalidBit, b)
	}

	is.mu.RLock()
	pubKey, privKey := is.pubKey, is.privKey
	is.mu.RUnlock()

	r := random.GetRandomBytes(randomizerSize)

	s, err := cryptoutil.RandomNonZeroZr(is.opts.rng)
	if err != nil {
		return nil, errors.Wrap(err, "issue")
	}

	bigS := cryptoutil.Curve.GenG1.Mul(s)

	t := bigS.Mul(privKey.Nonce)
	if b == BitOne {
		t.Add(pkC.Mul(privKey.Identity))
	}

	m := &eqs.Message{Identity: pkC, Nonce: hashRandomizer(r), Payload: t}

	sig, err := eqs.Sign(m, privKey, is.opts.rng)
	if err != nil {
		return nil, errors.Wrap(err, "issue")
	}

	proof, err := hiddenbit.Prove(
		&hiddenbit.Statement{ClientKey: pkC, IssuerKey: pubKey, S: bigS, T: t},
		&hiddenbit.Witness{S: s, Key: privKey, Bit: b},
		is.opts.rng,
	)
	if err != nil {
		return nil, errors.Wrap(err, "issue")
	}

	logutil.LogDebug(logger, roleIssuer, "issue", "presignature issued", logutil.KV("key", pubKey.Fingerprint()))

	return &Presignature{Signature: sig, S: bigS, T: t, Proof: proof, Randomizer: r}, nil
}

// ReadBit redeems a token and returns the bit it carries. A token that does not verify or carries no admissible bit
// gives ResultInvalid with a nil error; the error is reserved for malformed input. Pass eqVerified when the token
// signature was already checked, for instance by VerifyTokens.
func (is *Issuer) ReadBit(tok *Token, eqVerified bool) (ReadResult, error) {
	if !tok.complete() {
		return ResultInvalid, errors.Wrap(ErrMalformedInput, "incomplete token")
	}

	is.mu.RLock()
	privKey, v := is.privKey, is.verifier
	is.mu.RUnlock()

	if !eqVerified {
		if err := v.Verify(tok); err != nil {
			logutil.LogDebug(logger, roleIssuer, "readbit", "token rejected", logutil.KV("error", err))

			return ResultInvalid, nil
		}
	}

	// PayloadTag - x1*BlindTag is x0*P for bit 1 and the identity for bit 0.
	lhs := tok.PayloadTag.Copy()
	lhs.Sub(tok.BlindTag.Mul(privKey.Nonce))

	switch {
	case lhs.Equals(cryptoutil.Curve.GenG1.Mul(privKey.Identity)):
		return ResultOne, nil
	case lhs.IsInfinity():
		return ResultZero, nil
	default:
		logutil.LogWarn(logger, roleIssuer, "readbit", "verified token carries no admissible bit")

		return ResultInvalid, nil
	}
}

// VerifyTokens checks the signatures of a batch of tokens.
func (is *Issuer) VerifyTokens(toks []*Token) error {
	is.mu.RLock()
	v := is.verifier
	is.mu.RUnlock()

	return v.VerifyBatch(toks)
}

// Rotate replaces the issuer key pair. Tokens and presignatures of the previous key no longer verify, and the
// cached pairing constants of the previous key are dropped.
func (is *Issuer) Rotate() error {
	pubKey, privKey, err := eqs.GenerateKeyPair(is.opts.rng)
	if err != nil {
		return errors.Wrap(err, "rotate issuer key")
	}

	v, err := newIssuerVerifier(pubKey, is.opts)
	if err != nil {
		return err
	}

	is.mu.Lock()
	old := is.verifier
	is.pubKey, is.privKey, is.verifier = pubKey, privKey, v
	is.mu.Unlock()

	old.Invalidate()

	logutil.LogInfo(logger, roleIssuer, "rotate", "issuer key rotated", logutil.KV("key", pubKey.Fingerprint()))

	return nil
}
