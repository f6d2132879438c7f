/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package niat

import (
	"sync"

	ml "github.com/IBM/mathlib"
	"github.com/pkg/errors"

	"github.com/aayux/niat/internal/logutil"
	"github.com/aayux/niat/pkg/crypto/primitive/eqs"
	"github.com/aayux/niat/pkg/crypto/primitive/hiddenbit"
	"github.com/aayux/niat/pkg/internal/cryptoutil"
)

// Client turns presignatures into unlinkable tokens. It is safe for concurrent use.
type Client struct {
	mu        sync.RWMutex
	keys      *ClientKeyPair
	issuerKey *eqs.PublicKey
	verifier  *ClientVerifier
	opts      *options
}

// NewClient creates a client with a fresh key pair, bound to issuerKey.
func NewClient(issuerKey *eqs.PublicKey, opts ...Opt) (*Client, error) {
	o := newOptions(opts)

	kp, err := GenerateClientKeyPair(o.rng)
	if err != nil {
		return nil, errors.Wrap(err, "new client")
	}

	return newClient(kp, issuerKey, o)
}

// NewClientWithKeys creates a client from an existing key pair, bound to issuerKey.
func NewClientWithKeys(kp *ClientKeyPair, issuerKey *eqs.PublicKey, opts ...Opt) (*Client, error) {
	if !kp.valid() {
		return nil, errors.Wrap(ErrMalformedInput, "invalid client key pair")
	}

	if !cryptoutil.Curve.GenG1.Mul(kp.Secret).Equals(kp.Public) {
		return nil, errors.Wrap(ErrMalformedInput, "client public key does not match the secret")
	}

	return newClient(kp, issuerKey, newOptions(opts))
}

func newClient(kp *ClientKeyPair, issuerKey *eqs.PublicKey, o *options) (*Client, error) {
	v, err := newClientVerifier(kp.Public, issuerKey, o)
	if err != nil {
		return nil, err
	}

	return &Client{keys: kp, issuerKey: issuerKey, verifier: v, opts: o}, nil
}

// PublicKey returns the client public key sent to the issuer.
func (c *Client) PublicKey() *ml.G1 {
	return c.keys.Public
}

// SetIssuerKey binds the client to a new issuer key and drops the pairing constants of the previous one.
func (c *Client) SetIssuerKey(issuerKey *eqs.PublicKey) error {
	v, err := newClientVerifier(c.keys.Public, issuerKey, c.opts)
	if err != nil {
		return err
	}

	c.mu.Lock()
	old := c.verifier
	c.issuerKey, c.verifier = issuerKey, v
	c.mu.Unlock()

	old.Invalidate()

	logutil.LogInfo(logger, roleClient, "rebind", "issuer key changed", logutil.KV("key", issuerKey.Fingerprint()))

	return nil
}

// Obtain checks a presignature and blinds it into a token. Pass eqVerified when the presignature signature was
// already checked, for instance by VerifyPresignatures; the hidden bit proof is always checked.
func (c *Client) Obtain(p *Presignature, eqVerified bool) (*Token, error) {
	if !p.complete() {
		return nil, errors.Wrap(ErrMalformedInput, "incomplete presignature")
	}

	c.mu.RLock()
	issuerKey, v := c.issuerKey, c.verifier
	c.mu.RUnlock()

	if !eqVerified {
		if err := v.Verify(p); err != nil {
			logutil.LogDebug(logger, roleClient, "obtain", "presignature rejected", logutil.KV("error", err))

			return nil, errors.Wrap(err, "obtain")
		}
	}

	st := &hiddenbit.Statement{ClientKey: c.keys.Public, IssuerKey: issuerKey, S: p.S, T: p.T}
	if err := hiddenbit.Verify(st, p.Proof); err != nil {
		logutil.LogDebug(logger, roleClient, "obtain", "hidden bit proof rejected", logutil.KV("error", err))

		return nil, verificationFailed("obtain", err)
	}

	alpha, err := cryptoutil.Inverse(c.keys.Secret)
	if err != nil {
		return nil, errors.Wrap(err, "obtain")
	}

	sig, err := p.Signature.ChangeRepresentation(alpha, c.opts.rng)
	if err != nil {
		return nil, errors.Wrap(err, "obtain")
	}

	return &Token{
		NonceTag:   hashRandomizer(p.Randomizer).Mul(alpha),
		PayloadTag: p.T.Mul(alpha),
		BlindTag:   p.S.Mul(alpha),
		Signature:  sig,
	}, nil
}

// VerifyPresignatures checks the signatures of a batch of presignatures.
func (c *Client) VerifyPresignatures(ps []*Presignature) error {
	c.mu.RLock()
	v := c.verifier
	c.mu.RUnlock()

	return v.VerifyBatch(ps)
}
