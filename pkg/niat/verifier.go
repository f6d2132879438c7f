/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package niat

import (
	"context"
	"sync"

	ml "github.com/IBM/mathlib"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"github.com/aayux/niat/internal/logutil"
	"github.com/aayux/niat/pkg/crypto/primitive/eqs"
	"github.com/aayux/niat/pkg/internal/cryptoutil"
)

// ClientVerifier verifies presignatures addressed to one client key under one issuer key.
type ClientVerifier struct {
	v *verifier
}

// NewClientVerifier creates a verifier context for presignatures issued to pkC under issuerKey.
func NewClientVerifier(pkC *ml.G1, issuerKey *eqs.PublicKey, opts ...Opt) (*ClientVerifier, error) {
	return newClientVerifier(pkC, issuerKey, newOptions(opts))
}

func newClientVerifier(pkC *ml.G1, issuerKey *eqs.PublicKey, o *options) (*ClientVerifier, error) {
	if pkC == nil || !validPublicKey(issuerKey) {
		return nil, errors.Wrap(ErrMalformedInput, "client verifier keys")
	}

	return &ClientVerifier{v: newVerifier(pkC, issuerKey, o)}, nil
}

// Verify checks the signature of a single presignature.
func (cv *ClientVerifier) Verify(p *Presignature) error {
	if !p.complete() {
		return errors.Wrap(ErrMalformedInput, "incomplete presignature")
	}

	return cv.v.verify(p.message(cv.v.fixed), p.Signature)
}

// VerifyBatch checks the signatures of all presignatures at once. It does not tell which one failed.
func (cv *ClientVerifier) VerifyBatch(ps []*Presignature) error {
	for i, p := range ps {
		if !p.complete() {
			return errors.Wrapf(ErrMalformedInput, "incomplete presignature at %d", i)
		}
	}

	return cv.v.verifyBatch(len(ps), func(i int) *batchItem {
		return &batchItem{nonce: hashRandomizer(ps[i].Randomizer), payload: ps[i].T, sig: ps[i].Signature}
	})
}

// Invalidate drops the cached pairing constants of this context.
func (cv *ClientVerifier) Invalidate() {
	cv.v.invalidate()
}

// IssuerVerifier verifies tokens against the issuer key.
type IssuerVerifier struct {
	v *verifier
}

// NewIssuerVerifier creates a verifier context for tokens signed under pubKey.
func NewIssuerVerifier(pubKey *eqs.PublicKey, opts ...Opt) (*IssuerVerifier, error) {
	return newIssuerVerifier(pubKey, newOptions(opts))
}

func newIssuerVerifier(pubKey *eqs.PublicKey, o *options) (*IssuerVerifier, error) {
	if !validPublicKey(pubKey) {
		return nil, errors.Wrap(ErrMalformedInput, "issuer verifier key")
	}

	return &IssuerVerifier{v: newVerifier(cryptoutil.Curve.GenG1, pubKey, o)}, nil
}

// Verify checks the signature of a single token.
func (iv *IssuerVerifier) Verify(t *Token) error {
	if !t.complete() {
		return errors.Wrap(ErrMalformedInput, "incomplete token")
	}

	return iv.v.verify(t.message(), t.Signature)
}

// VerifyBatch checks the signatures of all tokens at once. It does not tell which one failed.
func (iv *IssuerVerifier) VerifyBatch(toks []*Token) error {
	for i, t := range toks {
		if !t.complete() {
			return errors.Wrapf(ErrMalformedInput, "incomplete token at %d", i)
		}
	}

	return iv.v.verifyBatch(len(toks), func(i int) *batchItem {
		return &batchItem{nonce: toks[i].NonceTag, payload: toks[i].PayloadTag, sig: toks[i].Signature}
	})
}

// Invalidate drops the cached pairing constants of this context.
func (iv *IssuerVerifier) Invalidate() {
	iv.v.invalidate()
}

// verifier checks signatures on messages whose identity coordinate is always fixed.
type verifier struct {
	pubKey *eqs.PublicKey
	fixed  *ml.G1
	keyID  string
	opts   *options
}

// batchItem holds the varying message coordinates and the signature of one batch entry.
type batchItem struct {
	nonce   *ml.G1
	payload *ml.G1
	sig     *eqs.Signature
}

// weightedItem is a batch entry with every value but sigY2 multiplied by its weight. sigY2 is the unweighted
// signature Y2 the weighted Z is paired with.
type weightedItem struct {
	z       *ml.G1
	y1      *ml.G1
	y2      *ml.G2
	sigY2   *ml.G2
	nonce   *ml.G1
	payload *ml.G1
}

func newVerifier(fixed *ml.G1, pubKey *eqs.PublicKey, o *options) *verifier {
	return &verifier{
		pubKey: pubKey,
		fixed:  fixed,
		keyID:  cryptoutil.Fingerprint(fixed.Bytes(), pubKey.Identity.Bytes()),
		opts:   o,
	}
}

// fixedPairing returns e(n*fixed, pk0) = e(fixed, pk0)^n.
func (v *verifier) fixedPairing(n int) (*ml.Gt, error) {
	return v.opts.cache.get(v.keyID, n, func() *ml.Gt {
		return v.pubKey.IdentityPairing(v.fixed.Mul(cryptoutil.Curve.NewZrFromInt(int64(n))))
	})
}

func (v *verifier) invalidate() {
	n := v.opts.cache.invalidate(v.keyID)

	logutil.LogDebug(logger, roleVerifier, "invalidate", "pairing constants dropped",
		logutil.KV("key", v.keyID), logutil.KV("count", n))
}

func (v *verifier) verify(m *eqs.Message, sig *eqs.Signature) error {
	eID, err := v.fixedPairing(1)
	if err != nil {
		return err
	}

	if err := sig.VerifyWithIdentityPairing(m, v.pubKey, eID); err != nil {
		return verificationFailed("equivalence class signature", err)
	}

	return nil
}

// verifyBatch checks n signatures with two aggregated equations:
//
//	e(sum d_i*Y1_i, Q) = e(P, sum d_i*Y2_i)
//	prod e(d_i*Z_i, Y2_i) = e(sum d_i*m1_i, pk1) * e(sum d_i*m2_i, pk2) * e((sum d_i)*fixed, pk0)
//
// with random non-zero weights d_i, or d_i = 1 in unweighted mode.
func (v *verifier) verifyBatch(n int, load func(i int) *batchItem) error {
	if n == 0 {
		return errors.Wrap(ErrMalformedInput, "empty batch")
	}

	weights, weightSum, err := v.weights(n)
	if err != nil {
		return err
	}

	items := make([]*weightedItem, n)

	err = v.parallel(n, func(i int) {
		items[i] = weigh(load(i), weights[i])
	})
	if err != nil {
		return err
	}

	for i, it := range items {
		if it.y1.IsInfinity() {
			return errors.Wrapf(ErrVerificationFailed, "batch item %d has a degenerate signature", i)
		}
	}

	sumY1, sumY2 := items[0].y1.Copy(), items[0].y2.Copy()
	sumNonce, sumPayload := items[0].nonce.Copy(), items[0].payload.Copy()

	for _, it := range items[1:] {
		sumY1.Add(it.y1)
		sumY2.Add(it.y2)
		sumNonce.Add(it.nonce)
		sumPayload.Add(it.payload)
	}

	// e(sum Y1, Q) * e(-P, sum Y2) = 1
	check := cryptoutil.Curve.FExp(cryptoutil.Curve.Pairing2(
		cryptoutil.Curve.GenG2, sumY1, sumY2, cryptoutil.NegG1(cryptoutil.Curve.GenG1)))
	if !check.IsUnity() {
		logutil.LogDebug(logger, roleVerifier, "batch", "Y1/Y2 consistency check failed", logutil.KV("size", n))

		return errors.Wrap(ErrVerificationFailed, "batch Y1/Y2 consistency")
	}

	millers := make([]*ml.Gt, n)

	err = v.parallel(n, func(i int) {
		millers[i] = cryptoutil.Curve.Pairing(items[i].sigY2, items[i].z)
	})
	if err != nil {
		return err
	}

	lhs := millers[0]
	for _, m := range millers[1:] {
		lhs.Mul(m)
	}

	lhs = cryptoutil.Curve.FExp(lhs)

	fixedTerm, err := v.fixedTerm(n, weightSum)
	if err != nil {
		return err
	}

	rhs := cryptoutil.Curve.FExp(cryptoutil.Curve.Pairing2(v.pubKey.Nonce, sumNonce, v.pubKey.Payload, sumPayload))
	rhs.Mul(fixedTerm)

	if !lhs.Equals(rhs) {
		logutil.LogDebug(logger, roleVerifier, "batch", "aggregated signature check failed", logutil.KV("size", n))

		return errors.Wrap(ErrVerificationFailed, "batch signature check")
	}

	logutil.LogDebug(logger, roleVerifier, "batch", "verified", logutil.KV("size", n),
		logutil.KV("weighted", !v.opts.unweighted))

	return nil
}

// weights draws one weight per item. They come from a single goroutine since the random source need not be safe
// for concurrent use. Unweighted mode returns nil weights.
func (v *verifier) weights(n int) ([]*ml.Zr, *ml.Zr, error) {
	weights := make([]*ml.Zr, n)

	if v.opts.unweighted {
		return weights, nil, nil
	}

	sum := cryptoutil.Curve.NewZrFromInt(0)

	for i := range weights {
		d, err := cryptoutil.RandomNonZeroZr(v.opts.rng)
		if err != nil {
			return nil, nil, errors.Wrap(err, "batch weights")
		}

		weights[i] = d
		sum = cryptoutil.Add(sum, d)
	}

	return weights, sum, nil
}

func (v *verifier) fixedTerm(n int, weightSum *ml.Zr) (*ml.Gt, error) {
	if weightSum == nil {
		return v.fixedPairing(n)
	}

	return v.pubKey.IdentityPairing(v.fixed.Mul(weightSum)), nil
}

// parallel runs fn for every index on at most opts.workers goroutines.
func (v *verifier) parallel(n int, fn func(i int)) error {
	sem := semaphore.NewWeighted(int64(v.opts.workers))
	ctx := context.Background()

	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()

			return errors.Wrap(err, "acquire batch worker")
		}

		wg.Add(1)

		go func(i int) {
			defer func() {
				sem.Release(1)
				wg.Done()
			}()

			fn(i)
		}(i)
	}

	wg.Wait()

	return nil
}

func weigh(it *batchItem, d *ml.Zr) *weightedItem {
	if d == nil {
		return &weightedItem{
			z:       it.sig.Z,
			y1:      it.sig.Y1,
			y2:      it.sig.Y2,
			sigY2:   it.sig.Y2,
			nonce:   it.nonce,
			payload: it.payload,
		}
	}

	return &weightedItem{
		z:       it.sig.Z.Mul(d),
		y1:      it.sig.Y1.Mul(d),
		y2:      it.sig.Y2.Mul(d),
		sigY2:   it.sig.Y2,
		nonce:   it.nonce.Mul(d),
		payload: it.payload.Mul(d),
	}
}

func validPublicKey(pk *eqs.PublicKey) bool {
	return pk != nil && pk.Identity != nil && pk.Nonce != nil && pk.Payload != nil
}
