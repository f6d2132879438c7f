/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package niat

import (
	ml "github.com/IBM/mathlib"
	"github.com/bluele/gcache"
	"github.com/pkg/errors"
)

// PairingCache holds the target group constants e(fixed, pk0)^n of verifier contexts. Entries are keyed by the
// fingerprint of (fixed, pk0) and n, so contexts for different keys can share one cache. It is safe for
// concurrent use.
type PairingCache struct {
	cache gcache.Cache
}

type pairingKey struct {
	keyID string
	n     int
}

// NewPairingCache creates an LRU cache holding up to size constants.
func NewPairingCache(size int) *PairingCache {
	if size < 1 {
		size = defaultCacheSize
	}

	return &PairingCache{cache: gcache.New(size).LRU().Build()}
}

// get returns the constant for (keyID, n), computing and storing it on a miss.
func (c *PairingCache) get(keyID string, n int, compute func() *ml.Gt) (*ml.Gt, error) {
	key := pairingKey{keyID: keyID, n: n}

	v, err := c.cache.Get(key)
	if err == nil {
		gt, ok := v.(*ml.Gt)
		if !ok {
			return nil, errors.Errorf("unexpected pairing cache entry %T", v)
		}

		return gt, nil
	}

	if !errors.Is(err, gcache.KeyNotFoundError) {
		return nil, errors.Wrap(err, "pairing cache lookup")
	}

	gt := compute()

	if err := c.cache.Set(key, gt); err != nil {
		return nil, errors.Wrap(err, "pairing cache store")
	}

	return gt, nil
}

// invalidate drops every constant of keyID and returns how many were dropped.
func (c *PairingCache) invalidate(keyID string) int {
	removed := 0

	for _, k := range c.cache.Keys(false) {
		if pk, ok := k.(pairingKey); ok && pk.keyID == keyID && c.cache.Remove(k) {
			removed++
		}
	}

	return removed
}

// Len returns the number of cached constants.
func (c *PairingCache) Len() int {
	return c.cache.Len(false)
}
