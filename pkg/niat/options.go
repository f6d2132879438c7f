/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package niat

import (
	"crypto/rand"
	"io"
	"runtime"
)

const defaultCacheSize = 64

type options struct {
	rng        io.Reader
	workers    int
	unweighted bool
	cache      *PairingCache
	cacheSize  int
}

// Opt configures issuers, clients and verifiers.
type Opt func(opts *options)

// WithRandomSource sets the source of every random scalar. It must be safe for concurrent use when shared between
// role contexts. Defaults to crypto/rand.
func WithRandomSource(rng io.Reader) Opt {
	return func(opts *options) {
		opts.rng = rng
	}
}

// WithWorkers bounds the goroutines a batch verification runs. Defaults to the number of CPUs.
func WithWorkers(n int) Opt {
	return func(opts *options) {
		opts.workers = n
	}
}

// WithUnweightedBatch makes batch verification sum the batch items as they are instead of weighting each one with
// a random scalar. It is faster and reuses the cached e(fixed, pk0)^n constants, but a batch may pass with a set of
// invalid signatures whose errors cancel out.
func WithUnweightedBatch() Opt {
	return func(opts *options) {
		opts.unweighted = true
	}
}

// WithPairingCache shares a pairing constant cache between verifier contexts.
func WithPairingCache(cache *PairingCache) Opt {
	return func(opts *options) {
		opts.cache = cache
	}
}

// WithCacheSize sets the capacity of the pairing constant cache created when none is shared.
func WithCacheSize(size int) Opt {
	return func(opts *options) {
		opts.cacheSize = size
	}
}

func newOptions(opts []Opt) *options {
	o := &options{
		rng:       rand.Reader,
		workers:   runtime.NumCPU(),
		cacheSize: defaultCacheSize,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.workers < 1 {
		o.workers = 1
	}

	if o.cache == nil {
		o.cache = NewPairingCache(o.cacheSize)
	}

	return o
}
