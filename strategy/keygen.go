// Copyright 2021 The stratx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package strategy

import (
	"github.com/google/uuid"
)

// A KeyGen generates idempotency keys for the strategies that need a
// fresh one (Retry and ExponentialBackoff).
//
// Implementations of KeyGen must be safe for concurrent use by
// multiple goroutines without coordination; every NewKey call is
// independent and produces an unrelated result.
type KeyGen interface {
	// NewKey returns a fresh, globally unique idempotency key and
	// true; or "" and false if this generator does not produce keys.
	//
	// Whether a generator produces keys is a fixed capability, never
	// a per-call condition, so callers may use the boolean to query
	// up front whether retried requests will carry a key.
	NewKey() (key string, ok bool)
}

// UUIDKeys generates random (version 4) UUIDs rendered in canonical
// string form. Keys are drawn from the system entropy source via
// the google/uuid package.
var UUIDKeys KeyGen = uuidKeys{}

// NoKeys never produces a key. It is a reduced-functionality mode for
// deployments that must not draw on a secure random source: strategies
// that would generate a key derive none at all, so the remote service
// cannot deduplicate retried attempts.
var NoKeys KeyGen = noKeys{}

// DefaultKeyGen is the key generator used when none is specified.
var DefaultKeyGen = UUIDKeys

type uuidKeys struct{}

func (uuidKeys) NewKey() (string, bool) {
	return uuid.NewString(), true
}

type noKeys struct{}

func (noKeys) NewKey() (string, bool) {
	return "", false
}

func newKey(g KeyGen) (string, bool) {
	if g == nil {
		g = DefaultKeyGen
	}
	return g.NewKey()
}
