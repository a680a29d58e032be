// Copyright 2021 The stratx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package strategy

import (
	"time"
)

// A Strategy controls how many attempts a logical HTTP request is
// allowed, how long to wait between them, and what idempotency key ties
// the attempts together.
//
// Strategy is a sealed interface: the only implementations are the
// values returned by Once, Idempotent, Retry, and ExponentialBackoff.
// Every variant implements the full contract itself, so adding a
// variant cannot silently fall through to a default behavior.
//
// A Strategy is immutable and safe for concurrent use by multiple
// goroutines, each with its own attempt counter.
type Strategy interface {
	// Decide maps the state of the most recent request attempt onto
	// an Outcome: stop, or continue after an optional wait.
	//
	// Parameter status is the HTTP status code of the most recent
	// attempt, or zero if no response has been observed (because no
	// attempt has been made yet, or the attempt ended in a transport
	// error). Parameter advice is the remote service's explicit retry
	// guidance, if any; AdviseStop vetoes every strategy. Parameter
	// attempt is the zero-based count of attempts already made, so
	// zero means the first attempt has yet to occur.
	//
	// Decide is a pure function. It never mutates the strategy, has
	// no side effects, and is total: it always returns a valid
	// Outcome and never fails.
	Decide(status int, advice Advice, attempt int) Outcome

	// Key derives the idempotency key to attach to every attempt of
	// one logical request. The second return value reports whether a
	// key is available; it is false when the strategy does not use a
	// key, or when g does not generate keys.
	//
	// Call Key exactly once per logical request, before the first
	// attempt, and reuse the returned key unchanged on every retry.
	// Deriving a fresh key per attempt defeats deduplication by the
	// remote service.
	Key(g KeyGen) (key string, ok bool)
}

// Once returns a strategy that permits exactly one attempt, with no
// retries and no idempotency key.
func Once() Strategy {
	return once{}
}

// Idempotent returns a strategy that permits exactly one attempt using
// the caller-supplied idempotency key. The key lets the transport
// layer resend the request after a network failure without risking a
// duplicate operation on the remote service.
func Idempotent(key string) Strategy {
	return idempotent(key)
}

// Retry returns a strategy that permits up to n attempts with no wait
// between them. All attempts share one freshly generated idempotency
// key.
//
// Client errors (4xx) stop the attempts early: they indicate a
// malformed request rather than a transient fault, so retrying cannot
// cure them.
func Retry(n int) Strategy {
	return retryTimes(n)
}

// ExponentialBackoff returns a strategy that behaves like Retry(n) but
// waits Backoff(attempt) before each attempt.
func ExponentialBackoff(n int) Strategy {
	return expBackoff(n)
}

type once struct{}

func (once) Decide(_ int, advice Advice, attempt int) Outcome {
	if advice == AdviseStop {
		return Stop
	}
	if attempt == 0 {
		return Continue(0)
	}
	return Stop
}

func (once) Key(_ KeyGen) (string, bool) {
	return "", false
}

type idempotent string

func (idempotent) Decide(_ int, advice Advice, attempt int) Outcome {
	if advice == AdviseStop {
		return Stop
	}
	if attempt == 0 {
		return Continue(0)
	}
	return Stop
}

func (s idempotent) Key(_ KeyGen) (string, bool) {
	return string(s), true
}

type retryTimes int

func (s retryTimes) Decide(status int, advice Advice, attempt int) Outcome {
	if advice == AdviseStop {
		return Stop
	}
	if clientError(status) {
		return Stop
	}
	if attempt < int(s) {
		return Continue(0)
	}
	return Stop
}

func (retryTimes) Key(g KeyGen) (string, bool) {
	return newKey(g)
}

type expBackoff int

func (s expBackoff) Decide(status int, advice Advice, attempt int) Outcome {
	if advice == AdviseStop {
		return Stop
	}
	if clientError(status) {
		return Stop
	}
	if attempt < int(s) {
		return Continue(Backoff(attempt))
	}
	return Stop
}

func (expBackoff) Key(g KeyGen) (string, bool) {
	return newKey(g)
}

// Backoff returns the wait an ExponentialBackoff strategy requests
// before attempt number attempt+1: one second doubled attempt times,
// so 1s, 2s, 4s, and so on. There is no jitter and no upper bound, so
// the wait grows without limit for large attempt counts.
func Backoff(attempt int) time.Duration {
	d := time.Second
	for i := 0; i < attempt; i++ {
		d *= 2
	}
	return d
}

func clientError(status int) bool {
	return 400 <= status && status <= 499
}
