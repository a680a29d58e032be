// Copyright 2021 The stratx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package strategy decides whether, when, and with what idempotency key
the attempts of a logical HTTP request should be made.

A Strategy is an immutable value chosen once per logical request. Its
Decide method maps the state of the most recent attempt (status code,
explicit remote retry advice, and the number of attempts already made)
onto an Outcome: stop, or continue after an optional wait. Its Key
method derives the idempotency key shared by every attempt of the
request.

	strat := strategy.ExponentialBackoff(3)
	key, _ := strat.Key(strategy.DefaultKeyGen)
	...
	outcome := strat.Decide(status, advice, attempt)
	if !outcome.Retry {
		// Give up.
	}
	// Wait outcome.Wait, then attempt again reusing key.

Decisions are pure values. The strategy holds no mutable state, does no
I/O, and is safe for concurrent use; the caller owns the attempt loop,
the attempt counter, the sleep between attempts, and cancellation. The
stratx root package provides a client implementing that loop.
*/
package strategy
