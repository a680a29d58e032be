// Copyright 2021 The stratx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package stratx executes HTTP requests under a retry strategy, attaching
a stable idempotency key to every attempt of a logical request.

Create a Client with a strategy to begin making requests.

	client := &stratx.Client{
		Strategy: strategy.ExponentialBackoff(3),
	}
	ex, err := client.Get("https://api.example.com/things")
	...
	ex, err := client.Post("https://api.example.com/things",
		"application/json", &buf)

The zero value Client is valid: it uses http.DefaultClient as the
HTTPDoer and strategy.Once(), which makes a single attempt with no
retries and no idempotency key.

For control over how the client sends HTTP requests and receives HTTP
responses, use a custom HTTPDoer. For example, use a GoLang standard
HTTP client:

	doer := &http.Client{
		..., // See package "net/http" for detailed documentation
	}
	client := &stratx.Client{
		HTTPDoer: doer,
		Strategy: strategy.Retry(5),
	}

The strategy decides, before every attempt, whether the attempt may be
made and how long to wait first; the client owns the loop, the sleep,
and cancellation (via the request plan's context). The idempotency key
is derived from the strategy exactly once per plan execution, before
the first attempt, and sent on every attempt in the Idempotency-Key
header, so the remote service can deduplicate retries. The remote
service may veto further retries for a specific failure by answering
with an explicit should-retry header (X-Should-Retry by default).

To hook into the fine-grained details of the client's request execution
logic, install a handler into the appropriate handler chain:

	log := log.New(os.Stdout, "", log.LstdFlags)
	handlers := &stratx.HandlerGroup{}
	handlers.PushBack(stratx.BeforeAttempt, stratx.HandlerFunc(
		func(_ stratx.Event, e *request.Execution) {
			log.Printf("Attempt %d to %s", e.Attempt, e.Request.URL.String())
		}))
	client := &stratx.Client{
		Handlers: handlers,
	}

Package stratx provides basic interfaces for each method of the client
(Doer, Getter, Poster, and IdleCloser); a combined interface that
composes them (Executor); and utility functions for working with a
Doer (Inflate, Get, and Post).
*/
package stratx
