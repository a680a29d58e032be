// Copyright 2021 The stratx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Plan (describes a logical HTTP
request) and Execution (describes a Plan execution).

A Plan describes how to make a logical HTTP request, potentially
involving repeated HTTP request attempts if retry is necessary after a
failure. For those familiar with the Go standard HTTP library, net/http,
a Plan looks like a stripped-down http.Request structure with all
server-side fields removed, and the body fields replaced with a simple
[]byte, because a Plan must be replayable and therefore requires a
pre-buffered request body. Plan fields are named and typed consistently
with http.Request wherever possible.

Create a plan to make a reliable HTTP request:

	p, err := request.NewPlan("GET", "https://example.com", nil)
	...
	e, err := client.Do(p)
	...

A plan may be assigned a context to allow a deadline to be set on the
entire plan execution, and to allow the plan execution to be cancelled,
including during the wait between attempts:

	p, err := request.NewPlanWithContext(ctx, "POST", "https://example.com/upload", body)
	...

An Execution represents the state of the execution of a request plan:
the attempt counter, the most recent request, response, error, and
retry advice, and the idempotency key shared by every attempt of the
plan. Execution is both the output type of stratx.Client's plan
executing methods and the input type for event handlers invoked during
plan execution. You will typically not allocate Execution instances
yourself, but will instead work with the ones handed out by the
client's plan execution logic.
*/
package request
