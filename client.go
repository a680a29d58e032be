// Copyright 2021 The stratx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package stratx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gogama/stratx/request"
	"github.com/gogama/stratx/strategy"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

const (
	// DefaultKeyHeader is the request header on which the idempotency
	// key is sent with every attempt of a plan execution.
	DefaultKeyHeader = "Idempotency-Key"
	// DefaultAdviceHeader is the response header consulted for the
	// remote service's explicit should-retry signal.
	DefaultAdviceHeader = "X-Should-Retry"
)

var emptyHandlers = HandlerGroup{}

var errNoAttempt = errors.New("stratx: strategy permitted no attempts")

// A Client executes logical HTTP requests under a retry strategy. Its
// zero value is a valid configuration.
//
// The zero value client uses http.DefaultClient (from net/http) as the
// HTTPDoer, strategy.Once() as the strategy, strategy.DefaultKeyGen as
// the key generator, the default key and advice header names, and an
// empty handler group (no event handlers/plug-ins).
//
// Client's HTTPDoer typically has internal state (cached TCP
// connections) so Client instances should be reused instead of created
// as needed. Client is safe for concurrent use by multiple goroutines;
// each plan execution carries its own strategy decisions, attempt
// counter, and idempotency key.
//
// A Client is higher-level than an HTTPDoer. The HTTPDoer is
// responsible for all details of sending the HTTP request and receiving
// the response, while Client builds on top of the HTTPDoer's feature
// set: it converts a replayable request.Plan into individual
// http.Request attempts; derives the plan's idempotency key once and
// attaches it to every attempt; buffers the entire response body into
// a []byte; consults the strategy before every attempt and sleeps out
// any wait the strategy requests; and invokes user-provided handler
// functions at designated plug-in points within the attempt loop.
type Client struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard
	// net/http package is used.
	HTTPDoer HTTPDoer
	// Strategy decides, before every attempt of a plan execution,
	// whether the attempt may be made and how long to wait first, and
	// derives the idempotency key shared by all of the execution's
	// attempts.
	//
	// If Strategy is nil, strategy.Once() is used.
	Strategy strategy.Strategy
	// KeyGen generates idempotency keys for strategies that derive a
	// fresh one per plan execution.
	//
	// If KeyGen is nil, strategy.DefaultKeyGen is used. Set
	// strategy.NoKeys to disable key generation.
	KeyGen strategy.KeyGen
	// AttemptTimeout bounds each individual request attempt within a
	// plan execution, separately from any deadline on the plan's own
	// context. A plan context deadline ends the whole execution; an
	// attempt timeout only fails the attempt, which the strategy may
	// then retry.
	//
	// If AttemptTimeout is zero, no per-attempt deadline is set.
	AttemptTimeout time.Duration
	// KeyHeader overrides the request header on which the idempotency
	// key is sent. If empty, DefaultKeyHeader is used.
	KeyHeader string
	// AdviceHeader overrides the response header consulted for the
	// remote service's explicit should-retry signal. If empty,
	// DefaultAdviceHeader is used.
	AdviceHeader string
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during execution of a request plan.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
}

// Do executes an HTTP request plan and returns the results, following
// the retry strategy set on Client and low-level policy set on the
// underlying HTTPDoer.
//
// Before every attempt, including the first, the strategy is consulted
// with the most recent status code, the remote service's should-retry
// advice, and the count of attempts already made. A Stop outcome ends
// the execution; a Continue outcome permits the attempt after waiting
// out the outcome's wait (interruptible by the plan context). A
// successful (2xx) attempt ends the execution without consulting the
// strategy again, since the strategy only arbitrates failures.
//
// The idempotency key is derived from the strategy exactly once,
// before the first attempt, and attached to every attempt on the key
// header, so all attempts of one plan execution are a single logical
// operation to the remote service.
//
// An error is returned if the final attempt resulted in an error. An
// attempt may end in error due to failure to speak HTTP (for example a
// network connectivity problem), or because of policy on the
// underlying HTTPDoer (for example relating to redirects). A non-2XX
// status code in the final attempt does not result in an error.
//
// The returned Execution is never nil, but contains a nil Response and
// a nil Body if an error occurred. If an error was returned, the Err
// field of the Execution references the same error, and any returned
// error is of type *url.Error.
//
// For simple use cases, the Get and Post methods may prove easier to
// use than Do.
func (c *Client) Do(p *request.Plan) (*request.Execution, error) {
	e := request.Execution{
		Plan: p,
	}

	doer := c.doer()
	strat := c.strategy()
	handlers := c.handlers()

	// One key per plan execution. Deriving it here, before the attempt
	// loop, is what makes every attempt share it.
	e.Key, _ = strat.Key(c.KeyGen)

	handlers.run(BeforeExecutionStart, &e)
	e.Start = time.Now()

RetryLoop:
	for {
		outcome := strat.Decide(e.StatusCode(), e.Advice, e.Attempt)
		if !outcome.Retry {
			break
		}
		if outcome.Wait > 0 {
			timer := time.NewTimer(outcome.Wait)
			select {
			case <-timer.C:
			case <-p.Context().Done():
				timer.Stop()
				e.Err = urlErrorWrap(p, p.Context().Err())
				break RetryLoop
			}
		}
		e.Response = nil
		e.Err = nil
		e.Body = nil
		e.Advice = strategy.NoAdvice
		c.sendAndReceive(p, &e, doer, handlers)
		handlers.run(AfterAttempt, &e)
		e.Attempt++
		if err := p.Context().Err(); err != nil {
			if e.Err == nil {
				e.Err = urlErrorWrap(p, err)
			}
			break
		}
		if e.Err == nil && success(e.StatusCode()) {
			break
		}
	}

	if e.Attempt == 0 && e.Err == nil {
		e.Err = urlErrorWrap(p, errNoAttempt)
	}

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, &e)
	return &e, e.Err
}

func (c *Client) sendAndReceive(p *request.Plan, e *request.Execution, doer HTTPDoer, handlers *HandlerGroup) {
	ctx := p.Context()
	if c.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.AttemptTimeout)
		defer cancel()
	}
	e.Request = p.ToRequest(ctx)
	if e.Key != "" {
		// The plan's header map is shared with the request, so copy
		// before attaching the key.
		h := e.Request.Header.Clone()
		if h == nil {
			h = make(http.Header)
		}
		h.Set(c.keyHeader(), e.Key)
		e.Request.Header = h
	}
	handlers.run(BeforeAttempt, e)
	var err error
	e.Response, err = doer.Do(e.Request)
	if err != nil {
		e.Err = urlErrorWrap(p, err)
		return
	}
	e.Advice = strategy.ParseAdvice(e.Response.Header.Get(c.adviceHeader()))
	readBody(p, e, handlers)
}

func readBody(p *request.Plan, e *request.Execution, handlers *HandlerGroup) {
	defer func() {
		_ = e.Response.Body.Close()
	}()
	handlers.run(BeforeReadBody, e)
	var err error
	e.Body, err = io.ReadAll(e.Response.Body)
	if err != nil {
		e.Err = urlErrorWrap(p, err)
	}
}

// Get issues a GET to the specified URL, using the same policies
// followed by Do.
//
// To make a request plan with custom headers, use request.NewPlan and
// Client.Do.
func (c *Client) Get(url string) (*request.Execution, error) {
	return Get(c, url)
}

// Post issues a POST to the specified URL, using the same policies
// followed by Do.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.NewPlan, request.BodyBytes, and
// stratx.Post, namely: string; []byte; io.Reader; and io.ReadCloser.
//
// To make a request plan with custom headers, use request.NewPlan and
// Client.Do.
func (c *Client) Post(url, contentType string, body interface{}) (*request.Execution, error) {
	return Post(c, url, contentType, body)
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
//
// If the HTTPDoer does have a CloseIdleConnections method, then the
// effect of this method depends entirely on its implementation in the
// HTTPDoer. For example, the http.Client type forwards the call to its
// Transport, but only if the Transport itself has a
// CloseIdleConnections method (otherwise it does nothing).
func (c *Client) CloseIdleConnections() {
	doer := c.doer()
	if ic, ok := doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}

	return c.HTTPDoer
}

func (c *Client) strategy() strategy.Strategy {
	if c.Strategy == nil {
		return strategy.Once()
	}

	return c.Strategy
}

func (c *Client) handlers() *HandlerGroup {
	if c.Handlers == nil {
		return &emptyHandlers
	}

	return c.Handlers
}

func (c *Client) keyHeader() string {
	if c.KeyHeader == "" {
		return DefaultKeyHeader
	}

	return c.KeyHeader
}

func (c *Client) adviceHeader() string {
	if c.AdviceHeader == "" {
		return DefaultAdviceHeader
	}

	return c.AdviceHeader
}

func success(status int) bool {
	return status/100 == 2
}

func urlErrorWrap(p *request.Plan, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(p.Method),
		URL: p.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
