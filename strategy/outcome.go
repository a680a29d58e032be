// Copyright 2021 The stratx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package strategy

import (
	"strconv"
	"time"
)

// An Outcome is the result of a single retry decision: either the
// terminal Stop, or a Continue directing the caller to make another
// attempt after an optional wait.
type Outcome struct {
	// Retry indicates whether another attempt should be made. When
	// Retry is false the decision is terminal and the caller must not
	// make further attempts for this logical request.
	Retry bool

	// Wait is how long the caller should wait before making the next
	// attempt. A zero wait means the attempt may be made immediately.
	// Wait is only meaningful when Retry is true.
	Wait time.Duration
}

// Stop is the terminal outcome: no further attempts.
var Stop = Outcome{}

// Continue returns an outcome directing the caller to make another
// attempt after waiting wait. Pass zero to retry immediately.
func Continue(wait time.Duration) Outcome {
	return Outcome{Retry: true, Wait: wait}
}

// Advice is a remote service's explicit guidance about whether the
// failure just observed may be retried. It is typically parsed from a
// response header.
type Advice int

const (
	// NoAdvice means the remote service gave no guidance. Absence of
	// advice is treated as permission to retry.
	NoAdvice Advice = iota
	// AdviseRetry means the remote service indicated a retry is
	// acceptable. Strategies treat it the same as NoAdvice.
	AdviseRetry
	// AdviseStop means the remote service explicitly advised against
	// retrying this specific failure. It vetoes every strategy at any
	// attempt count.
	AdviseStop

	// adviceSentinel provides the total number of advice values.
	adviceSentinel
)

var adviceNames = []string{
	"NoAdvice",
	"AdviseRetry",
	"AdviseStop",
}

// ParseAdvice converts a should-retry header value into an Advice. A
// boolean value ("true", "false", "0", "1", and the other forms
// accepted by strconv.ParseBool) maps onto AdviseRetry or AdviseStop;
// an empty or unparseable value means no advice was given.
func ParseAdvice(value string) Advice {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return NoAdvice
	}
	if b {
		return AdviseRetry
	}
	return AdviseStop
}

// String returns the name of the advice value.
func (a Advice) String() string {
	if a < 0 || a >= adviceSentinel {
		return "Advice(" + strconv.Itoa(int(a)) + ")"
	}
	return adviceNames[a]
}
