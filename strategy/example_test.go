// Copyright 2021 The stratx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package strategy_test

import (
	"fmt"

	"github.com/gogama/stratx/strategy"
)

func ExampleStrategy() {
	s := strategy.ExponentialBackoff(3)
	for attempt := 0; attempt < 4; attempt++ {
		outcome := s.Decide(503, strategy.NoAdvice, attempt)
		if !outcome.Retry {
			fmt.Println("stop")
			break
		}
		fmt.Println("continue after", outcome.Wait)
	}
	// Output:
	// continue after 1s
	// continue after 2s
	// continue after 4s
	// stop
}

func ExampleBackoff() {
	fmt.Println(strategy.Backoff(0), strategy.Backoff(1), strategy.Backoff(4))
	// Output: 1s 2s 16s
}
