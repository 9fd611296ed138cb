package slidingwindow_test

import (
	"fmt"
	"time"

	"github.com/vnykmshr/tokengate/pkg/admission/slidingwindow"
)

// Example demonstrates basic usage of the sliding window admission limiter.
func Example() {
	// 60 calls and 10k tokens per trailing minute.
	limiter := slidingwindow.New(slidingwindow.Limits{
		Requests: 60,
		Tokens:   10000,
		Window:   time.Minute,
	})

	// Check a call costing 250 tokens (non-blocking).
	if limiter.Check(250).Admitted() {
		fmt.Println("Call admitted")
	} else {
		fmt.Println("Call rejected")
	}

	// Output: Call admitted
}

// Example_dualLimits demonstrates that both limits gate admission.
func Example_dualLimits() {
	limiter := slidingwindow.New(slidingwindow.Limits{
		Requests: 60,
		Tokens:   10000,
		Window:   time.Minute,
	})

	fmt.Println(limiter.Check(9900)) // within both limits
	fmt.Println(limiter.Check(101))  // would exceed token volume
	fmt.Println(limiter.Check(100))  // fits exactly

	fmt.Printf("window: %d calls, %d tokens\n", limiter.Len(), limiter.TokensUsed())

	// Output:
	// admit
	// reject
	// admit
	// window: 2 calls, 10000 tokens
}

// Example_errorMapping demonstrates mapping rejections to an error for
// callers that prefer error returns.
func Example_errorMapping() {
	limiter := slidingwindow.New(slidingwindow.Limits{
		Requests: 1,
		Tokens:   100,
		Window:   time.Minute,
	})

	check := func(tokens int) error {
		if limiter.Check(tokens).Admitted() {
			return nil
		}
		return fmt.Errorf("call rejected: %d tokens over budget", tokens)
	}

	fmt.Println(check(50))
	fmt.Println(check(50))

	// Output:
	// <nil>
	// call rejected: 50 tokens over budget
}
