// Package errors provides examples of structured error handling in objectpool.
package errors_test

import (
	"fmt"
	"io"

	"github.com/wenzhenghu/objectpool/pkg/errors"
)

// Example demonstrates basic error creation and wrapping.
func Example() {
	// Create a new error with type
	err := errors.New(errors.ErrorTypeContract, "release capability registered twice")

	// Add context details
	err = err.WithDetail("pool", "query_state").
		WithDetail("entries", 42)

	// Print the error
	fmt.Println(err.Error())

	// Output:
	// contract: release capability registered twice
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	// Simulate an underlying error from a release capability
	originalErr := io.ErrClosedPipe

	// Wrap the error with context
	err := errors.Wrap(originalErr, errors.ErrorTypeRelease, "spill file close failed").
		WithDetail("pool", "query_state")

	// Check the error type
	if errors.IsType(err, errors.ErrorTypeRelease) {
		fmt.Println("This is a release error")
	}

	// Output:
	// This is a release error
}
