// Package workload implements the Go-native benchmark programs. Each Run
// function performs one benchmark and prints its measurements as
// human-readable lines; the harnesses/ binaries wrap them behind the
// benchmark process contract.
package workload

import (
	"fmt"
	"io"
	"time"
)

// FibonacciRecursive computes the nth Fibonacci number the exponential way.
func FibonacciRecursive(n int) uint64 {
	if n <= 1 {
		return uint64(max(n, 0))
	}

	return FibonacciRecursive(n-1) + FibonacciRecursive(n-2)
}

// FibonacciIterative computes the nth Fibonacci number in linear time.
func FibonacciIterative(n int) uint64 {
	if n <= 1 {
		return uint64(max(n, 0))
	}

	var a, b uint64 = 0, 1
	for i := 2; i <= n; i++ {
		a, b = b, a+b
	}

	return b
}

// RunFibonacci times both implementations for term n.
func RunFibonacci(w io.Writer, n int) error {
	if n < 0 || n > 92 {
		return fmt.Errorf("fibonacci term %d out of range [0, 92]", n)
	}

	fmt.Fprintf(w, "computing fibonacci term %d\n", n)

	start := time.Now()
	result := FibonacciRecursive(n)
	elapsed := time.Since(start)
	fmt.Fprintf(w, "recursive method: result = %d, time = %.6f sec\n",
		result, elapsed.Seconds())

	start = time.Now()
	result = FibonacciIterative(n)
	elapsed = time.Since(start)
	fmt.Fprintf(w, "iterative method: result = %d, time = %.6f sec\n",
		result, elapsed.Seconds())

	return nil
}
