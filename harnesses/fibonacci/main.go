// Fibonacci benchmark: times the recursive and iterative computation of
// the nth Fibonacci number.
//
//	fibonacci-bench [n]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/weiihann/benchoor/workload"
)

func main() {
	flag.Parse()

	n, err := workload.PositionalInt(flag.Args(), 0, 40)
	if err != nil {
		fatal("%v", err)
	}

	if err := workload.RunFibonacci(os.Stdout, n); err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fibonacci-bench: "+format+"\n", args...)
	os.Exit(1)
}
