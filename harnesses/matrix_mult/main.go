// Matrix multiplication benchmark: multiplies two seeded random square
// matrices.
//
//	matrix_mult-bench [-seed n] [size]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/weiihann/benchoor/workload"
)

func main() {
	seed := flag.Int64("seed", 1, "random seed for the input matrices")
	flag.Parse()

	size, err := workload.PositionalInt(flag.Args(), 0, 1000)
	if err != nil {
		fatal("%v", err)
	}

	if err := workload.RunMatrix(os.Stdout, size, *seed); err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "matrix_mult-bench: "+format+"\n", args...)
	os.Exit(1)
}
