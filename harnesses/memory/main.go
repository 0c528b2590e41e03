// Memory benchmark: allocates and sums a large integer slice, sampling
// resident memory along the way.
//
//	memory-bench [elements]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/weiihann/benchoor/workload"
)

func main() {
	flag.Parse()

	size, err := workload.PositionalInt(flag.Args(), 0, 10000000)
	if err != nil {
		fatal("%v", err)
	}

	if err := workload.RunMemory(os.Stdout, size); err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "memory-bench: "+format+"\n", args...)
	os.Exit(1)
}
