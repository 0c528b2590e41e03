// File I/O benchmark: writes a large file and reads it back.
//
//	file_io-bench [-dir path] [size-mb [chunk-mb]]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/weiihann/benchoor/workload"
)

func main() {
	dir := flag.String("dir", "", "directory for the scratch file (default: OS temp dir)")
	flag.Parse()

	sizeMB, err := workload.PositionalInt(flag.Args(), 0, 1000)
	if err != nil {
		fatal("%v", err)
	}

	chunkMB, err := workload.PositionalInt(flag.Args(), 1, 1)
	if err != nil {
		fatal("%v", err)
	}

	if err := workload.RunFileIO(os.Stdout, *dir, sizeMB, chunkMB); err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "file_io-bench: "+format+"\n", args...)
	os.Exit(1)
}
