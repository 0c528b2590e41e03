// HTTP server benchmark target. It serves until interrupted and is meant
// to be driven by an external load generator, not by the harness.
//
//	http_server-bench [-host h] [-port p]
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/weiihann/benchoor/workload"
)

func main() {
	host := flag.String("host", "127.0.0.1", "listen host")
	port := flag.Int("port", 8000, "listen port")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	addr := net.JoinHostPort(*host, strconv.Itoa(*port))
	err := workload.NewServer().Serve(ctx, os.Stdout, addr)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "http_server-bench: %v\n", err)
		os.Exit(1)
	}
}
