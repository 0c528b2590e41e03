package workload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Server is the HTTP benchmark target. It owns its request counter.
type Server struct {
	mu       sync.Mutex
	requests uint64
}

// NewServer returns a Server with a zeroed counter.
func NewServer() *Server {
	return &Server{}
}

// Requests returns the number of requests served on "/".
func (s *Server) Requests() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.requests
}

func (s *Server) count() {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
}

// Handler returns the routes: "/" a fixed message, "/json" a small
// generated document, "/stats" the request count.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		s.count()
		c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
	})

	r.GET("/json", func(c *gin.Context) {
		values := make([]float64, 10)
		for i := range values {
			values[i] = rand.Float64()
		}

		c.JSON(http.StatusOK, gin.H{
			"id":        rand.IntN(1000) + 1,
			"name":      "Test Item",
			"timestamp": float64(time.Now().UnixNano()) / 1e9,
			"values":    values,
			"metadata": gin.H{
				"server":  "Go gin",
				"version": "1.0",
				"status":  "active",
			},
		})
	})

	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"total_requests": s.Requests()})
	})

	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down
// gracefully. It prints the bound address and routes to w.
func (s *Server) Serve(ctx context.Context, w io.Writer, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	fmt.Fprintf(w, "starting Go HTTP server http://%s\n", ln.Addr())
	fmt.Fprintln(w, "routes:")
	fmt.Fprintln(w, "  / - simple message")
	fmt.Fprintln(w, "  /json - JSON response")
	fmt.Fprintln(w, "  /stats - server statistics")

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}

	fmt.Fprintf(w, "server stopped after %d requests\n", s.Requests())

	return nil
}
