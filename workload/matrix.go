package workload

import (
	"fmt"
	"io"
	mrand "math/rand"
	"time"
)

// naiveLimit is the largest size for which the naive implementation is
// also timed.
const naiveLimit = 200

// Matrix is a dense square matrix in row-major order.
type Matrix struct {
	N    int
	Data []float64
}

// NewMatrix returns an n×n zero matrix.
func NewMatrix(n int) Matrix {
	return Matrix{N: n, Data: make([]float64, n*n)}
}

// At returns element (i, j).
func (m Matrix) At(i, j int) float64 {
	return m.Data[i*m.N+j]
}

// Generator produces deterministic random matrices from a seed.
type Generator struct {
	rng *mrand.Rand
}

// NewGenerator creates a Generator from the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: mrand.New(mrand.NewSource(seed))}
}

// RandomMatrix returns an n×n matrix with elements in [0, 1).
func (g *Generator) RandomMatrix(n int) Matrix {
	m := NewMatrix(n)
	for i := range m.Data {
		m.Data[i] = g.rng.Float64()
	}

	return m
}

// MultiplyReference multiplies a and b with the cache-friendly i-k-j
// loop order.
func MultiplyReference(a, b Matrix) Matrix {
	n := a.N
	c := NewMatrix(n)

	for i := 0; i < n; i++ {
		row := c.Data[i*n : (i+1)*n]
		for k := 0; k < n; k++ {
			aik := a.Data[i*n+k]
			bk := b.Data[k*n : (k+1)*n]
			for j, v := range bk {
				row[j] += aik * v
			}
		}
	}

	return c
}

// MultiplyNaive multiplies a and b with the textbook i-j-k loop order.
func MultiplyNaive(a, b Matrix) Matrix {
	n := a.N
	c := NewMatrix(n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum float64
			for k := 0; k < n; k++ {
				sum += a.Data[i*n+k] * b.Data[k*n+j]
			}
			c.Data[i*n+j] = sum
		}
	}

	return c
}

// RunMatrix times the multiplication of two random size×size matrices.
func RunMatrix(w io.Writer, size int, seed int64) error {
	if size <= 0 {
		return fmt.Errorf("matrix size %d must be positive", size)
	}

	fmt.Fprintf(w, "running %dx%d matrix multiplication\n", size, size)

	gen := NewGenerator(seed)
	a := gen.RandomMatrix(size)
	b := gen.RandomMatrix(size)

	start := time.Now()
	c := MultiplyReference(a, b)
	elapsed := time.Since(start)
	fmt.Fprintf(w, "reference implementation: time = %.6f sec\n", elapsed.Seconds())

	if size <= naiveLimit {
		start = time.Now()
		MultiplyNaive(a, b)
		elapsed = time.Since(start)
		fmt.Fprintf(w, "naive implementation: time = %.6f sec\n", elapsed.Seconds())
	} else {
		fmt.Fprintln(w, "matrix too large, skipping naive implementation")
	}

	fmt.Fprintf(w, "result sample [0][0] = %.6f\n", c.At(0, 0))

	return nil
}
