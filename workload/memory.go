package workload

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"time"
)

const mb = 1024 * 1024

// ResidentMB returns the resident set size of this process in MB. It
// reads VmRSS from /proc/self/status where available and falls back to
// the memory obtained from the OS by the Go runtime.
func ResidentMB() float64 {
	if rss, ok := procRSS(); ok {
		return float64(rss) / mb
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return float64(ms.Sys) / mb
}

func procRSS() (uint64, bool) {
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return 0, false
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()

		rest, ok := strings.CutPrefix(line, "VmRSS:")
		if !ok {
			continue
		}

		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return 0, false
		}

		kb, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return 0, false
		}

		return kb * 1024, true
	}

	return 0, false
}

func settle() {
	runtime.GC()
	debug.FreeOSMemory()
	time.Sleep(100 * time.Millisecond)
}

// RunMemory allocates a slice of size integers, sums it, and reports the
// resident memory before and after each step.
func RunMemory(w io.Writer, size int) error {
	if size <= 0 {
		return fmt.Errorf("array size %d must be positive", size)
	}

	settle()

	initial := ResidentMB()
	fmt.Fprintf(w, "initial memory usage: %.2f MB\n", initial)

	fmt.Fprintf(w, "allocating array of %d elements...\n", size)

	start := time.Now()
	arr := make([]int64, size)
	for i := range arr {
		arr[i] = int64(i)
	}
	creation := time.Since(start)

	afterCreation := ResidentMB()
	fmt.Fprintf(w, "memory after allocation: %.2f MB (increase %.2f MB)\n",
		afterCreation, afterCreation-initial)
	fmt.Fprintf(w, "allocation time: %.6f sec\n", creation.Seconds())

	fmt.Fprintln(w, "summing array...")

	start = time.Now()
	var sum int64
	for _, v := range arr {
		sum += v
	}
	operation := time.Since(start)

	afterOperation := ResidentMB()
	fmt.Fprintf(w, "after operation memory usage: %.2f MB (increase %.2f MB)\n",
		afterOperation, afterOperation-afterCreation)
	fmt.Fprintf(w, "sum result: %d, operation time: %.6f sec\n", sum, operation.Seconds())

	runtime.KeepAlive(arr)
	settle()

	fmt.Fprintf(w, "memory after cleanup: %.2f MB\n", ResidentMB())

	return nil
}
