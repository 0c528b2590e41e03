package workload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// WriteFile writes sizeMB megabytes to path in chunkMB chunks and syncs
// the file. It returns the elapsed time.
func WriteFile(path string, sizeMB, chunkMB int) (time.Duration, error) {
	chunk := bytes.Repeat([]byte{'a'}, chunkMB*mb)

	start := time.Now()

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	for i := 0; i < sizeMB/chunkMB; i++ {
		if _, err := f.Write(chunk); err != nil {
			f.Close()

			return 0, fmt.Errorf("write %s: %w", path, err)
		}
	}

	if err := f.Sync(); err != nil {
		f.Close()

		return 0, fmt.Errorf("sync %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", path, err)
	}

	return time.Since(start), nil
}

// ReadFile reads path in chunkMB chunks. It returns the number of bytes
// read and the elapsed time.
func ReadFile(path string, chunkMB int) (int64, time.Duration, error) {
	buf := make([]byte, chunkMB*mb)

	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var total int64

	for {
		n, err := f.Read(buf)
		total += int64(n)

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return total, 0, fmt.Errorf("read %s: %w", path, err)
		}
	}

	return total, time.Since(start), nil
}

// RunFileIO writes and reads back a sizeMB file in dir, reporting the
// elapsed time and throughput of each phase. The file is removed
// afterwards.
func RunFileIO(w io.Writer, dir string, sizeMB, chunkMB int) error {
	if sizeMB <= 0 || chunkMB <= 0 {
		return fmt.Errorf("file size %dMB and chunk size %dMB must be positive",
			sizeMB, chunkMB)
	}

	fmt.Fprintf(w, "running file I/O benchmark (file size: %dMB, chunk size: %dMB)\n",
		sizeMB, chunkMB)

	f, err := os.CreateTemp(dir, "benchoor-io-*.bin")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	path := f.Name()
	f.Close()

	defer os.Remove(path)

	fmt.Fprintf(w, "writing %dMB file...\n", sizeMB)

	writeTime, err := WriteFile(path, sizeMB, chunkMB)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "write finished, time: %.3f sec\n", writeTime.Seconds())
	fmt.Fprintf(w, "write throughput: %.2f MB/sec\n", throughput(float64(sizeMB), writeTime))

	fmt.Fprintf(w, "reading %.2fMB file...\n", float64(sizeMB))

	n, readTime, err := ReadFile(path, chunkMB)
	if err != nil {
		return err
	}

	readMB := float64(n) / mb
	fmt.Fprintf(w, "read finished, read %.2fMB, time: %.3f sec\n", readMB, readTime.Seconds())
	fmt.Fprintf(w, "read throughput: %.2f MB/sec\n", throughput(readMB, readTime))

	return nil
}

func throughput(sizeMB float64, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}

	return sizeMB / secs
}
