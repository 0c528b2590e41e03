package prereq

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPasses(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "fibonacci_test.py")
	require.NoError(t, os.WriteFile(file, []byte("print()"), 0o600))

	ok := Capability{Name: "always", Probe: func(context.Context) error { return nil }}

	if err := Check(context.Background(), []string{file}, []Capability{ok}); err != nil {
		t.Fatalf("Check failed: %v", err)
	}
}

func TestCheckListsEverythingMissing(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(present, nil, 0o600))

	files := []string{
		filepath.Join(dir, "a_test.py"),
		present,
		filepath.Join(dir, "b_test.py"),
	}

	caps := []Capability{
		{Name: "numpy", Hint: "pip install numpy", Probe: func(context.Context) error {
			return errors.New("No module named 'numpy'")
		}},
		{Name: "fine", Probe: func(context.Context) error { return nil }},
	}

	err := Check(context.Background(), files, caps)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrerequisiteMissing)

	var missing *MissingError
	require.ErrorAs(t, err, &missing)

	assert.Equal(t, []string{files[0], files[2]}, missing.Files)
	require.Len(t, missing.Capabilities, 1)
	assert.Equal(t, "numpy", missing.Capabilities[0].Name)
	assert.Equal(t, "pip install numpy", missing.Capabilities[0].Hint)

	msg := err.Error()
	for _, want := range []string{"a_test.py", "b_test.py", "numpy"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestExecutable(t *testing.T) {
	if err := Executable("sh").Probe(context.Background()); err != nil {
		t.Skipf("sh not on PATH: %v", err)
	}

	err := Executable("definitely-not-a-real-binary-3f9a").Probe(context.Background())
	assert.Error(t, err)
}

func TestCommand(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}

	ok := Command("true", "", "/bin/sh", "-c", "exit 0")
	assert.NoError(t, ok.Probe(context.Background()))

	bad := Command("numpy", "", "/bin/sh", "-c", "echo 'No module named numpy' >&2; exit 1")
	err := bad.Probe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No module named numpy")

	empty := Command("empty", "")
	assert.Error(t, empty.Probe(context.Background()))
}
