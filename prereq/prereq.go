// Package prereq verifies that benchmark files and required runtime
// capabilities are present before any benchmark is launched.
package prereq

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrPrerequisiteMissing is matched by every error returned from Check.
var ErrPrerequisiteMissing = errors.New("prerequisite missing")

// Capability is an optional runtime dependency, such as an interpreter
// on PATH or an importable library.
type Capability struct {
	Name  string
	Hint  string
	Probe func(ctx context.Context) error
}

// Executable returns a capability satisfied when name resolves on PATH.
func Executable(name string) Capability {
	return Capability{
		Name: name,
		Hint: fmt.Sprintf("install %s and make sure it is on PATH", name),
		Probe: func(context.Context) error {
			_, err := exec.LookPath(name)

			return err
		},
	}
}

// Command returns a capability satisfied when the given command exits 0.
// It is used for library import checks such as `python3 -c "import numpy"`.
func Command(name, hint string, argv ...string) Capability {
	return Capability{
		Name: name,
		Hint: hint,
		Probe: func(ctx context.Context) error {
			if len(argv) == 0 {
				return errors.New("empty probe command")
			}

			out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
			if err != nil {
				msg := strings.TrimSpace(string(out))
				if msg == "" {
					return err
				}

				return fmt.Errorf("%w: %s", err, msg)
			}

			return nil
		},
	}
}

// MissingCapability describes a capability whose probe failed.
type MissingCapability struct {
	Name string
	Hint string
	Err  error
}

// MissingError lists every missing file and capability.
type MissingError struct {
	Files        []string
	Capabilities []MissingCapability
}

func (e *MissingError) Error() string {
	var parts []string

	if len(e.Files) > 0 {
		parts = append(parts, "missing files: "+strings.Join(e.Files, ", "))
	}

	if len(e.Capabilities) > 0 {
		names := make([]string, 0, len(e.Capabilities))
		for _, c := range e.Capabilities {
			names = append(names, c.Name)
		}

		parts = append(parts, "missing capabilities: "+strings.Join(names, ", "))
	}

	return ErrPrerequisiteMissing.Error() + ": " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrPrerequisiteMissing) true.
func (e *MissingError) Is(target error) bool {
	return target == ErrPrerequisiteMissing
}

// Check stats every file and probes every capability. It has no side
// effects beyond the probes themselves and returns nil only when nothing
// is missing. All items are checked so the error lists them together.
func Check(ctx context.Context, files []string, caps []Capability) error {
	missing := &MissingError{}

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			missing.Files = append(missing.Files, f)
		}
	}

	for _, c := range caps {
		if err := c.Probe(ctx); err != nil {
			missing.Capabilities = append(missing.Capabilities, MissingCapability{
				Name: c.Name,
				Hint: c.Hint,
				Err:  err,
			})
		}
	}

	if len(missing.Files) == 0 && len(missing.Capabilities) == 0 {
		return nil
	}

	return missing
}
