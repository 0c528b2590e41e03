package workload

import (
	"fmt"
	"strconv"
)

// PositionalInt returns args[i] as an int, or def when args is shorter.
func PositionalInt(args []string, i, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}

	v, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("argument %d: %q is not an integer", i+1, args[i])
	}

	return v, nil
}
