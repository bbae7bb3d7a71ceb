package cleanup

import (
	"errors"
	"strings"
	"testing"
)

func TestRunAll_LIFOAndJoinedErrors(t *testing.T) {
	closeErr := errors.New("log close failed")
	var order []string
	Register("workspace", func() error { order = append(order, "db"); return nil })
	Register("ignored", nil)
	Register("log file", func() error { order = append(order, "log"); return closeErr })

	if got := Pending(); got != 2 {
		t.Fatalf("Pending() = %d, want 2", got)
	}

	err := RunAll()
	if !errors.Is(err, closeErr) {
		t.Fatalf("RunAll() error = %v, want wrapped hook error", err)
	}
	if !strings.Contains(err.Error(), "log file: log close failed") {
		t.Errorf("RunAll() error %q does not name the hook", err)
	}
	if len(order) != 2 || order[0] != "log" || order[1] != "db" {
		t.Fatalf("hooks ran in order %v, want [log db]", order)
	}
	if err := RunAll(); err != nil {
		t.Fatalf("second RunAll() = %v, want nil after hooks cleared", err)
	}
	if Pending() != 0 {
		t.Errorf("hooks left after RunAll")
	}
}
