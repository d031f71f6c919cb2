package process

// KillProcessGroup is only exercised with PIDs that cannot exist. Real
// termination is covered by the toolchain runner tests, which cancel a
// long-running child and assert it returns promptly.

import (
	"os/exec"
	"testing"
)

// ---------------------------------------------------------------------------
// TestKillProcessGroup - Invalid PID Handling
// ---------------------------------------------------------------------------

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	// PID 0 would target the current process group; never pass it here.
	if err := KillProcessGroup(999999999); err == nil {
		t.Error("KillProcessGroup(999999999) = nil, want error")
	}
}

func TestSetGroup(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("true")
	SetGroup(cmd)
	if cmd.SysProcAttr == nil {
		t.Fatal("SysProcAttr not set")
	}

	// Idempotent.
	SetGroup(cmd)
}
