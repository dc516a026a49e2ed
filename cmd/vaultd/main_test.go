package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestRunDryRunPrintsConfigAndExits(t *testing.T) {
	dir := t.TempDir()
	var out, errOut bytes.Buffer
	code := run([]string{"--dry-run", "--datadir", dir}, strings.NewReader(""), &out, &errOut)
	if code != 0 {
		t.Fatalf("code=%d, want 0 (stderr=%q)", code, errOut.String())
	}
	var cfg Config
	if err := json.Unmarshal(out.Bytes(), &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if cfg.DataDir != dir {
		t.Fatalf("data_dir=%q, want %q", cfg.DataDir, dir)
	}
}

func TestRunRejectsInvalidProgramID(t *testing.T) {
	dir := t.TempDir()
	var out, errOut bytes.Buffer
	code := run([]string{"--dry-run", "--datadir", dir, "--program-id", "not-hex"}, strings.NewReader(""), &out, &errOut)
	if code != 2 {
		t.Fatalf("code=%d, want 2 (stderr=%q)", code, errOut.String())
	}
}

func TestRunParseErrorUnknownFlag(t *testing.T) {
	dir := t.TempDir()
	var out, errOut bytes.Buffer
	code := run([]string{"--datadir", dir, "--bogus"}, strings.NewReader(""), &out, &errOut)
	if code != 2 {
		t.Fatalf("code=%d, want 2", code)
	}
}

func TestHandleLineAdvanceClock(t *testing.T) {
	dir := t.TempDir()
	var out, errOut bytes.Buffer
	in := strings.NewReader(`{"op":"advance_clock","slot":1,"unix_time":100,"epoch":0}` + "\n")
	run([]string{"--datadir", dir}, in, &out, &errOut)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	var result map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &result); err != nil {
		t.Fatalf("unmarshal last line %q: %v", lines[len(lines)-1], err)
	}
	if ok, _ := result["ok"].(bool); !ok {
		t.Fatalf("expected ok result, got %v", result)
	}
}

func TestHandleLineRejectsUnknownOp(t *testing.T) {
	dir := t.TempDir()
	var out, errOut bytes.Buffer
	in := strings.NewReader(`{"op":"not_a_real_op"}` + "\n")
	run([]string{"--datadir", dir}, in, &out, &errOut)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	var result map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ok, _ := result["ok"].(bool); ok {
		t.Fatalf("expected ok=false for unknown op, got %v", result)
	}
}

func TestMainExitCodeIs0OnDryRun(t *testing.T) {
	if os.Getenv("VAULTD_CHILD") == "1" {
		dir := tempDirForChild()
		os.Args = []string{"vaultd", "--dry-run", "--datadir", dir}
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestMainExitCodeIs0OnDryRun")
	cmd.Env = append(os.Environ(), "VAULTD_CHILD=1")
	if err := cmd.Run(); err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			t.Fatalf("exit code=%d, want 0 (stderr=%s)", ee.ExitCode(), string(ee.Stderr))
		}
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunExitsOnSignal(t *testing.T) {
	if os.Getenv("VAULTD_SIGNAL_CHILD") == "1" {
		dir := tempDirForChild()
		go func() {
			time.Sleep(200 * time.Millisecond)
			p, _ := os.FindProcess(os.Getpid())
			_ = p.Signal(syscall.SIGINT)
		}()
		code := run([]string{"--datadir", dir}, strings.NewReader(""), os.Stdout, os.Stderr)
		os.Exit(code)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestRunExitsOnSignal")
	cmd.Env = append(os.Environ(), "VAULTD_SIGNAL_CHILD=1")
	if err := cmd.Run(); err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			t.Fatalf("exit code=%d, want 0 (stderr=%s)", ee.ExitCode(), string(ee.Stderr))
		}
		t.Fatalf("unexpected error: %v", err)
	}
}

func tempDirForChild() string {
	dir, err := os.MkdirTemp("", "vaultd-child-")
	if err != nil {
		panic(err)
	}
	return dir
}
