package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestRunWritesOneFixturePerScenario(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "fixtures")

	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open devnull: %v", err)
	}
	defer devNull.Close()

	if code := run([]string{"-out", outDir}, devNull, devNull); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}

	for _, sc := range scenarios {
		path := filepath.Join(outDir, sc.name+".json")
		b, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		var f Fixture
		if err := json.Unmarshal(b, &f); err != nil {
			t.Fatalf("unmarshal %s: %v", path, err)
		}
		if len(f.Steps) == 0 {
			t.Fatalf("%s: expected at least one step", sc.name)
		}
		if f.FinalAuditHead == "" {
			t.Fatalf("%s: expected a non-empty final audit head", sc.name)
		}
	}
}

func TestScenarioWithdrawWithinLimitsMatchesSpecOutcome(t *testing.T) {
	f, err := scenarioWithdrawWithinLimits()
	if err != nil {
		t.Fatalf("scenario: %v", err)
	}
	// create_vault, deposit, withdraw x3
	if len(f.Steps) != 5 {
		t.Fatalf("steps=%d, want 5", len(f.Steps))
	}
	if !f.Steps[0].Ok || !f.Steps[1].Ok {
		t.Fatalf("create_vault/deposit should succeed: %+v", f.Steps[:2])
	}
	if !f.Steps[2].Ok || !f.Steps[3].Ok {
		t.Fatalf("first two withdrawals should succeed: %+v", f.Steps[2:4])
	}
	if f.Steps[4].Ok || f.Steps[4].ErrorCode != "WithdrawLimitReachedAmount" {
		t.Fatalf("third withdrawal should fail with WithdrawLimitReachedAmount: %+v", f.Steps[4])
	}
}

func TestScenarioBookWarmupViolationMatchesSpecOutcome(t *testing.T) {
	f, err := scenarioBookWarmupViolation()
	if err != nil {
		t.Fatalf("scenario: %v", err)
	}
	last := f.Steps[len(f.Steps)-1]
	if last.Ok || last.ErrorCode != "VaultWarmupViolation" {
		t.Fatalf("book should fail with VaultWarmupViolation: %+v", last)
	}
}

func TestScenarioCloseGatedByOpenTransfersMatchesSpecOutcome(t *testing.T) {
	f, err := scenarioCloseGatedByOpenTransfers()
	if err != nil {
		t.Fatalf("scenario: %v", err)
	}
	// create_vault, deposit, book, close(gated), unbook, withdraw, close
	if len(f.Steps) != 7 {
		t.Fatalf("steps=%d, want 7", len(f.Steps))
	}
	gatedClose := f.Steps[3]
	if gatedClose.Ok || gatedClose.ErrorCode != "VaultHasOpenTransfers" {
		t.Fatalf("gated close should fail with VaultHasOpenTransfers: %+v", gatedClose)
	}
	finalClose := f.Steps[6]
	if !finalClose.Ok {
		t.Fatalf("final close should succeed once the vault is empty: %+v", finalClose)
	}
}
