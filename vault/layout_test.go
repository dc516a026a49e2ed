package vault_test

import (
	"testing"

	"vaultd.dev/vault/vault"
)

func TestVaultDataRoundTrip(t *testing.T) {
	authority := keyFrom(7)
	n := uint64(4)
	buf := make([]byte, vault.VaultDataSize(n))
	vd, err := vault.NewVaultData(buf, authority, 60, 1000, n, true, 5, 50)
	if err != nil {
		t.Fatalf("new vault data: %v", err)
	}
	vd.SetHistoryAt(2, 123, 45)
	vd.AdvanceCursor(3)

	reloaded, err := vault.LoadVaultData(vd.Bytes())
	if err != nil {
		t.Fatalf("load vault data: %v", err)
	}
	if reloaded.Authority() != authority {
		t.Fatalf("authority mismatch after reload")
	}
	if reloaded.Timeframe() != 60 || reloaded.MaxAmount() != 1000 || reloaded.MaxTransactions() != n {
		t.Fatalf("header fields mismatch after reload")
	}
	if !reloaded.AllowsTransfers() {
		t.Fatalf("allows_transfers mismatch after reload")
	}
	if reloaded.TransferMinWarmup() != 5 || reloaded.TransferMaxWindow() != 50 {
		t.Fatalf("warmup/window mismatch after reload")
	}
	ts, amt := reloaded.HistoryAt(2)
	if ts != 123 || amt != 45 {
		t.Fatalf("history slot mismatch: got (%d, %d)", ts, amt)
	}
	if reloaded.Cursor() != 3 {
		t.Fatalf("cursor mismatch: got %d, want 3", reloaded.Cursor())
	}
}

func TestVaultDataCursorAdvancesModuloN(t *testing.T) {
	buf := make([]byte, vault.VaultDataSize(3))
	vd, err := vault.NewVaultData(buf, keyFrom(1), 0, 10, 3, false, 0, 0)
	if err != nil {
		t.Fatalf("new vault data: %v", err)
	}
	vd.AdvanceCursor(5)
	if vd.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2 (5 mod 3)", vd.Cursor())
	}
}

func TestVaultDataOpenTransfersOverflow(t *testing.T) {
	buf := make([]byte, vault.VaultDataSize(1))
	vd, err := vault.NewVaultData(buf, keyFrom(1), 0, 10, 1, false, 0, 0)
	if err != nil {
		t.Fatalf("new vault data: %v", err)
	}
	if err := vd.DecrementOpenTransfers(); err == nil {
		t.Fatalf("expected error decrementing open_transfers at zero")
	}
}

func TestTransferDataRoundTrip(t *testing.T) {
	buf := make([]byte, vault.TransferDataSize)
	vaultDataKey := keyFrom(5)
	destination := keyFrom(6)
	td, err := vault.NewTransferData(buf, vaultDataKey, destination, 250, 1000, 7, 10, 100)
	if err != nil {
		t.Fatalf("new transfer data: %v", err)
	}

	reloaded, err := vault.LoadTransferData(td.Bytes())
	if err != nil {
		t.Fatalf("load transfer data: %v", err)
	}
	if reloaded.VaultData() != vaultDataKey || reloaded.Destination() != destination {
		t.Fatalf("key fields mismatch after reload")
	}
	if reloaded.Amount() != 250 || reloaded.CreatedAt() != 1000 || reloaded.CreatedEpoch() != 7 {
		t.Fatalf("scalar fields mismatch after reload")
	}
	if reloaded.Warmup() != 10 || reloaded.Validity() != 100 {
		t.Fatalf("warmup/validity mismatch after reload")
	}
}
