package accounts_test

import (
	"testing"

	"vaultd.dev/vault/accounts"
)

func TestRequireSigner(t *testing.T) {
	a := &accounts.Info{IsSigner: false}
	if err := accounts.RequireSigner(a, "authority"); err == nil {
		t.Fatalf("expected error for unsigned account")
	}
	a.IsSigner = true
	if err := accounts.RequireSigner(a, "authority"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireInitializedUninitialized(t *testing.T) {
	a := &accounts.Info{Lamports: 0}
	if err := accounts.RequireInitialized(a, "vault_data"); err == nil {
		t.Fatalf("expected error for uninitialized account")
	}
	if err := accounts.RequireUninitialized(a, "vault_data"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.Lamports = 1
	if err := accounts.RequireInitialized(a, "vault_data"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := accounts.RequireUninitialized(a, "vault_data"); err == nil {
		t.Fatalf("expected error for already-initialized account")
	}
}

func TestRequireKey(t *testing.T) {
	var want, other accounts.Pubkey
	want[0], other[0] = 1, 2
	a := &accounts.Info{Key: want}
	if err := accounts.RequireKey(a, want, "vault_data"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := accounts.RequireKey(a, other, "vault_data"); err == nil {
		t.Fatalf("expected error for key mismatch")
	}
}
