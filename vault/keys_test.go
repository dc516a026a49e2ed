package vault_test

import "vaultd.dev/vault/vault"

import "testing"

func TestDeriveVaultDataIsDeterministic(t *testing.T) {
	programID := keyFrom(1)
	authority := keyFrom(2)
	mint := keyFrom(3)
	tokenProgram := keyFrom(4)

	k1, b1, err := vault.DeriveVaultData(programID, authority, 1, mint, tokenProgram)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	k2, b2, err := vault.DeriveVaultData(programID, authority, 1, mint, tokenProgram)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if k1 != k2 || b1 != b2 {
		t.Fatalf("derivation is not deterministic")
	}
}

func TestDeriveVaultDataDistinguishesVaultIndex(t *testing.T) {
	programID := keyFrom(1)
	authority := keyFrom(2)
	mint := keyFrom(3)
	tokenProgram := keyFrom(4)

	k1, _, err := vault.DeriveVaultData(programID, authority, 1, mint, tokenProgram)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	k2, _, err := vault.DeriveVaultData(programID, authority, 2, mint, tokenProgram)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if k1 == k2 {
		t.Fatalf("distinct vault indices must not collide")
	}
}

func TestDeriveKeysAreDistinctAcrossAccountKinds(t *testing.T) {
	programID := keyFrom(1)
	authority := keyFrom(2)
	mint := keyFrom(3)
	tokenProgram := keyFrom(4)

	vaultData, _, err := vault.DeriveVaultData(programID, authority, 1, mint, tokenProgram)
	if err != nil {
		t.Fatalf("derive vault data: %v", err)
	}
	vaultCustody, _, err := vault.DeriveVaultCustody(programID, authority, 1, mint, tokenProgram)
	if err != nil {
		t.Fatalf("derive vault custody: %v", err)
	}
	if vaultData == vaultCustody {
		t.Fatalf("vault_data and vault_custody seeds must not collide")
	}
}
