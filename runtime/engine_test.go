package runtime_test

import (
	"testing"

	"vaultd.dev/vault/vault"
	"vaultd.dev/vault/runtime"
	"vaultd.dev/vault/store"
)

func key(b byte) vault.Pubkey {
	var pk vault.Pubkey
	pk[0] = b
	return pk
}

func TestEngineCreateVaultPersistsAcrossReload(t *testing.T) {
	datadir := t.TempDir()
	programID := key(1)
	tokenProgram := key(4)
	authority := key(2)
	mint := key(3)

	db, err := store.Open(datadir, "dd")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	eng := runtime.New(db, programID, tokenProgram)

	mintInfo, err := eng.LoadAccount(mint)
	if err != nil {
		t.Fatalf("load mint: %v", err)
	}
	mintInfo.Owner = tokenProgram
	mintInfo.Lamports = 1
	if err := eng.PersistAccount(mintInfo); err != nil {
		t.Fatalf("seed mint: %v", err)
	}

	vaultData, _, err := vault.DeriveVaultData(programID, authority, 1, mint, tokenProgram)
	if err != nil {
		t.Fatalf("derive vault data: %v", err)
	}
	vaultCustody, _, err := vault.DeriveVaultCustody(programID, authority, 1, mint, tokenProgram)
	if err != nil {
		t.Fatalf("derive vault custody: %v", err)
	}

	metas := []runtime.AccountMeta{
		{Key: authority, IsSigner: true, IsWritable: true},
		{Key: vaultData, IsWritable: true},
		{Key: vaultCustody, IsWritable: true},
		{Key: mint},
		{Key: tokenProgram},
	}
	payload := vault.EncodeCreateVault(vault.CreateVaultData{
		VaultIndex:        1,
		Timeframe:         0,
		MaxAmount:         100,
		MaxTransactions:   3,
		AllowsTransfers:   true,
		TransferMinWarmup: 10,
		TransferMaxWindow: 1000,
	})

	if err := eng.Execute(metas, payload); err != nil {
		t.Fatalf("execute create_vault: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	db2, err := store.Open(datadir, "dd")
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() { _ = db2.Close() })

	rec, ok, err := db2.GetAccount(vaultData)
	if err != nil || !ok {
		t.Fatalf("vault_data not persisted: ok=%v err=%v", ok, err)
	}
	vd, err := vault.LoadVaultData(rec.Data)
	if err != nil {
		t.Fatalf("load vault data: %v", err)
	}
	if vd.Authority() != authority || vd.MaxAmount() != 100 || vd.MaxTransactions() != 3 {
		t.Fatalf("persisted vault data mismatch: %+v", vd)
	}

	custodyRec, ok, err := db2.GetAccount(vaultCustody)
	if err != nil || !ok {
		t.Fatalf("vault_custody not persisted: ok=%v err=%v", ok, err)
	}
	if custodyRec.Owner != tokenProgram {
		t.Fatalf("custody owner = %x, want token program %x", custodyRec.Owner, tokenProgram)
	}

	if eng.AuditHead() == ([32]byte{}) {
		t.Fatalf("expected audit head to advance after a successful instruction")
	}
	if db2.Manifest().AuditHeadHex == "" {
		t.Fatalf("expected audit head to survive reopen via the manifest")
	}
}

func TestEngineRejectsRegressingClock(t *testing.T) {
	db, err := store.Open(t.TempDir(), "ee")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	eng := runtime.New(db, key(1), key(2))

	if err := eng.AdvanceClock(10, 1000, 1); err != nil {
		t.Fatalf("advance clock: %v", err)
	}
	if err := eng.AdvanceClock(5, 2000, 1); err == nil {
		t.Fatalf("expected error regressing slot")
	}
	if err := eng.AdvanceClock(20, 500, 1); err == nil {
		t.Fatalf("expected error regressing unix time")
	}
}

func TestEngineFailedInstructionPersistsNothing(t *testing.T) {
	db, err := store.Open(t.TempDir(), "ff")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	eng := runtime.New(db, key(1), key(2))

	metas := []runtime.AccountMeta{{Key: key(9), IsSigner: true, IsWritable: true}}
	if err := eng.Execute(metas, []byte{99}); err == nil {
		t.Fatalf("expected dispatch error for unknown discriminator")
	}
	_, ok, err := db.GetAccount(key(9))
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if ok {
		t.Fatalf("expected no account persisted after failed instruction")
	}
}
