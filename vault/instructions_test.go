package vault_test

import (
	"bytes"
	"testing"

	"vaultd.dev/vault/vault"
)

func TestEncodeDecodeBookTransferRoundTrip(t *testing.T) {
	want := vault.BookTransferData{
		Amount:        250,
		Destination:   keyFrom(9),
		VaultIndex:    1,
		TransferIndex: 2,
		Warmup:        10,
		Validity:      100,
	}
	wire := vault.EncodeBookTransfer(want)
	if wire[0] != byte(vault.InstructionBookTransfer) {
		t.Fatalf("discriminator = %d, want %d", wire[0], vault.InstructionBookTransfer)
	}
	got, err := vault.DecodeBookTransfer(wire[1:])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestDecodeTruncatedInstructionFails(t *testing.T) {
	wire := vault.EncodeWithdrawFromVault(vault.WithdrawFromVaultData{VaultIndex: 1, Amount: 1})
	_, err := vault.DecodeWithdrawFromVault(wire[1 : len(wire)-1])
	if err == nil {
		t.Fatalf("expected error decoding truncated instruction")
	}
}

func TestDispatchRejectsUnknownDiscriminator(t *testing.T) {
	err := vault.Dispatch(vault.Context{}, nil, []byte{99})
	if err == nil {
		t.Fatalf("expected error for unknown discriminator")
	}
}

func TestDispatchRejectsEmptyInstructionData(t *testing.T) {
	err := vault.Dispatch(vault.Context{}, nil, nil)
	if err == nil {
		t.Fatalf("expected error for empty instruction data")
	}
	if !bytes.Contains([]byte(err.Error()), []byte("InvalidInstructionData")) {
		t.Fatalf("got %v, want InvalidInstructionData", err)
	}
}
