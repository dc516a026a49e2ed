package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestEncodeDecodeBookTransferRoundTrip(t *testing.T) {
	var out bytes.Buffer
	req := `{"op":"encode_book_transfer","amount":250,"destination":"` + strings.Repeat("09", 32) +
		`","vault_index":1,"transfer_index":2,"warmup":10,"validity":100}`
	in := strings.NewReader(req)
	if code := run(in, &out); code != 0 {
		t.Fatalf("encode run() = %d, want 0: %s", code, out.String())
	}
	var encoded struct {
		Ok             bool   `json:"ok"`
		InstructionHex string `json:"instruction_hex"`
	}
	if err := json.Unmarshal(out.Bytes(), &encoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !encoded.Ok || encoded.InstructionHex == "" {
		t.Fatalf("unexpected response: %+v", encoded)
	}

	out.Reset()
	decodeReq := `{"op":"decode_book_transfer","instruction_hex":"` + encoded.InstructionHex + `"}`
	if code := run(strings.NewReader(decodeReq), &out); code != 0 {
		t.Fatalf("decode run() = %d, want 0: %s", code, out.String())
	}
	var decoded struct {
		Ok            bool   `json:"ok"`
		Amount        uint64 `json:"amount"`
		VaultIndex    uint64 `json:"vault_index"`
		TransferIndex uint64 `json:"transfer_index"`
		Warmup        int64  `json:"warmup"`
		Validity      int64  `json:"validity"`
	}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Ok || decoded.Amount != 250 || decoded.VaultIndex != 1 || decoded.TransferIndex != 2 || decoded.Warmup != 10 || decoded.Validity != 100 {
		t.Fatalf("decoded mismatch: %+v", decoded)
	}
}

func TestDeriveVaultDataReturnsKeyAndBump(t *testing.T) {
	var out bytes.Buffer
	req := `{"op":"derive_vault_data","program_id":"` + strings.Repeat("11", 32) +
		`","authority":"` + strings.Repeat("22", 32) +
		`","mint":"` + strings.Repeat("33", 32) +
		`","token_program":"` + strings.Repeat("44", 32) +
		`","vault_index":7}`
	if code := run(strings.NewReader(req), &out); code != 0 {
		t.Fatalf("run() = %d, want 0: %s", code, out.String())
	}
	var resp struct {
		Ok     bool   `json:"ok"`
		KeyHex string `json:"key"`
	}
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Ok || len(resp.KeyHex) != 64 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestUnknownOpFails(t *testing.T) {
	var out bytes.Buffer
	if code := run(strings.NewReader(`{"op":"bogus"}`), &out); code == 0 {
		t.Fatalf("expected nonzero exit for unknown op")
	}
}
