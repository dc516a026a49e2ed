// Command vault-cli is a stateless instruction-byte builder and decoder: it
// reads one JSON request from stdin and writes one JSON response to
// stdout, the same request/response-over-stdio shape as
// cmd/rubin-consensus-cli, adapted from parsing transactions to
// building/decoding vault instructions and deriving program addresses.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"vaultd.dev/vault/vault"
)

type Request struct {
	Op string `json:"op"`

	// Shared key fields, hex-encoded 32-byte pubkeys.
	ProgramIDHex    string `json:"program_id,omitempty"`
	AuthorityHex    string `json:"authority,omitempty"`
	MintHex         string `json:"mint,omitempty"`
	TokenProgramHex string `json:"token_program,omitempty"`
	DestinationHex  string `json:"destination,omitempty"`
	VaultOwnerHex   string `json:"vault_owner,omitempty"`

	VaultIndex    uint64 `json:"vault_index,omitempty"`
	TransferIndex uint64 `json:"transfer_index,omitempty"`
	Amount        uint64 `json:"amount,omitempty"`

	Timeframe         int64 `json:"timeframe,omitempty"`
	MaxAmount         uint64 `json:"max_amount,omitempty"`
	MaxTransactions   uint64 `json:"max_transactions,omitempty"`
	AllowsTransfers   bool  `json:"allows_transfers,omitempty"`
	TransferMinWarmup int64 `json:"transfer_min_warmup,omitempty"`
	TransferMaxWindow int64 `json:"transfer_max_window,omitempty"`
	Warmup            int64 `json:"warmup,omitempty"`
	Validity          int64 `json:"validity,omitempty"`

	// For decode_* ops, the instruction's wire bytes including the
	// leading discriminator.
	InstructionHex string `json:"instruction_hex,omitempty"`
}

type Response struct {
	Ok             bool   `json:"ok"`
	Err            string `json:"err,omitempty"`
	InstructionHex string `json:"instruction_hex,omitempty"`
	KeyHex         string `json:"key,omitempty"`
	Bump           uint8  `json:"bump,omitempty"`

	VaultIndex        uint64 `json:"vault_index,omitempty"`
	TransferIndex     uint64 `json:"transfer_index,omitempty"`
	Amount            uint64 `json:"amount,omitempty"`
	DestinationHex    string `json:"destination,omitempty"`
	VaultOwnerHex     string `json:"vault_owner,omitempty"`
	Timeframe         int64  `json:"timeframe,omitempty"`
	MaxAmount         uint64 `json:"max_amount,omitempty"`
	MaxTransactions   uint64 `json:"max_transactions,omitempty"`
	AllowsTransfers   bool   `json:"allows_transfers,omitempty"`
	TransferMinWarmup int64  `json:"transfer_min_warmup,omitempty"`
	TransferMaxWindow int64  `json:"transfer_max_window,omitempty"`
	Warmup            int64  `json:"warmup,omitempty"`
	Validity          int64  `json:"validity,omitempty"`
}

func main() {
	os.Exit(run(os.Stdin, os.Stdout))
}

func run(in io.Reader, out io.Writer) int {
	var req Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		writeResp(out, Response{Ok: false, Err: fmt.Sprintf("bad request: %v", err)})
		return 1
	}

	resp, err := dispatch(req)
	if err != nil {
		writeResp(out, Response{Ok: false, Err: err.Error()})
		return 1
	}
	resp.Ok = true
	writeResp(out, resp)
	return 0
}

func writeResp(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

func dispatch(req Request) (Response, error) {
	switch req.Op {
	case "encode_create_vault":
		return Response{InstructionHex: hex.EncodeToString(vault.EncodeCreateVault(vault.CreateVaultData{
			VaultIndex:        req.VaultIndex,
			Timeframe:         req.Timeframe,
			MaxTransactions:   req.MaxTransactions,
			MaxAmount:         req.MaxAmount,
			AllowsTransfers:   req.AllowsTransfers,
			TransferMinWarmup: req.TransferMinWarmup,
			TransferMaxWindow: req.TransferMaxWindow,
		}))}, nil

	case "decode_create_vault":
		wire, err := decodeWire(req.InstructionHex)
		if err != nil {
			return Response{}, err
		}
		d, err := vault.DecodeCreateVault(wire)
		if err != nil {
			return Response{}, err
		}
		return Response{
			VaultIndex: d.VaultIndex, Timeframe: d.Timeframe, MaxAmount: d.MaxAmount,
			MaxTransactions: d.MaxTransactions, AllowsTransfers: d.AllowsTransfers,
			TransferMinWarmup: d.TransferMinWarmup, TransferMaxWindow: d.TransferMaxWindow,
		}, nil

	case "encode_deposit_to_vault":
		owner, err := decodePubkey(req.VaultOwnerHex)
		if err != nil {
			return Response{}, err
		}
		return Response{InstructionHex: hex.EncodeToString(vault.EncodeDepositToVault(vault.DepositToVaultData{
			VaultOwner: owner, VaultIndex: req.VaultIndex, Amount: req.Amount,
		}))}, nil

	case "decode_deposit_to_vault":
		wire, err := decodeWire(req.InstructionHex)
		if err != nil {
			return Response{}, err
		}
		d, err := vault.DecodeDepositToVault(wire)
		if err != nil {
			return Response{}, err
		}
		return Response{VaultOwnerHex: hex.EncodeToString(d.VaultOwner[:]), VaultIndex: d.VaultIndex, Amount: d.Amount}, nil

	case "encode_withdraw_from_vault":
		return Response{InstructionHex: hex.EncodeToString(vault.EncodeWithdrawFromVault(vault.WithdrawFromVaultData{
			VaultIndex: req.VaultIndex, Amount: req.Amount,
		}))}, nil

	case "decode_withdraw_from_vault":
		wire, err := decodeWire(req.InstructionHex)
		if err != nil {
			return Response{}, err
		}
		d, err := vault.DecodeWithdrawFromVault(wire)
		if err != nil {
			return Response{}, err
		}
		return Response{VaultIndex: d.VaultIndex, Amount: d.Amount}, nil

	case "encode_close_vault":
		return Response{InstructionHex: hex.EncodeToString(vault.EncodeCloseVault(vault.CloseVaultData{VaultIndex: req.VaultIndex}))}, nil

	case "decode_close_vault":
		wire, err := decodeWire(req.InstructionHex)
		if err != nil {
			return Response{}, err
		}
		d, err := vault.DecodeCloseVault(wire)
		if err != nil {
			return Response{}, err
		}
		return Response{VaultIndex: d.VaultIndex}, nil

	case "encode_book_transfer":
		dest, err := decodePubkey(req.DestinationHex)
		if err != nil {
			return Response{}, err
		}
		return Response{InstructionHex: hex.EncodeToString(vault.EncodeBookTransfer(vault.BookTransferData{
			Amount: req.Amount, Destination: dest, VaultIndex: req.VaultIndex,
			TransferIndex: req.TransferIndex, Warmup: req.Warmup, Validity: req.Validity,
		}))}, nil

	case "decode_book_transfer":
		wire, err := decodeWire(req.InstructionHex)
		if err != nil {
			return Response{}, err
		}
		d, err := vault.DecodeBookTransfer(wire)
		if err != nil {
			return Response{}, err
		}
		return Response{
			Amount: d.Amount, DestinationHex: hex.EncodeToString(d.Destination[:]),
			VaultIndex: d.VaultIndex, TransferIndex: d.TransferIndex, Warmup: d.Warmup, Validity: d.Validity,
		}, nil

	case "encode_execute_transfer":
		return Response{InstructionHex: hex.EncodeToString(vault.EncodeExecuteTransfer(vault.ExecuteTransferData{
			VaultIndex: req.VaultIndex, TransferIndex: req.TransferIndex,
		}))}, nil

	case "decode_execute_transfer":
		wire, err := decodeWire(req.InstructionHex)
		if err != nil {
			return Response{}, err
		}
		d, err := vault.DecodeExecuteTransfer(wire)
		if err != nil {
			return Response{}, err
		}
		return Response{VaultIndex: d.VaultIndex, TransferIndex: d.TransferIndex}, nil

	case "encode_unbook_transfer":
		dest, err := decodePubkey(req.DestinationHex)
		if err != nil {
			return Response{}, err
		}
		return Response{InstructionHex: hex.EncodeToString(vault.EncodeUnbookTransfer(vault.UnbookTransferData{
			VaultIndex: req.VaultIndex, TransferIndex: req.TransferIndex, Destination: dest,
		}))}, nil

	case "decode_unbook_transfer":
		wire, err := decodeWire(req.InstructionHex)
		if err != nil {
			return Response{}, err
		}
		d, err := vault.DecodeUnbookTransfer(wire)
		if err != nil {
			return Response{}, err
		}
		return Response{VaultIndex: d.VaultIndex, TransferIndex: d.TransferIndex, DestinationHex: hex.EncodeToString(d.Destination[:])}, nil

	case "derive_vault_data", "derive_vault_custody":
		programID, authority, mint, tokenProgram, err := decodeDeriveKeys(req)
		if err != nil {
			return Response{}, err
		}
		var key vault.Pubkey
		var bump uint8
		if req.Op == "derive_vault_data" {
			key, bump, err = vault.DeriveVaultData(programID, authority, req.VaultIndex, mint, tokenProgram)
		} else {
			key, bump, err = vault.DeriveVaultCustody(programID, authority, req.VaultIndex, mint, tokenProgram)
		}
		if err != nil {
			return Response{}, err
		}
		return Response{KeyHex: hex.EncodeToString(key[:]), Bump: bump}, nil

	case "derive_transfer_data", "derive_deposit_custody":
		programID, authority, mint, tokenProgram, err := decodeDeriveKeys(req)
		if err != nil {
			return Response{}, err
		}
		dest, err := decodePubkey(req.DestinationHex)
		if err != nil {
			return Response{}, err
		}
		var key vault.Pubkey
		var bump uint8
		if req.Op == "derive_transfer_data" {
			key, bump, err = vault.DeriveTransferData(programID, authority, req.VaultIndex, req.TransferIndex, dest, mint, tokenProgram)
		} else {
			key, bump, err = vault.DeriveDepositCustody(programID, authority, req.VaultIndex, req.TransferIndex, dest, mint, tokenProgram)
		}
		if err != nil {
			return Response{}, err
		}
		return Response{KeyHex: hex.EncodeToString(key[:]), Bump: bump}, nil

	default:
		return Response{}, fmt.Errorf("unknown op %q", req.Op)
	}
}

func decodeDeriveKeys(req Request) (programID, authority, mint, tokenProgram vault.Pubkey, err error) {
	if programID, err = decodePubkey(req.ProgramIDHex); err != nil {
		return
	}
	if authority, err = decodePubkey(req.AuthorityHex); err != nil {
		return
	}
	if mint, err = decodePubkey(req.MintHex); err != nil {
		return
	}
	tokenProgram, err = decodePubkey(req.TokenProgramHex)
	return
}

func decodePubkey(s string) (vault.Pubkey, error) {
	var pk vault.Pubkey
	b, err := hex.DecodeString(s)
	if err != nil {
		return pk, fmt.Errorf("bad hex key %q: %w", s, err)
	}
	if len(b) != 32 {
		return pk, fmt.Errorf("key %q must be 32 bytes, got %d", s, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

func decodeWire(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("bad hex instruction: %w", err)
	}
	if len(b) < 1 {
		return nil, fmt.Errorf("instruction_hex is empty")
	}
	return b[1:], nil
}
