package vault

// Discriminator is the leading byte of every instruction's wire encoding,
// selecting which handler Dispatch routes to (spec §4.8, §6).
type Discriminator byte

const (
	InstructionCreateVault      Discriminator = 0
	InstructionDepositToVault   Discriminator = 1
	InstructionWithdrawFromVault Discriminator = 2
	InstructionCloseVault       Discriminator = 3
	InstructionBookTransfer     Discriminator = 10
	InstructionExecuteTransfer  Discriminator = 11
	InstructionUnbookTransfer   Discriminator = 12
)

// CreateVaultData is the decoded payload of a CreateVault instruction.
type CreateVaultData struct {
	VaultIndex      uint64
	Timeframe       int64
	MaxTransactions uint64
	MaxAmount       uint64
	AllowsTransfers bool
	TransferMinWarmup int64
	TransferMaxWindow int64
}

// DecodeCreateVault parses the payload following the discriminator byte.
func DecodeCreateVault(data []byte) (CreateVaultData, error) {
	c := newCursor(data)
	var out CreateVaultData
	var err error
	if out.VaultIndex, err = c.readU64LE(); err != nil {
		return out, err
	}
	if out.Timeframe, err = c.readI64LE(); err != nil {
		return out, err
	}
	if out.MaxTransactions, err = c.readU64LE(); err != nil {
		return out, err
	}
	if out.MaxAmount, err = c.readU64LE(); err != nil {
		return out, err
	}
	allows, err := c.readU8()
	if err != nil {
		return out, err
	}
	out.AllowsTransfers = allows != 0
	if out.TransferMinWarmup, err = c.readI64LE(); err != nil {
		return out, err
	}
	if out.TransferMaxWindow, err = c.readI64LE(); err != nil {
		return out, err
	}
	return out, nil
}

// EncodeCreateVault writes the discriminator + payload for a CreateVault
// instruction, used by the CLI and conformance-fixture tooling.
func EncodeCreateVault(d CreateVaultData) []byte {
	out := []byte{byte(InstructionCreateVault)}
	out = appendU64LE(out, d.VaultIndex)
	out = appendI64LE(out, d.Timeframe)
	out = appendU64LE(out, d.MaxTransactions)
	out = appendU64LE(out, d.MaxAmount)
	if d.AllowsTransfers {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	out = appendI64LE(out, d.TransferMinWarmup)
	out = appendI64LE(out, d.TransferMaxWindow)
	return out
}

// DepositToVaultData is the decoded payload of a DepositToVault instruction.
type DepositToVaultData struct {
	VaultOwner Pubkey
	VaultIndex uint64
	Amount     uint64
}

func DecodeDepositToVault(data []byte) (DepositToVaultData, error) {
	c := newCursor(data)
	var out DepositToVaultData
	var err error
	if out.VaultOwner, err = c.readPubkey(); err != nil {
		return out, err
	}
	if out.VaultIndex, err = c.readU64LE(); err != nil {
		return out, err
	}
	if out.Amount, err = c.readU64LE(); err != nil {
		return out, err
	}
	return out, nil
}

func EncodeDepositToVault(d DepositToVaultData) []byte {
	out := []byte{byte(InstructionDepositToVault)}
	out = appendPubkey(out, d.VaultOwner)
	out = appendU64LE(out, d.VaultIndex)
	out = appendU64LE(out, d.Amount)
	return out
}

// WithdrawFromVaultData is the decoded payload of a WithdrawFromVault instruction.
type WithdrawFromVaultData struct {
	VaultIndex uint64
	Amount     uint64
}

func DecodeWithdrawFromVault(data []byte) (WithdrawFromVaultData, error) {
	c := newCursor(data)
	var out WithdrawFromVaultData
	var err error
	if out.VaultIndex, err = c.readU64LE(); err != nil {
		return out, err
	}
	if out.Amount, err = c.readU64LE(); err != nil {
		return out, err
	}
	return out, nil
}

func EncodeWithdrawFromVault(d WithdrawFromVaultData) []byte {
	out := []byte{byte(InstructionWithdrawFromVault)}
	out = appendU64LE(out, d.VaultIndex)
	out = appendU64LE(out, d.Amount)
	return out
}

// CloseVaultData is the decoded payload of a CloseVault instruction.
type CloseVaultData struct {
	VaultIndex uint64
}

func DecodeCloseVault(data []byte) (CloseVaultData, error) {
	c := newCursor(data)
	var out CloseVaultData
	var err error
	if out.VaultIndex, err = c.readU64LE(); err != nil {
		return out, err
	}
	return out, nil
}

func EncodeCloseVault(d CloseVaultData) []byte {
	out := []byte{byte(InstructionCloseVault)}
	out = appendU64LE(out, d.VaultIndex)
	return out
}

// BookTransferData is the decoded payload of a BookTransfer instruction.
type BookTransferData struct {
	Amount        uint64
	Destination   Pubkey
	VaultIndex    uint64
	TransferIndex uint64
	Warmup        int64
	Validity      int64
}

func DecodeBookTransfer(data []byte) (BookTransferData, error) {
	c := newCursor(data)
	var out BookTransferData
	var err error
	if out.Amount, err = c.readU64LE(); err != nil {
		return out, err
	}
	if out.Destination, err = c.readPubkey(); err != nil {
		return out, err
	}
	if out.VaultIndex, err = c.readU64LE(); err != nil {
		return out, err
	}
	if out.TransferIndex, err = c.readU64LE(); err != nil {
		return out, err
	}
	if out.Warmup, err = c.readI64LE(); err != nil {
		return out, err
	}
	if out.Validity, err = c.readI64LE(); err != nil {
		return out, err
	}
	return out, nil
}

func EncodeBookTransfer(d BookTransferData) []byte {
	out := []byte{byte(InstructionBookTransfer)}
	out = appendU64LE(out, d.Amount)
	out = appendPubkey(out, d.Destination)
	out = appendU64LE(out, d.VaultIndex)
	out = appendU64LE(out, d.TransferIndex)
	out = appendI64LE(out, d.Warmup)
	out = appendI64LE(out, d.Validity)
	return out
}

// ExecuteTransferData is the decoded payload of an ExecuteTransfer instruction.
type ExecuteTransferData struct {
	VaultIndex    uint64
	TransferIndex uint64
}

func DecodeExecuteTransfer(data []byte) (ExecuteTransferData, error) {
	c := newCursor(data)
	var out ExecuteTransferData
	var err error
	if out.VaultIndex, err = c.readU64LE(); err != nil {
		return out, err
	}
	if out.TransferIndex, err = c.readU64LE(); err != nil {
		return out, err
	}
	return out, nil
}

func EncodeExecuteTransfer(d ExecuteTransferData) []byte {
	out := []byte{byte(InstructionExecuteTransfer)}
	out = appendU64LE(out, d.VaultIndex)
	out = appendU64LE(out, d.TransferIndex)
	return out
}

// UnbookTransferData is the decoded payload of an UnbookTransfer instruction.
type UnbookTransferData struct {
	VaultIndex    uint64
	TransferIndex uint64
	Destination   Pubkey
}

func DecodeUnbookTransfer(data []byte) (UnbookTransferData, error) {
	c := newCursor(data)
	var out UnbookTransferData
	var err error
	if out.VaultIndex, err = c.readU64LE(); err != nil {
		return out, err
	}
	if out.TransferIndex, err = c.readU64LE(); err != nil {
		return out, err
	}
	if out.Destination, err = c.readPubkey(); err != nil {
		return out, err
	}
	return out, nil
}

func EncodeUnbookTransfer(d UnbookTransferData) []byte {
	out := []byte{byte(InstructionUnbookTransfer)}
	out = appendU64LE(out, d.VaultIndex)
	out = appendU64LE(out, d.TransferIndex)
	out = appendPubkey(out, d.Destination)
	return out
}
