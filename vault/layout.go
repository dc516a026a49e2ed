package vault

// Fixed byte offsets for VaultData's header, per spec §3. All integers are
// little-endian; there is no padding and no serialization framework — the
// persisted bytes are read and mutated in place.
const (
	vdOffDiscriminator      = 0
	vdOffVersion            = 1
	vdOffAuthority          = 9
	vdOffTimeframe          = 41
	vdOffMaxAmount          = 49
	vdOffMaxTransactions    = 57
	vdOffAllowsTransfers    = 65
	vdOffTransferMinWarmup  = 66
	vdOffTransferMaxWindow  = 74
	vdOffOpenTransfers      = 82
	vdOffCursor             = 90
	vaultDataHeaderLen      = 98

	vaultHistorySlotLen = 16

	// DiscriminatorVaultData tags a VaultData account.
	DiscriminatorVaultData byte = 0
	// DiscriminatorTransferData tags a TransferData account.
	DiscriminatorTransferData byte = 10

	// RecordVersion is the persisted-record version this implementation
	// writes (spec §1: migration not specified). LoadVaultData and
	// LoadTransferData do not check the version field.
	RecordVersion uint64 = 1
)

// VaultData is the program-owned, mutable per-(authority, vault_index,
// mint, token_program) record. It owns a trailing ring buffer of N
// VaultHistory slots; NumSlots() reports N given the account's total data
// length.
type VaultData struct {
	raw []byte
}

// VaultDataSize returns the total byte length of a VaultData account with n
// history slots.
func VaultDataSize(n uint64) int {
	return vaultDataHeaderLen + int(n)*vaultHistorySlotLen
}

// NewVaultData initializes a fresh, zeroed VaultData header plus n empty
// history slots into buf, which must be exactly VaultDataSize(n) bytes.
func NewVaultData(buf []byte, authority Pubkey, timeframe int64, maxAmount, maxTransactions uint64, allowsTransfers bool, warmupMin, windowMax int64) (*VaultData, error) {
	if len(buf) != VaultDataSize(maxTransactions) {
		return nil, vaulterr(ErrAccountDataTooSmall, "vault data buffer size mismatch")
	}
	v := &VaultData{raw: buf}
	buf[vdOffDiscriminator] = DiscriminatorVaultData
	putU64LE(buf, vdOffVersion, RecordVersion)
	copy(buf[vdOffAuthority:vdOffAuthority+32], authority[:])
	putI64LE(buf, vdOffTimeframe, timeframe)
	putU64LE(buf, vdOffMaxAmount, maxAmount)
	putU64LE(buf, vdOffMaxTransactions, maxTransactions)
	if allowsTransfers {
		buf[vdOffAllowsTransfers] = 1
	} else {
		buf[vdOffAllowsTransfers] = 0
	}
	putI64LE(buf, vdOffTransferMinWarmup, warmupMin)
	putI64LE(buf, vdOffTransferMaxWindow, windowMax)
	putU64LE(buf, vdOffOpenTransfers, 0)
	putU64LE(buf, vdOffCursor, 0)
	// History slots already zeroed by the caller (fresh account allocation).
	return v, nil
}

// LoadVaultData wraps an existing account's bytes for in-place reads and
// mutations. It checks the discriminator and minimum length but does not
// copy: callers hold a view into the caller-owned account buffer.
func LoadVaultData(buf []byte) (*VaultData, error) {
	if len(buf) < vaultDataHeaderLen {
		return nil, vaulterr(ErrAccountDataTooSmall, "vault data too small")
	}
	if buf[vdOffDiscriminator] != DiscriminatorVaultData {
		return nil, vaulterr(ErrUninitializedAccount, "vault data discriminator mismatch")
	}
	if (len(buf)-vaultDataHeaderLen)%vaultHistorySlotLen != 0 {
		return nil, vaulterr(ErrAccountDataTooSmall, "vault data history not slot-aligned")
	}
	return &VaultData{raw: buf}, nil
}

func (v *VaultData) Version() uint64         { return getU64LE(v.raw, vdOffVersion) }
func (v *VaultData) Authority() Pubkey       { var pk Pubkey; copy(pk[:], v.raw[vdOffAuthority:vdOffAuthority+32]); return pk }
func (v *VaultData) Timeframe() int64        { return getI64LE(v.raw, vdOffTimeframe) }
func (v *VaultData) MaxAmount() uint64       { return getU64LE(v.raw, vdOffMaxAmount) }
func (v *VaultData) MaxTransactions() uint64 { return getU64LE(v.raw, vdOffMaxTransactions) }
func (v *VaultData) AllowsTransfers() bool   { return v.raw[vdOffAllowsTransfers] != 0 }
func (v *VaultData) TransferMinWarmup() int64 { return getI64LE(v.raw, vdOffTransferMinWarmup) }
func (v *VaultData) TransferMaxWindow() int64 { return getI64LE(v.raw, vdOffTransferMaxWindow) }
func (v *VaultData) OpenTransfers() uint64   { return getU64LE(v.raw, vdOffOpenTransfers) }
func (v *VaultData) Cursor() uint64          { return getU64LE(v.raw, vdOffCursor) }

func (v *VaultData) setOpenTransfers(n uint64) { putU64LE(v.raw, vdOffOpenTransfers, n) }
func (v *VaultData) setCursor(n uint64)        { putU64LE(v.raw, vdOffCursor, n) }

// IncrementOpenTransfers bumps open_transfers by one, failing closed on
// overflow per §5 arithmetic rules.
func (v *VaultData) IncrementOpenTransfers() error {
	cur := v.OpenTransfers()
	if cur == ^uint64(0) {
		return vaulterr(ErrArithmeticOverflow, "open_transfers overflow")
	}
	v.setOpenTransfers(cur + 1)
	return nil
}

// DecrementOpenTransfers reduces open_transfers by one; it is a protocol
// invariant (I2) that this is never called at zero.
func (v *VaultData) DecrementOpenTransfers() error {
	cur := v.OpenTransfers()
	if cur == 0 {
		return vaulterr(ErrArithmeticOverflow, "open_transfers underflow")
	}
	v.setOpenTransfers(cur - 1)
	return nil
}

// HistorySlotCount reports N, the number of trailing VaultHistory slots.
func (v *VaultData) HistorySlotCount() uint64 {
	return uint64((len(v.raw) - vaultDataHeaderLen) / vaultHistorySlotLen)
}

func (v *VaultData) slotOffset(i uint64) int {
	return vaultDataHeaderLen + int(i)*vaultHistorySlotLen
}

// HistoryAt returns the timestamp and amount recorded in ring-buffer slot i.
// A zero timestamp is the empty-slot sentinel (spec I5).
func (v *VaultData) HistoryAt(i uint64) (timestamp int64, amount uint64) {
	off := v.slotOffset(i)
	return getI64LE(v.raw, off), getU64LE(v.raw, off+8)
}

// SetHistoryAt overwrites ring-buffer slot i in place.
func (v *VaultData) SetHistoryAt(i uint64, timestamp int64, amount uint64) {
	off := v.slotOffset(i)
	putI64LE(v.raw, off, timestamp)
	putU64LE(v.raw, off+8, amount)
}

// AdvanceCursor sets the ring-buffer write cursor to i mod N.
func (v *VaultData) AdvanceCursor(i uint64) {
	n := v.HistorySlotCount()
	if n == 0 {
		v.setCursor(0)
		return
	}
	v.setCursor(i % n)
}

// Bytes returns the underlying account byte slice (for tests and storage).
func (v *VaultData) Bytes() []byte { return v.raw }

// Fixed byte offsets for TransferData, per spec §3.
const (
	tdOffDiscriminator = 0
	tdOffVersion       = 1
	tdOffVaultData     = 9
	tdOffDestination   = 41
	tdOffAmount        = 73
	tdOffCreatedAt     = 81
	tdOffCreatedEpoch  = 89
	tdOffWarmup        = 97
	tdOffValidity      = 105
	transferDataSize   = 113
)

// TransferDataSize is the fixed size of every TransferData account.
const TransferDataSize = transferDataSize

// TransferData is the program-owned record backing one in-flight booking.
type TransferData struct {
	raw []byte
}

// NewTransferData initializes a fresh TransferData record into buf, which
// must be exactly TransferDataSize bytes.
func NewTransferData(buf []byte, vaultData, destination Pubkey, amount uint64, createdAt, createdEpoch int64, warmup, validity int64) (*TransferData, error) {
	if len(buf) != transferDataSize {
		return nil, vaulterr(ErrAccountDataTooSmall, "transfer data buffer size mismatch")
	}
	t := &TransferData{raw: buf}
	buf[tdOffDiscriminator] = DiscriminatorTransferData
	putU64LE(buf, tdOffVersion, RecordVersion)
	copy(buf[tdOffVaultData:tdOffVaultData+32], vaultData[:])
	copy(buf[tdOffDestination:tdOffDestination+32], destination[:])
	putU64LE(buf, tdOffAmount, amount)
	putI64LE(buf, tdOffCreatedAt, createdAt)
	putI64LE(buf, tdOffCreatedEpoch, createdEpoch)
	putI64LE(buf, tdOffWarmup, warmup)
	putI64LE(buf, tdOffValidity, validity)
	return t, nil
}

// LoadTransferData wraps an existing TransferData account's bytes.
func LoadTransferData(buf []byte) (*TransferData, error) {
	if len(buf) != transferDataSize {
		return nil, vaulterr(ErrAccountDataTooSmall, "transfer data size mismatch")
	}
	if buf[tdOffDiscriminator] != DiscriminatorTransferData {
		return nil, vaulterr(ErrUninitializedAccount, "transfer data discriminator mismatch")
	}
	return &TransferData{raw: buf}, nil
}

func (t *TransferData) Version() uint64 { return getU64LE(t.raw, tdOffVersion) }
func (t *TransferData) VaultData() Pubkey {
	var pk Pubkey
	copy(pk[:], t.raw[tdOffVaultData:tdOffVaultData+32])
	return pk
}
func (t *TransferData) Destination() Pubkey {
	var pk Pubkey
	copy(pk[:], t.raw[tdOffDestination:tdOffDestination+32])
	return pk
}
func (t *TransferData) Amount() uint64      { return getU64LE(t.raw, tdOffAmount) }
func (t *TransferData) CreatedAt() int64    { return getI64LE(t.raw, tdOffCreatedAt) }
func (t *TransferData) CreatedEpoch() int64 { return getI64LE(t.raw, tdOffCreatedEpoch) }
func (t *TransferData) Warmup() int64       { return getI64LE(t.raw, tdOffWarmup) }
func (t *TransferData) Validity() int64     { return getI64LE(t.raw, tdOffValidity) }

// Bytes returns the underlying account byte slice.
func (t *TransferData) Bytes() []byte { return t.raw }
