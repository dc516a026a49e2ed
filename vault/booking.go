package vault

import "vaultd.dev/vault/accounts"

// Book creates an escrowed transfer: TransferData plus a self-owned
// DepositCustody funded from the vault's own custody (spec §4.7).
//
// Account order: authority (signer), vault_data, vault_custody, transfer_data
// (uninitialized), deposit_custody (uninitialized), destination, mint,
// token_program.
func Book(ctx Context, acc []*accounts.Info, instructionData []byte) error {
	if len(acc) < 8 {
		return vaulterr(ErrNotEnoughAccountKeys, "book requires 8 accounts")
	}
	authorityAcc, vaultDataAcc, vaultCustodyAcc, transferDataAcc, depositCustodyAcc, destinationAcc, mintAcc, tokenProgramAcc :=
		acc[0], acc[1], acc[2], acc[3], acc[4], acc[5], acc[6], acc[7]

	req, err := DecodeBookTransfer(instructionData)
	if err != nil {
		return err
	}

	if err := accounts.RequireSigner(authorityAcc, "authority"); err != nil {
		return vaulterr(ErrMissingRequiredSignature, err.Error())
	}
	if err := accounts.RequireOwner(vaultDataAcc, ctx.ProgramID, "vault_data"); err != nil {
		return vaulterr(ErrIllegalOwner, err.Error())
	}
	if err := accounts.RequireUninitialized(transferDataAcc, "transfer_data"); err != nil {
		return vaulterr(ErrAccountAlreadyInitialized, err.Error())
	}
	if err := accounts.RequireUninitialized(depositCustodyAcc, "deposit_custody"); err != nil {
		return vaulterr(ErrAccountAlreadyInitialized, err.Error())
	}
	if err := accounts.RequireInitialized(vaultCustodyAcc, "vault_custody"); err != nil {
		return vaulterr(ErrUninitializedAccount, err.Error())
	}
	if err := requireCanonicalTokenProgram(ctx, tokenProgramAcc, mintAcc); err != nil {
		return err
	}

	vd, err := LoadVaultData(vaultDataAcc.Data)
	if err != nil {
		return err
	}
	if vd.Authority() != authorityAcc.Key {
		return vaulterr(ErrIllegalOwner, "book authority mismatch")
	}
	if !vd.AllowsTransfers() {
		return vaulterr(ErrVaultWarmupViolation, "vault does not allow transfers")
	}

	if req.Warmup < 0 || req.Validity < 0 {
		return vaulterr(ErrVaultWarmupViolation, "negative warmup or validity")
	}
	if req.Warmup < vd.TransferMinWarmup() {
		return vaulterr(ErrVaultWarmupViolation, "warmup below vault minimum")
	}
	if req.Warmup > vd.TransferMaxWindow() {
		return vaulterr(ErrVaultWarmupViolation, "warmup above vault maximum window")
	}
	if req.Validity > vd.TransferMaxWindow() {
		return vaulterr(ErrVaultWarmupViolation, "validity above vault maximum")
	}

	expectedData, _, err := DeriveVaultData(ctx.ProgramID, vd.Authority(), req.VaultIndex, mintAcc.Key, tokenProgramAcc.Key)
	if err != nil {
		return err
	}
	if err := accounts.RequireKey(vaultDataAcc, expectedData, "vault_data"); err != nil {
		return vaulterr(ErrIncorrectPDA, err.Error())
	}
	expectedCustody, _, err := DeriveVaultCustody(ctx.ProgramID, vd.Authority(), req.VaultIndex, mintAcc.Key, tokenProgramAcc.Key)
	if err != nil {
		return err
	}
	if err := accounts.RequireKey(vaultCustodyAcc, expectedCustody, "vault_custody"); err != nil {
		return vaulterr(ErrIncorrectPDA, err.Error())
	}
	expectedTransfer, _, err := DeriveTransferData(ctx.ProgramID, vd.Authority(), req.VaultIndex, req.TransferIndex, req.Destination, mintAcc.Key, tokenProgramAcc.Key)
	if err != nil {
		return err
	}
	if err := accounts.RequireKey(transferDataAcc, expectedTransfer, "transfer_data"); err != nil {
		return vaulterr(ErrIncorrectPDA, err.Error())
	}
	expectedDepositCustody, _, err := DeriveDepositCustody(ctx.ProgramID, vd.Authority(), req.VaultIndex, req.TransferIndex, req.Destination, mintAcc.Key, tokenProgramAcc.Key)
	if err != nil {
		return err
	}
	if err := accounts.RequireKey(depositCustodyAcc, expectedDepositCustody, "deposit_custody"); err != nil {
		return vaulterr(ErrIncorrectPDA, err.Error())
	}
	if err := accounts.RequireKey(destinationAcc, req.Destination, "destination"); err != nil {
		return vaulterr(ErrDestinationMismatch, err.Error())
	}

	custodyBalance, err := ctx.Token.Balance(vaultCustodyAcc)
	if err != nil {
		return err
	}
	if custodyBalance < req.Amount {
		return vaulterr(ErrWithdrawLimitReachedAmount, "vault custody balance insufficient for booking")
	}

	if err := ctx.System.CreateAccount(authorityAcc, transferDataAcc, ctx.ProgramID, uint64(TransferDataSize)); err != nil {
		return err
	}
	transferDataAcc.Data = make([]byte, TransferDataSize)
	if _, err := NewTransferData(transferDataAcc.Data, vaultDataAcc.Key, req.Destination, req.Amount, ctx.Clock.UnixTimestamp, int64(ctx.Clock.Epoch), req.Warmup, req.Validity); err != nil {
		return err
	}

	if err := ctx.Token.InitializeAccount(depositCustodyAcc, mintAcc, depositCustodyAcc.Key); err != nil {
		return err
	}
	if err := ctx.Token.Transfer(vaultCustodyAcc, depositCustodyAcc, vaultCustodyAcc.Key, req.Amount); err != nil {
		return err
	}

	return vd.IncrementOpenTransfers()
}

// Execute delivers a matured booking's escrowed funds to its destination
// and closes both the TransferData and DepositCustody accounts (spec §4.7).
//
// Account order: payer (signer), vault_data, vault_custody, transfer_data,
// deposit_custody, destination, mint, token_program, and, only when
// destination does not yet exist, the destination wallet's owner so the
// handler can CPI the associated-token-helper to create it (spec §4.7).
func Execute(ctx Context, acc []*accounts.Info, instructionData []byte) error {
	if len(acc) < 8 {
		return vaulterr(ErrNotEnoughAccountKeys, "execute requires 8 accounts")
	}
	payerAcc, vaultDataAcc, vaultCustodyAcc, transferDataAcc, depositCustodyAcc, destinationAcc, mintAcc, tokenProgramAcc :=
		acc[0], acc[1], acc[2], acc[3], acc[4], acc[5], acc[6], acc[7]

	req, err := DecodeExecuteTransfer(instructionData)
	if err != nil {
		return err
	}

	if err := accounts.RequireSigner(payerAcc, "payer"); err != nil {
		return vaulterr(ErrMissingRequiredSignature, err.Error())
	}
	if err := accounts.RequireOwner(vaultDataAcc, ctx.ProgramID, "vault_data"); err != nil {
		return vaulterr(ErrIllegalOwner, err.Error())
	}
	if err := accounts.RequireOwner(transferDataAcc, ctx.ProgramID, "transfer_data"); err != nil {
		return vaulterr(ErrIllegalOwner, err.Error())
	}
	if err := accounts.RequireInitialized(depositCustodyAcc, "deposit_custody"); err != nil {
		return vaulterr(ErrUninitializedAccount, err.Error())
	}

	vd, err := LoadVaultData(vaultDataAcc.Data)
	if err != nil {
		return err
	}
	td, err := LoadTransferData(transferDataAcc.Data)
	if err != nil {
		return err
	}
	if td.VaultData() != vaultDataAcc.Key {
		return vaulterr(ErrIncorrectPDA, "transfer_data does not belong to vault_data")
	}

	expectedTransfer, _, err := DeriveTransferData(ctx.ProgramID, vd.Authority(), req.VaultIndex, req.TransferIndex, td.Destination(), mintAcc.Key, tokenProgramAcc.Key)
	if err != nil {
		return err
	}
	if err := accounts.RequireKey(transferDataAcc, expectedTransfer, "transfer_data"); err != nil {
		return vaulterr(ErrIncorrectPDA, err.Error())
	}
	expectedDepositCustody, _, err := DeriveDepositCustody(ctx.ProgramID, vd.Authority(), req.VaultIndex, req.TransferIndex, td.Destination(), mintAcc.Key, tokenProgramAcc.Key)
	if err != nil {
		return err
	}
	if err := accounts.RequireKey(depositCustodyAcc, expectedDepositCustody, "deposit_custody"); err != nil {
		return vaulterr(ErrIncorrectPDA, err.Error())
	}
	if err := accounts.RequireKey(destinationAcc, td.Destination(), "destination"); err != nil {
		return vaulterr(ErrDestinationMismatch, err.Error())
	}

	now := ctx.now()
	if now < td.CreatedAt()+td.Warmup() {
		return vaulterr(ErrTransferWarmingUp, "warmup has not elapsed")
	}
	if now > td.CreatedAt()+td.Validity() {
		return vaulterr(ErrTransferExpired, "transfer validity window has passed")
	}

	if !destinationAcc.Exists() {
		if len(acc) < 9 {
			return vaulterr(ErrNotEnoughAccountKeys, "destination wallet owner required to create destination")
		}
		walletOwnerAcc := acc[8]
		if err := ctx.ATA.CreateIdempotent(payerAcc, destinationAcc, walletOwnerAcc, mintAcc); err != nil {
			return err
		}
	}

	if err := ctx.Token.Transfer(depositCustodyAcc, destinationAcc, depositCustodyAcc.Key, td.Amount()); err != nil {
		return err
	}
	if err := ctx.Token.CloseAccount(depositCustodyAcc, vaultCustodyAcc, depositCustodyAcc.Key); err != nil {
		return err
	}

	if err := vd.DecrementOpenTransfers(); err != nil {
		return err
	}
	payerAcc.Lamports += transferDataAcc.Lamports
	transferDataAcc.Lamports = 0
	transferDataAcc.Data = nil
	transferDataAcc.Owner = Pubkey{}
	return nil
}

// Unbook cancels a live booking, returning the deposit custody's current
// balance (not merely the recorded TransferData.amount, defending against
// residues) to the vault custody, and closes both escrow accounts
// (spec §4.7).
//
// Account order: authority (signer), vault_data, vault_custody,
// transfer_data, deposit_custody, mint, token_program.
func Unbook(ctx Context, acc []*accounts.Info, instructionData []byte) error {
	if len(acc) < 7 {
		return vaulterr(ErrNotEnoughAccountKeys, "unbook requires 7 accounts")
	}
	authorityAcc, vaultDataAcc, vaultCustodyAcc, transferDataAcc, depositCustodyAcc, mintAcc, tokenProgramAcc :=
		acc[0], acc[1], acc[2], acc[3], acc[4], acc[5], acc[6]

	req, err := DecodeUnbookTransfer(instructionData)
	if err != nil {
		return err
	}

	if err := accounts.RequireSigner(authorityAcc, "authority"); err != nil {
		return vaulterr(ErrMissingRequiredSignature, err.Error())
	}
	if err := accounts.RequireOwner(vaultDataAcc, ctx.ProgramID, "vault_data"); err != nil {
		return vaulterr(ErrIllegalOwner, err.Error())
	}
	if err := accounts.RequireOwner(transferDataAcc, ctx.ProgramID, "transfer_data"); err != nil {
		return vaulterr(ErrIllegalOwner, err.Error())
	}
	if err := accounts.RequireInitialized(depositCustodyAcc, "deposit_custody"); err != nil {
		return vaulterr(ErrUninitializedAccount, err.Error())
	}

	vd, err := LoadVaultData(vaultDataAcc.Data)
	if err != nil {
		return err
	}
	if vd.Authority() != authorityAcc.Key {
		return vaulterr(ErrIllegalOwner, "unbook authority mismatch")
	}
	td, err := LoadTransferData(transferDataAcc.Data)
	if err != nil {
		return err
	}
	if td.VaultData() != vaultDataAcc.Key {
		return vaulterr(ErrIncorrectPDA, "transfer_data does not belong to vault_data")
	}

	expectedTransfer, _, err := DeriveTransferData(ctx.ProgramID, vd.Authority(), req.VaultIndex, req.TransferIndex, req.Destination, mintAcc.Key, tokenProgramAcc.Key)
	if err != nil {
		return err
	}
	if err := accounts.RequireKey(transferDataAcc, expectedTransfer, "transfer_data"); err != nil {
		return vaulterr(ErrIncorrectPDA, err.Error())
	}
	expectedDepositCustody, _, err := DeriveDepositCustody(ctx.ProgramID, vd.Authority(), req.VaultIndex, req.TransferIndex, req.Destination, mintAcc.Key, tokenProgramAcc.Key)
	if err != nil {
		return err
	}
	if err := accounts.RequireKey(depositCustodyAcc, expectedDepositCustody, "deposit_custody"); err != nil {
		return vaulterr(ErrIncorrectPDA, err.Error())
	}

	balance, err := ctx.Token.Balance(depositCustodyAcc)
	if err != nil {
		return err
	}
	if balance > 0 {
		if err := ctx.Token.Transfer(depositCustodyAcc, vaultCustodyAcc, depositCustodyAcc.Key, balance); err != nil {
			return err
		}
	}
	if err := ctx.Token.CloseAccount(depositCustodyAcc, vaultCustodyAcc, depositCustodyAcc.Key); err != nil {
		return err
	}

	if err := vd.DecrementOpenTransfers(); err != nil {
		return err
	}
	authorityAcc.Lamports += transferDataAcc.Lamports
	transferDataAcc.Lamports = 0
	transferDataAcc.Data = nil
	transferDataAcc.Owner = Pubkey{}
	return nil
}
