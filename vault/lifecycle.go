package vault

import "vaultd.dev/vault/accounts"

// CreateVault allocates a fresh VaultData record and its self-owned
// VaultCustody token account (spec §4.5).
//
// Account order: authority (signer), vault_data (uninitialized), vault_custody
// (uninitialized), mint, token_program.
func CreateVault(ctx Context, acc []*accounts.Info, instructionData []byte) error {
	if len(acc) < 5 {
		return vaulterr(ErrNotEnoughAccountKeys, "create_vault requires 5 accounts")
	}
	authorityAcc, vaultDataAcc, vaultCustodyAcc, mintAcc, tokenProgramAcc := acc[0], acc[1], acc[2], acc[3], acc[4]

	req, err := DecodeCreateVault(instructionData)
	if err != nil {
		return err
	}

	if err := accounts.RequireSigner(authorityAcc, "authority"); err != nil {
		return vaulterr(ErrMissingRequiredSignature, err.Error())
	}
	if err := accounts.RequireUninitialized(vaultDataAcc, "vault_data"); err != nil {
		return vaulterr(ErrAccountAlreadyInitialized, err.Error())
	}
	if err := accounts.RequireUninitialized(vaultCustodyAcc, "vault_custody"); err != nil {
		return vaulterr(ErrAccountAlreadyInitialized, err.Error())
	}
	if err := requireCanonicalTokenProgram(ctx, tokenProgramAcc, mintAcc); err != nil {
		return err
	}

	expectedData, _, err := DeriveVaultData(ctx.ProgramID, authorityAcc.Key, req.VaultIndex, mintAcc.Key, tokenProgramAcc.Key)
	if err != nil {
		return err
	}
	if err := accounts.RequireKey(vaultDataAcc, expectedData, "vault_data"); err != nil {
		return vaulterr(ErrIncorrectPDA, err.Error())
	}
	expectedCustody, _, err := DeriveVaultCustody(ctx.ProgramID, authorityAcc.Key, req.VaultIndex, mintAcc.Key, tokenProgramAcc.Key)
	if err != nil {
		return err
	}
	if err := accounts.RequireKey(vaultCustodyAcc, expectedCustody, "vault_custody"); err != nil {
		return vaulterr(ErrIncorrectPDA, err.Error())
	}

	size := VaultDataSize(req.MaxTransactions)
	if err := ctx.System.CreateAccount(authorityAcc, vaultDataAcc, ctx.ProgramID, uint64(size)); err != nil {
		return err
	}
	vaultDataAcc.Data = make([]byte, size)
	if _, err := NewVaultData(vaultDataAcc.Data, authorityAcc.Key, req.Timeframe, req.MaxAmount, req.MaxTransactions, req.AllowsTransfers, req.TransferMinWarmup, req.TransferMaxWindow); err != nil {
		return err
	}

	if err := ensureCustody(ctx, vaultCustodyAcc, mintAcc, tokenProgramAcc); err != nil {
		return err
	}
	return nil
}

// requireCanonicalTokenProgram checks that tokenProgram is the runtime's
// configured token program id and that mint is owned by it (spec §4.3,
// §4.6): CreateVault, Deposit, Book, and CloseVault all route their
// token_program/mint accounts through this before deriving anything from
// them, so neither is trusted as bare PDA seed material.
func requireCanonicalTokenProgram(ctx Context, tokenProgramAcc, mintAcc *accounts.Info) error {
	if err := accounts.RequireKey(tokenProgramAcc, ctx.TokenProgramID, "token_program"); err != nil {
		return vaulterr(ErrInvalidTokenProgram, err.Error())
	}
	if err := accounts.RequireOwner(mintAcc, ctx.TokenProgramID, "mint"); err != nil {
		return vaulterr(ErrUnsupportedTokenProgram, err.Error())
	}
	return nil
}

// ensureCustody lazily creates and initializes a self-owned custody token
// account if it does not yet exist; CreateVault and Deposit share this
// routine (spec §9's "lazy custody creation" note). Guard against
// pre-initialization attacks by only proceeding when the account is either
// already owned by the canonical token program (no-op) or genuinely
// uninitialized.
func ensureCustody(ctx Context, custody, mint, tokenProgram *accounts.Info) error {
	if custody.Exists() {
		if custody.Owner != tokenProgram.Key {
			return vaulterr(ErrIllegalOwner, "custody pre-initialized by another owner")
		}
		return nil
	}
	return ctx.Token.InitializeAccount(custody, mint, custody.Key)
}

// CloseVault closes an empty, transfer-free vault, returning all lamports
// to the authority (spec §4.5, invariant I4).
//
// Account order: authority (signer), vault_data, vault_custody, mint,
// token_program.
func CloseVault(ctx Context, acc []*accounts.Info, instructionData []byte) error {
	if len(acc) < 5 {
		return vaulterr(ErrNotEnoughAccountKeys, "close_vault requires 5 accounts")
	}
	authorityAcc, vaultDataAcc, vaultCustodyAcc, mintAcc, tokenProgramAcc := acc[0], acc[1], acc[2], acc[3], acc[4]

	req, err := DecodeCloseVault(instructionData)
	if err != nil {
		return err
	}

	if err := accounts.RequireSigner(authorityAcc, "authority"); err != nil {
		return vaulterr(ErrMissingRequiredSignature, err.Error())
	}
	if err := accounts.RequireOwner(vaultDataAcc, ctx.ProgramID, "vault_data"); err != nil {
		return vaulterr(ErrIllegalOwner, err.Error())
	}
	if err := requireCanonicalTokenProgram(ctx, tokenProgramAcc, mintAcc); err != nil {
		return err
	}
	if err := accounts.RequireInitialized(vaultCustodyAcc, "vault_custody"); err != nil {
		return vaulterr(ErrUninitializedAccount, err.Error())
	}

	vd, err := LoadVaultData(vaultDataAcc.Data)
	if err != nil {
		return err
	}
	if vd.Authority() != authorityAcc.Key {
		return vaulterr(ErrIllegalOwner, "close authority mismatch")
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

	if vd.OpenTransfers() != 0 {
		return vaulterr(ErrVaultHasOpenTransfers, "vault has open transfers")
	}
	balance, err := ctx.Token.Balance(vaultCustodyAcc)
	if err != nil {
		return err
	}
	if balance != 0 {
		return vaulterr(ErrVaultIsNotEmpty, "vault custody is not empty")
	}

	if err := ctx.Token.CloseAccount(vaultCustodyAcc, authorityAcc, vaultCustodyAcc.Key); err != nil {
		return err
	}

	authorityAcc.Lamports += vaultDataAcc.Lamports
	vaultDataAcc.Lamports = 0
	vaultDataAcc.Data = nil
	vaultDataAcc.Owner = Pubkey{}
	return nil
}
