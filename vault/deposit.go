package vault

import "vaultd.dev/vault/accounts"

// Deposit moves amount from the caller's own token account into the
// vault's custody (spec §4.6). The custody passes through ensureCustody,
// which initializes a missing custody; but Deposit first requires an
// existing vault_data record, which only CreateVault creates, together with
// the custody, so a deposit cannot precede CreateVault. No vault-data state
// is recorded: deposits are unrestricted by design, only withdrawals are
// rate-limited.
//
// Account order: from_authority (signer), from_token_account, vault_data,
// vault_custody, mint, token_program.
func Deposit(ctx Context, acc []*accounts.Info, instructionData []byte) error {
	if len(acc) < 6 {
		return vaulterr(ErrNotEnoughAccountKeys, "deposit requires 6 accounts")
	}
	fromAuthorityAcc, fromTokenAcc, vaultDataAcc, vaultCustodyAcc, mintAcc, tokenProgramAcc := acc[0], acc[1], acc[2], acc[3], acc[4], acc[5]

	req, err := DecodeDepositToVault(instructionData)
	if err != nil {
		return err
	}

	if err := accounts.RequireSigner(fromAuthorityAcc, "from_authority"); err != nil {
		return vaulterr(ErrMissingRequiredSignature, err.Error())
	}
	if err := accounts.RequireOwner(vaultDataAcc, ctx.ProgramID, "vault_data"); err != nil {
		return vaulterr(ErrIllegalOwner, err.Error())
	}
	if err := requireCanonicalTokenProgram(ctx, tokenProgramAcc, mintAcc); err != nil {
		return err
	}

	vd, err := LoadVaultData(vaultDataAcc.Data)
	if err != nil {
		return err
	}
	if vd.Authority() != req.VaultOwner {
		return vaulterr(ErrIllegalOwner, "vault_owner mismatch")
	}

	expectedData, _, err := DeriveVaultData(ctx.ProgramID, req.VaultOwner, req.VaultIndex, mintAcc.Key, tokenProgramAcc.Key)
	if err != nil {
		return err
	}
	if err := accounts.RequireKey(vaultDataAcc, expectedData, "vault_data"); err != nil {
		return vaulterr(ErrIncorrectPDA, err.Error())
	}
	expectedCustody, _, err := DeriveVaultCustody(ctx.ProgramID, req.VaultOwner, req.VaultIndex, mintAcc.Key, tokenProgramAcc.Key)
	if err != nil {
		return err
	}
	if err := accounts.RequireKey(vaultCustodyAcc, expectedCustody, "vault_custody"); err != nil {
		return vaulterr(ErrIncorrectPDA, err.Error())
	}

	if err := ensureCustody(ctx, vaultCustodyAcc, mintAcc, tokenProgramAcc); err != nil {
		return err
	}

	return ctx.Token.Transfer(fromTokenAcc, vaultCustodyAcc, fromAuthorityAcc.Key, req.Amount)
}
