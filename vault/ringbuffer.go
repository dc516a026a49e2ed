package vault

import "vaultd.dev/vault/accounts"

// inWindow reports whether a ring-buffer slot recorded at timestamp t still
// counts against the aggregate withdrawal cap at time now, given a vault
// timeframe T.
//
// t == 0 is the empty-slot sentinel (spec I5) and is never in-window.
// T == 0 is the documented "no time-based expiry" case: once written, a
// slot counts forever, and the vault's capacity is bounded only by N (slot
// count) and A (aggregate cap). Otherwise a slot is in-window while its
// expiry t+T has not yet passed.
func inWindow(t, timeframe, now int64) bool {
	if t == 0 {
		return false
	}
	if timeframe == 0 {
		return true
	}
	return t+timeframe >= now
}

// admitWithdrawal decides whether a withdrawal of amount at time now is
// admissible against vd's sliding window, and if so which ring-buffer slot
// it lands on.
//
// Writes always land on the slot the cursor names and advance the cursor by
// exactly one afterward, so the cursor always names the least-recently
// written slot: the single oldest entry currently tracked. A slot's expiry
// depends only on its own age, and every other tracked slot is strictly
// younger than the one at the cursor, so that one slot's window membership
// alone decides whether the ring has a free slot: if the oldest tracked
// entry is still in-window, so is every other one, and there is nowhere
// left to record a new withdrawal (WithdrawLimitReachedTransactions).
// Otherwise the cursor's slot — expired or never written — is free, and the
// aggregate sum of every still-in-window slot decides whether amount fits
// under the cap (WithdrawLimitReachedAmount). The aggregate cap is checked
// before the free slot, so a request that breaks both bounds fails with
// WithdrawLimitReachedAmount.
func admitWithdrawal(vd *VaultData, amount uint64, now int64) (slot uint64, err error) {
	n := vd.HistorySlotCount()
	if n == 0 {
		return 0, vaulterr(ErrWithdrawLimitReachedTransactions, "vault has no withdrawal slots")
	}
	timeframe := vd.Timeframe()
	maxAmount := vd.MaxAmount()

	var sum uint64
	for i := uint64(0); i < n; i++ {
		t, a := vd.HistoryAt(i)
		if !inWindow(t, timeframe, now) {
			continue
		}
		sum, err = addUint64(sum, a)
		if err != nil {
			return 0, err
		}
	}

	total, err := addUint64(sum, amount)
	if err != nil {
		return 0, err
	}
	if total > maxAmount {
		return 0, vaulterr(ErrWithdrawLimitReachedAmount, "aggregate withdrawal limit reached")
	}

	cursor := vd.Cursor()
	oldestTimestamp, _ := vd.HistoryAt(cursor)
	if inWindow(oldestTimestamp, timeframe, now) {
		return 0, vaulterr(ErrWithdrawLimitReachedTransactions, "no free withdrawal slot in window")
	}
	return cursor, nil
}

// Withdraw removes amount from the vault's custody account to destination,
// admitting the request against the sliding window and recording it in the
// ring buffer on success (spec §4.4).
//
// Account order: authority (signer), vault_data, vault_custody, destination,
// mint, token_program.
func Withdraw(ctx Context, acc []*accounts.Info, instructionData []byte) error {
	if len(acc) < 6 {
		return vaulterr(ErrNotEnoughAccountKeys, "withdraw requires 6 accounts")
	}
	authorityAcc, vaultDataAcc, vaultCustodyAcc, destinationAcc, mintAcc, tokenProgramAcc := acc[0], acc[1], acc[2], acc[3], acc[4], acc[5]

	req, err := DecodeWithdrawFromVault(instructionData)
	if err != nil {
		return err
	}

	if err := accounts.RequireSigner(authorityAcc, "authority"); err != nil {
		return vaulterr(ErrMissingRequiredSignature, err.Error())
	}
	if err := accounts.RequireWritable(vaultDataAcc, "vault_data"); err != nil {
		return vaulterr(ErrImmutable, err.Error())
	}
	if err := accounts.RequireWritable(vaultCustodyAcc, "vault_custody"); err != nil {
		return vaulterr(ErrImmutable, err.Error())
	}
	if err := accounts.RequireOwner(vaultDataAcc, ctx.ProgramID, "vault_data"); err != nil {
		return vaulterr(ErrIllegalOwner, err.Error())
	}
	if err := accounts.RequireInitialized(vaultCustodyAcc, "vault_custody"); err != nil {
		return vaulterr(ErrUninitializedAccount, err.Error())
	}

	vd, err := LoadVaultData(vaultDataAcc.Data)
	if err != nil {
		return err
	}
	if vd.Authority() != authorityAcc.Key {
		return vaulterr(ErrIllegalOwner, "withdraw authority mismatch")
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

	slot, err := admitWithdrawal(vd, req.Amount, ctx.now())
	if err != nil {
		return err
	}

	if err := ctx.Token.Transfer(vaultCustodyAcc, destinationAcc, vaultCustodyAcc.Key, req.Amount); err != nil {
		return err
	}

	vd.SetHistoryAt(slot, ctx.now(), req.Amount)
	vd.AdvanceCursor(slot + 1)
	return nil
}
