package vault

import "vaultd.dev/vault/accounts"

// Clock mirrors the clock sysvar every handler reads its "now" from: a
// monotonic, non-decreasing wall-clock reading supplied by the host runtime
// once per instruction (spec §5).
type Clock struct {
	UnixTimestamp int64
	Epoch         uint64
}

// TokenProgram is the narrow CPI contract this package needs from the
// fungible-token program spec.md places out of scope (§1 Non-goals): create
// a self-owned custody account, move tokens between two accounts authorized
// by a derived signer, read a balance, and close an empty account back to a
// destination. The tokensim package supplies the concrete implementation,
// wired in by runtime. Token balances move only through this interface; the
// handlers themselves move lamports only when they close a program-owned
// record (vault_data in CloseVault, transfer_data in Execute and Unbook).
type TokenProgram interface {
	InitializeAccount(account, mint *accounts.Info, selfAuthority Pubkey) error
	Transfer(from, to *accounts.Info, authority Pubkey, amount uint64) error
	CloseAccount(account, destination *accounts.Info, authority Pubkey) error
	Balance(account *accounts.Info) (uint64, error)
}

// SystemProgram is the narrow CPI contract for allocating a fresh
// program-owned account, signed with the derivation seeds the runtime holds
// on this package's behalf.
type SystemProgram interface {
	CreateAccount(payer, newAccount *accounts.Info, owner Pubkey, space uint64) error
}

// AssociatedTokenProgram idempotently creates a recipient's token account
// when the destination of an ExecuteTransfer doesn't already have one
// (spec §4.7).
type AssociatedTokenProgram interface {
	CreateIdempotent(payer, ata, walletOwner, mint *accounts.Info) error
}

// Context bundles everything a handler needs beyond the account list
// itself: the invoking program's own id (to re-derive and verify PDAs), the
// clock reading, and the three narrow CPI contracts.
type Context struct {
	ProgramID Pubkey
	Clock     Clock
	Token     TokenProgram
	System    SystemProgram
	ATA       AssociatedTokenProgram

	// TokenProgramID is the canonical fungible-token program every
	// token_program/mint account pair is checked against (spec §4.3,
	// §4.6): the handler never trusts a caller-supplied token_program
	// account as anything more than a PDA seed without this.
	TokenProgramID Pubkey
}

func (c Context) now() int64 { return c.Clock.UnixTimestamp }
