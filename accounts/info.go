// Package accounts defines the account-view abstraction the vault package's
// handlers read and mutate: a stand-in for Solana's AccountInfo that exposes
// exactly what spec.md's account preamble needs (signer/writable flags,
// owner, lamports, raw data) without depending on any particular host
// runtime. Grounded on pinocchio's AccountInfo shape (original_source) and
// consensus/validate.go's per-field, typed-error-per-failure validation
// style from the teacher.
package accounts

// Pubkey is a raw 32-byte account key.
type Pubkey [32]byte

// IsZero reports whether p is the all-zero key, the convention this
// protocol uses for "account does not yet exist" (an uninitialized
// system-owned account with no lamports).
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// Equal reports whether two Pubkeys hold the same 32 bytes.
func (p Pubkey) Equal(o Pubkey) bool {
	return p == o
}

// Info is a mutable view of one account as seen by a single instruction
// invocation. Handlers only ever observe and mutate accounts through this
// type; nothing in the vault package touches a network or a filesystem.
type Info struct {
	Key        Pubkey
	Owner      Pubkey
	Lamports   uint64
	Data       []byte
	IsSigner   bool
	IsWritable bool
	Executable bool
}

// Exists reports whether the account has been initialized: non-zero
// lamports is the runtime's convention for "this account exists" (an
// uninitialized account has zero lamports and no owner but the system
// program).
func (a *Info) Exists() bool {
	return a != nil && a.Lamports > 0
}
