package accounts

import "fmt"

// PreambleError is returned by the Require* checks below; the vault package
// wraps these into its own typed vault.Error values so that callers outside
// this package never see a raw accounts error code, matching how the
// teacher's consensus package keeps one closed error enum at its boundary
// (consensus/errors.go).
type PreambleError struct {
	Field string
	Msg   string
}

func (e *PreambleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func fail(field, msg string) error {
	return &PreambleError{Field: field, Msg: msg}
}

// RequireSigner fails unless a is marked as having signed the transaction.
func RequireSigner(a *Info, field string) error {
	if a == nil || !a.IsSigner {
		return fail(field, "missing required signature")
	}
	return nil
}

// RequireWritable fails unless a is marked writable.
func RequireWritable(a *Info, field string) error {
	if a == nil || !a.IsWritable {
		return fail(field, "account not writable")
	}
	return nil
}

// RequireOwner fails unless a's owner matches want exactly.
func RequireOwner(a *Info, want Pubkey, field string) error {
	if a == nil || a.Owner != want {
		return fail(field, "illegal owner")
	}
	return nil
}

// RequireKey fails unless a's key matches want exactly (the derived-key
// comparison every handler performs per spec §4.1).
func RequireKey(a *Info, want Pubkey, field string) error {
	if a == nil || a.Key != want {
		return fail(field, "incorrect derived key")
	}
	return nil
}

// RequireInitialized fails unless a already exists (non-zero lamports).
func RequireInitialized(a *Info, field string) error {
	if !a.Exists() {
		return fail(field, "account uninitialized")
	}
	return nil
}

// RequireUninitialized fails unless a does not yet exist (zero lamports).
func RequireUninitialized(a *Info, field string) error {
	if a.Exists() {
		return fail(field, "account already initialized")
	}
	return nil
}
