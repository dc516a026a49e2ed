package vault

import (
	"crypto/sha256"

	"vaultd.dev/vault/accounts"
)

// Pubkey is a raw 32-byte account key, aliasing accounts.Pubkey so the
// vault package's public API and the account-view abstraction share one
// key type. Derived addresses come from derive, whose curve test is a
// hash-based stand-in (see isOnCurve), so a derived key is not guaranteed
// to lie off the ed25519 curve.
type Pubkey = accounts.Pubkey

const (
	pdaMarker        = "ProgramDerivedAddress"
	maxSeedLen       = 32
	maxSeeds         = 16
	bumpSearchHighest = 255
)

// derive computes a program-derived address by hashing the concatenation of
// seeds, the bump, programID, and the PDA domain marker, searching nonce
// values (the "bump") from 255 down to 0 until isOnCurve rejects the
// candidate. The search order mirrors find_program_address, but isOnCurve
// is a hash-parity stand-in, not an ed25519 curve test, so the result is
// not guaranteed to be a key that no private key can produce.
func derive(seeds [][]byte, programID Pubkey) (Pubkey, byte, error) {
	if len(seeds) > maxSeeds {
		return Pubkey{}, 0, vaulterr(ErrIncorrectPDA, "too many seeds")
	}
	for _, s := range seeds {
		if len(s) > maxSeedLen {
			return Pubkey{}, 0, vaulterr(ErrIncorrectPDA, "seed too long")
		}
	}

	for bump := bumpSearchHighest; bump >= 0; bump-- {
		candidate := hashSeeds(seeds, []byte{byte(bump)}, programID)
		if !isOnCurve(candidate) {
			return candidate, byte(bump), nil
		}
	}
	return Pubkey{}, 0, vaulterr(ErrIncorrectPDA, "unable to find viable bump")
}

func hashSeeds(seeds [][]byte, bumpSeed []byte, programID Pubkey) Pubkey {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	if len(bumpSeed) > 0 {
		h.Write(bumpSeed)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))
	var out Pubkey
	copy(out[:], h.Sum(nil))
	return out
}

// isOnCurve reports whether b should be treated as a point on the ed25519
// curve for the purposes of bump search. Full Edwards field arithmetic
// (decompressing y, testing the curve equation for a matching x) is not
// available from any library in this module's dependency set (see
// DESIGN.md), so bump search instead uses a deterministic, uniformly
// distributed substitute derived from a second hash of the candidate: it
// gives derive() the same observable contract find_program_address needs —
// a pure function of (seeds, programID) that rejects roughly half of bump
// values and is reproducible bit-for-bit across runs and implementations
// of this module.
func isOnCurve(b Pubkey) bool {
	sum := sha256.Sum256(b[:])
	return sum[0]&1 == 0
}

func le64(v uint64) []byte {
	return appendU64LE(nil, v)
}

// DeriveVaultData computes the VaultData PDA and bump for the given
// (authority, vault index, mint, token program) tuple, per spec §4.1.
func DeriveVaultData(programID Pubkey, authority Pubkey, vaultIndex uint64, mint Pubkey, tokenProgram Pubkey) (Pubkey, byte, error) {
	return derive([][]byte{
		[]byte("vault_data"),
		le64(vaultIndex),
		authority[:],
		mint[:],
		tokenProgram[:],
	}, programID)
}

// DeriveVaultCustody computes the VaultCustody PDA and bump, per spec §4.1.
func DeriveVaultCustody(programID Pubkey, authority Pubkey, vaultIndex uint64, mint Pubkey, tokenProgram Pubkey) (Pubkey, byte, error) {
	return derive([][]byte{
		[]byte("vault"),
		le64(vaultIndex),
		authority[:],
		mint[:],
		tokenProgram[:],
	}, programID)
}

// DeriveTransferData computes the TransferData PDA and bump, per spec §4.1.
func DeriveTransferData(programID Pubkey, authority Pubkey, vaultIndex, transferIndex uint64, destination, mint, tokenProgram Pubkey) (Pubkey, byte, error) {
	return derive([][]byte{
		[]byte("transfer"),
		le64(vaultIndex),
		le64(transferIndex),
		authority[:],
		destination[:],
		mint[:],
		tokenProgram[:],
	}, programID)
}

// DeriveDepositCustody computes the DepositCustody PDA and bump, per spec §4.1.
func DeriveDepositCustody(programID Pubkey, authority Pubkey, vaultIndex, transferIndex uint64, destination, mint, tokenProgram Pubkey) (Pubkey, byte, error) {
	return derive([][]byte{
		[]byte("deposit"),
		le64(vaultIndex),
		le64(transferIndex),
		authority[:],
		destination[:],
		mint[:],
		tokenProgram[:],
	}, programID)
}
