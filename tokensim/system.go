package tokensim

import (
	"fmt"

	"vaultd.dev/vault/accounts"
)

// System is the simulated system program: it implements vault.SystemProgram
// by allocating a fresh, zeroed account owned by owner. The devnet harness
// has no rent economy to model, so newAccount is simply marked as existing
// (lamports=1) rather than debiting a calculated rent-exempt minimum from
// payer.
type System struct{}

func (s *System) CreateAccount(payer, newAccount *accounts.Info, owner accounts.Pubkey, space uint64) error {
	if newAccount.Exists() {
		return fmt.Errorf("tokensim: account %x already exists", newAccount.Key)
	}
	if !payer.IsSigner {
		return fmt.Errorf("tokensim: payer %x must sign account creation", payer.Key)
	}
	newAccount.Owner = owner
	newAccount.Data = make([]byte, space)
	newAccount.Lamports = 1
	return nil
}
