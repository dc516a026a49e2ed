package tokensim

import "vaultd.dev/vault/accounts"

// ATA is the simulated associated-token-account helper: it implements
// vault.AssociatedTokenProgram.CreateIdempotent, used by Execute to create
// a destination wallet's token account on first delivery if it doesn't
// already exist.
type ATA struct {
	Token *Program
}

func NewATA(token *Program) *ATA {
	return &ATA{Token: token}
}

// CreateIdempotent initializes ata as a token account for mint owned by
// walletOwner, unless ata already exists — matching the real helper's
// idempotent-create contract so repeated Execute calls against the same
// destination never fail on "already initialized".
func (a *ATA) CreateIdempotent(payer, ata, walletOwner, mint *accounts.Info) error {
	if ata.Exists() {
		return nil
	}
	return a.Token.InitializeAccount(ata, mint, walletOwner.Key)
}
