package tokensim

import (
	"fmt"

	"vaultd.dev/vault/accounts"
)

// Program is the simulated token program: it implements vault.TokenProgram
// by mutating accounts.Info.Data in place, the same way a real on-chain
// token program mutates account bytes during a CPI.
type Program struct {
	ProgramID accounts.Pubkey
}

// NewProgram returns a simulated token program identified by programID —
// the key that InitializeAccount and CreateIdempotent stamp into the
// accounts they create, mirroring a real token program's ownership of the
// token accounts it manages.
func NewProgram(programID accounts.Pubkey) *Program {
	return &Program{ProgramID: programID}
}

// InitializeAccount sets up account as a token account for mint, owned by
// the simulated token program and authorized to selfAuthority (the vault
// program's own derived custody key, for a self-owned custody account).
func (p *Program) InitializeAccount(account, mint *accounts.Info, selfAuthority accounts.Pubkey) error {
	if account.Exists() {
		return fmt.Errorf("tokensim: account %x already initialized", account.Key)
	}
	account.Owner = p.ProgramID
	account.Data = initTokenAccount(mint.Key, selfAuthority)
	if account.Lamports == 0 {
		account.Lamports = 1
	}
	return nil
}

// Transfer moves amount from from to to, both of which must already be
// initialized token accounts, after checking that authority matches from's
// recorded owner.
func (p *Program) Transfer(from, to *accounts.Info, authority accounts.Pubkey, amount uint64) error {
	if err := requireInitialized(from, "transfer source"); err != nil {
		return err
	}
	if err := requireInitialized(to, "transfer destination"); err != nil {
		return err
	}
	if ownerOf(from.Data) != authority {
		return fmt.Errorf("tokensim: transfer authority mismatch on %x", from.Key)
	}
	fromAmount := amountOf(from.Data)
	if fromAmount < amount {
		return fmt.Errorf("tokensim: insufficient funds in %x: have %d, need %d", from.Key, fromAmount, amount)
	}
	toAmount := amountOf(to.Data)
	sum := toAmount + amount
	if sum < toAmount {
		return fmt.Errorf("tokensim: balance overflow crediting %x", to.Key)
	}
	setAmount(from.Data, fromAmount-amount)
	setAmount(to.Data, sum)
	return nil
}

// CloseAccount reclaims account's lamports to destination after verifying
// authority owns it and its token balance is zero, the same rule the real
// token program enforces before allowing an account to be closed.
func (p *Program) CloseAccount(account, destination *accounts.Info, authority accounts.Pubkey) error {
	if err := requireInitialized(account, "close target"); err != nil {
		return err
	}
	if ownerOf(account.Data) != authority {
		return fmt.Errorf("tokensim: close authority mismatch on %x", account.Key)
	}
	if amountOf(account.Data) != 0 {
		return fmt.Errorf("tokensim: cannot close %x with nonzero balance", account.Key)
	}
	destination.Lamports += account.Lamports
	account.Lamports = 0
	account.Data = nil
	account.Owner = accounts.Pubkey{}
	return nil
}

// Balance returns account's current token amount.
func (p *Program) Balance(account *accounts.Info) (uint64, error) {
	if err := requireInitialized(account, "balance query"); err != nil {
		return 0, err
	}
	return amountOf(account.Data), nil
}

// MintTo credits account with amount tokens of mint, bypassing transfer
// authority checks. Not a CPI vault ever performs — it is the devnet
// harness's and fixture generator's way of seeding initial custody
// balances before a scenario starts.
func (p *Program) MintTo(account *accounts.Info, mint accounts.Pubkey, amount uint64) error {
	if !account.Exists() {
		account.Owner = p.ProgramID
		account.Data = initTokenAccount(mint, account.Key)
		account.Lamports = 1
	}
	if err := requireInitialized(account, "mint target"); err != nil {
		return err
	}
	current := amountOf(account.Data)
	sum := current + amount
	if sum < current {
		return fmt.Errorf("tokensim: mint overflow crediting %x", account.Key)
	}
	setAmount(account.Data, sum)
	return nil
}
