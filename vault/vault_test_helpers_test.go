package vault_test

import (
	"errors"

	"vaultd.dev/vault/vault"
	"vaultd.dev/vault/accounts"
)

// fakeToken is an in-memory stand-in for the fungible-token program CPI
// surface vault.TokenProgram names, just enough bookkeeping (balances,
// owners) to drive the handlers under test end to end.
type fakeToken struct {
	programID vault.Pubkey
	balances  map[vault.Pubkey]uint64
}

func newFakeToken(programID vault.Pubkey) *fakeToken {
	return &fakeToken{programID: programID, balances: map[vault.Pubkey]uint64{}}
}

func (f *fakeToken) InitializeAccount(account, mint *accounts.Info, selfAuthority vault.Pubkey) error {
	account.Lamports = 1
	account.Owner = f.programID
	if _, ok := f.balances[account.Key]; !ok {
		f.balances[account.Key] = 0
	}
	return nil
}

func (f *fakeToken) Transfer(from, to *accounts.Info, authority vault.Pubkey, amount uint64) error {
	if f.balances[from.Key] < amount {
		return errors.New("fake token: insufficient funds")
	}
	f.balances[from.Key] -= amount
	f.balances[to.Key] += amount
	return nil
}

func (f *fakeToken) CloseAccount(account, destination *accounts.Info, authority vault.Pubkey) error {
	delete(f.balances, account.Key)
	account.Lamports = 0
	account.Owner = vault.Pubkey{}
	return nil
}

func (f *fakeToken) Balance(account *accounts.Info) (uint64, error) {
	return f.balances[account.Key], nil
}

func (f *fakeToken) mint(to vault.Pubkey, amount uint64) {
	f.balances[to] += amount
}

type fakeSystem struct{}

func (fakeSystem) CreateAccount(payer, newAccount *accounts.Info, owner vault.Pubkey, space uint64) error {
	newAccount.Lamports = 1
	newAccount.Owner = owner
	newAccount.Data = make([]byte, space)
	return nil
}

type fakeATA struct{}

func (fakeATA) CreateIdempotent(payer, ata, walletOwner, mint *accounts.Info) error {
	ata.Lamports = 1
	return nil
}

func acc(key vault.Pubkey) *accounts.Info {
	return &accounts.Info{Key: key}
}

func keyFrom(b byte) vault.Pubkey {
	var pk vault.Pubkey
	pk[0] = b
	return pk
}
