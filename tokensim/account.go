// Package tokensim is a simulated fungible-token program: an in-memory
// stand-in for the real token program and associated-token-account helper
// that vault.Context's CPI interfaces (vault.TokenProgram, vault.SystemProgram,
// vault.AssociatedTokenProgram) call through. It exists because the devnet
// harness has no real token program to invoke: tokensim gives the vault
// package something to drive its CPIs against during tests and fixture
// generation, using the exact same accounts.Info view the real handlers use.
//
// Token accounts are fixed-layout records, little-endian, no serialization
// framework, in the same spirit as vault's own records: mint(32) | owner(32)
// | amount u64le(8).
package tokensim

import (
	"encoding/binary"
	"fmt"

	"vaultd.dev/vault/accounts"
)

const tokenAccountSize = 32 + 32 + 8

const (
	taOffMint   = 0
	taOffOwner  = 32
	taOffAmount = 64
)

func mintOf(data []byte) accounts.Pubkey {
	var pk accounts.Pubkey
	copy(pk[:], data[taOffMint:taOffMint+32])
	return pk
}

func ownerOf(data []byte) accounts.Pubkey {
	var pk accounts.Pubkey
	copy(pk[:], data[taOffOwner:taOffOwner+32])
	return pk
}

func amountOf(data []byte) uint64 {
	return binary.LittleEndian.Uint64(data[taOffAmount : taOffAmount+8])
}

func setAmount(data []byte, amount uint64) {
	binary.LittleEndian.PutUint64(data[taOffAmount:taOffAmount+8], amount)
}

func initTokenAccount(mint, owner accounts.Pubkey) []byte {
	data := make([]byte, tokenAccountSize)
	copy(data[taOffMint:taOffMint+32], mint[:])
	copy(data[taOffOwner:taOffOwner+32], owner[:])
	return data
}

func requireInitialized(acc *accounts.Info, label string) error {
	if len(acc.Data) != tokenAccountSize {
		return fmt.Errorf("tokensim: %s is not an initialized token account", label)
	}
	return nil
}
