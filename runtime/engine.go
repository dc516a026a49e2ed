// Package runtime is the devnet harness: a single-threaded, run-to-completion
// dispatcher that loads accounts from the on-disk ledger (store.DB), wires
// them together with a simulated token program (tokensim) into a
// vault.Context, calls vault.Dispatch, and persists the result only if the
// whole instruction succeeded.
//
// There is no concurrency here by design: a real validator run-to-completes
// one instruction at a time against a single version of account state, so
// the harness does the same rather than introducing goroutines the vault
// package's semantics don't call for. Grounded on node/sync.go's
// snapshot-before/commit-or-rollback shape for ApplyBlock, simplified
// because an in-memory account load that is only ever written back on
// success needs no explicit snapshot: failure just means nothing is
// persisted.
package runtime

import (
	"encoding/hex"
	"fmt"

	"vaultd.dev/vault/vault"
	"vaultd.dev/vault/accounts"
	"vaultd.dev/vault/crypto"
	"vaultd.dev/vault/store"
	"vaultd.dev/vault/tokensim"
)

// AccountMeta names one account an instruction touches and the two
// permission bits the preamble checks (accounts.RequireSigner,
// accounts.RequireWritable) need — the devnet harness's stand-in for a real
// runtime's transaction message account metadata.
type AccountMeta struct {
	Key        vault.Pubkey
	IsSigner   bool
	IsWritable bool
}

// Engine is the devnet harness's dispatcher: one per program id, backed by
// one store.DB and one simulated token program.
type Engine struct {
	db        *store.DB
	programID vault.Pubkey
	token     *tokensim.Program
	system    *tokensim.System
	ata       *tokensim.ATA
	clock     vault.Clock
	slot      uint64
	audit     *crypto.AuditChain
}

// New builds an Engine over an already-open ledger, resuming its clock from
// the ledger's persisted manifest if one exists. tokenProgramID is the
// address the simulated token program answers to — distinct from
// programID, the vault program's own address, the same way a real
// deployment's token program and vault program are different accounts.
func New(db *store.DB, programID, tokenProgramID vault.Pubkey) *Engine {
	m := db.Manifest()
	token := tokensim.NewProgram(tokenProgramID)
	return &Engine{
		db:        db,
		programID: programID,
		token:     token,
		system:    &tokensim.System{},
		ata:       tokensim.NewATA(token),
		clock:     vault.Clock{UnixTimestamp: m.LastUnixTime, Epoch: m.LastEpoch},
		slot:      m.LastSlot,
		audit:     crypto.NewAuditChain(decodeAuditHead(m.AuditHeadHex)),
	}
}

func decodeAuditHead(hexHead string) [32]byte {
	var head [32]byte
	if hexHead == "" {
		return head
	}
	b, err := hex.DecodeString(hexHead)
	if err != nil || len(b) != 32 {
		return head
	}
	copy(head[:], b)
	return head
}

// AuditHead returns the current head of the harness's write-audit chain.
func (e *Engine) AuditHead() [32]byte { return e.audit.Head() }

// Token exposes the simulated token program so devnet tooling (the account
// seeding in cmd/vault-fixtures) can mint initial balances and initialize
// token accounts directly, without going through an instruction.
func (e *Engine) Token() *tokensim.Program { return e.token }

// Clock returns the engine's current view of the ledger clock.
func (e *Engine) Clock() vault.Clock { return e.clock }

// Slot returns the last slot the engine observed.
func (e *Engine) Slot() uint64 { return e.slot }

// AdvanceClock moves the harness clock forward and persists it, rejecting
// any attempt to move slot or unix time backward — the devnet equivalent of
// node/sync.go's monotonic tipTimestamp tracking.
func (e *Engine) AdvanceClock(slot uint64, unixTimestamp int64, epoch uint64) error {
	if slot < e.slot {
		return fmt.Errorf("runtime: slot must be monotonic: have %d, got %d", e.slot, slot)
	}
	if unixTimestamp < e.clock.UnixTimestamp {
		return fmt.Errorf("runtime: clock must be monotonic: have %d, got %d", e.clock.UnixTimestamp, unixTimestamp)
	}
	e.slot = slot
	e.clock = vault.Clock{UnixTimestamp: unixTimestamp, Epoch: epoch}
	return e.saveManifest()
}

func (e *Engine) saveManifest() error {
	head := e.audit.Head()
	return e.db.SetManifest(store.Manifest{
		SchemaVersion: store.SchemaVersionV1,
		ProgramIDHex:  e.db.Manifest().ProgramIDHex,
		LastSlot:      e.slot,
		LastUnixTime:  e.clock.UnixTimestamp,
		LastEpoch:     e.clock.Epoch,
		AuditHeadHex:  hex.EncodeToString(head[:]),
	})
}

// Execute loads every account named in metas, dispatches instructionData
// against them, and persists the post-state only if dispatch succeeds. On
// error, nothing touched by this call is written back — the in-memory Info
// values loaded here are never shared with anything else, so an aborted
// instruction has no observable effect on the ledger.
func (e *Engine) Execute(metas []AccountMeta, instructionData []byte) error {
	infos := make([]*accounts.Info, len(metas))
	for i, m := range metas {
		info, err := e.loadAccount(m.Key)
		if err != nil {
			return err
		}
		info.IsSigner = m.IsSigner
		info.IsWritable = m.IsWritable
		infos[i] = info
	}

	ctx := vault.Context{
		ProgramID:      e.programID,
		Clock:          e.clock,
		Token:          e.token,
		System:         e.system,
		ATA:            e.ata,
		TokenProgramID: e.token.ProgramID,
	}
	if err := vault.Dispatch(ctx, infos, instructionData); err != nil {
		return err
	}

	for _, info := range infos {
		if err := e.persistAccount(info); err != nil {
			return fmt.Errorf("runtime: commit %x: %w", info.Key, err)
		}
		e.audit.Append(info.Key, info.Data)
	}
	return e.saveManifest()
}

// LoadAccount exposes the harness's current view of one account outside of
// Execute, for tooling that needs to inspect or seed ledger state directly
// (the account seeding in cmd/vault-fixtures) without going through an
// instruction.
func (e *Engine) LoadAccount(key vault.Pubkey) (*accounts.Info, error) {
	return e.loadAccount(key)
}

// PersistAccount writes info back to the ledger outside of Execute, for the
// same direct-seeding tooling LoadAccount serves. Ordinary instruction
// execution never calls this directly from outside the package; it goes
// through Execute's dispatch-then-commit sequence instead.
func (e *Engine) PersistAccount(info *accounts.Info) error {
	return e.persistAccount(info)
}

func (e *Engine) loadAccount(key vault.Pubkey) (*accounts.Info, error) {
	rec, ok, err := e.db.GetAccount(key)
	if err != nil {
		return nil, fmt.Errorf("runtime: load %x: %w", key, err)
	}
	if !ok {
		return &accounts.Info{Key: key}, nil
	}
	data := append([]byte(nil), rec.Data...)
	return &accounts.Info{
		Key:        key,
		Owner:      rec.Owner,
		Lamports:   rec.Lamports,
		Data:       data,
		Executable: rec.Executable,
	}, nil
}

func (e *Engine) persistAccount(info *accounts.Info) error {
	if info.Lamports == 0 && len(info.Data) == 0 {
		return e.db.DeleteAccount(info.Key)
	}
	return e.db.PutAccount(info.Key, store.AccountRecord{
		Owner:      info.Owner,
		Lamports:   info.Lamports,
		Executable: info.Executable,
		Data:       info.Data,
	})
}
