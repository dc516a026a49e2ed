// Package store is the devnet harness's persistence layer: a bbolt-backed
// key/value ledger holding every account the vault program has touched
// (VaultData, TransferData, custody and mint token accounts alike), plus a
// crash-safe manifest tracking the harness clock across restarts.
//
// The store is deliberately account-shaped rather than record-shaped: it
// does not know about VaultData or TransferData layouts, only about raw
// (owner, lamports, data) tuples keyed by pubkey. Decoding into the typed
// vault records happens in the vault package's handlers; runtime only
// converts these tuples to and from accounts.Info.
package store

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"vaultd.dev/vault/vault"
)

var (
	bucketAccounts = []byte("accounts")
)

// DB is the devnet harness's on-disk ledger for one program id.
type DB struct {
	bolt       *bbolt.DB
	programDir string
	manifest   Manifest
}

// Open opens (creating if absent) the bbolt ledger for programIDHex under
// datadir, creating required buckets and loading the manifest.
func Open(datadir string, programIDHex string) (*DB, error) {
	dir := ProgramDir(datadir, programIDHex)
	if err := ensureDir(dir); err != nil {
		return nil, err
	}

	bolt, err := bbolt.Open(filepath.Join(dir, "ledger.db"), 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bbolt: %w", err)
	}

	err = bolt.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketAccounts)
		return err
	})
	if err != nil {
		_ = bolt.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}

	db := &DB{bolt: bolt, programDir: dir}

	m, err := readManifest(dir)
	if err != nil {
		db.manifest = Manifest{SchemaVersion: SchemaVersionV1, ProgramIDHex: programIDHex}
	} else {
		db.manifest = *m
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.bolt.Close()
}

func (db *DB) ProgramDir() string { return db.programDir }

func (db *DB) Manifest() Manifest { return db.manifest }

// SetManifest persists a new manifest snapshot (current slot/clock) to disk
// atomically; callers do this after advancing the harness clock.
func (db *DB) SetManifest(m Manifest) error {
	if err := writeManifestAtomic(db.programDir, &m); err != nil {
		return err
	}
	db.manifest = m
	return nil
}

// AccountRecord is the persisted shape of one account: enough to
// reconstruct an accounts.Info (minus the per-call Signer/Writable bits,
// which are a property of an instruction's account list, not of the
// account itself).
type AccountRecord struct {
	Owner      vault.Pubkey
	Lamports   uint64
	Executable bool
	Data       []byte
}

// PutAccount writes or overwrites the record for key.
func (db *DB) PutAccount(key vault.Pubkey, rec AccountRecord) error {
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAccounts).Put(key[:], encodeAccountRecord(rec))
	})
}

// GetAccount returns the record for key, or ok=false if the key has never
// been written.
func (db *DB) GetAccount(key vault.Pubkey) (rec AccountRecord, ok bool, err error) {
	err = db.bolt.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAccounts).Get(key[:])
		if b == nil {
			return nil
		}
		ok = true
		rec, err = decodeAccountRecord(b)
		return err
	})
	return rec, ok, err
}

// DeleteAccount removes key's record, used when a vault or escrow account
// is closed and its lamports swept back to the payer.
func (db *DB) DeleteAccount(key vault.Pubkey) error {
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAccounts).Delete(key[:])
	})
}

// ForEachAccount walks every persisted account in key order.
func (db *DB) ForEachAccount(fn func(key vault.Pubkey, rec AccountRecord) error) error {
	return db.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(k, v []byte) error {
			var key vault.Pubkey
			copy(key[:], k)
			rec, err := decodeAccountRecord(v)
			if err != nil {
				return err
			}
			return fn(key, rec)
		})
	})
}

// encodeAccountRecord lays out a record as:
// owner(32) | lamports u64le | executable u8 | data_len u32le | data
func encodeAccountRecord(rec AccountRecord) []byte {
	out := make([]byte, 32+8+1+4+len(rec.Data))
	copy(out[0:32], rec.Owner[:])
	binary.LittleEndian.PutUint64(out[32:40], rec.Lamports)
	if rec.Executable {
		out[40] = 1
	}
	binary.LittleEndian.PutUint32(out[41:45], uint32(len(rec.Data)))
	copy(out[45:], rec.Data)
	return out
}

func decodeAccountRecord(b []byte) (AccountRecord, error) {
	if len(b) < 45 {
		return AccountRecord{}, fmt.Errorf("store: account record too short (%d bytes)", len(b))
	}
	var rec AccountRecord
	copy(rec.Owner[:], b[0:32])
	rec.Lamports = binary.LittleEndian.Uint64(b[32:40])
	rec.Executable = b[40] != 0
	n := binary.LittleEndian.Uint32(b[41:45])
	if len(b[45:]) != int(n) {
		return AccountRecord{}, fmt.Errorf("store: account record data_len mismatch: header says %d, have %d", n, len(b[45:]))
	}
	rec.Data = append([]byte(nil), b[45:]...)
	return rec, nil
}
