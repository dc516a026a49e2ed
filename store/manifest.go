package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const SchemaVersionV1 uint32 = 1

// Manifest is the devnet harness's crash-safe commit point: the last slot
// and clock the harness observed, persisted alongside the bbolt ledger so a
// restarted harness can resume its clock monotonically instead of replaying
// from unix-epoch zero.
type Manifest struct {
	SchemaVersion uint32 `json:"schema_version"`
	ProgramIDHex  string `json:"program_id_hex"`

	LastSlot     uint64 `json:"last_slot"`
	LastUnixTime int64  `json:"last_unix_time"`
	LastEpoch    uint64 `json:"last_epoch"`

	// AuditHeadHex is the current head of the harness's tamper-evident
	// write-audit chain (crypto.AuditChain), persisted so a restarted
	// harness resumes the chain instead of silently starting a new one.
	AuditHeadHex string `json:"audit_head"`
}

func manifestPath(programDir string) string {
	return filepath.Join(programDir, "MANIFEST.json")
}

func readManifest(programDir string) (*Manifest, error) {
	b, err := os.ReadFile(manifestPath(programDir))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("manifest json: %w", err)
	}
	return &m, nil
}

// writeManifestAtomic writes MANIFEST.json as a crash-safe commit point:
// write temp -> fsync temp -> rename -> fsync dir.
func writeManifestAtomic(programDir string, m *Manifest) error {
	if m == nil {
		return fmt.Errorf("manifest: nil")
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest json: %w", err)
	}
	b = append(b, '\n')

	final := manifestPath(programDir)
	tmp := final + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) // #nosec G304 -- tmp path is derived from operator-controlled datadir.
	if err != nil {
		return fmt.Errorf("manifest open tmp: %w", err)
	}
	_, werr := f.Write(b)
	serr := f.Sync()
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("manifest write tmp: %w", werr)
	}
	if serr != nil {
		return fmt.Errorf("manifest fsync tmp: %w", serr)
	}
	if cerr != nil {
		return fmt.Errorf("manifest close tmp: %w", cerr)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("manifest rename: %w", err)
	}

	d, err := os.Open(programDir) // #nosec G304 -- programDir is derived from operator-controlled datadir.
	if err != nil {
		return fmt.Errorf("manifest fsync dir open: %w", err)
	}
	if err := d.Sync(); err != nil {
		_ = d.Close()
		return fmt.Errorf("manifest fsync dir: %w", err)
	}
	if err := d.Close(); err != nil {
		return fmt.Errorf("manifest fsync dir close: %w", err)
	}
	return nil
}
