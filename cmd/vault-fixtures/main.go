// Command vault-fixtures drives a full runtime.Engine (store.DB-backed
// ledger, tokensim token program) through the six canonical rate-limited
// vault scenarios and writes one JSON fixture file per scenario to an
// output directory, for conformance replay against another implementation.
// Simpler in shape than the teacher's cmd/gen-conformance-fixtures (which
// mutates existing fixture files in place with freshly generated OpenSSL
// keypairs): here every scenario is self-contained, deterministic, and
// generated from scratch each run, since the vault protocol has no
// signature scheme of its own to bake into fixtures.
package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"vaultd.dev/vault/vault"
	"vaultd.dev/vault/accounts"
	"vaultd.dev/vault/runtime"
	"vaultd.dev/vault/store"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("vault-fixtures", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outDir := fs.String("out", "fixtures", "directory to write scenario fixture JSON files into")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(stderr, "mkdir %s: %v\n", *outDir, err)
		return 2
	}

	for _, sc := range scenarios {
		fixture, err := sc.run()
		if err != nil {
			fmt.Fprintf(stderr, "scenario %s: %v\n", sc.name, err)
			return 1
		}
		path := filepath.Join(*outDir, sc.name+".json")
		if err := writeFixture(path, fixture); err != nil {
			fmt.Fprintf(stderr, "write %s: %v\n", path, err)
			return 1
		}
		fmt.Fprintf(stdout, "wrote %s (%d steps)\n", path, len(fixture.Steps))
	}
	return 0
}

func writeFixture(path string, f Fixture) error {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Fixture is one scenario's full trace: the keys it used and the ordered
// steps it replayed, each with the instruction actually dispatched and the
// outcome the reference engine produced.
type Fixture struct {
	Name            string `json:"name"`
	ProgramIDHex    string `json:"program_id"`
	TokenProgramHex string `json:"token_program_id"`
	MintHex         string `json:"mint"`
	AuthorityHex    string `json:"authority"`
	Steps           []Step `json:"steps"`
	FinalAuditHead  string `json:"final_audit_head"`
}

type Step struct {
	Description    string            `json:"description"`
	Accounts       []AccountMetaJSON `json:"accounts"`
	InstructionHex string            `json:"instruction_hex"`
	Ok             bool              `json:"ok"`
	ErrorCode      string            `json:"error_code,omitempty"`
}

type AccountMetaJSON struct {
	KeyHex     string `json:"key"`
	IsSigner   bool   `json:"signer"`
	IsWritable bool   `json:"writable"`
}

type scenario struct {
	name string
	run  func() (Fixture, error)
}

var scenarios = []scenario{
	{"scenario-01-withdraw-within-limits", scenarioWithdrawWithinLimits},
	{"scenario-02-ring-buffer-wrap", scenarioRingBufferWrap},
	{"scenario-03-book-and-execute", scenarioBookAndExecute},
	{"scenario-04-unbook-returns-funds", scenarioUnbookReturnsFunds},
	{"scenario-05-book-warmup-violation", scenarioBookWarmupViolation},
	{"scenario-06-close-gated-by-open-transfers", scenarioCloseGatedByOpenTransfers},
}

// fixtureKeys are the fixed 32-byte principal keys every scenario derives
// its PDAs from. Distinct, literal, and stable across runs so two
// generator invocations produce byte-identical fixtures.
type fixtureKeys struct {
	programID    vault.Pubkey
	tokenProgram vault.Pubkey
	mint         vault.Pubkey
	authority    vault.Pubkey
	alice        vault.Pubkey
	aliceToken   vault.Pubkey
	dest         vault.Pubkey
	dest2        vault.Pubkey
}

func newFixtureKeys() fixtureKeys {
	return fixtureKeys{
		programID:    k(1),
		tokenProgram: k(2),
		mint:         k(3),
		authority:    k(4),
		alice:        k(9),
		aliceToken:   k(10),
		dest:         k(20),
		dest2:        k(40),
	}
}

func k(b byte) vault.Pubkey {
	var pk vault.Pubkey
	pk[0] = b
	pk[31] = b
	return pk
}

// scenarioEngine opens a fresh, scratch-directory ledger and seeds alice's
// token account with an initial balance, ready for a scenario to drive
// instructions through.
func scenarioEngine(name string, keys fixtureKeys, aliceBalance uint64) (*runtime.Engine, func(), error) {
	dir, err := os.MkdirTemp("", "vault-fixtures-"+name+"-")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	db, err := store.Open(dir, hex.EncodeToString(keys.programID[:]))
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	eng := runtime.New(db, keys.programID, keys.tokenProgram)

	// Start the clock at a nonzero unix time: a withdrawal recorded at time 0
	// would carry the ring buffer's empty-slot timestamp and never count.
	if err := eng.AdvanceClock(1, 1000, 0); err != nil {
		_ = db.Close()
		cleanup()
		return nil, nil, err
	}

	if err := seedMintAccount(eng, keys.mint, keys.tokenProgram); err != nil {
		_ = db.Close()
		cleanup()
		return nil, nil, err
	}

	// Alice's own wallet token account: owned by Alice herself, the same
	// way a real ATA's recorded owner is the wallet that controls it (not
	// self-owned the way a vault's PDA-derived custody account is).
	if err := seedTokenAccount(eng, keys.aliceToken, keys.mint, keys.alice, aliceBalance); err != nil {
		_ = db.Close()
		cleanup()
		return nil, nil, err
	}
	// Destination accounts only ever appear on the credit side of a
	// transfer, so their recorded owner is never checked; self-owned is a
	// fine placeholder.
	for _, dest := range []vault.Pubkey{keys.dest, keys.dest2} {
		if err := seedTokenAccount(eng, dest, keys.mint, dest, 0); err != nil {
			_ = db.Close()
			cleanup()
			return nil, nil, err
		}
	}

	return eng, func() { _ = db.Close(); cleanup() }, nil
}

// seedMintAccount persists a placeholder mint record owned by the canonical
// token program, so requireCanonicalTokenProgram's mint-ownership check has
// a real account to validate against instead of an empty Info.
func seedMintAccount(eng *runtime.Engine, mint, tokenProgram vault.Pubkey) error {
	info, err := eng.LoadAccount(mint)
	if err != nil {
		return err
	}
	info.Owner = accounts.Pubkey(tokenProgram)
	info.Lamports = 1
	return eng.PersistAccount(info)
}

func seedTokenAccount(eng *runtime.Engine, key, mint, owner vault.Pubkey, balance uint64) error {
	info, err := eng.LoadAccount(key)
	if err != nil {
		return err
	}
	mintInfo := &accounts.Info{Key: accounts.Pubkey(mint)}
	if err := eng.Token().InitializeAccount(info, mintInfo, accounts.Pubkey(owner)); err != nil {
		return err
	}
	if err := eng.Token().MintTo(info, accounts.Pubkey(mint), balance); err != nil {
		return err
	}
	return eng.PersistAccount(info)
}

// step executes one instruction against eng and returns its fixture trace
// entry. Any error from eng.Execute, a rejected instruction and a ledger
// I/O failure alike, is recorded in the step as its outcome rather than
// returned as a generator failure.
func step(eng *runtime.Engine, description string, metas []runtime.AccountMeta, instructionData []byte) Step {
	s := Step{
		Description:    description,
		InstructionHex: hex.EncodeToString(instructionData),
	}
	for _, m := range metas {
		s.Accounts = append(s.Accounts, AccountMetaJSON{
			KeyHex: hex.EncodeToString(m.Key[:]), IsSigner: m.IsSigner, IsWritable: m.IsWritable,
		})
	}
	if err := eng.Execute(metas, instructionData); err != nil {
		s.Ok = false
		s.ErrorCode = errorCode(err)
	} else {
		s.Ok = true
	}
	return s
}

func errorCode(err error) string {
	var verr *vault.Error
	if errors.As(err, &verr) {
		return string(verr.Code)
	}
	return err.Error()
}

func meta(key vault.Pubkey, signer, writable bool) runtime.AccountMeta {
	return runtime.AccountMeta{Key: key, IsSigner: signer, IsWritable: writable}
}

func createVaultStep(eng *runtime.Engine, keys fixtureKeys, vaultData, vaultCustody vault.Pubkey, cv vault.CreateVaultData) Step {
	metas := []runtime.AccountMeta{
		meta(keys.authority, true, true),
		meta(vaultData, false, true),
		meta(vaultCustody, false, true),
		meta(keys.mint, false, false),
		meta(keys.tokenProgram, false, false),
	}
	return step(eng, "create_vault", metas, vault.EncodeCreateVault(cv))
}

func depositStep(eng *runtime.Engine, keys fixtureKeys, vaultData, vaultCustody vault.Pubkey, vaultIndex, amount uint64) Step {
	metas := []runtime.AccountMeta{
		meta(keys.alice, true, false),
		meta(keys.aliceToken, false, true),
		meta(vaultData, false, true),
		meta(vaultCustody, false, true),
		meta(keys.mint, false, false),
		meta(keys.tokenProgram, false, false),
	}
	data := vault.EncodeDepositToVault(vault.DepositToVaultData{VaultOwner: keys.authority, VaultIndex: vaultIndex, Amount: amount})
	return step(eng, fmt.Sprintf("deposit %d", amount), metas, data)
}

func withdrawStep(eng *runtime.Engine, keys fixtureKeys, vaultData, vaultCustody, dest vault.Pubkey, vaultIndex, amount uint64) Step {
	metas := []runtime.AccountMeta{
		meta(keys.authority, true, false),
		meta(vaultData, false, true),
		meta(vaultCustody, false, true),
		meta(dest, false, true),
		meta(keys.mint, false, false),
		meta(keys.tokenProgram, false, false),
	}
	data := vault.EncodeWithdrawFromVault(vault.WithdrawFromVaultData{VaultIndex: vaultIndex, Amount: amount})
	return step(eng, fmt.Sprintf("withdraw %d", amount), metas, data)
}

func bookStep(eng *runtime.Engine, keys fixtureKeys, vaultData, vaultCustody, transferData, depositCustody, dest vault.Pubkey, bt vault.BookTransferData) Step {
	metas := []runtime.AccountMeta{
		meta(keys.authority, true, true),
		meta(vaultData, false, true),
		meta(vaultCustody, false, true),
		meta(transferData, false, true),
		meta(depositCustody, false, true),
		meta(dest, false, true),
		meta(keys.mint, false, false),
		meta(keys.tokenProgram, false, false),
	}
	return step(eng, "book_transfer", metas, vault.EncodeBookTransfer(bt))
}

func executeTransferStep(eng *runtime.Engine, keys fixtureKeys, vaultData, vaultCustody, transferData, depositCustody, dest vault.Pubkey, vaultIndex, transferIndex uint64) Step {
	metas := []runtime.AccountMeta{
		meta(keys.authority, true, true),
		meta(vaultData, false, true),
		meta(vaultCustody, false, true),
		meta(transferData, false, true),
		meta(depositCustody, false, true),
		meta(dest, false, true),
		meta(keys.mint, false, false),
		meta(keys.tokenProgram, false, false),
	}
	data := vault.EncodeExecuteTransfer(vault.ExecuteTransferData{VaultIndex: vaultIndex, TransferIndex: transferIndex})
	return step(eng, "execute_transfer", metas, data)
}

func unbookStep(eng *runtime.Engine, keys fixtureKeys, vaultData, vaultCustody, transferData, depositCustody, dest vault.Pubkey, vaultIndex, transferIndex uint64) Step {
	metas := []runtime.AccountMeta{
		meta(keys.authority, true, true),
		meta(vaultData, false, true),
		meta(vaultCustody, false, true),
		meta(transferData, false, true),
		meta(depositCustody, false, true),
		meta(keys.mint, false, false),
		meta(keys.tokenProgram, false, false),
	}
	data := vault.EncodeUnbookTransfer(vault.UnbookTransferData{VaultIndex: vaultIndex, TransferIndex: transferIndex, Destination: dest})
	return step(eng, "unbook_transfer", metas, data)
}

func closeVaultStep(eng *runtime.Engine, keys fixtureKeys, vaultData, vaultCustody vault.Pubkey, vaultIndex uint64) Step {
	metas := []runtime.AccountMeta{
		meta(keys.authority, true, true),
		meta(vaultData, false, true),
		meta(vaultCustody, false, true),
		meta(keys.mint, false, false),
		meta(keys.tokenProgram, false, false),
	}
	data := vault.EncodeCloseVault(vault.CloseVaultData{VaultIndex: vaultIndex})
	return step(eng, "close_vault", metas, data)
}

func newFixture(name string, keys fixtureKeys) Fixture {
	return Fixture{
		Name:            name,
		ProgramIDHex:    hex.EncodeToString(keys.programID[:]),
		TokenProgramHex: hex.EncodeToString(keys.tokenProgram[:]),
		MintHex:         hex.EncodeToString(keys.mint[:]),
		AuthorityHex:    hex.EncodeToString(keys.authority[:]),
	}
}

func finalize(eng *runtime.Engine, f Fixture) Fixture {
	head := eng.AuditHead()
	f.FinalAuditHead = hex.EncodeToString(head[:])
	return f
}

const vaultIndex1 = uint64(1)

// Scenario 1: create, deposit, withdraw within limits, then over the cap.
func scenarioWithdrawWithinLimits() (Fixture, error) {
	keys := newFixtureKeys()
	eng, cleanup, err := scenarioEngine("s1", keys, 1000)
	if err != nil {
		return Fixture{}, err
	}
	defer cleanup()

	vaultData, _, err := vault.DeriveVaultData(keys.programID, keys.authority, vaultIndex1, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}
	vaultCustody, _, err := vault.DeriveVaultCustody(keys.programID, keys.authority, vaultIndex1, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}

	f := newFixture("withdraw-within-limits", keys)
	f.Steps = append(f.Steps, createVaultStep(eng, keys, vaultData, vaultCustody, vault.CreateVaultData{
		VaultIndex: vaultIndex1, Timeframe: 0, MaxTransactions: 3, MaxAmount: 10, AllowsTransfers: false,
	}))
	f.Steps = append(f.Steps, depositStep(eng, keys, vaultData, vaultCustody, vaultIndex1, 500))
	f.Steps = append(f.Steps, withdrawStep(eng, keys, vaultData, vaultCustody, keys.dest, vaultIndex1, 4))
	f.Steps = append(f.Steps, withdrawStep(eng, keys, vaultData, vaultCustody, keys.dest, vaultIndex1, 4))
	f.Steps = append(f.Steps, withdrawStep(eng, keys, vaultData, vaultCustody, keys.dest, vaultIndex1, 4))
	return finalize(eng, f), nil
}

// Scenario 2: ring-buffer wrap then transaction-count exhaustion.
func scenarioRingBufferWrap() (Fixture, error) {
	keys := newFixtureKeys()
	eng, cleanup, err := scenarioEngine("s2", keys, 1000)
	if err != nil {
		return Fixture{}, err
	}
	defer cleanup()

	vaultData, _, err := vault.DeriveVaultData(keys.programID, keys.authority, vaultIndex1, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}
	vaultCustody, _, err := vault.DeriveVaultCustody(keys.programID, keys.authority, vaultIndex1, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}

	const largeTimeframe = 1_000_000
	f := newFixture("ring-buffer-wrap", keys)
	f.Steps = append(f.Steps, createVaultStep(eng, keys, vaultData, vaultCustody, vault.CreateVaultData{
		VaultIndex: vaultIndex1, Timeframe: largeTimeframe, MaxTransactions: 3, MaxAmount: 1000, AllowsTransfers: false,
	}))
	f.Steps = append(f.Steps, depositStep(eng, keys, vaultData, vaultCustody, vaultIndex1, 500))
	for i := 0; i < 3; i++ {
		f.Steps = append(f.Steps, withdrawStep(eng, keys, vaultData, vaultCustody, keys.dest, vaultIndex1, 1))
	}
	f.Steps = append(f.Steps, withdrawStep(eng, keys, vaultData, vaultCustody, keys.dest, vaultIndex1, 1))
	return finalize(eng, f), nil
}

// Scenario 3: book then execute happy path.
func scenarioBookAndExecute() (Fixture, error) {
	keys := newFixtureKeys()
	eng, cleanup, err := scenarioEngine("s3", keys, 1000)
	if err != nil {
		return Fixture{}, err
	}
	defer cleanup()

	vaultData, _, err := vault.DeriveVaultData(keys.programID, keys.authority, vaultIndex1, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}
	vaultCustody, _, err := vault.DeriveVaultCustody(keys.programID, keys.authority, vaultIndex1, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}
	const transferIndex1 = uint64(1)
	transferData, _, err := vault.DeriveTransferData(keys.programID, keys.authority, vaultIndex1, transferIndex1, keys.dest, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}
	depositCustody, _, err := vault.DeriveDepositCustody(keys.programID, keys.authority, vaultIndex1, transferIndex1, keys.dest, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}

	f := newFixture("book-and-execute", keys)
	f.Steps = append(f.Steps, createVaultStep(eng, keys, vaultData, vaultCustody, vault.CreateVaultData{
		VaultIndex: vaultIndex1, Timeframe: 0, MaxTransactions: 3, MaxAmount: 4, AllowsTransfers: true, TransferMaxWindow: 100,
	}))
	f.Steps = append(f.Steps, depositStep(eng, keys, vaultData, vaultCustody, vaultIndex1, 500))
	f.Steps = append(f.Steps, bookStep(eng, keys, vaultData, vaultCustody, transferData, depositCustody, keys.dest, vault.BookTransferData{
		Amount: 250, Destination: keys.dest, VaultIndex: vaultIndex1, TransferIndex: transferIndex1, Warmup: 0, Validity: 100,
	}))
	f.Steps = append(f.Steps, executeTransferStep(eng, keys, vaultData, vaultCustody, transferData, depositCustody, keys.dest, vaultIndex1, transferIndex1))
	return finalize(eng, f), nil
}

// Scenario 4: unbook returns funds to the vault.
func scenarioUnbookReturnsFunds() (Fixture, error) {
	keys := newFixtureKeys()
	eng, cleanup, err := scenarioEngine("s4", keys, 1000)
	if err != nil {
		return Fixture{}, err
	}
	defer cleanup()

	vaultData, _, err := vault.DeriveVaultData(keys.programID, keys.authority, vaultIndex1, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}
	vaultCustody, _, err := vault.DeriveVaultCustody(keys.programID, keys.authority, vaultIndex1, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}
	const transferIndex1 = uint64(1)
	transferData, _, err := vault.DeriveTransferData(keys.programID, keys.authority, vaultIndex1, transferIndex1, keys.dest, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}
	depositCustody, _, err := vault.DeriveDepositCustody(keys.programID, keys.authority, vaultIndex1, transferIndex1, keys.dest, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}

	f := newFixture("unbook-returns-funds", keys)
	f.Steps = append(f.Steps, createVaultStep(eng, keys, vaultData, vaultCustody, vault.CreateVaultData{
		VaultIndex: vaultIndex1, Timeframe: 0, MaxTransactions: 3, MaxAmount: 4, AllowsTransfers: true, TransferMaxWindow: 100,
	}))
	f.Steps = append(f.Steps, depositStep(eng, keys, vaultData, vaultCustody, vaultIndex1, 500))
	f.Steps = append(f.Steps, bookStep(eng, keys, vaultData, vaultCustody, transferData, depositCustody, keys.dest, vault.BookTransferData{
		Amount: 250, Destination: keys.dest, VaultIndex: vaultIndex1, TransferIndex: transferIndex1, Warmup: 0, Validity: 100,
	}))
	f.Steps = append(f.Steps, unbookStep(eng, keys, vaultData, vaultCustody, transferData, depositCustody, keys.dest, vaultIndex1, transferIndex1))
	return finalize(eng, f), nil
}

// Scenario 5: warm-up violation on Book.
func scenarioBookWarmupViolation() (Fixture, error) {
	keys := newFixtureKeys()
	eng, cleanup, err := scenarioEngine("s5", keys, 1000)
	if err != nil {
		return Fixture{}, err
	}
	defer cleanup()

	vaultData, _, err := vault.DeriveVaultData(keys.programID, keys.authority, vaultIndex1, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}
	vaultCustody, _, err := vault.DeriveVaultCustody(keys.programID, keys.authority, vaultIndex1, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}
	const transferIndex1 = uint64(1)
	transferData, _, err := vault.DeriveTransferData(keys.programID, keys.authority, vaultIndex1, transferIndex1, keys.dest, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}
	depositCustody, _, err := vault.DeriveDepositCustody(keys.programID, keys.authority, vaultIndex1, transferIndex1, keys.dest, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}

	f := newFixture("book-warmup-violation", keys)
	f.Steps = append(f.Steps, createVaultStep(eng, keys, vaultData, vaultCustody, vault.CreateVaultData{
		VaultIndex: vaultIndex1, Timeframe: 0, MaxTransactions: 3, MaxAmount: 100, AllowsTransfers: true,
		TransferMinWarmup: 5, TransferMaxWindow: 100,
	}))
	f.Steps = append(f.Steps, depositStep(eng, keys, vaultData, vaultCustody, vaultIndex1, 500))
	f.Steps = append(f.Steps, bookStep(eng, keys, vaultData, vaultCustody, transferData, depositCustody, keys.dest, vault.BookTransferData{
		Amount: 50, Destination: keys.dest, VaultIndex: vaultIndex1, TransferIndex: transferIndex1, Warmup: 4, Validity: 100,
	}))
	return finalize(eng, f), nil
}

// Scenario 6: close vault gated by open transfers.
func scenarioCloseGatedByOpenTransfers() (Fixture, error) {
	keys := newFixtureKeys()
	eng, cleanup, err := scenarioEngine("s6", keys, 1000)
	if err != nil {
		return Fixture{}, err
	}
	defer cleanup()

	vaultData, _, err := vault.DeriveVaultData(keys.programID, keys.authority, vaultIndex1, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}
	vaultCustody, _, err := vault.DeriveVaultCustody(keys.programID, keys.authority, vaultIndex1, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}
	const transferIndex1 = uint64(1)
	transferData, _, err := vault.DeriveTransferData(keys.programID, keys.authority, vaultIndex1, transferIndex1, keys.dest, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}
	depositCustody, _, err := vault.DeriveDepositCustody(keys.programID, keys.authority, vaultIndex1, transferIndex1, keys.dest, keys.mint, keys.tokenProgram)
	if err != nil {
		return Fixture{}, err
	}

	f := newFixture("close-gated-by-open-transfers", keys)
	f.Steps = append(f.Steps, createVaultStep(eng, keys, vaultData, vaultCustody, vault.CreateVaultData{
		VaultIndex: vaultIndex1, Timeframe: 0, MaxTransactions: 3, MaxAmount: 1000, AllowsTransfers: true, TransferMaxWindow: 100,
	}))
	f.Steps = append(f.Steps, depositStep(eng, keys, vaultData, vaultCustody, vaultIndex1, 100))
	f.Steps = append(f.Steps, bookStep(eng, keys, vaultData, vaultCustody, transferData, depositCustody, keys.dest, vault.BookTransferData{
		Amount: 50, Destination: keys.dest, VaultIndex: vaultIndex1, TransferIndex: transferIndex1, Warmup: 0, Validity: 100,
	}))
	f.Steps = append(f.Steps, closeVaultStep(eng, keys, vaultData, vaultCustody, vaultIndex1)) // gated: VaultHasOpenTransfers
	f.Steps = append(f.Steps, unbookStep(eng, keys, vaultData, vaultCustody, transferData, depositCustody, keys.dest, vaultIndex1, transferIndex1))
	f.Steps = append(f.Steps, withdrawStep(eng, keys, vaultData, vaultCustody, keys.dest2, vaultIndex1, 100))
	f.Steps = append(f.Steps, closeVaultStep(eng, keys, vaultData, vaultCustody, vaultIndex1))
	return finalize(eng, f), nil
}
