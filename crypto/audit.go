package crypto

// AuditChain is a tamper-evident hash chain the devnet harness stamps on
// every account write a runtime.Engine.Execute commit persists (accounts
// seeded directly through PersistAccount are not recorded): each entry's
// digest commits to the chain's
// previous head plus the account key and new record bytes, so editing or
// reordering any past write changes every digest computed after it. This is
// harness/test tooling only — the on-chain record layouts (spec.md §3) have
// no room for it, their fixed byte layouts are exhaustive.
//
// Hashing goes through the CryptoProvider interface the teacher's consensus
// code used, rather than reaching for golang.org/x/crypto/sha3 directly, so the
// provider indirection stays load-bearing instead of becoming dead
// abstraction once the bitcoin-specific consensus code it used to serve is
// gone.
type AuditChain struct {
	provider CryptoProvider
	head     [32]byte
}

// NewAuditChain resumes a chain from a previously persisted head (the
// all-zero value for a fresh ledger), hashing with DevStdCryptoProvider —
// the devnet-only, no-FIPS-claim provider the teacher's tooling always
// defaulted to.
func NewAuditChain(head [32]byte) *AuditChain {
	return &AuditChain{provider: DevStdCryptoProvider{}, head: head}
}

// Head returns the chain's current digest.
func (c *AuditChain) Head() [32]byte { return c.head }

// Append extends the chain with one account write and returns the new head.
func (c *AuditChain) Append(key [32]byte, record []byte) [32]byte {
	buf := make([]byte, 0, len(c.head)+len(key)+len(record))
	buf = append(buf, c.head[:]...)
	buf = append(buf, key[:]...)
	buf = append(buf, record...)
	next, err := c.provider.SHA3_256(buf)
	if err != nil {
		// DevStdCryptoProvider.SHA3_256 never fails; a non-nil error here
		// would mean a different provider was wired in without this
		// invariant holding.
		panic("crypto: audit chain hash failed: " + err.Error())
	}
	c.head = next
	return next
}
