package crypto

// CryptoProvider is the narrow crypto interface the devnet harness's
// AuditChain hashes through, leaving room for a hardened backend to stand
// in for DevStdCryptoProvider without AuditChain's callers changing.
type CryptoProvider interface {
	SHA3_256(input []byte) ([32]byte, error)
	VerifyMLDSA87(pubkey []byte, sig []byte, digest32 [32]byte) bool
	VerifySLHDSASHAKE_256f(pubkey []byte, sig []byte, digest32 [32]byte) bool
}
