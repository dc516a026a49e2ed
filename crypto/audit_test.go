package crypto_test

import (
	"testing"

	"vaultd.dev/vault/crypto"
)

func TestAuditChainIsDeterministicAndOrderSensitive(t *testing.T) {
	var key [32]byte
	key[0] = 1

	c1 := crypto.NewAuditChain([32]byte{})
	h1 := c1.Append(key, []byte("first"))
	h1b := c1.Append(key, []byte("second"))

	c2 := crypto.NewAuditChain([32]byte{})
	h2 := c2.Append(key, []byte("first"))
	h2b := c2.Append(key, []byte("second"))

	if h1 != h2 || h1b != h2b {
		t.Fatalf("chain replay should be deterministic")
	}

	c3 := crypto.NewAuditChain([32]byte{})
	c3.Append(key, []byte("second"))
	reordered := c3.Append(key, []byte("first"))
	if reordered == h1b {
		t.Fatalf("reordering writes must change the resulting head")
	}
}

func TestAuditChainResumesFromPersistedHead(t *testing.T) {
	var key [32]byte
	fresh := crypto.NewAuditChain([32]byte{})
	head := fresh.Append(key, []byte("a"))

	resumed := crypto.NewAuditChain(head)
	if resumed.Head() != head {
		t.Fatalf("resumed chain should start from the given head")
	}
}
