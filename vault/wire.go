package vault

import "encoding/binary"

// cursor is a boundary-checked little-endian reader over instruction bytes
// and persisted account bytes, mirroring how every record in this protocol
// is decoded field-by-field with no serialization framework.
type cursor struct {
	b   []byte
	pos int
}

func newCursor(b []byte) *cursor {
	return &cursor{b: b, pos: 0}
}

func (c *cursor) remaining() int {
	if c.pos >= len(c.b) {
		return 0
	}
	return len(c.b) - c.pos
}

func (c *cursor) readExact(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, vaulterr(ErrInvalidInstructionData, "truncated")
	}
	start := c.pos
	c.pos += n
	return c.b[start:c.pos], nil
}

func (c *cursor) readU8() (byte, error) {
	b, err := c.readExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) readU64LE() (uint64, error) {
	b, err := c.readExact(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) readI64LE() (int64, error) {
	v, err := c.readU64LE()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

func (c *cursor) readPubkey() (Pubkey, error) {
	b, err := c.readExact(32)
	if err != nil {
		return Pubkey{}, err
	}
	var pk Pubkey
	copy(pk[:], b)
	return pk, nil
}

// appendU64LE appends v as an 8-byte little-endian value to dst.
func appendU64LE(dst []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(dst, buf[:]...)
}

// appendI64LE appends v as an 8-byte little-endian two's-complement value to dst.
func appendI64LE(dst []byte, v int64) []byte {
	return appendU64LE(dst, uint64(v))
}

// appendPubkey appends the 32 raw bytes of pk to dst.
func appendPubkey(dst []byte, pk Pubkey) []byte {
	return append(dst, pk[:]...)
}

// getU64LE reads a little-endian uint64 directly out of a fixed-offset
// record buffer; used by the in-place VaultData/TransferData accessors
// where a cursor would be overkill (there is no boundary to check: the
// caller already validated the record's total length).
func getU64LE(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

func putU64LE(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

func getI64LE(b []byte, off int) int64 {
	return int64(getU64LE(b, off))
}

func putI64LE(b []byte, off int, v int64) {
	putU64LE(b, off, uint64(v))
}
