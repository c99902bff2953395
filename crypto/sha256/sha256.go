// Package sha256 implements the SHA-256 hash algorithm as defined in FIPS 180-4.
//
// The package only offers single-shot hashing over a buffer that is already in memory.
// Every call starts from the initial hash values, so Sum256 is safe for concurrent use.
package sha256

import "encoding/binary"

// Size is the size of a SHA-256 checksum in bytes.
const Size = 32

// BlockSize is the block size of SHA-256 in bytes.
const BlockSize = 64

// lengthSize is the number of trailing bytes holding the message length in bits.
const lengthSize = 8

// initial hash values, first 32 bits of the fractional parts of the square roots of the first 8 primes
var iv = [8]uint32{
	0x6a09e667,
	0xbb67ae85,
	0x3c6ef372,
	0xa54ff53a,
	0x510e527f,
	0x9b05688c,
	0x1f83d9ab,
	0x5be0cd19,
}

// state is the compression state of a single digest pass.
type state [8]uint32

// Sum256 returns the SHA-256 checksum of the data.
func Sum256(data []byte) [Size]byte {
	s := state(iv)

	// full blocks straight from the caller's buffer
	full := len(data) - len(data)%BlockSize
	s.blocks(data[:full])

	s.blocks(pad(data[full:], uint64(len(data))))

	return s.bytes()
}

// pad returns the final one or two blocks: the remaining tail of the message, the 0x80 marker,
// zeros up to 56 mod 64 and the message length in bits as a big-endian uint64.
func pad(tail []byte, msgLen uint64) []byte {
	var buf [2 * BlockSize]byte

	n := copy(buf[:], tail)
	buf[n] = 0x80

	// the length needs 8 bytes after the marker, otherwise a second block is required
	size := BlockSize
	if n+1 > BlockSize-lengthSize {
		size = 2 * BlockSize
	}

	binary.BigEndian.PutUint64(buf[size-lengthSize:size], msgLen<<3)

	return buf[:size]
}

func (s *state) bytes() [Size]byte {
	var out [Size]byte

	for i, v := range s {
		binary.BigEndian.PutUint32(out[i*4:], v)
	}

	return out
}
