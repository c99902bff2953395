// Package sha256d implements SHA-256d, the double application of SHA-256 used for block header,
// transaction and merkle node hashing.
//
// Sum(data) is sha256(sha256(data)). The intermediate digest is hashed as a regular 32 byte
// message, padding included.
package sha256d

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/sha256d/crypto/sha256"
)

// Size is the size of a SHA-256d checksum in bytes.
const Size = sha256.Size

// Sum returns the SHA-256d checksum of the data.
func Sum(data []byte) [Size]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// SumB calculates sha256(sha256(data)) and returns the resulting bytes in a new slice.
func SumB(data []byte) []byte {
	digest := Sum(data)
	return digest[:]
}

// SumH calculates sha256(sha256(data)) and returns the result as a chainhash.Hash.
// The hash keeps the raw digest byte order; String() renders it reversed, the way block
// and transaction ids are displayed.
func SumH(data []byte) chainhash.Hash {
	return chainhash.Hash(Sum(data))
}
