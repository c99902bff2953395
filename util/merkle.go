package util

import (
	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/sha256d/crypto/sha256d"
	"github.com/bsv-blockchain/sha256d/errors"
)

// BuildMerkleRootFromCoinbase builds the merkle root of the block from the coinbase transaction hash (txid)
// and the merkle branches needed to work up the merkle tree and returns the merkle root byte array.
//
// All inputs are in internal byte order; the returned root is reversed into display order.
func BuildMerkleRootFromCoinbase(coinbaseHash []byte, merkleBranches [][]byte) []byte {
	acc := make([]byte, 0, 2*sha256d.Size)
	acc = append(acc, coinbaseHash...)

	for _, branch := range merkleBranches {
		hash := sha256d.Sum(append(acc, branch...))
		acc = append(acc[:0], hash[:]...)
	}

	return bt.ReverseBytes(acc)
}

// MerkleRootFromCoinbase is BuildMerkleRootFromCoinbase for chainhash values, returning the root
// as a hash in internal byte order.
func MerkleRootFromCoinbase(coinbaseHash chainhash.Hash, merkleBranches []chainhash.Hash) chainhash.Hash {
	acc := coinbaseHash

	var buf [2 * chainhash.HashSize]byte

	for _, branch := range merkleBranches {
		copy(buf[:chainhash.HashSize], acc[:])
		copy(buf[chainhash.HashSize:], branch[:])

		acc = sha256d.SumH(buf[:])
	}

	return acc
}

// BuildMerkleRoot calculates the merkle root of a full list of transaction hashes.
// Odd levels pair the last node with itself.
func BuildMerkleRoot(hashes []chainhash.Hash) (chainhash.Hash, error) {
	if len(hashes) == 0 {
		return chainhash.Hash{}, errors.NewInvalidArgumentError("no hashes to build a merkle root from")
	}

	level := make([]chainhash.Hash, len(hashes))
	copy(level, hashes)

	for len(level) > 1 {
		level = HashMerkleLevel(level)
	}

	return level[0], nil
}

// GetMerkleSteps returns the merkle branch for the coinbase transaction, which always sits at
// position 0, given the hashes of all other transactions in block order. Miners rebuild the root
// from a new coinbase hash and these steps without needing the full transaction list.
func GetMerkleSteps(hashes []chainhash.Hash) []chainhash.Hash {
	steps := make([]chainhash.Hash, 0, merkleDepth(len(hashes)+1))

	// the zero hash is a stand in for the coinbase, it is never part of the result
	level := make([]chainhash.Hash, 1, len(hashes)+2)
	level = append(level, hashes...)

	for len(level) > 1 {
		steps = append(steps, level[1])

		level = append(level[:1], HashMerkleLevel(level[2:])...)
	}

	return steps
}

// HashMerkleLevel hashes pairs of nodes into their parents. The last node of an odd level is paired
// with itself. The input is not modified.
func HashMerkleLevel(level []chainhash.Hash) []chainhash.Hash {
	parents := make([]chainhash.Hash, 0, (len(level)+1)/2)

	var buf [2 * chainhash.HashSize]byte

	for i := 0; i < len(level); i += 2 {
		right := i + 1
		if right == len(level) {
			right = i
		}

		copy(buf[:chainhash.HashSize], level[i][:])
		copy(buf[chainhash.HashSize:], level[right][:])

		parents = append(parents, sha256d.SumH(buf[:]))
	}

	return parents
}

// merkleDepth returns the number of levels above the leaves of a tree with the given leaf count.
func merkleDepth(leaves int) int {
	depth := 0
	for n := CeilPowerOfTwo(leaves); n > 1; n >>= 1 {
		depth++
	}

	return depth
}
