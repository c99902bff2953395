// Package merkleproof builds and verifies merkle inclusion proofs for transactions in a block.
package merkleproof

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/sha256d/crypto/sha256d"
	"github.com/bsv-blockchain/sha256d/errors"
	"github.com/bsv-blockchain/sha256d/util"
)

// Sibling positions used in MerkleProof.Flags
const (
	SiblingLeft  = 0
	SiblingRight = 1
)

// MerkleProof represents a complete merkle proof for a transaction in a block.
type MerkleProof struct {
	// TxID is the transaction hash being proven
	TxID chainhash.Hash

	// TxIndex is the position of the transaction in the block
	TxIndex int

	// MerkleRoot is the merkle root of the block
	MerkleRoot chainhash.Hash

	// Path contains the sibling hashes from the transaction up to the root.
	// A node without a sibling is paired with itself, so the path then holds the node's own hash.
	Path []chainhash.Hash

	// Flags indicates whether each hash in Path is a left (0) or right (1) sibling
	Flags []int
}

// ConstructMerkleProof constructs the proof for the transaction at txIndex in a block with the
// given txids, in block order.
func ConstructMerkleProof(txids []chainhash.Hash, txIndex int) (*MerkleProof, error) {
	if len(txids) == 0 {
		return nil, errors.NewInvalidArgumentError("no transactions to build a proof from")
	}

	if txIndex < 0 || txIndex >= len(txids) {
		return nil, errors.NewInvalidArgumentError("invalid transaction index %d for %d transactions", txIndex, len(txids))
	}

	root, err := util.BuildMerkleRoot(txids)
	if err != nil {
		return nil, err
	}

	proof := &MerkleProof{
		TxID:       txids[txIndex],
		TxIndex:    txIndex,
		MerkleRoot: root,
		Path:       make([]chainhash.Hash, 0),
		Flags:      make([]int, 0),
	}

	currentIndex := txIndex

	currentLevel := make([]chainhash.Hash, len(txids))
	copy(currentLevel, txids)

	for len(currentLevel) > 1 {
		siblingIndex := currentIndex ^ 1
		if siblingIndex >= len(currentLevel) {
			siblingIndex = currentIndex
		}

		flag := SiblingRight
		if siblingIndex < currentIndex {
			flag = SiblingLeft
		}

		proof.Path = append(proof.Path, currentLevel[siblingIndex])
		proof.Flags = append(proof.Flags, flag)

		currentLevel = util.HashMerkleLevel(currentLevel)
		currentIndex /= 2
	}

	return proof, nil
}

// CalculateRoot folds the proof path over the transaction hash.
func (p *MerkleProof) CalculateRoot() chainhash.Hash {
	currentHash := p.TxID

	var combined [2 * chainhash.HashSize]byte

	for i, proofHash := range p.Path {
		if i < len(p.Flags) && p.Flags[i] == SiblingLeft {
			copy(combined[:chainhash.HashSize], proofHash[:])
			copy(combined[chainhash.HashSize:], currentHash[:])
		} else {
			copy(combined[:chainhash.HashSize], currentHash[:])
			copy(combined[chainhash.HashSize:], proofHash[:])
		}

		currentHash = sha256d.SumH(combined[:])
	}

	return currentHash
}

// VerifyMerkleProof reports whether the proof path leads from the transaction to the merkle root.
func VerifyMerkleProof(proof *MerkleProof) (bool, error) {
	if proof == nil {
		return false, errors.NewInvalidArgumentError("proof cannot be nil")
	}

	if len(proof.Flags) != len(proof.Path) {
		return false, errors.NewInvalidArgumentError("proof has %d hashes but %d flags", len(proof.Path), len(proof.Flags))
	}

	root := proof.CalculateRoot()

	return root.IsEqual(&proof.MerkleRoot), nil
}

// VerifyMerkleProofForCoinbase verifies a proof that must belong to the coinbase, which is always
// the first transaction in a block.
func VerifyMerkleProofForCoinbase(proof *MerkleProof) (bool, error) {
	if proof == nil {
		return false, errors.NewInvalidArgumentError("proof cannot be nil")
	}

	if proof.TxIndex != 0 {
		return false, errors.NewInvalidArgumentError("invalid coinbase position %d", proof.TxIndex)
	}

	for _, flag := range proof.Flags {
		if flag != SiblingRight {
			return false, nil
		}
	}

	return VerifyMerkleProof(proof)
}
