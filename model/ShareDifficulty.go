package model

import (
	"math/big"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// ShareMultiplier scales share difficulty for sha256d, where one share equals one difficulty 1 hash.
const ShareMultiplier = 1

// ShareDifficulty returns the difficulty a header hash proves: the difficulty 1 target divided by
// the hash read as a 256 bit number. A zero hash returns +Inf.
func ShareDifficulty(hash *chainhash.Hash) *big.Float {
	hashInt := new(big.Int).SetBytes(bt.ReverseBytes(hash[:]))
	if hashInt.Sign() == 0 {
		return new(big.Float).SetInf(false)
	}

	diff := new(big.Float).Quo(new(big.Float).SetInt(diff1Target), new(big.Float).SetInt(hashInt))

	return diff.Mul(diff, big.NewFloat(ShareMultiplier))
}

// ShareDifficulty is the difficulty of the share this header represents.
func (bh *BlockHeader) ShareDifficulty() *big.Float {
	return ShareDifficulty(bh.Hash())
}
