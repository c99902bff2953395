package model

import (
	"math/big"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/sha256d/errors"
)

// CalculateWork adds the work represented by nBits to the cumulative chain work in prevWork.
// Chain work is kept in a hash in internal (little endian) byte order.
func CalculateWork(prevWork *chainhash.Hash, nBits NBit) (*chainhash.Hash, error) {
	target := nBits.CalculateTarget()
	if target.Sign() <= 0 {
		return nil, errors.NewInvalidArgumentError("nBits %s has no valid target", nBits)
	}

	// work is 2^256 / (target + 1)
	work := new(big.Int).Div(new(big.Int).Lsh(big.NewInt(1), 256), new(big.Int).Add(target, big.NewInt(1)))

	newWork := new(big.Int).Add(new(big.Int).SetBytes(bt.ReverseBytes(prevWork[:])), work)
	if newWork.BitLen() > 256 {
		return nil, errors.NewProcessingError("chain work overflows 256 bits")
	}

	b := bt.ReverseBytes(newWork.Bytes())
	hash := &chainhash.Hash{}
	copy(hash[:], b)

	return hash, nil
}
