package model

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/sha256d/errors"
)

// NBit is the compact difficulty target of a block header, stored in wire (little endian) order.
type NBit [4]byte

// diff1Bits is the compact form of the difficulty 1 target used by sha256d chains.
const diff1Bits = 0x1d00ffff

var diff1Target = targetFromCompact(diff1Bits)

// NewNBitFromString parses the big endian hex form, e.g. "1d00ffff".
func NewNBitFromString(nBitStr string) (*NBit, error) {
	nBits, err := hex.DecodeString(nBitStr)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("error decoding nBits %q", nBitStr, err)
	}

	if len(nBits) != 4 {
		return nil, errors.NewInvalidArgumentError("nBits should be 4 bytes, got %d", len(nBits))
	}

	return NewNBitFromSlice(bt.ReverseBytes(nBits))
}

// NewNBitFromSlice takes the 4 bytes in wire order, as found in a serialized header.
func NewNBitFromSlice(nBits []byte) (*NBit, error) {
	if len(nBits) != 4 {
		return nil, errors.NewInvalidArgumentError("nBits should be 4 bytes, got %d", len(nBits))
	}

	var nb NBit

	copy(nb[:], nBits)

	return &nb, nil
}

// String returns the big endian hex form.
func (b NBit) String() string {
	return hex.EncodeToString(bt.ReverseBytes(b[:]))
}

// CloneBytes returns the bytes in wire order.
func (b NBit) CloneBytes() []byte {
	return append([]byte(nil), b[:]...)
}

// Compact returns the nBits as an integer.
func (b NBit) Compact() uint32 {
	return binary.LittleEndian.Uint32(b[:])
}

// CalculateTarget expands the compact form into the full 256 bit target.
func (b NBit) CalculateTarget() *big.Int {
	return targetFromCompact(b.Compact())
}

// CalculateDifficulty returns the network difficulty, the difficulty 1 target divided by this target.
// Zero and negative targets return +Inf.
func (b NBit) CalculateDifficulty() *big.Float {
	target := new(big.Float).SetInt(b.CalculateTarget())
	if target.Sign() <= 0 {
		return new(big.Float).SetInf(false)
	}

	return new(big.Float).Quo(new(big.Float).SetInt(diff1Target), target)
}

// targetFromCompact expands the compact form. A set sign bit with a non zero mantissa gives a
// negative target, which no hash can meet.
func targetFromCompact(nb uint32) *big.Int {
	exponent := nb >> 24
	mantissa := nb & 0x007fffff
	negative := nb&0x00800000 != 0

	var target *big.Int

	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		target = big.NewInt(int64(mantissa))
	} else {
		target = big.NewInt(int64(mantissa))
		target.Lsh(target, uint(8*(exponent-3)))
	}

	if negative && mantissa != 0 {
		target.Neg(target)
	}

	return target
}
