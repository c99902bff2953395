package model

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math/big"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/sha256d/crypto/sha256d"
	"github.com/bsv-blockchain/sha256d/errors"
	"github.com/bsv-blockchain/sha256d/util"
)

// BlockHeaderSize is the size of a serialized block header.
const BlockHeaderSize = 80

type BlockHeader struct {
	// Version of the block.  This is not the same as the protocol version.
	Version uint32

	// Hash of the previous block header in the blockchain.
	HashPrevBlock *chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	HashMerkleRoot *chainhash.Hash

	// Time the block was created in unix time.
	Timestamp uint32

	// Difficulty target for the block.
	Bits NBit

	// Nonce used to generate the block.
	Nonce uint32
}

func NewBlockHeaderFromBytes(headerBytes []byte) (*BlockHeader, error) {
	if len(headerBytes) != BlockHeaderSize {
		return nil, errors.NewInvalidArgumentError("block header should be %d bytes long, got %d", BlockHeaderSize, len(headerBytes))
	}

	hashPrevBlock, err := chainhash.NewHash(headerBytes[4:36])
	if err != nil {
		return nil, errors.NewProcessingError("error creating previous block hash from bytes", err)
	}

	hashMerkleRoot, err := chainhash.NewHash(headerBytes[36:68])
	if err != nil {
		return nil, errors.NewProcessingError("error creating merkle root hash from bytes", err)
	}

	bits, err := NewNBitFromSlice(headerBytes[72:76])
	if err != nil {
		return nil, err
	}

	return &BlockHeader{
		Version:        binary.LittleEndian.Uint32(headerBytes[:4]),
		HashPrevBlock:  hashPrevBlock,
		HashMerkleRoot: hashMerkleRoot,
		Timestamp:      binary.LittleEndian.Uint32(headerBytes[68:72]),
		Bits:           *bits,
		Nonce:          binary.LittleEndian.Uint32(headerBytes[76:]),
	}, nil
}

func NewBlockHeaderFromString(headerHex string) (*BlockHeader, error) {
	headerBytes, err := hex.DecodeString(headerHex)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("error decoding hex string to bytes", err)
	}

	return NewBlockHeaderFromBytes(headerBytes)
}

// jsonHeader covers both the getblock / getblockheader RPC output and the getminingcandidate
// output, which carries a coinbase and merkle proof instead of a merkle root.
type jsonHeader struct {
	Version           uint32   `json:"version"`
	PreviousBlockHash string   `json:"previousblockhash"`
	PrevHash          string   `json:"prevhash"`
	MerkleRoot        string   `json:"merkleroot"`
	Coinbase          string   `json:"coinbase"`
	MerkleProof       []string `json:"merkleProof"`
	Time              uint32   `json:"time"`
	Bits              string   `json:"bits"`
	NBits             string   `json:"nBits"`
	Nonce             uint32   `json:"nonce"`
}

// NewBlockHeaderFromJSON builds a header from node RPC JSON.
func NewBlockHeaderFromJSON(headerJSON string) (*BlockHeader, error) {
	var h jsonHeader
	if err := json.Unmarshal([]byte(headerJSON), &h); err != nil {
		return nil, errors.NewInvalidArgumentError("error parsing block header json", err)
	}

	prevHashStr := h.PreviousBlockHash
	if prevHashStr == "" {
		prevHashStr = h.PrevHash
	}

	hashPrevBlock, err := chainhash.NewHashFromStr(prevHashStr)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("error parsing previous block hash", err)
	}

	var hashMerkleRoot *chainhash.Hash

	if h.MerkleRoot != "" {
		if hashMerkleRoot, err = chainhash.NewHashFromStr(h.MerkleRoot); err != nil {
			return nil, errors.NewInvalidArgumentError("error parsing merkle root", err)
		}
	} else {
		if hashMerkleRoot, err = merkleRootFromCandidate(h.Coinbase, h.MerkleProof); err != nil {
			return nil, err
		}
	}

	bitsStr := h.Bits
	if bitsStr == "" {
		bitsStr = h.NBits
	}

	bits, err := NewNBitFromString(bitsStr)
	if err != nil {
		return nil, err
	}

	return &BlockHeader{
		Version:        h.Version,
		HashPrevBlock:  hashPrevBlock,
		HashMerkleRoot: hashMerkleRoot,
		Timestamp:      h.Time,
		Bits:           *bits,
		Nonce:          h.Nonce,
	}, nil
}

func merkleRootFromCandidate(coinbaseHex string, merkleProof []string) (*chainhash.Hash, error) {
	if coinbaseHex == "" {
		return nil, errors.NewInvalidArgumentError("block header json has neither merkleroot nor coinbase")
	}

	coinbase, err := hex.DecodeString(coinbaseHex)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("error decoding coinbase", err)
	}

	branches := make([]chainhash.Hash, 0, len(merkleProof))

	for _, p := range merkleProof {
		branch, err := chainhash.NewHashFromStr(p)
		if err != nil {
			return nil, errors.NewInvalidArgumentError("error parsing merkle proof hash %q", p, err)
		}

		branches = append(branches, *branch)
	}

	root := util.MerkleRootFromCoinbase(sha256d.SumH(coinbase), branches)

	return &root, nil
}

// Hash returns the sha256d of the serialized header.
func (bh *BlockHeader) Hash() *chainhash.Hash {
	hash := sha256d.SumH(bh.Bytes())
	return &hash
}

// String returns the block hash in display order.
func (bh *BlockHeader) String() string {
	return bh.Hash().String()
}

// HasMetTargetDifficulty checks the header hash against the target encoded in Bits.
// The hash is returned in every case where it could be computed.
func (bh *BlockHeader) HasMetTargetDifficulty() (bool, *chainhash.Hash, error) {
	target := bh.Bits.CalculateTarget()
	if target.Sign() <= 0 {
		return false, nil, errors.NewBlockInvalidError("block has invalid difficulty bits %s", bh.Bits)
	}

	hash := bh.Hash()

	hashInt := new(big.Int).SetBytes(bt.ReverseBytes(hash[:]))
	if hashInt.Cmp(target) <= 0 {
		return true, hash, nil
	}

	return false, hash, errors.NewBlockInvalidError("block hash %s is above target %064x", hash, target)
}

// CheckPowLimit rejects headers whose bits encode a target above the network proof of work limit.
func (bh *BlockHeader) CheckPowLimit(powLimit *big.Int) error {
	target := bh.Bits.CalculateTarget()
	if target.Sign() <= 0 {
		return errors.NewBlockInvalidError("block has invalid difficulty bits %s", bh.Bits)
	}

	if target.Cmp(powLimit) > 0 {
		return errors.NewBlockInvalidError("target %064x from bits %s is above the proof of work limit %064x", target, bh.Bits, powLimit)
	}

	return nil
}

func (bh *BlockHeader) Bytes() []byte {
	if bh == nil {
		return nil
	}

	blockHeaderBytes := make([]byte, BlockHeaderSize)

	binary.LittleEndian.PutUint32(blockHeaderBytes[:4], bh.Version)

	if bh.HashPrevBlock != nil {
		copy(blockHeaderBytes[4:36], bh.HashPrevBlock[:])
	}

	if bh.HashMerkleRoot != nil {
		copy(blockHeaderBytes[36:68], bh.HashMerkleRoot[:])
	}

	binary.LittleEndian.PutUint32(blockHeaderBytes[68:72], bh.Timestamp)
	copy(blockHeaderBytes[72:76], bh.Bits[:])
	binary.LittleEndian.PutUint32(blockHeaderBytes[76:], bh.Nonce)

	return blockHeaderBytes
}
