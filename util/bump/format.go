// Package bump provides BUMP (BSV Unified Merkle Path) format support for merkle proofs.
// BUMP is a standardized format for representing merkle tree paths in the BSV ecosystem,
// defined in BRC-74: https://github.com/bitcoin-sv/BRCs/blob/master/transactions/0074.md
package bump

import (
	"bytes"
	"encoding/hex"
	"sort"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/bsv-blockchain/sha256d/crypto/sha256d"
	"github.com/bsv-blockchain/sha256d/errors"
	"github.com/bsv-blockchain/sha256d/util/merkleproof"
)

// maxTreeHeight bounds the number of levels in a path
const maxTreeHeight = 64

// Format represents the BSV Unified Merkle Path format structure.
type Format struct {
	// BlockHeight is the height of the block containing the transaction
	BlockHeight uint32 `json:"blockHeight"`

	// Path represents the merkle tree path as an array of levels, leaves first.
	Path []Level `json:"path"`
}

// Level holds the nodes of one level of the tree that are needed to compute the root.
type Level []Node

// Node represents a single node at a level in the merkle tree.
type Node struct {
	// Offset is the position of this node within its level of the tree
	Offset uint64 `json:"offset"`

	// Hash is the hash in display order, empty for duplicate nodes
	Hash string `json:"hash,omitempty"`

	// TxID marks the leaf of the transaction the path proves
	TxID bool `json:"txid,omitempty"`

	// Duplicate indicates the working hash is paired with itself
	Duplicate bool `json:"duplicate,omitempty"`
}

// BUMPFlags represents the flag values used in binary BUMP format
const (
	// FlagData indicates that hash data follows, not a client txid
	FlagData = 0x00

	// FlagDuplicate indicates to duplicate the working hash
	FlagDuplicate = 0x01

	// FlagTxID indicates that hash data follows and is a client txid
	FlagTxID = 0x02
)

// ConvertToBUMP converts a merkle proof to BUMP format.
func ConvertToBUMP(proof *merkleproof.MerkleProof, blockHeight uint32) (*Format, error) {
	if proof == nil {
		return nil, errors.NewInvalidArgumentError("proof cannot be nil")
	}

	if len(proof.Path) == 0 {
		return nil, errors.NewInvalidArgumentError("a single transaction block has no merkle path")
	}

	if len(proof.Path) > maxTreeHeight {
		return nil, errors.NewInvalidArgumentError("proof too long: %d levels", len(proof.Path))
	}

	b := &Format{
		BlockHeight: blockHeight,
		Path:        make([]Level, 0, len(proof.Path)),
	}

	working := proof.TxID
	index := uint64(proof.TxIndex)

	var combined [2 * chainhash.HashSize]byte

	for levelIdx, sibling := range proof.Path {
		siblingNode := Node{Offset: index ^ 1}

		leftSibling := levelIdx < len(proof.Flags) && proof.Flags[levelIdx] == merkleproof.SiblingLeft
		if !leftSibling && sibling.IsEqual(&working) {
			siblingNode.Duplicate = true
		} else {
			siblingNode.Hash = sibling.String()
		}

		level := Level{siblingNode}
		if levelIdx == 0 {
			level = append(level, Node{Offset: index, Hash: proof.TxID.String(), TxID: true})
			sort.Slice(level, func(i, j int) bool { return level[i].Offset < level[j].Offset })
		}

		b.Path = append(b.Path, level)

		if leftSibling {
			copy(combined[:chainhash.HashSize], sibling[:])
			copy(combined[chainhash.HashSize:], working[:])
		} else {
			copy(combined[:chainhash.HashSize], working[:])
			copy(combined[chainhash.HashSize:], sibling[:])
		}

		working = sha256d.SumH(combined[:])
		index >>= 1
	}

	return b, nil
}

// CalculateRoot computes the merkle root for the transaction at level 0 with the given txid.
func (b *Format) CalculateRoot(txid *chainhash.Hash) (*chainhash.Hash, error) {
	if err := Validate(b); err != nil {
		return nil, err
	}

	var (
		index    uint64
		found    bool
		working  = *txid
		combined [2 * chainhash.HashSize]byte
	)

	for _, node := range b.Path[0] {
		if node.Hash == txid.String() {
			index, found = node.Offset, true
			break
		}
	}

	if !found {
		return nil, errors.NewInvalidArgumentError("txid %s is not part of the path", txid)
	}

	for levelIdx, level := range b.Path {
		node, ok := level.find(index ^ 1)
		if !ok {
			return nil, errors.NewProcessingError("level %d has no node at offset %d", levelIdx, index^1)
		}

		sibling := working
		if !node.Duplicate {
			hash, err := chainhash.NewHashFromStr(node.Hash)
			if err != nil {
				return nil, errors.NewProcessingError("invalid hash at level %d", levelIdx, err)
			}

			sibling = *hash
		}

		if index&1 == 1 {
			copy(combined[:chainhash.HashSize], sibling[:])
			copy(combined[chainhash.HashSize:], working[:])
		} else {
			copy(combined[:chainhash.HashSize], working[:])
			copy(combined[chainhash.HashSize:], sibling[:])
		}

		working = sha256d.SumH(combined[:])
		index >>= 1
	}

	return &working, nil
}

func (l Level) find(offset uint64) (Node, bool) {
	for _, node := range l {
		if node.Offset == offset {
			return node, true
		}
	}

	return Node{}, false
}

// EncodeBinary encodes the BUMP format to binary representation.
// The binary layout follows BRC-74:
// - Block height as VarInt
// - Tree height as single byte
// - For each level: number of leaf nodes + node data (offset + flags + hash)
//
// Hashes are written in internal byte order.
func (b *Format) EncodeBinary() ([]byte, error) {
	if err := Validate(b); err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	buf.Write(bt.VarInt(b.BlockHeight).Bytes())
	buf.WriteByte(uint8(len(b.Path)))

	for levelIdx, level := range b.Path {
		buf.Write(bt.VarInt(len(level)).Bytes())

		for nodeIdx, node := range level {
			buf.Write(bt.VarInt(node.Offset).Bytes())

			switch {
			case node.Duplicate:
				buf.WriteByte(FlagDuplicate)
				continue
			case node.TxID:
				buf.WriteByte(FlagTxID)
			default:
				buf.WriteByte(FlagData)
			}

			hash, err := chainhash.NewHashFromStr(node.Hash)
			if err != nil {
				return nil, errors.NewInvalidArgumentError("invalid hash at level %d, node %d", levelIdx, nodeIdx, err)
			}

			buf.Write(hash[:])
		}
	}

	return buf.Bytes(), nil
}

// EncodeHex encodes the BUMP format to hexadecimal string representation.
func (b *Format) EncodeHex() (string, error) {
	binaryData, err := b.EncodeBinary()
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(binaryData), nil
}

// NewFormatFromBytes decodes the binary BUMP representation.
func NewFormatFromBytes(data []byte) (*Format, error) {
	r := &reader{data: data}

	blockHeightVarInt, err := r.readVarInt()
	if err != nil {
		return nil, err
	}

	blockHeight, err := safeconversion.Uint64ToUint32(blockHeightVarInt)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("block height %d does not fit in 32 bits", blockHeightVarInt, err)
	}

	treeHeight, err := r.readByte()
	if err != nil {
		return nil, err
	}

	b := &Format{
		BlockHeight: blockHeight,
		Path:        make([]Level, 0, treeHeight),
	}

	for levelIdx := 0; levelIdx < int(treeHeight); levelIdx++ {
		nLeaves, err := r.readVarInt()
		if err != nil {
			return nil, err
		}

		if nLeaves > uint64(len(data)) {
			return nil, errors.NewInvalidArgumentError("level %d claims %d nodes", levelIdx, nLeaves)
		}

		level := make(Level, 0, nLeaves)

		for i := uint64(0); i < nLeaves; i++ {
			node, err := r.readNode()
			if err != nil {
				return nil, err
			}

			level = append(level, node)
		}

		b.Path = append(b.Path, level)
	}

	if r.pos != len(data) {
		return nil, errors.NewInvalidArgumentError("%d trailing bytes after BUMP", len(data)-r.pos)
	}

	if err = Validate(b); err != nil {
		return nil, err
	}

	return b, nil
}

// NewFormatFromHex decodes the hex encoded binary BUMP representation.
func NewFormatFromHex(s string) (*Format, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("invalid BUMP hex", err)
	}

	return NewFormatFromBytes(data)
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errors.NewInvalidArgumentError("unexpected end of BUMP data at byte %d", r.pos)
	}

	v := r.data[r.pos]
	r.pos++

	return v, nil
}

func (r *reader) readVarInt() (uint64, error) {
	if r.pos >= len(r.data) {
		return 0, errors.NewInvalidArgumentError("unexpected end of BUMP data at byte %d", r.pos)
	}

	size := 1

	switch r.data[r.pos] {
	case 0xfd:
		size = 3
	case 0xfe:
		size = 5
	case 0xff:
		size = 9
	}

	if r.pos+size > len(r.data) {
		return 0, errors.NewInvalidArgumentError("truncated varint at byte %d", r.pos)
	}

	v, _ := bt.NewVarIntFromBytes(r.data[r.pos : r.pos+size])
	r.pos += size

	return uint64(v), nil
}

func (r *reader) readNode() (Node, error) {
	offset, err := r.readVarInt()
	if err != nil {
		return Node{}, err
	}

	flag, err := r.readByte()
	if err != nil {
		return Node{}, err
	}

	node := Node{Offset: offset}

	switch flag {
	case FlagDuplicate:
		node.Duplicate = true
		return node, nil
	case FlagTxID:
		node.TxID = true
	case FlagData:
	default:
		return Node{}, errors.NewInvalidArgumentError("unknown flag %02x at byte %d", flag, r.pos-1)
	}

	if r.pos+chainhash.HashSize > len(r.data) {
		return Node{}, errors.NewInvalidArgumentError("truncated hash at byte %d", r.pos)
	}

	hash, err := chainhash.NewHash(r.data[r.pos : r.pos+chainhash.HashSize])
	if err != nil {
		return Node{}, errors.NewInvalidArgumentError("invalid hash at byte %d", r.pos, err)
	}

	r.pos += chainhash.HashSize
	node.Hash = hash.String()

	return node, nil
}

// Validate validates that a BUMP structure is correctly formatted.
func Validate(b *Format) error {
	if b == nil {
		return errors.NewInvalidArgumentError("BUMP structure cannot be nil")
	}

	if len(b.Path) == 0 {
		return errors.NewInvalidArgumentError("BUMP path cannot be empty")
	}

	if len(b.Path) > maxTreeHeight {
		return errors.NewInvalidArgumentError("BUMP path too long: %d levels (max %d)", len(b.Path), maxTreeHeight)
	}

	for levelIdx, level := range b.Path {
		if len(level) == 0 {
			return errors.NewInvalidArgumentError("level %d cannot be empty", levelIdx)
		}

		for nodeIdx, node := range level {
			if node.Duplicate {
				if node.Hash != "" || node.TxID {
					return errors.NewInvalidArgumentError("duplicate flag cannot be combined with a hash at level %d, node %d", levelIdx, nodeIdx)
				}

				continue
			}

			if len(node.Hash) != 2*chainhash.HashSize {
				return errors.NewInvalidArgumentError("invalid hash length at level %d, node %d: expected 64 chars, got %d", levelIdx, nodeIdx, len(node.Hash))
			}

			if _, err := hex.DecodeString(node.Hash); err != nil {
				return errors.NewInvalidArgumentError("invalid hash hex at level %d, node %d", levelIdx, nodeIdx, err)
			}
		}
	}

	return nil
}
