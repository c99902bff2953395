package model

import (
	"encoding/hex"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/go-chaincfg"
	"github.com/bsv-blockchain/sha256d/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	block1Header  = "0000002006226e46111a0b59caaf126043eb5bbf28c34f3a5e332a1fc7b2b73cf188910f1633819a69afbd7ce1f1a01c3b786fcbb023274f3b15172b24feadd4c80e6c6a8b491267ffff7f2004000000"
	genesisHeader = "0100000000000000000000000000000000000000000000000000000000000000000000003ba3edfd7a7b12b27ac72c3e67768f617fc81bc3888a51323a9fb8aa4b1e5e4a29ab5f49ffff001d1dac2b7c"
)

// The following JSON strings are taken from the Bitcoin SV regtest and the candidate was taken
// just before the block was mined, so the candidate and block are related.
var (
	getMiningCandidateJSON = `{
		"id": "ea4cb4f9-b1dc-49f7-a1c8-d850b2737846",
		"prevhash": "1a270fe33eab79fef413754296ae329b4fd3979feb8b8657597c54371ae524a3",
		"coinbase": "02000000010000000000000000000000000000000000000000000000000000000000000000ffffffff06037886000101ffffffff01a82f000000000000232103a920b957d6d2268812e02dfd8799ed2a867e2df86c4f8d1eaecb4c35266692b5ac00000000",
		"coinbaseValue": 12200,
		"version": 536870912,
		"nBits": "207fffff",
		"time": 1731944075,
		"height": 34424,
		"num_tx": 4,
		"sizeWithoutCoinbase": 690,
		"merkleProof": [
			"9f0a5462ca027f74b8c8e872331da1a55520197ff8734b604505c93cc7dfb968",
			"11a375f3e547d4babb672471a167443f96077c7c9950548ce6ec460f6da37a32"
		]
	}`
	getBlockJSON = `{
  "hash": "611fd97881064670555ac01db182c46134e770aa47d1a794b7df2767e42f3f89",
  "height": 34424,
  "version": 536870912,
  "merkleroot": "69813d58079d5d2924cf62b9f183bc058c04a98e35e67060dcfb71ad5435cb8a",
  "time": 1731944075,
  "nonce": 1,
  "bits": "207fffff",
  "difficulty": 4.656542373906925e-10,
  "chainwork": "0000000000000000000000000000000000000000000000000000000000010cf2",
  "previousblockhash": "1a270fe33eab79fef413754296ae329b4fd3979feb8b8657597c54371ae524a3"
}`
	blockHeaderBytes, _ = hex.DecodeString("00000020a324e51a37547c5957868beb9f97d34f9b32ae96427513f4fe79ab3ee30f271a8acb3554ad71fbdc6070e6358ea9048c05bc83f1b962cf24295d9d07583d81698b5e3b67ffff7f2001000000")
)

func TestNewBlockHeaderFromBytes(t *testing.T) {
	t.Run("block 1 from bytes", func(t *testing.T) {
		headerBytes, _ := hex.DecodeString(block1Header)
		blockHeader, err := NewBlockHeaderFromBytes(headerBytes)
		require.NoError(t, err)

		assert.Equal(t, uint32(0x20000000), blockHeader.Version)
		assert.Equal(t, "0f9188f13cb7b2c71f2a335e3a4fc328bf5beb436012afca590b1a11466e2206", blockHeader.HashPrevBlock.String())
		assert.Equal(t, "6a6c0ec8d4adfe242b17153b4f2723b0cb6f783b1ca0f1e17cbdaf699a813316", blockHeader.HashMerkleRoot.String())
		assert.Equal(t, uint32(1729251723), blockHeader.Timestamp)
		assert.Equal(t, "207fffff", blockHeader.Bits.String())
		assert.Equal(t, uint32(4), blockHeader.Nonce)
	})

	t.Run("block 1 from string", func(t *testing.T) {
		blockHeader, err := NewBlockHeaderFromString(block1Header)
		require.NoError(t, err)

		assert.Equal(t, uint32(0x20000000), blockHeader.Version)
		assert.Equal(t, uint32(4), blockHeader.Nonce)
	})

	t.Run("block 1 bytes round trip", func(t *testing.T) {
		headerBytes, _ := hex.DecodeString(block1Header)
		blockHeader, err := NewBlockHeaderFromBytes(headerBytes)
		require.NoError(t, err)

		assert.Equal(t, headerBytes, blockHeader.Bytes())
		assert.Equal(t, "4c74e0128fef1a01469380c05b215afaf4cfe51183461f4a7996a84295b6925a", blockHeader.Hash().String())
		assert.Equal(t, "4c74e0128fef1a01469380c05b215afaf4cfe51183461f4a7996a84295b6925a", blockHeader.String())
	})

	t.Run("block hash from fields", func(t *testing.T) {
		hashPrevBlock, _ := chainhash.NewHashFromStr("0f9188f13cb7b2c71f2a335e3a4fc328bf5beb436012afca590b1a11466e2206")
		hashMerkleRoot, _ := chainhash.NewHashFromStr("6a6c0ec8d4adfe242b17153b4f2723b0cb6f783b1ca0f1e17cbdaf699a813316")
		nBits, _ := NewNBitFromString("207fffff")
		blockHeader := &BlockHeader{
			Version:        0x20000000,
			HashPrevBlock:  hashPrevBlock,
			HashMerkleRoot: hashMerkleRoot,
			Timestamp:      1729251723,
			Bits:           *nBits,
			Nonce:          4,
		}

		assert.Equal(t, "4c74e0128fef1a01469380c05b215afaf4cfe51183461f4a7996a84295b6925a", blockHeader.Hash().String())
	})

	t.Run("genesis", func(t *testing.T) {
		blockHeader, err := NewBlockHeaderFromString(genesisHeader)
		require.NoError(t, err)

		assert.Equal(t, "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f", blockHeader.Hash().String())
		assert.Equal(t, "1d00ffff", blockHeader.Bits.String())

		ok, _, err := blockHeader.HasMetTargetDifficulty()
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := NewBlockHeaderFromBytes(make([]byte, 79))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
	})

	t.Run("bad hex", func(t *testing.T) {
		_, err := NewBlockHeaderFromString("zz")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
	})
}

func TestBlockHeaderBytesNilHashes(t *testing.T) {
	blockHeader := &BlockHeader{Version: 1, Nonce: 2}

	b := blockHeader.Bytes()
	require.Len(t, b, BlockHeaderSize)
	assert.Equal(t, make([]byte, 64), b[4:68])
}

func TestGetBlockJson(t *testing.T) {
	header, err := NewBlockHeaderFromJSON(getBlockJSON)
	require.NoError(t, err)

	ok, hash, err := header.HasMetTargetDifficulty()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "611fd97881064670555ac01db182c46134e770aa47d1a794b7df2767e42f3f89", hash.String())

	assert.Equal(t, blockHeaderBytes, header.Bytes())
}

func TestGetMiningCandidateJson(t *testing.T) {
	header, err := NewBlockHeaderFromJSON(getMiningCandidateJSON)
	require.NoError(t, err)

	assert.Equal(t, "69813d58079d5d2924cf62b9f183bc058c04a98e35e67060dcfb71ad5435cb8a", header.HashMerkleRoot.String())

	header.Nonce = 1 // set nonce to 1 to make it valid

	ok, hash, err := header.HasMetTargetDifficulty()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "611fd97881064670555ac01db182c46134e770aa47d1a794b7df2767e42f3f89", hash.String())

	assert.Equal(t, blockHeaderBytes, header.Bytes())
}

func TestNewBlockHeaderFromJSONErrors(t *testing.T) {
	tests := map[string]string{
		"not json":         `{`,
		"bad prev hash":    `{"previousblockhash": "xyz", "merkleroot": "00", "bits": "207fffff"}`,
		"no merkle source": `{"previousblockhash": "00", "bits": "207fffff"}`,
		"bad coinbase":     `{"prevhash": "00", "coinbase": "0g", "nBits": "207fffff"}`,
		"bad merkle proof": `{"prevhash": "00", "coinbase": "00", "merkleProof": ["zz"], "nBits": "207fffff"}`,
		"bad bits":         `{"previousblockhash": "00", "merkleroot": "00", "bits": "7fffff"}`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewBlockHeaderFromJSON(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
		})
	}
}

func TestHasMetTargetDifficulty(t *testing.T) {
	t.Run("hash above target", func(t *testing.T) {
		header, err := NewBlockHeaderFromJSON(getMiningCandidateJSON)
		require.NoError(t, err)

		// a hard target no regtest nonce will meet
		bits, err := NewNBitFromString("1d00ffff")
		require.NoError(t, err)
		header.Bits = *bits

		ok, hash, err := header.HasMetTargetDifficulty()
		require.Error(t, err)
		assert.False(t, ok)
		assert.NotNil(t, hash)
		assert.True(t, errors.Is(err, errors.ErrBlockInvalid))
	})

	t.Run("zero target", func(t *testing.T) {
		header := &BlockHeader{}

		ok, hash, err := header.HasMetTargetDifficulty()
		require.Error(t, err)
		assert.False(t, ok)
		assert.Nil(t, hash)
	})
}

func TestCheckPowLimit(t *testing.T) {
	genesis, err := NewBlockHeaderFromString(genesisHeader)
	require.NoError(t, err)

	regtestBlock1, err := NewBlockHeaderFromString(block1Header)
	require.NoError(t, err)

	require.NoError(t, genesis.CheckPowLimit(chaincfg.MainNetParams.PowLimit))
	require.NoError(t, genesis.CheckPowLimit(chaincfg.RegressionNetParams.PowLimit))
	require.NoError(t, regtestBlock1.CheckPowLimit(chaincfg.RegressionNetParams.PowLimit))

	err = regtestBlock1.CheckPowLimit(chaincfg.MainNetParams.PowLimit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBlockInvalid))
}

func TestNegativeTargetBits(t *testing.T) {
	// genesis with bits 2080ffff: sign bit set on a non zero mantissa
	headerHex := genesisHeader[:144] + "ffff8020" + genesisHeader[152:]

	header, err := NewBlockHeaderFromString(headerHex)
	require.NoError(t, err)
	require.Equal(t, "2080ffff", header.Bits.String())

	ok, hash, err := header.HasMetTargetDifficulty()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBlockInvalid))
	assert.False(t, ok)
	assert.Nil(t, hash)

	err = header.CheckPowLimit(chaincfg.RegressionNetParams.PowLimit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBlockInvalid))
}
