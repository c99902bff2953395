package settings

import (
	"github.com/bsv-blockchain/go-chaincfg"
	"github.com/bsv-blockchain/sha256d/util/bytesize"
)

type Settings struct {
	ClientName     string
	LogLevel       string
	PrettyLogs     bool
	ChainCfgParams *chaincfg.Params
	Hashing        HashingSettings
	Bench          BenchSettings
}

type HashingSettings struct {
	// MaxInputSize caps the size of a single CLI or file input
	MaxInputSize bytesize.ByteSize
	// DisplayReversed prints digests in the reversed order used for block and tx ids
	DisplayReversed bool
}

type BenchSettings struct {
	Size       bytesize.ByteSize
	Iterations int
	Workers    int
}
