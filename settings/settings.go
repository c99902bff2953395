// Package settings loads the sha256d tool configuration from settings.conf and the environment
// through gocore.
package settings

import (
	"github.com/bsv-blockchain/go-chaincfg"
	"github.com/bsv-blockchain/sha256d/errors"
)

func NewSettings() *Settings {
	params, err := chaincfg.GetChainParams(getString("network", "mainnet"))
	if err != nil {
		panic(err)
	}

	maxInputSize, err := getByteSize("sha256d_maxInputSize", "64MB")
	if err != nil {
		panic(err)
	}

	benchSize, err := getByteSize("sha256d_benchSize", "4MB")
	if err != nil {
		panic(err)
	}

	return &Settings{
		ClientName:     getString("clientName", "sha256d"),
		LogLevel:       getString("logLevel", "INFO"),
		PrettyLogs:     getBool("PRETTY_LOGS", true),
		ChainCfgParams: params,
		Hashing: HashingSettings{
			MaxInputSize:    maxInputSize,
			DisplayReversed: getBool("sha256d_displayReversed", false),
		},
		Bench: BenchSettings{
			Size:       benchSize,
			Iterations: getInt("sha256d_benchIterations", 16),
			Workers:    getInt("sha256d_benchWorkers", 1),
		},
	}
}

// Validate checks the values that NewSettings cannot reject while parsing.
func (s *Settings) Validate() error {
	if s.Hashing.MaxInputSize <= 0 {
		return errors.NewConfigurationError("sha256d_maxInputSize must be positive, got %d", s.Hashing.MaxInputSize)
	}

	if s.Bench.Size <= 0 {
		return errors.NewConfigurationError("sha256d_benchSize must be positive, got %d", s.Bench.Size)
	}

	if s.Bench.Workers <= 0 {
		return errors.NewConfigurationError("sha256d_benchWorkers must be positive, got %d", s.Bench.Workers)
	}

	if s.Bench.Iterations <= 0 {
		return errors.NewConfigurationError("sha256d_benchIterations must be positive, got %d", s.Bench.Iterations)
	}

	return nil
}
