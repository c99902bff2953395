// Package hashcli implements the sha256d command line tool: hashing of literal, hex, file and
// stdin input, block header inspection, merkle roots and proofs, and a throughput benchmark.
package hashcli

import (
	"io"
	"os"

	"github.com/bsv-blockchain/sha256d/settings"
	"github.com/bsv-blockchain/sha256d/ulogger"
	"github.com/urfave/cli/v2"
)

const (
	appName  = "sha256d"
	appUsage = "double SHA-256 hashing for block headers, transactions and merkle trees"
)

type runner struct {
	logger   ulogger.Logger
	settings *settings.Settings
}

// NewApp returns the cli application. Output goes to stdout, stdin is read when a command has
// no input argument; both can be swapped on the returned app.
func NewApp(logger ulogger.Logger, tSettings *settings.Settings) *cli.App {
	r := &runner{
		logger:   logger,
		settings: tSettings,
	}

	return &cli.App{
		Name:   appName,
		Usage:  appUsage,
		Reader: os.Stdin,
		Writer: os.Stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "DEBUG, INFO, WARN or ERROR",
				Value: tSettings.LogLevel,
			},
		},
		Before: r.before,
		Commands: []*cli.Command{
			r.hashCommand(),
			r.headerCommand(),
			r.merkleRootCommand(),
			r.proofCommand(),
			r.verifyProofCommand(),
			r.benchCommand(),
		},
	}
}

func (r *runner) before(cCtx *cli.Context) error {
	if cCtx.IsSet("log-level") {
		r.logger.SetLogLevel(cCtx.String("log-level"))
	}

	return r.settings.Validate()
}

func stdout(cCtx *cli.Context) io.Writer {
	return cCtx.App.Writer
}
