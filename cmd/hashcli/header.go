package hashcli

import (
	"fmt"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/go-chaincfg"
	"github.com/bsv-blockchain/sha256d/errors"
	"github.com/bsv-blockchain/sha256d/model"
	"github.com/urfave/cli/v2"
)

func (r *runner) headerCommand() *cli.Command {
	return &cli.Command{
		Name:      "header",
		Usage:     "hash a block header and check it against its target",
		ArgsUsage: "<80 byte header hex | header json>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "argument is a getblock or block candidate json object"},
			&cli.StringFlag{Name: "network", Usage: "mainnet, testnet, regtest or stn, defaults to the network setting"},
		},
		Action: r.header,
	}
}

func (r *runner) header(cCtx *cli.Context) error {
	if cCtx.Args().Len() != 1 {
		return errors.NewInvalidArgumentError("you must provide one argument")
	}

	var (
		header *model.BlockHeader
		err    error
	)

	if cCtx.Bool("json") {
		header, err = model.NewBlockHeaderFromJSON(cCtx.Args().First())
	} else {
		header, err = model.NewBlockHeaderFromString(strings.TrimSpace(cCtx.Args().First()))
	}

	if err != nil {
		return err
	}

	params := r.settings.ChainCfgParams
	if network := cCtx.String("network"); network != "" {
		if params, err = chaincfg.GetChainParams(network); err != nil {
			return errors.NewInvalidArgumentError("unknown network %s", network, err)
		}
	}

	powLimit := "ok"
	if err = header.CheckPowLimit(params.PowLimit); err != nil {
		r.logger.Debugf("[header] %v", err)
		powLimit = "exceeded"
	}

	valid, hash, err := header.HasMetTargetDifficulty()
	if err != nil && hash == nil {
		return err
	}

	if err != nil {
		r.logger.Debugf("[header] %v", err)
	}

	work := "invalid"
	if blockWork, workErr := model.CalculateWork(&chainhash.Hash{}, header.Bits); workErr == nil {
		work = blockWork.String()
	}

	w := stdout(cCtx)

	_, _ = fmt.Fprintf(w, "hash:       %s\n", hash)
	_, _ = fmt.Fprintf(w, "network:    %s\n", params.Name)
	_, _ = fmt.Fprintf(w, "genesis:    %t\n", params.GenesisHash != nil && hash.String() == params.GenesisHash.String())
	_, _ = fmt.Fprintf(w, "bits:       %s\n", header.Bits)
	_, _ = fmt.Fprintf(w, "target:     %064x\n", header.Bits.CalculateTarget())
	_, _ = fmt.Fprintf(w, "difficulty: %s\n", header.Bits.CalculateDifficulty().Text('g', 17))
	_, _ = fmt.Fprintf(w, "share:      %s\n", header.ShareDifficulty().Text('g', 17))
	_, _ = fmt.Fprintf(w, "work:       %s\n", work)
	_, _ = fmt.Fprintf(w, "powlimit:   %s\n", powLimit)
	_, err = fmt.Fprintf(w, "valid:      %t\n", valid && powLimit == "ok")

	return err
}
