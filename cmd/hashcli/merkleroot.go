package hashcli

import (
	"encoding/hex"
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/sha256d/errors"
	"github.com/bsv-blockchain/sha256d/util"
	"github.com/urfave/cli/v2"
)

func (r *runner) merkleRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "merkleroot",
		Usage: "build a merkle root from a coinbase and its branch, or from a full txid list",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "coinbase", Usage: "coinbase `txid`"},
			&cli.StringSliceFlag{Name: "branch", Usage: "merkle branch `hash`, repeat in order"},
			&cli.StringSliceFlag{Name: "txid", Usage: "transaction `txid` in block order, coinbase first"},
			&cli.BoolFlag{Name: "steps", Usage: "also print the coinbase merkle branch of the txid list"},
		},
		Action: r.merkleRoot,
	}
}

func (r *runner) merkleRoot(cCtx *cli.Context) error {
	coinbase := cCtx.String("coinbase")
	txids := cCtx.StringSlice("txid")

	switch {
	case coinbase != "" && len(txids) > 0:
		return errors.NewInvalidArgumentError("--coinbase and --txid cannot be combined")
	case coinbase != "":
		return r.rootFromCoinbase(cCtx, coinbase, cCtx.StringSlice("branch"))
	case len(txids) > 0:
		return r.rootFromTxids(cCtx, txids)
	default:
		return errors.NewInvalidArgumentError("either --coinbase or --txid is required")
	}
}

func (r *runner) rootFromCoinbase(cCtx *cli.Context, coinbase string, branches []string) error {
	coinbaseHash, err := chainhash.NewHashFromStr(coinbase)
	if err != nil {
		return errors.NewInvalidArgumentError("invalid coinbase txid %s", coinbase, err)
	}

	branchHashes, err := parseHashes(branches)
	if err != nil {
		return err
	}

	branchBytes := make([][]byte, 0, len(branchHashes))
	for _, branch := range branchHashes {
		branchBytes = append(branchBytes, branch.CloneBytes())
	}

	root := util.BuildMerkleRootFromCoinbase(coinbaseHash.CloneBytes(), branchBytes)

	r.logger.Debugf("[merkleroot] coinbase %s with %d branches", coinbaseHash, len(branchHashes))

	_, err = fmt.Fprintln(stdout(cCtx), hex.EncodeToString(root))

	return err
}

func (r *runner) rootFromTxids(cCtx *cli.Context, txids []string) error {
	hashes, err := parseHashes(txids)
	if err != nil {
		return err
	}

	root, err := util.BuildMerkleRoot(hashes)
	if err != nil {
		return err
	}

	r.logger.Debugf("[merkleroot] %d txids", len(hashes))

	w := stdout(cCtx)

	if _, err = fmt.Fprintln(w, root.String()); err != nil {
		return err
	}

	if !cCtx.Bool("steps") {
		return nil
	}

	for _, step := range util.GetMerkleSteps(hashes[1:]) {
		if _, err = fmt.Fprintln(w, step.String()); err != nil {
			return err
		}
	}

	return nil
}

// parseHashes reads hashes given in display order, the way txids and merkle branches are shown by nodes
func parseHashes(values []string) ([]chainhash.Hash, error) {
	hashes := make([]chainhash.Hash, 0, len(values))

	for _, value := range values {
		hash, err := chainhash.NewHashFromStr(value)
		if err != nil {
			return nil, errors.NewInvalidArgumentError("invalid hash %s", value, err)
		}

		hashes = append(hashes, *hash)
	}

	return hashes, nil
}
