package hashcli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/bsv-blockchain/sha256d/errors"
	"github.com/bsv-blockchain/sha256d/util/bump"
	"github.com/bsv-blockchain/sha256d/util/merkleproof"
	"github.com/urfave/cli/v2"
)

func (r *runner) proofCommand() *cli.Command {
	return &cli.Command{
		Name:  "proof",
		Usage: "build a merkle proof in BUMP format for one transaction of a txid list",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "txid", Usage: "transaction `txid` in block order, coinbase first", Required: true},
			&cli.IntFlag{Name: "index", Usage: "position of the transaction to prove"},
			&cli.IntFlag{Name: "height", Usage: "block height written into the BUMP"},
			&cli.BoolFlag{Name: "json", Usage: "print the BUMP as json instead of hex"},
		},
		Action: r.proof,
	}
}

func (r *runner) proof(cCtx *cli.Context) error {
	hashes, err := parseHashes(cCtx.StringSlice("txid"))
	if err != nil {
		return err
	}

	proof, err := merkleproof.ConstructMerkleProof(hashes, cCtx.Int("index"))
	if err != nil {
		return err
	}

	verify := merkleproof.VerifyMerkleProof
	if proof.TxIndex == 0 {
		verify = merkleproof.VerifyMerkleProofForCoinbase
	}

	ok, err := verify(proof)
	if err != nil {
		return err
	}

	if !ok {
		return errors.NewProcessingError("proof for tx %s does not lead to root %s", proof.TxID, proof.MerkleRoot)
	}

	height, err := safeconversion.IntToUint32(cCtx.Int("height"))
	if err != nil {
		return errors.NewInvalidArgumentError("invalid block height", err)
	}

	b, err := bump.ConvertToBUMP(proof, height)
	if err != nil {
		return err
	}

	r.logger.Debugf("[proof] tx %s at %d, root %s", proof.TxID, proof.TxIndex, proof.MerkleRoot)

	var out []byte

	if cCtx.Bool("json") {
		out, err = json.MarshalIndent(b, "", "  ")
	} else {
		var encoded string
		encoded, err = b.EncodeHex()
		out = []byte(encoded)
	}

	if err != nil {
		return errors.NewProcessingError("error encoding BUMP", err)
	}

	_, err = fmt.Fprintln(stdout(cCtx), string(out))

	return err
}

func (r *runner) verifyProofCommand() *cli.Command {
	return &cli.Command{
		Name:      "verifyproof",
		Usage:     "print the merkle root a hex BUMP proves for a txid",
		ArgsUsage: "<bump hex>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "txid", Usage: "proven transaction `txid`, defaults to the flagged leaf"},
			&cli.StringFlag{Name: "expect", Usage: "fail unless the root equals `merkleroot`"},
		},
		Action: r.verifyProof,
	}
}

func (r *runner) verifyProof(cCtx *cli.Context) error {
	if cCtx.Args().Len() != 1 {
		return errors.NewInvalidArgumentError("you must provide one argument")
	}

	b, err := bump.NewFormatFromHex(cCtx.Args().First())
	if err != nil {
		return err
	}

	txidStr := cCtx.String("txid")
	if txidStr == "" {
		for _, node := range b.Path[0] {
			if node.TxID {
				txidStr = node.Hash
				break
			}
		}
	}

	txid, err := chainhash.NewHashFromStr(txidStr)
	if err != nil {
		return errors.NewInvalidArgumentError("invalid txid %q", txidStr, err)
	}

	root, err := b.CalculateRoot(txid)
	if err != nil {
		return err
	}

	if expect := cCtx.String("expect"); expect != "" && !strings.EqualFold(expect, root.String()) {
		return errors.NewHashMismatchError("merkle root %s does not match expected %s", root, expect)
	}

	_, err = fmt.Fprintln(stdout(cCtx), root.String())

	return err
}
