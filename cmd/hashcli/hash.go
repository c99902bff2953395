package hashcli

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/sha256d/crypto/sha256"
	"github.com/bsv-blockchain/sha256d/crypto/sha256d"
	"github.com/bsv-blockchain/sha256d/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func (r *runner) hashCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash",
		Usage:     "print the sha256d digest of the input",
		ArgsUsage: "[input]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "hex", Usage: "input is hex encoded"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "read input from `path`"},
			&cli.BoolFlag{Name: "single", Usage: "single sha256 instead of sha256d"},
			&cli.BoolFlag{
				Name:  "reverse",
				Usage: "print the digest reversed, the way block and tx ids are shown",
				Value: r.settings.Hashing.DisplayReversed,
			},
			&cli.StringFlag{Name: "expect", Usage: "fail unless the printed digest equals `hex`"},
		},
		Action: r.hash,
	}
}

func (r *runner) hash(cCtx *cli.Context) error {
	input, err := r.readInput(cCtx)
	if err != nil {
		return err
	}

	var digest [sha256.Size]byte
	if cCtx.Bool("single") {
		digest = sha256.Sum256(input)
	} else {
		digest = sha256d.Sum(input)
	}

	out := digest[:]
	if cCtx.Bool("reverse") {
		out = bt.ReverseBytes(out)
	}

	digestHex := hex.EncodeToString(out)

	r.logger.Debugf("[hash] %d input bytes, single=%t, reverse=%t", len(input), cCtx.Bool("single"), cCtx.Bool("reverse"))

	if expect := cCtx.String("expect"); expect != "" && !strings.EqualFold(expect, digestHex) {
		return errors.NewHashMismatchError("digest %s does not match expected %s", digestHex, expect)
	}

	_, err = fmt.Fprintln(stdout(cCtx), digestHex)

	return err
}

// readInput returns exactly one input: the file flag, the single argument or stdin.
func (r *runner) readInput(cCtx *cli.Context) ([]byte, error) {
	args := cCtx.Args()
	path := cCtx.String("file")

	switch {
	case args.Len() > 1:
		return nil, errors.NewInvalidArgumentError("you must provide one argument, got %d", args.Len())
	case args.Len() == 1 && path != "":
		return nil, errors.NewInvalidArgumentError("you must provide one argument, got an argument and a file")
	}

	var (
		data []byte
		err  error
	)

	switch {
	case path != "":
		data, err = r.readFile(path)
	case args.Len() == 1:
		data = []byte(args.First())
	default:
		data, err = r.readLimited(cCtx.App.Reader, "stdin")
	}

	if err != nil {
		return nil, err
	}

	if err = r.checkSize(len(data)); err != nil {
		return nil, err
	}

	if !cCtx.Bool("hex") {
		return data, nil
	}

	decoded, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, errors.NewInvalidArgumentError("input is not valid hex", err)
	}

	return decoded, nil
}

func (r *runner) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewProcessingError("error opening %s", path, err)
	}

	defer func() {
		_ = f.Close()
	}()

	return r.readLimited(f, path)
}

// readLimited reads at most one byte more than the configured limit so oversized input is detected
// without reading all of it.
func (r *runner) readLimited(reader io.Reader, name string) ([]byte, error) {
	// an interactive terminal would block waiting for input that is not coming
	if f, ok := reader.(*os.File); reader == nil || ok && term.IsTerminal(int(f.Fd())) {
		return nil, errors.NewInvalidArgumentError("you must provide one argument")
	}

	data, err := io.ReadAll(io.LimitReader(reader, int64(r.settings.Hashing.MaxInputSize)+1))
	if err != nil {
		return nil, errors.NewProcessingError("error reading %s", name, err)
	}

	return data, nil
}

func (r *runner) checkSize(size int) error {
	limit := r.settings.Hashing.MaxInputSize
	if int64(size) <= int64(limit) {
		return nil
	}

	err := errors.New(errors.ERR_INVALID_ARGUMENT, "input exceeds the maximum size of %s", limit)
	err.SetData("limit", int64(limit))

	return err
}
