package main

import (
	"os"

	"github.com/bsv-blockchain/sha256d/cmd/hashcli"
	"github.com/bsv-blockchain/sha256d/settings"
	"github.com/bsv-blockchain/sha256d/ulogger"
)

func main() {
	tSettings := settings.NewSettings()

	// stdout carries the digests, logs go to stderr
	logger := ulogger.New(tSettings.ClientName,
		ulogger.WithLevel(tSettings.LogLevel),
		ulogger.WithWriter(os.Stderr),
		ulogger.WithPretty(tSettings.PrettyLogs),
	)

	app := hashcli.NewApp(logger, tSettings)

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
