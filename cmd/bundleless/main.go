package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bundleless/cmd/bundleless/commands"
	ferrors "git.home.luguber.info/inful/bundleless/internal/foundation/errors"
	"git.home.luguber.info/inful/bundleless/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Must(cli,
		kong.Name("bundleless"),
		kong.Description("Turn a directory of route page files into self-contained browser documents."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := kctx.Run(&commands.Global{Logger: slog.Default(), Stdout: os.Stdout}, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
