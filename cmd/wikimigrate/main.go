package main

import (
	"log/slog"
	"os"

	ferrors "git.home.luguber.info/inful/wikimigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimigrate/internal/version"
	"github.com/alecthomas/kong"
)

func main() {
	cli := &CLI{}
	parser := kong.Must(cli,
		kong.Name("wikimigrate"),
		kong.Description("Transform MediaWiki pages for import into BookStack."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(&Global{Logger: slog.Default()}, cli); err != nil {
		adapter := ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		adapter.HandleError(err)
	}
}
