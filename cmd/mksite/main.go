package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mksite/cmd/mksite/commands"
	berrors "git.home.luguber.info/inful/mksite/internal/errors"
	"git.home.luguber.info/inful/mksite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("mksite"),
		kong.Description("Build a static site from Markdown content and HTML templates."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := commands.NewGlobal()
	if err := parser.Run(global, cli); err != nil {
		berrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
