// Command sqlitego opens a SQLite database file read-only and runs a
// single dot-command or SQL statement against it, printing the result
// lines to stdout.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/codecrafters-io/sqlite-go/internal/config"
	"github.com/codecrafters-io/sqlite-go/internal/format"
	"github.com/codecrafters-io/sqlite-go/internal/sqlexec"
	"github.com/codecrafters-io/sqlite-go/internal/storage"
)

// CLI defines the command-line interface, grounded on
// FocuswithJustin-JuniperBible/cmd/capsule/main.go's kong.Parse usage:
// two required positionals, matching spec.md §6's command surface
// exactly (no subcommand tree, since there is only one operation).
var CLI struct {
	Database string `arg:"" help:"Path to the SQLite database file."`
	Command  string `arg:"" help:"A dot-command (.dbinfo, .tables) or a SQL statement."`

	Config string `name:"config" help:"Optional YAML config file (log level, color, concurrency cap)." type:"path"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("sqlitego"),
		kong.Description("Read-only SQLite file format query tool."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	ctx.FatalIfErrorf(run())
}

func run() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors: cfg.Color || isatty.IsTerminal(os.Stderr.Fd()),
	})

	db, err := storage.Open(CLI.Database, storage.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("open %s: %w", CLI.Database, err)
	}
	defer db.Close()

	executor := sqlexec.New(db, logger.WithField("component", "sqlexec"))
	lines, err := executor.Execute(CLI.Command)
	if err != nil {
		return err
	}

	return format.NewConsoleFormatter(os.Stdout).WriteLines(lines)
}
