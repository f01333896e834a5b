package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/matias9477/btc-investment-tracker/store"
)

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "add the purchases of a ledger file" }
func (*importCmd) Usage() string {
	return `btc import <file>...

  Adds the purchases of JSONL ledger files, as written by 'btc export', to the
  current storage. The settings are replaced when the file has some. Use - to read the standard input.

Usage Examples:
# moves a ledger file into PostgreSQL
$ btc -database-url postgres://localhost/btc import purchases.jsonl

`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return usage("no file to import")
	}
	s, err := openStore(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	for _, name := range f.Args() {
		var r io.Reader = stdin
		if name != "-" {
			file, err := os.Open(name)
			if err != nil {
				return fail("%v", err)
			}
			defer file.Close()
			r = file
		}
		n, err := store.Import(ctx, s, r)
		if err != nil {
			return fail("%s: %v (%d purchases imported)", name, err, n)
		}
		fmt.Fprintf(stdout, "Imported %d purchases from %s\n", n, name)
	}
	return subcommands.ExitSuccess
}

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the purchases as a ledger file" }
func (*exportCmd) Usage() string {
	return `btc export [-o <file>]

  Writes the settings and the purchases of the current storage in the JSONL ledger format.

`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, the standard output by default")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	w := stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			return fail("%v", err)
		}
		defer file.Close()
		w = file
	}
	if err := store.Export(ctx, s, w); err != nil {
		return fail("cannot export: %v", err)
	}
	return subcommands.ExitSuccess
}

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `btc fmt

  Validates and formats the ledger file. This command reads all purchases,
  validates them, sorts them by date, and writes them back in a canonical JSONL format.

`
}

func (*fmtCmd) SetFlags(*flag.FlagSet) {}

func (*fmtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if *databaseURL != "" {
		return usage("fmt formats the ledger file, not the database")
	}
	if err := store.NewFile(*ledgerFile, logger()).Format(ctx); err != nil {
		return fail("%v", err)
	}
	fmt.Fprintf(stderr, "Formatted %s\n", *ledgerFile)
	return subcommands.ExitSuccess
}

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "create or upgrade the database schema" }
func (*migrateCmd) Usage() string {
	return `btc -database-url <url> migrate

  Applies the pending schema migrations to the PostgreSQL database.

`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if *databaseURL == "" {
		return usage("migrate needs -database-url or %s", EnvDatabaseURL)
	}
	if err := store.Migrate(*databaseURL, logger()); err != nil {
		return fail("%v", err)
	}
	fmt.Fprintln(stderr, "Database is up to date")
	return subcommands.ExitSuccess
}
