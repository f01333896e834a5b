// Package cmd implements the btc command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	tracker "github.com/matias9477/btc-investment-tracker"
	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/matias9477/btc-investment-tracker/store"
	"github.com/sirupsen/logrus"
)

// Environment variables giving the default value of the global flags.
const (
	EnvLedgerFile   = "BTC_LEDGER_FILE"
	EnvDatabaseURL  = "BTC_DATABASE_URL"
	EnvCoinGeckoURL = "BTC_COINGECKO_URL"
	EnvVerbose      = "BTC_VERBOSE"
	EnvAddr         = "BTC_ADDR"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	ledgerFile   = flag.String("ledger-file", getEnv(EnvLedgerFile, "purchases.jsonl"), "Path to the ledger file containing purchases (JSONL format)")
	databaseURL  = flag.String("database-url", getEnv(EnvDatabaseURL, ""), "PostgreSQL connection string, used instead of the ledger file when set")
	coingeckoURL = flag.String("coingecko-url", getEnv(EnvCoinGeckoURL, tracker.DefaultCoinGeckoURL), "CoinGecko API base URL")
	Verbose      = flag.Bool("v", getEnvBool(EnvVerbose), "Log what happens behind the scenes")
	rawMarkdown  = flag.Bool("markdown", false, "Print reports as raw markdown")
)

// output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

// group is a set of subcommands listed together in the help.
type group struct {
	name     string
	commands []subcommands.Command
}

func groups() []group {
	return []group{
		{"purchases", []subcommands.Command{&addCmd{}, &editCmd{}, &rmCmd{}, &purchasesCmd{}}},
		{"dashboard", []subcommands.Command{&dashboardCmd{}, &priceCmd{}, &settingsCmd{}}},
		{"storage", []subcommands.Command{&importCmd{}, &exportCmd{}, &fmtCmd{}, &migrateCmd{}}},
		{"services", []subcommands.Command{&serveCmd{}, &assistCmd{}}},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
	c.Register(&topicCmd{}, "help")
	for _, g := range groups() {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

// logger returns the logger of the collaborators, quiet unless verbose.
func logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if *Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// openStore opens the database when configured, the ledger file otherwise.
func openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, *ledgerFile, *databaseURL, logger())
}

// priceSource is overridden in tests.
var priceSource = func() prices {
	return tracker.NewCoinGecko(*coingeckoURL, logger())
}

// prices is the bitcoin price source.
type prices interface {
	Refresh(ctx context.Context, force bool) (tracker.Quote, error)
	Latest(ctx context.Context) (tracker.Quote, error)
	On(ctx context.Context, d date.Date) (tracker.Money, error)
}

// renderMarkdown renders md for the terminal, unless raw markdown is requested.
func renderMarkdown(md string) string {
	if *rawMarkdown {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) {
	fmt.Fprint(stdout, renderMarkdown(md))
}

// fail prints err and returns the failure status.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

// usage prints a usage error.
func usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

// setFlags returns the names of the flags set on the command line.
func setFlags(f *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}
