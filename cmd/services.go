package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/google/subcommands"
	"github.com/matias9477/btc-investment-tracker/agent"
	"github.com/matias9477/btc-investment-tracker/server"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

type serveCmd struct {
	addr     string
	schedule string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the JSON HTTP API" }
func (*serveCmd) Usage() string {
	return `btc serve [-addr :8080] [-schedule "@every 1m"]

  Serves the purchases, the settings and the dashboard under /api.
  The bitcoin price is refreshed on schedule, a cron expression.

`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", getEnv(EnvAddr, ":8080"), "Listen address")
	f.StringVar(&c.schedule, "schedule", server.DefaultRefreshSchedule, "Price refresh schedule")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s, err := openStore(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	log := logger()
	if !*Verbose {
		log.SetLevel(logrus.InfoLevel)
	}
	src := priceSource()
	if err := server.New(s, src, log).ListenAndServe(ctx, c.addr, c.schedule); err != nil {
		return fail("%v", err)
	}
	return subcommands.ExitSuccess
}

type assistCmd struct{}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "Start an interactive session with the AI assistant."
}
func (*assistCmd) Usage() string {
	return `btc assist [prompt]

  Start an interactive session with the AI assistant. It reads the purchases
  and the bitcoin price to answer. GEMINI_API_KEY must be set.

`
}

func (*assistCmd) SetFlags(*flag.FlagSet) {}

func (*assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := strings.Join(f.Args(), " ")

	s, err := openStore(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return fail("initializing Gemini's client: %v", err)
	}

	log := logger()
	a := agent.New(stdout, stdin, agent.NewAccountant(s, priceSource(), log), agent.NewTrader())
	a.Format = renderMarkdown
	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
