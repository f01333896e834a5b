package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/google/subcommands"
	tracker "github.com/matias9477/btc-investment-tracker"
	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/matias9477/btc-investment-tracker/renderer"
)

type dashboardCmd struct {
	price string
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show how the purchases are doing" }
func (*dashboardCmd) Usage() string {
	return `btc dashboard [-price <usd>]

  Shows the total invested, the current value, the profit, the ROI and the
  break-even price of the purchases at the live bitcoin price, see 'btc topic metrics'.
  With -price the dashboard is computed at that price, without any request.

`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.price, "price", "", "Compute the dashboard at this bitcoin price instead of the live one")
}

func (c *dashboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var quote tracker.Quote
	if c.price != "" {
		price, err := tracker.ParseMoney(c.price)
		if err != nil || !price.IsPositive() {
			return usage("invalid -price %q: must be a number greater than 0", c.price)
		}
		quote.Price = price
	}

	s, err := openStore(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	purchases, err := s.Purchases(ctx)
	if err != nil {
		return fail("%v", err)
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return fail("%v", err)
	}
	if c.price == "" {
		if quote, err = priceSource().Latest(ctx); err != nil {
			return fail("cannot get the current price: %v", err)
		}
	}

	m := tracker.ComputeMetrics(purchases, &settings, quote.Price)
	printMarkdown(renderer.RenderDashboard(renderer.NewDashboard(m, len(purchases), settings, quote)))
	return subcommands.ExitSuccess
}

type priceCmd struct {
	on    string
	force bool
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "show the bitcoin price" }
func (*priceCmd) Usage() string {
	return `btc price [-on <date>] [-force]

  Shows the live bitcoin price in dollars, or its price on a past day.

`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.on, "on", "", "Past day as DD/MM/YYYY")
	f.BoolVar(&c.force, "force", false, "Fetch the live price even if it was fetched less than a minute ago")
}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	src := priceSource()
	if c.on != "" {
		d, ok := date.ParseInput(c.on)
		if !ok {
			return usage("invalid -on %q: must be a DD/MM/YYYY day between 1900 and today", c.on)
		}
		price, err := src.On(ctx, d)
		if err != nil {
			return fail("%v", err)
		}
		fmt.Fprintf(stdout, "1 BTC = %s on %s\n", price, d.Long())
		return subcommands.ExitSuccess
	}

	q, err := src.Refresh(ctx, c.force)
	if err != nil {
		return fail("%v", err)
	}
	fmt.Fprintf(stdout, "1 BTC = %s", q.Price)
	if q.Change24h != nil {
		fmt.Fprintf(stdout, " (%s 24h)", q.Change24h.SignedString())
	}
	fmt.Fprintln(stdout)
	return subcommands.ExitSuccess
}

type settingsCmd struct {
	interest string
	rate     string
	balance  string
}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "show or change the settings" }
func (*settingsCmd) Usage() string {
	return `btc settings [-interest on|off] [-rate <percent>] [-balance <btc>]

  Changes the given settings and shows them all.
  An empty -rate or -balance clears it.

Usage Examples:
$ btc settings -interest on -balance 0,0265
$ btc settings -balance ""

`
}

func (c *settingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.interest, "interest", "", "Track interest on the actual balance: on or off")
	f.StringVar(&c.rate, "rate", "", "Annual interest rate in percent, for reference")
	f.StringVar(&c.balance, "balance", "", "Bitcoins actually held")
}

func (c *settingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	settings, err := s.Settings(ctx)
	if err != nil {
		return fail("%v", err)
	}

	set := setFlags(f)
	now := time.Now().UTC()
	if set["interest"] {
		switch strings.ToLower(c.interest) {
		case "on", "true", "yes":
			settings = settings.WithInterest(true, now)
		case "off", "false", "no":
			settings = settings.WithInterest(false, now)
		default:
			return usage("invalid -interest %q: must be on or off", c.interest)
		}
	}
	if set["rate"] {
		var rate *tracker.Percent
		if strings.TrimSpace(c.rate) != "" {
			r, err := tracker.ParsePercent(c.rate)
			if err != nil {
				return usage("invalid -rate: %v", err)
			}
			rate = &r
		}
		settings = settings.WithInterestRate(rate, now)
	}
	if set["balance"] {
		var balance *tracker.Quantity
		if strings.TrimSpace(c.balance) != "" {
			b, err := tracker.ParseQuantity(c.balance)
			if err != nil {
				return usage("invalid -balance: %v", err)
			}
			balance = &b
		}
		settings = settings.WithManualBalance(balance, now)
	}

	if len(set) > 0 {
		if err := s.UpdateSettings(ctx, settings); err != nil {
			return fail("%v", err)
		}
	}
	printMarkdown(renderer.RenderSettings(renderer.NewSettings(settings)))
	return subcommands.ExitSuccess
}
