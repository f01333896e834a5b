package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	tracker "github.com/matias9477/btc-investment-tracker"
	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/matias9477/btc-investment-tracker/numeric"
	"github.com/matias9477/btc-investment-tracker/renderer"
)

// purchaseFlags are the fields of a purchase as typed by the user.
type purchaseFlags struct {
	date, price, amount, spent string
}

func (p *purchaseFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Purchase date as DD/MM/YYYY, today by default")
	f.StringVar(&p.price, "p", "", "Price of one bitcoin in dollars, e.g. 42,000.50 or 42.000,50")
	f.StringVar(&p.amount, "a", "", "Bitcoins bought, e.g. 0.00645778 or 0,00645778")
	f.StringVar(&p.spent, "u", "", "Dollars spent")
}

// parse validates the flags into a purchase, every invalid field is reported.
func (p *purchaseFlags) parse(today date.Date) (tracker.Purchase, error) {
	return tracker.ParsePurchaseAsOf(p.date, p.price, p.amount, p.spent, today)
}

// describe echoes the purchase in the number convention the user typed.
func (p *purchaseFlags) describe(on date.Date) string {
	return fmt.Sprintf("%s BTC for %s at %s on %s",
		numeric.FormatBTCForDisplay(p.amount, ""),
		numeric.FormatUSDForDisplay(p.spent, ""),
		numeric.FormatUSDForDisplay(p.price, p.spent),
		on.Long())
}

// printInvalid prints one line per invalid field.
func printInvalid(err error) subcommands.ExitStatus {
	fmt.Fprintln(stderr, "Error: invalid purchase:")
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(stderr, "  - %s\n", line)
	}
	return subcommands.ExitFailure
}

type addCmd struct {
	purchaseFlags
	current bool
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a bitcoin purchase" }
func (*addCmd) Usage() string {
	return `btc add [-d <date>] (-p <price> | -current) -a <amount> -u <usd>

  Records a purchase. Numbers can be typed as 1,234.56 or 1.234,56, see 'btc topic numbers'.
  With -current the price is the live bitcoin price.

Usage Examples:
$ btc add -d 25/12/2023 -p 42.000,50 -a 0,00645778 -u 271,23
$ btc add -current -a 0.001 -u 67.5

`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	c.purchaseFlags.SetFlags(f)
	f.BoolVar(&c.current, "current", false, "Use the current bitcoin price")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.current && c.price != "" {
		return usage("-p and -current are mutually exclusive")
	}
	today := date.Today()
	if c.date == "" {
		c.date = today.InputFormat()
	}
	if c.current {
		q, err := priceSource().Latest(ctx)
		if err != nil {
			return fail("cannot get the current price: %v", err)
		}
		c.price = q.Price.Decimal().String()
	}

	p, err := c.parse(today)
	if err != nil {
		return printInvalid(err)
	}

	s, err := openStore(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	added, err := s.AddPurchase(ctx, p)
	if err != nil {
		return fail("cannot add purchase: %v", err)
	}
	fmt.Fprintf(stdout, "Added purchase %s: %s\n", added.ID, c.describe(added.Date))
	return subcommands.ExitSuccess
}

type editCmd struct {
	purchaseFlags
	id string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change a recorded purchase" }
func (*editCmd) Usage() string {
	return `btc edit -id <id> [-d <date>] [-p <price>] [-a <amount>] [-u <usd>]

  Changes the given fields of a purchase, the others are kept.

`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	c.purchaseFlags.SetFlags(f)
	f.StringVar(&c.id, "id", "", "Identifier of the purchase, as listed by 'btc purchases'")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return usage("-id is required")
	}
	s, err := openStore(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	existing, err := s.Purchase(ctx, c.id)
	if err != nil {
		return fail("%v", err)
	}
	set := setFlags(f)
	if !set["d"] {
		c.date = existing.Date.InputFormat()
	}
	if !set["p"] {
		c.price = existing.Price.Decimal().String()
	}
	if !set["a"] {
		c.amount = existing.Amount.String()
	}
	if !set["u"] {
		c.spent = existing.Spent.Decimal().String()
	}

	p, err := c.parse(date.Today())
	if err != nil {
		return printInvalid(err)
	}
	p.ID = c.id
	if err := s.UpdatePurchase(ctx, p); err != nil {
		return fail("cannot update purchase: %v", err)
	}
	fmt.Fprintf(stdout, "Updated purchase %s: %s\n", p.ID, c.describe(p.Date))
	return subcommands.ExitSuccess
}

type rmCmd struct {
	id string
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete a recorded purchase" }
func (*rmCmd) Usage() string {
	return `btc rm -id <id>

  Deletes a purchase.

`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Identifier of the purchase, as listed by 'btc purchases'")
}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return usage("-id is required")
	}
	s, err := openStore(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	if err := s.DeletePurchase(ctx, c.id); err != nil {
		return fail("%v", err)
	}
	fmt.Fprintf(stdout, "Deleted purchase %s\n", c.id)
	return subcommands.ExitSuccess
}

type purchasesCmd struct{}

func (*purchasesCmd) Name() string     { return "purchases" }
func (*purchasesCmd) Synopsis() string { return "list the recorded purchases" }
func (*purchasesCmd) Usage() string {
	return `btc purchases

  Lists every purchase, latest first.

`
}

func (*purchasesCmd) SetFlags(*flag.FlagSet) {}

func (*purchasesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	list, err := s.Purchases(ctx)
	if err != nil {
		return fail("%v", err)
	}
	printMarkdown(renderer.RenderPurchases(renderer.NewPurchases(list)))
	return subcommands.ExitSuccess
}
