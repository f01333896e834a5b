package agent

import (
	"context"
	"fmt"

	tracker "github.com/matias9477/btc-investment-tracker"
	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/matias9477/btc-investment-tracker/docs"
	"github.com/matias9477/btc-investment-tracker/renderer"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Ledger is the read side of the purchase storage.
type Ledger interface {
	Purchases(ctx context.Context) ([]tracker.Purchase, error)
	Settings(ctx context.Context) (tracker.Settings, error)
}

// Prices is a bitcoin price source.
type Prices interface {
	Latest(ctx context.Context) (tracker.Quote, error)
	On(ctx context.Context, d date.Date) (tracker.Money, error)
}

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is an individual buying bitcoin over time. He is here to understand how his
			purchases are doing, and sometimes to get news about bitcoin.

			Devise a plan of questions to ask to each experts and come up with the best reponse to the user's request.
			Answer in markdown, amounts in dollars with two decimals and bitcoin with eight.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded on Google Search for bitcoin news.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader, well aware of the bitcoin market,
		its history and the latest news about it.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in bitcoin trading, you can search and find about anything related to
			the bitcoin market, exchanges and regulations. You leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latests news too, and you know how to relate them to the user's request.
			`}}},
		},
	}
}

// NewAccountant returns the expert that reads the user's purchases.
func NewAccountant(ledger Ledger, prices Prices, log logrus.FieldLogger) *Expert {
	lib := []Function{
		DashboardFunc(ledger, prices),
		PurchasesFunc(ledger),
		PriceOnFunc(prices),
		TopicFunc(),
	}

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He is in charge of reading the user's bitcoin purchases.
		He knows the total invested, the bitcoins bought, the profit, the ROI and the break-even price,
		and the price of bitcoin on any past day.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's bitcoin purchases.
				You know how to use the Tools to extract relevant information about them.
				You are part of a team of experts, yours is everything about the user's purchases. They might ask
				you questions with an approximative language, figure out what they meant.

				Use the available tools to get
				  - the dashboard: investment, value, profit, ROI, break-even price and interest
				  - the list of purchases
				  - the price of bitcoin on a given day
				  - the documentation of how figures are computed
			`}}},
		},
		Library: NewLibrary(lib),
		Log:     log,
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// DashboardFunc renders the dashboard at the latest price.
func DashboardFunc(ledger Ledger, prices Prices) *Func {
	const name = "dashboard"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Dashboard of the user's purchases at the current bitcoin price.\n\n" + must(docs.GetTopic("metrics")),
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown document with the current price and the metrics.",
			},
		},
		Func: func(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
			purchases, err := ledger.Purchases(ctx)
			if err != nil {
				return failure(id, name, fmt.Errorf("could not load purchases: %w", err))
			}
			settings, err := ledger.Settings(ctx)
			if err != nil {
				return failure(id, name, fmt.Errorf("could not load settings: %w", err))
			}
			quote, err := prices.Latest(ctx)
			if err != nil {
				return failure(id, name, fmt.Errorf("could not get the bitcoin price: %w", err))
			}
			m := tracker.ComputeMetrics(purchases, &settings, quote.Price)
			return success(id, name, renderer.RenderDashboard(renderer.NewDashboard(m, len(purchases), settings, quote)))
		},
	}
}

// PurchasesFunc renders the purchase list, latest first.
func PurchasesFunc(ledger Ledger) *Func {
	const name = "purchases"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "List of all the user's bitcoin purchases, latest first, with their date, price, amount and dollars spent.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the purchases, dates as DD/MM/YY.",
			},
		},
		Func: func(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
			purchases, err := ledger.Purchases(ctx)
			if err != nil {
				return failure(id, name, fmt.Errorf("could not load purchases: %w", err))
			}
			return success(id, name, renderer.RenderPurchases(renderer.NewPurchases(purchases)))
		},
	}
}

// PriceOnFunc returns the historical price of bitcoin.
func PriceOnFunc(prices Prices) *Func {
	const name = "price_on"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Price in dollars of one bitcoin on a past day.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date": {
						Type:        genai.TypeString,
						Description: "The day, as DD/MM/YYYY.\n\n" + must(docs.GetTopic("dates")),
					},
				},
				Required: []string{"date"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The price of one bitcoin on that day.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			raw, err := stringArg(args, "date")
			if err != nil {
				return failure(id, name, err)
			}
			d, ok := date.ParseInput(raw)
			if !ok {
				return failure(id, name, fmt.Errorf("argument 'date' must be a past day as DD/MM/YYYY got %q", raw))
			}
			price, err := prices.On(ctx, d)
			if err != nil {
				return failure(id, name, err)
			}
			return success(id, name, fmt.Sprintf("1 BTC = %s on %s", price, d.Long()))
		},
	}
}

// TopicFunc returns a documentation topic.
func TopicFunc() *Func {
	const name = "topic"
	topics := must(docs.GetAllTopics())
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "User documentation about how numbers and dates are typed, and how the dashboard figures are computed.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {
						Type:        genai.TypeString,
						Description: "The topic to read.",
						Enum:        topics,
					},
				},
				Required: []string{"topic"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The topic in markdown.",
			},
		},
		Func: func(_ context.Context, id string, args map[string]any) *genai.FunctionResponse {
			topic, err := stringArg(args, "topic")
			if err != nil {
				return failure(id, name, err)
			}
			doc, err := docs.GetTopic(topic)
			if err != nil {
				return failure(id, name, err)
			}
			return success(id, name, doc)
		},
	}
}
