package agent

import (
	"context"
	"fmt"

	"github.com/etnz/sprout"
	"github.com/etnz/sprout/learn"
	"github.com/etnz/sprout/renderer"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

// Model is the Gemini model used by every expert.
const Model = "gemini-2.5-flash"

// Books is what the tutor can read of the user's simulated money.
type Books interface {
	Cash() sprout.Money
	Holdings() []sprout.Holding
}

// Watched lists the watched symbols.
type Watched interface {
	Items() []sprout.WatchItem
}

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// newFacilitator creates the tutor the user talks to.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Tutor",
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			You are a patient personal finance tutor for beginners. The user practices
			with a simulated portfolio: the cash and shares are not real.

			The experts in your Tools are dedicated to you and keep the context of your
			previous questions. Ask them for facts instead of guessing: the Accountant
			knows the user's portfolio and watchlist, the Planner computes savings
			projections, the Librarian has the lessons of the app.

			Explain with simple words and concrete numbers taken from the user's own
			portfolio. Never give real investment advice, remind the user that it is a
			simulation when they ask what to buy.
			`),
		},
		Library: NewLibrary(experts),
	}
}

// NewAccountant creates the expert reading the portfolio and the watchlist.
func NewAccountant(books Books, watched Watched) *Expert {
	lib := []Function{PortfolioFunc(books), WatchlistFunc(watched)}
	return &Expert{
		Name: "Accountant",
		Description: `The Accountant reads the user's simulated portfolio: cash, holdings, gains
		and losses, and the watchlist.`,
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{FunctionDeclarations: NewDeclaration(lib)}},
			SystemInstruction: instruction(`
			You are an accountant in charge of the user's simulated portfolio. Use the
			Tools to read it, and answer with the exact figures they return.
			`),
		},
		Library: NewLibrary(lib),
	}
}

// NewPlanner creates the expert projecting savings.
func NewPlanner(currency string) *Expert {
	lib := []Function{ProjectFunc(currency)}
	return &Expert{
		Name:        "Planner",
		Description: `The Planner computes how savings grow with compound interest, given an initial deposit, a monthly contribution, a duration and a yearly rate.`,
		ModelName:   Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{FunctionDeclarations: NewDeclaration(lib)}},
			SystemInstruction: instruction(`
			You are a savings planner. Always use the Project tool to compute a
			projection, never compute it yourself. When a value is missing assume no
			initial deposit, no monthly contribution or a 5% rate and say so.
			`),
		},
		Library: NewLibrary(lib),
	}
}

// NewLibrarian creates the expert reading the lessons.
func NewLibrarian() *Expert {
	lib := []Function{TopicFunc()}
	return &Expert{
		Name:        "Librarian",
		Description: `The Librarian knows the lessons shipped with sprout: stocks, gain and loss, diversification, compound interest, saving, quotes and tips.`,
		ModelName:   Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{FunctionDeclarations: NewDeclaration(lib)}},
			SystemInstruction: instruction(`
			You are the librarian of sprout's lessons. Read the relevant lesson with the
			Topic tool and answer from it, mention the command that shows it.
			`),
		},
		Library: NewLibrary(lib),
	}
}

// NewTrader creates the expert searching the news about companies and markets.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `The Trader knows financial products, companies and markets, and searches
		the latest news. Ask the Trader what a company does or why its price moved.`,
		ModelName: Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
			SystemInstruction: instruction(`
			You are an expert in markets. Use Google Search to ground your answers in
			recent facts and cite the date of the news you use.
			`),
		},
	}
}

// PortfolioFunc returns the markdown summary of books.
func PortfolioFunc(books Books) *Func {
	const name = "Portfolio"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Portfolio returns the cash, the net worth, the gain or loss and every holding of the user's simulated portfolio.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown summary followed by a table of holdings.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return output(id, name, renderer.RenderPortfolio(renderer.NewPortfolio(books.Cash(), books.Holdings())))
		},
	}
}

// WatchlistFunc returns the markdown table of watched symbols.
func WatchlistFunc(watched Watched) *Func {
	const name = "Watchlist"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Watchlist returns the symbols the user follows without owning them, with their price change since added.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of watched symbols.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return output(id, name, renderer.RenderWatchlist(renderer.NewWatchlist(watched.Items())))
		},
	}
}

// ProjectFunc projects a savings plan in currency.
func ProjectFunc(currency string) *Func {
	const name = "Project"
	number := func(description string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeNumber, Description: description}
	}
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Project computes the future value of savings compounded monthly, with a year by year schedule.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"initial": number("Initial deposit, 0 or more."),
					"monthly": number("Contribution added every month, 0 or more."),
					"years":   {Type: genai.TypeInteger, Description: "Duration in years, 0 or more."},
					"rate":    number("Yearly interest rate in percent, 7 for 7%. Can be negative."),
				},
				Required: []string{"initial", "monthly", "years", "rate"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown projection: future value, contributions, interest and the yearly schedule.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			plan, err := parsePlan(args)
			if err != nil {
				return failure(id, name, err)
			}
			if err := plan.Validate(); err != nil {
				return failure(id, name, err)
			}
			return output(id, name, renderer.RenderProjection(renderer.NewProjection(plan, sprout.Project(plan), currency)))
		},
	}
}

// parsePlan reads a SavingsPlan from json numbers.
func parsePlan(args map[string]any) (sprout.SavingsPlan, error) {
	var values [4]float64
	for i, key := range []string{"initial", "monthly", "years", "rate"} {
		v, ok := args[key].(float64)
		if !ok {
			return sprout.SavingsPlan{}, fmt.Errorf("argument %q must be a number got %T", key, args[key])
		}
		values[i] = v
	}
	return sprout.SavingsPlan{
		Initial:           decimal.NewFromFloat(values[0]),
		Monthly:           decimal.NewFromFloat(values[1]),
		Years:             int(values[2]),
		AnnualRatePercent: decimal.NewFromFloat(values[3]),
	}, nil
}

// TopicFunc returns a lesson.
func TopicFunc() *Func {
	const name = "Topic"
	topics, _ := learn.GetAllTopics()
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Topic returns the markdown content of a lesson. It is shown to the user with `sprout topic <topic>`.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {Type: genai.TypeString, Enum: topics, Description: "The lesson to read."},
				},
				Required: []string{"topic"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The lesson in markdown.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			topic, ok := args["topic"].(string)
			if !ok {
				return failure(id, name, fmt.Errorf("argument 'topic' must be a string got %T", args["topic"]))
			}
			content, err := learn.GetTopic(topic)
			if err != nil {
				return failure(id, name, err)
			}
			return output(id, name, content)
		},
	}
}
