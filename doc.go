// Package sprout implements a simulated stock portfolio for people learning
// to invest, with a watchlist and a savings projector. It is local-first: the
// whole state is a few JSON documents in a data folder.
//
// The main pieces are:
//   - Ledger: the cash balance and the purchased lots (holdings). Every
//     operation either fully applies or leaves the ledger unchanged, cash is
//     never driven negative and holdings always have shares.
//   - Valuation: stateless functions computing market values, gains and a
//     portfolio Summary from holdings.
//   - Refresher: re-prices every held or watched symbol through a
//     QuoteSource, one call at a time to respect the quote API budget.
//   - Project: the compound growth of a regular savings plan.
//
// Quote sources live in sub packages (alphavantage, yahoo), the `sprout`
// command line tool wires everything together.
package sprout
