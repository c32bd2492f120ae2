// Package renderer turns sprout read projections into markdown.
//
// Each report is a view struct built from the domain (NewPortfolio,
// NewProjection, ...) and a text/template stored in templates/.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templatesFS embed.FS

var templates, _ = fs.Sub(templatesFS, "templates")

// RenderPortfolio renders the portfolio summary and its holdings.
func RenderPortfolio(p *Portfolio) string {
	partials := map[string]string{
		"portfolio_summary":  "portfolio_summary.md",
		"portfolio_holdings": "portfolio_holdings.md",
	}
	return renderTemplate("portfolio", "portfolio.md", partials, p)
}

// RenderHoldings renders only the holdings table.
func RenderHoldings(p *Portfolio) string {
	return renderTemplate("portfolio_holdings", "portfolio_holdings.md", nil, p)
}

// RenderWatchlist renders the watched symbols.
func RenderWatchlist(w *Watchlist) string {
	return renderTemplate("watchlist", "watchlist.md", nil, w)
}

// RenderProjection renders a savings projection and its yearly schedule.
func RenderProjection(p *Projection) string {
	return renderTemplate("projection", "projection.md", nil, p)
}

// RenderQuote renders a single quote.
func RenderQuote(q *Quote) string {
	return renderTemplate("quote", "quote.md", nil, q)
}

// RenderResearch renders a company overview and, if any, the symbol search results.
func RenderResearch(r *Research) string {
	partials := map[string]string{
		"research_overview": "research_overview.md",
		"research_matches":  "research_matches.md",
	}
	return renderTemplate("research", "research.md", partials, r)
}

// RenderRefresh renders the outcome of a price refresh.
func RenderRefresh(r *Refresh) string {
	return renderTemplate("refresh", "refresh.md", nil, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
