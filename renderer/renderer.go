// Package renderer renders the dashboard and the purchases as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// RenderDashboard renders the dashboard to a markdown string.
func RenderDashboard(d *Dashboard) string {
	partials := map[string]string{
		"dashboard_price":   "dashboard_price.md",
		"dashboard_metrics": "dashboard_metrics.md",
		"dashboard_real":    "",
		"dashboard_balance": "",
	}
	// without manual balance the real figures are the purchased ones, they are not repeated.
	if d.HasManualBalance {
		partials["dashboard_real"] = "dashboard_real.md"
	}
	if d.InterestEnabled {
		partials["dashboard_balance"] = "dashboard_balance.md"
	}
	return renderTemplate("dashboard", "dashboard.md", partials, d)
}

// RenderPurchases renders the purchase list to a markdown string.
func RenderPurchases(p *Purchases) string {
	partials := map[string]string{
		"purchases_table": "purchases_table.md",
	}
	if len(p.Rows) == 0 {
		partials["purchases_table"] = "purchases_empty.md"
	}
	return renderTemplate("purchases", "purchases.md", partials, p)
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
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
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
