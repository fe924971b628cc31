// Package renderer renders reconciliation and consolidation reports to
// markdown, ready for a terminal renderer or a printed daily report.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// RenderReconciliation renders one till-day report to a markdown string.
func RenderReconciliation(v *Reconciliation) string {
	partials := map[string]string{
		"reconciliation_movements": "reconciliation_movements.md",
	}
	return renderTemplate("reconciliation", "reconciliation.md", partials, v)
}

// RenderConsolidation renders the organization-wide daily report.
func RenderConsolidation(v *Consolidation) string {
	partials := map[string]string{
		"consolidation_tills":       "consolidation_tills.md",
		"consolidation_divergences": "consolidation_divergences.md",
		"consolidation_vault":       "consolidation_vault.md",
	}
	return renderTemplate("consolidation", "consolidation.md", partials, v)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
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
