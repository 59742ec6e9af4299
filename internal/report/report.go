package report

import (
	"fmt"
	"html"
	"strings"

	"careerpath/internal/pipeline"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Prediction renders a prediction result as Markdown
func Prediction(r *pipeline.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Predicted Career Field: %s\n\n", cell(r.Label))
	fmt.Fprintf(&b, "Model `%s`, prediction `%s`.\n\n", r.ModelVersion, r.ID)

	if len(r.Notices) > 0 {
		b.WriteString("## Notices\n\n")
		for _, n := range r.Notices {
			fmt.Fprintf(&b, "- Unseen value %q for %s was mapped to default\n", n.Value, cell(n.Feature))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Your Input Summary\n\n")
	b.WriteString("| Feature | Answer | Encoded |\n|---|---|---:|\n")
	for _, in := range r.Inputs {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(in.Feature), cell(in.Answer), num(in.Encoded))
	}
	b.WriteString("\n")

	b.WriteString("## Top Features Influencing Your Prediction\n\n")
	b.WriteString(importanceTable(r))
	return b.String()
}

func importanceTable(r *pipeline.Result) string {
	var b strings.Builder
	b.WriteString("| Feature | Importance |\n|---|---:|\n")
	for _, fi := range r.Importances {
		fmt.Fprintf(&b, "| %s | %.4f |\n", cell(fi.Feature), fi.Importance)
	}
	return b.String()
}

// Model renders the trained feature set and its importances as Markdown
func Model(a *pipeline.Artifacts) string {
	var b strings.Builder
	m := a.Model

	fmt.Fprintf(&b, "# Model %s\n\n", a.Version.Short())
	fmt.Fprintf(&b, "- Features: %d%s\n", len(m.Features), clampNote(m.Clamped))
	fmt.Fprintf(&b, "- Classes: %d\n", len(a.Registry.TargetClasses()))
	fmt.Fprintf(&b, "- Test accuracy: %.3f (%d train / %d test rows)\n\n", m.Accuracy, m.TrainRows, m.TestRows)

	b.WriteString("| # | Feature | Importance |\n|---:|---|---:|\n")
	for i, fi := range a.Predictor.Importances() {
		fmt.Fprintf(&b, "| %d | %s | %.4f |\n", i+1, cell(fi.Feature), fi.Importance)
	}
	return b.String()
}

func clampNote(clamped bool) string {
	if clamped {
		return " (clamped to the available columns)"
	}
	return ""
}

// HTML renders Markdown to an HTML fragment
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	return markdown.Render(doc, renderer)
}

// Page wraps an HTML fragment in a standalone document
func Page(title string, body []byte) []byte {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title></head><body>\n")
	b.Write(body)
	b.WriteString("</body></html>\n")
	return []byte(b.String())
}

// cell escapes characters that would break a Markdown table row
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func num(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", f), "0"), ".")
}
