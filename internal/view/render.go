package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"text/tabwriter"

	"github.com/go-faster/errors"
)

//go:embed templates/*.html.tmpl
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/board.html.tmpl"))

// RenderHTML writes p as the board HTML page.
func RenderHTML(w io.Writer, p Page) error {
	if err := pageTemplate.Execute(w, p); err != nil {
		return errors.Wrap(err, "execute board template")
	}
	return nil
}

// RenderText writes p as plain text, one block per card.
func RenderText(w io.Writer, p Page) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, p.Title)
	if p.Error != "" {
		fmt.Fprintf(tw, "Error: %s\n", p.Error)
	}
	for _, n := range p.Notices {
		fmt.Fprintf(tw, "[%s] %s\n", n.Level, n.Message)
	}
	for _, c := range p.Cards {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, c.Title)
		fmt.Fprintf(tw, "  Customer\t%s\n", c.Customer)
		fmt.Fprintf(tw, "  Email\t%s\n", c.Email)
		fmt.Fprintf(tw, "  Address\t%s\n", c.AddressLine)
		fmt.Fprintf(tw, "  City\t%s\n", c.CityLine)
		fmt.Fprintf(tw, "  Order-status\t%s\n", c.Status)
		fmt.Fprintf(tw, "  Total\t%s (including VAT)\n", c.Total)
		fmt.Fprintf(tw, "  Details\t%s\n", c.DetailPath)
	}

	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "flush")
	}
	return nil
}
