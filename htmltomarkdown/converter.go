// Package htmltomarkdown renders extracted page regions as Markdown for the
// markdown output format. Links survive conversion; sitecorpus.RemoveLinks
// strips them afterwards.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/sitecorpus"
)

var _ sitecorpus.Converter = (*Converter)(nil)

// Converter renders HTML as CommonMark with pipe tables, so product
// specification tables keep their rows.
type Converter struct {
	md *converter.Converter
}

// NewConverter returns a Converter with the CommonMark and table plugins.
func NewConverter() *Converter {
	return &Converter{md: converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)}
}

// Convert returns the Markdown for a content region without surrounding
// blank lines. Blank input is EINVALID.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", sitecorpus.Errorf(sitecorpus.EINVALID, "empty HTML input")
	}
	md, err := c.md.ConvertString(html)
	if err != nil {
		return "", sitecorpus.Errorf(sitecorpus.EINTERNAL, "convert to markdown: %v", err)
	}
	return strings.TrimSpace(md), nil
}
