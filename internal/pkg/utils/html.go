//nolint:revive,nolintlint // I like this package name, leave me alone
package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	TagTable = "table"
	TagThead = "thead"
	TagTbody = "tbody"
	TagTr    = "tr"
	TagTh    = "th"
	TagTd    = "td"
)

var (
	ErrHeaderNotFound = errors.New("table has no header row")
	ErrBodyNotFound   = errors.New("table has no body")
)

// Table is a parsed data table. Header holds every header cell, the row-label column included.
type Table struct {
	Header []string
	Rows   []TableRow
}

// TableRow keeps the label cell as a selection so callers can look inside it for nested controls.
type TableRow struct {
	Label *goquery.Selection
	Cells []string
}

// ParseDocument parses raw markup into a queryable document.
func ParseDocument(rawHTML string) (*goquery.Document, error) {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html document: %w", err)
	}

	return goquery.NewDocumentFromNode(root), nil
}

// ParseTable reads the header cells and body rows of a table selection.
// Rows without data cells are skipped.
func ParseTable(table *goquery.Selection) (Table, error) {
	var t Table

	thead := table.Find(TagThead).First()
	if thead.Length() == 0 {
		return t, ErrHeaderNotFound
	}
	thead.Find(TagTh).Each(func(_ int, th *goquery.Selection) {
		t.Header = append(t.Header, StrippedText(th))
	})
	if len(t.Header) == 0 {
		return t, ErrHeaderNotFound
	}

	tbody := table.Find(TagTbody).First()
	if tbody.Length() == 0 {
		return t, ErrBodyNotFound
	}
	tbody.Find(TagTr).Each(func(_ int, tr *goquery.Selection) {
		tds := tr.ChildrenFiltered(TagTd)
		if tds.Length() == 0 {
			return
		}

		row := TableRow{Label: tds.First()}
		tds.Slice(1, tds.Length()).Each(func(_ int, td *goquery.Selection) {
			row.Cells = append(row.Cells, StrippedText(td))
		})
		t.Rows = append(t.Rows, row)
	})

	return t, nil
}

// StrippedText joins the trimmed text nodes below the selection without separators,
// so "Sales&nbsp;<span>+</span>" reads "Sales+", then normalizes spaces.
func StrippedText(sel *goquery.Selection) string {
	var sb strings.Builder
	for _, n := range sel.Nodes {
		writeStrippedText(&sb, n)
	}

	return NormalizeSpaces(sb.String())
}

func writeStrippedText(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(strings.TrimSpace(n.Data))
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeStrippedText(sb, c)
	}
}
