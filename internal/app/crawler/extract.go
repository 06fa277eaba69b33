package crawler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yama6a/statement-scraper/internal/pkg/utils"
)

const dataTableSelector = "table.data-table"

// Locator finds a family's table within a company page.
type Locator func(doc *goquery.Document) (*goquery.Selection, error)

// LabeledRow is a body row with its label already read according to the family's label mode.
type LabeledRow struct {
	Label string
	Cells []string
}

// Extraction is what the table extractor hands to the aligner.
type Extraction struct {
	Periods []string
	Rows    []LabeledRow
}

// sectionTable locates the first data table anywhere below section#id, so the table may sit
// directly under the section or inside a wrapper.
func sectionTable(sectionID string) Locator {
	return func(doc *goquery.Document) (*goquery.Selection, error) {
		section, err := findSection(doc, sectionID)
		if err != nil {
			return nil, err
		}

		return firstDataTable(section, "section "+sectionID)
	}
}

// containerTable locates the data table inside a container of a section, falling back to a
// table placed directly in the section when fallback is set.
func containerTable(sectionID, container string, fallback bool) Locator {
	return func(doc *goquery.Document) (*goquery.Selection, error) {
		section, err := findSection(doc, sectionID)
		if err != nil {
			return nil, err
		}

		holder := section.Find(container).First()
		if holder.Length() == 0 {
			if !fallback {
				return nil, fmt.Errorf("%w: %s in section %s", ErrContainerNotFound, container, sectionID)
			}
			return firstDataTable(section, "section "+sectionID)
		}

		table, err := firstDataTable(holder, container)
		if err != nil && fallback {
			return firstDataTable(section, "section "+sectionID)
		}
		return table, err
	}
}

func findSection(doc *goquery.Document, sectionID string) (*goquery.Selection, error) {
	section := doc.Find("section#" + sectionID).First()
	if section.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}
	return section, nil
}

func firstDataTable(scope *goquery.Selection, where string) (*goquery.Selection, error) {
	table := scope.Find(dataTableSelector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: in %s", ErrTableNotFound, where)
	}
	return table, nil
}

// extractTable runs the locator and reads period labels and labeled body rows.
// The first header cell holds the row-label header and is discarded.
func extractTable(doc *goquery.Document, locate Locator, mode LabelMode) (Extraction, error) {
	table, err := locate(doc)
	if err != nil {
		return Extraction{}, err
	}

	parsed, err := utils.ParseTable(table)
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to parse table: %w", err)
	}
	if len(parsed.Header) < 2 {
		return Extraction{}, fmt.Errorf("no period columns in header: %w", utils.ErrHeaderNotFound)
	}

	ex := Extraction{
		Periods: parsed.Header[1:],
		Rows:    make([]LabeledRow, 0, len(parsed.Rows)),
	}
	for _, row := range parsed.Rows {
		ex.Rows = append(ex.Rows, LabeledRow{
			Label: rowLabel(row.Label, mode),
			Cells: row.Cells,
		})
	}

	return ex, nil
}

// disclosureLinks collects the hyperlinks of the first row matching rowSelector, left to right,
// resolved against base. Unresolvable hrefs are skipped.
func disclosureLinks(doc *goquery.Document, rowSelector string, base *url.URL) []string {
	row := doc.Find(rowSelector).First()
	if row.Length() == 0 {
		return nil
	}

	var links []string
	row.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		if base != nil {
			ref = base.ResolveReference(ref)
		}
		links = append(links, ref.String())
	})

	return links
}
